package addrbook

import (
	"strings"

	bsccommon "github.com/tranvictor/bscscope/common"
)

// Map is a lightweight AddressResolver for tests. It maps lower-cased
// hex addresses to human-readable names; anything not in the map
// resolves to "unknown" without any network or database calls.
//
// Example:
//
//	r := addrbook.Map{
//	    "0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c": "WBNB",
//	    "0x10ed43c718714eb63d5aa57b78b54704e256024e": "PancakeSwap Router v2",
//	}
type Map map[string]string

func (m Map) Resolve(addr string) bsccommon.Address {
	if desc, ok := m[strings.ToLower(addr)]; ok {
		return bsccommon.Address{Address: addr, Desc: desc}
	}
	return bsccommon.Address{Address: addr, Desc: "unknown"}
}
