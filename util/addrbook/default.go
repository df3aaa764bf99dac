package addrbook

import (
	"fmt"
	"strings"

	bleve "github.com/tranvictor/bscscope/bleve"
	bsccommon "github.com/tranvictor/bscscope/common"
	db "github.com/tranvictor/bscscope/db"
	"github.com/tranvictor/bscscope/util/cache"
)

// Default is the production AddressResolver. It owns the canonical logic for
// mapping a raw hex address to a human-readable bsccommon.Address:
//
//  1. Name lookup — queries the local bleve full-text index and the fuzzy
//     address database (seed landmarks plus contracts recorded by earlier
//     runs) to find a human-readable description.
//  2. ERC20 decimal enrichment — reads the decimal value from the on-disk
//     cache (populated by earlier ERC20InfoFor / IsERC20 calls) so that the
//     display layer can render "CAKE - 18" suffixes without a network
//     round-trip.
//
// This type intentionally does NOT import the util package to avoid the
// util → util/addrbook → util import cycle. All dependencies are either
// lower-level packages (bleve, db, util/cache) or the stdlib.
type Default struct{}

// NewDefault returns the production resolver backed by the local databases.
func NewDefault() AddressResolver {
	return Default{}
}

// Resolve looks up addr in the local address databases and enriches the result
// with ERC20 decimal metadata when available from the on-disk cache.
func (r Default) Resolve(addr string) bsccommon.Address {
	// ERC20 decimal enrichment is cache-only, no network call. The cache is
	// pre-populated by AnalysisContext.ERC20InfoFor during input decoding and
	// by util.IsERC20 for cmd-level token display.
	var decimal int64
	var erc20Detected bool
	if isERC20, found := cache.GetBoolCache(fmt.Sprintf("%s_isERC20", addr)); found && isERC20 {
		decimal, erc20Detected = cache.GetInt64Cache(fmt.Sprintf("%s_decimal", addr))
	}

	name, err := lookupName(addr)
	if err != nil {
		return bsccommon.Address{Address: addr, Desc: "unknown"}
	}

	if erc20Detected {
		return bsccommon.Address{Address: addr, Desc: name, Decimal: decimal}
	}
	return bsccommon.Address{Address: addr, Desc: name}
}

// lookupName searches the bleve full-text index first and falls back to the
// fuzzy database, returning the best match for addr.
func lookupName(addr string) (string, error) {
	lowered := strings.ToLower(addr)

	results, _ := bleve.GetAddresses(lowered)
	for _, a := range results {
		if strings.EqualFold(a.Address, addr) {
			return a.Desc, nil
		}
	}

	dbResults, _ := db.GetAddresses(lowered)
	for _, a := range dbResults {
		if strings.EqualFold(a.Address, addr) {
			return a.Desc, nil
		}
	}

	return "", fmt.Errorf("address not found for %q", addr)
}
