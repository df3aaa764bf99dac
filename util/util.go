package util

import (
	"fmt"
	"math/big"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	bsccommon "github.com/tranvictor/bscscope/common"
	"github.com/tranvictor/bscscope/db"
	"github.com/tranvictor/bscscope/networks"
	"github.com/tranvictor/bscscope/util/explorers"
	"github.com/tranvictor/bscscope/util/reader"
)

// GetAddressFromString turns user input into a concrete address. A literal
// hex address anywhere in the input wins; otherwise the input is treated as
// a name and fuzzy-matched against the local address book.
func GetAddressFromString(str string) (addr string, name string, err error) {
	addresses := ScanForAddresses(str)
	if len(addresses) > 0 {
		addr = addresses[0]
		name = "unknown"
		if desc, found := db.AllAddresses()[strings.ToLower(addr)]; found {
			name = desc
		}
		return addr, name, nil
	}

	addrDesc, err := db.GetAddress(str)
	if err != nil {
		return "", "", fmt.Errorf("address not found for \"%s\"", str)
	}
	return addrDesc.Address, addrDesc.Desc, nil
}

func ScanForAddresses(para string) []string {
	re := regexp.MustCompile("0x[0-9a-fA-F]{40}([^0-9a-fA-F]|$)")
	result := re.FindAllString(para, -1)
	if result == nil {
		return []string{}
	}
	for i := 0; i < len(result); i++ {
		result[i] = result[i][0:42]
	}
	return result
}

var addressPattern = regexp.MustCompile("^(0x)?[0-9a-fA-F]{40}$")

func IsAddress(addr string) bool {
	return addressPattern.MatchString(strings.TrimSpace(addr))
}

// ParamToBigInt parses a decimal or 0x hex string into a big int.
func ParamToBigInt(param string) (*big.Int, error) {
	var result *big.Int
	param = strings.Trim(param, " ")
	if len(param) > 2 && param[0:2] == "0x" {
		result = bsccommon.HexToBig(param)
	} else {
		idInt, err := strconv.Atoi(param)
		if err != nil {
			return nil, err
		}
		result = big.NewInt(int64(idInt))
	}
	return result, nil
}

// NodesFor returns the RPC node set for network. The node env var
// (e.g. BSC_MAINNET_NODE) adds a custom node to the default set.
func NodesFor(network networks.Network) map[string]string {
	nodes := map[string]string{}
	for name, url := range network.GetDefaultNodes() {
		nodes[name] = url
	}
	customNode := strings.Trim(os.Getenv(network.GetNodeVariableName()), " ")
	if customNode != "" {
		nodes["custom-node"] = customNode
	}
	return nodes
}

// EthReaderFor builds a multi-node reader for network using be for
// explorer-backed lookups.
func EthReaderFor(network networks.Network, be explorers.BlockExplorer) *reader.EthReader {
	return reader.NewEthReaderGeneric(NodesFor(network), be)
}

// ReadCustomABI loads an ABI from source, which is either a path to a JSON
// file or the address of a verified contract whose ABI is fetched from the
// explorer.
func ReadCustomABI(source string, be explorers.BlockExplorer) (*abi.ABI, error) {
	if IsAddress(source) {
		abiStr, err := be.GetABIString(source)
		if err != nil {
			return nil, fmt.Errorf("getting abi of %s from explorer: %w", source, err)
		}
		result, err := abi.JSON(strings.NewReader(abiStr))
		if err != nil {
			return nil, fmt.Errorf("parsing abi of %s: %w", source, err)
		}
		return &result, nil
	}

	content, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading abi file %s: %w", source, err)
	}
	result, err := abi.JSON(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("parsing abi file %s: %w", source, err)
	}
	return &result, nil
}
