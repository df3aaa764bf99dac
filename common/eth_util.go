package common

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// HexToInt parses a 0x prefixed hex quantity. It is used to interpret raw
// call results relayed by the explorer, where the node returns hex strings.
func HexToInt(hex string) (*big.Int, error) {
	str := strings.TrimPrefix(strings.TrimSpace(hex), "0x")
	if str == "" {
		return nil, fmt.Errorf("empty hex quantity")
	}
	result, ok := big.NewInt(0).SetString(str, 16)
	if !ok {
		return nil, fmt.Errorf("couldn't parse \"%s\" as a hex quantity", hex)
	}
	return result, nil
}

// HexToBool interprets a hex quantity as a boolean, any nonzero value is true.
func HexToBool(hex string) (bool, error) {
	i, err := HexToInt(hex)
	if err != nil {
		return false, err
	}
	return i.Sign() != 0, nil
}

// HexToText decodes hex encoded bytes into a string, dropping zero padding
// bytes that ABI encoding leaves around short strings.
func HexToText(hex string) (string, error) {
	str := strings.TrimPrefix(strings.TrimSpace(hex), "0x")
	if len(str)%2 != 0 {
		return "", fmt.Errorf("hex string \"%s\" has odd length", hex)
	}
	bytes := common.FromHex("0x" + str)
	return strings.Trim(string(bytes), "\x00"), nil
}

func IsZeroAddress(addr common.Address) bool {
	return addr == common.Address{}
}

func HexToAddress(hex string) common.Address {
	return common.HexToAddress(hex)
}

func HexToAddresses(hexes []string) []common.Address {
	result := []common.Address{}
	for _, h := range hexes {
		result = append(result, common.HexToAddress(h))
	}
	return result
}

func HexToHash(hex string) common.Hash {
	return common.HexToHash(hex)
}

func GetERC20ABI() *abi.ABI {
	result, _ := abi.JSON(strings.NewReader(erc20abi))
	return &result
}

func GetEIP1967BeaconABI() *abi.ABI {
	result, _ := abi.JSON(strings.NewReader(eip1967beacon))
	return &result
}

func PackERC20Data(function string, params ...interface{}) ([]byte, error) {
	return GetERC20ABI().Pack(function, params...)
}
