package util

import (
	"fmt"
	"strings"

	"github.com/tranvictor/bscscope/util/cache"
	"github.com/tranvictor/bscscope/util/reader"
)

func queryToCheckERC20(addr string, r *reader.EthReader) (bool, error) {
	_, err := r.ERC20Decimal(addr)
	if err != nil {
		// A contract without a decimals() method returns empty data, which
		// surfaces from the abi package as this unmarshalling error.
		if strings.Contains(fmt.Sprintf("%s", err), "abi: attempting to unmarshall an empty string while arguments are expected") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsERC20 reports whether addr looks like an ERC20 token, probing the chain
// with a decimals() call. Verdicts are cached on disk so each address is
// probed at most once across runs.
func IsERC20(addr string, r *reader.EthReader) (bool, error) {
	if !IsAddress(addr) {
		return false, nil
	}

	cacheKey := fmt.Sprintf("%s_isERC20", addr)
	isERC20, found := cache.GetBoolCache(cacheKey)
	if found {
		return isERC20, nil
	}

	isERC20, err := queryToCheckERC20(addr, r)
	if err != nil {
		return false, err
	}

	cache.SetBoolCache(
		cacheKey,
		isERC20,
	)
	return isERC20, nil
}

func GetERC20Symbol(addr string, r *reader.EthReader) (string, error) {
	cacheKey := fmt.Sprintf("%s_symbol", addr)
	result, found := cache.GetCache(cacheKey)
	if found {
		return result, nil
	}

	result, err := r.ERC20Symbol(addr)
	if err != nil {
		return "", err
	}

	cache.SetCache(
		cacheKey,
		result,
	)

	return result, nil
}

func GetERC20Decimal(addr string, r *reader.EthReader) (uint64, error) {
	cacheKey := fmt.Sprintf("%s_decimal", addr)
	result, found := cache.GetInt64Cache(cacheKey)
	if found {
		return uint64(result), nil
	}

	result, err := r.ERC20Decimal(addr)
	if err != nil {
		return 0, err
	}

	cache.SetInt64Cache(
		cacheKey,
		result,
	)

	return uint64(result), nil
}
