package explorers

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/tranvictor/bscscope/util/cache"
)

// CachedExplorer wraps another BlockExplorer and memoizes the lookups whose
// answers never change once observed: verified ABIs and verified source
// metadata. Balances, supplies, gas prices and eth_call relays always go to
// the wrapped explorer. Keys carry the explorer scope so mainnet and testnet
// entries never collide.
type CachedExplorer struct {
	scope string
	inner BlockExplorer
}

// NewCachedExplorer wraps inner with a persistent lookup cache. scope should
// identify the explorer endpoint, the wrapped explorer's domain works well.
func NewCachedExplorer(scope string, inner BlockExplorer) *CachedExplorer {
	return &CachedExplorer{
		scope: strings.ToLower(scope),
		inner: inner,
	}
}

func (ce *CachedExplorer) abiKey(address string) string {
	return fmt.Sprintf("%s_%s_abi", ce.scope, address)
}

func (ce *CachedExplorer) metadataKey(address string) string {
	return fmt.Sprintf("%s_%s_contract_metadata", ce.scope, address)
}

func (ce *CachedExplorer) GetABIString(address string) (string, error) {
	if cached, found := cache.GetCache(ce.abiKey(address)); found {
		return cached, nil
	}
	abiStr, err := ce.inner.GetABIString(address)
	if err != nil {
		return "", err
	}
	cache.SetCache(ce.abiKey(address), abiStr)
	return abiStr, nil
}

func (ce *CachedExplorer) GetSourceCode(address string) (*ContractMetadata, error) {
	if cached, found := cache.GetCache(ce.metadataKey(address)); found {
		meta := &ContractMetadata{}
		if err := json.Unmarshal([]byte(cached), meta); err == nil {
			return meta, nil
		}
		// corrupted entry, refetch below and overwrite it
	}
	meta, err := ce.inner.GetSourceCode(address)
	if err != nil {
		return nil, err
	}
	// Unverified contracts can get verified later so only the verified answer
	// is pinned.
	if meta.IsVerified() {
		if data, merr := json.Marshal(meta); merr == nil {
			cache.SetCache(ce.metadataKey(address), string(data))
		}
	}
	return meta, nil
}

func (ce *CachedExplorer) RecommendedGasPrice() (float64, error) {
	return ce.inner.RecommendedGasPrice()
}

func (ce *CachedExplorer) GetNativeBalance(address string) (*big.Int, error) {
	return ce.inner.GetNativeBalance(address)
}

func (ce *CachedExplorer) GetCirculatingSupply(address string) (*big.Int, error) {
	return ce.inner.GetCirculatingSupply(address)
}

func (ce *CachedExplorer) EthCall(to string, data string) (string, error) {
	return ce.inner.EthCall(to, data)
}
