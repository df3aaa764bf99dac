package explorers

import (
	"math/big"
)

// BlockExplorer is the read surface bscscope needs from a chain explorer.
type BlockExplorer interface {
	RecommendedGasPrice() (float64, error)
	GetABIString(address string) (string, error)
	GetSourceCode(address string) (*ContractMetadata, error)
	GetNativeBalance(address string) (*big.Int, error)
	GetCirculatingSupply(address string) (*big.Int, error)
	EthCall(to string, data string) (string, error)
}

// There is no default API key on purpose: Bscscan requires callers to bring
// their own and bscscope treats a missing key as a fatal config error.
func NewBscscan(apiKey string) *EtherscanLikeExplorer {
	return NewEtherscanLikeExplorer(
		"https://api.bscscan.com",
		apiKey,
	)
}

func NewTestnetBscscan(apiKey string) *EtherscanLikeExplorer {
	return NewEtherscanLikeExplorer(
		"https://api-testnet.bscscan.com",
		apiKey,
	)
}
