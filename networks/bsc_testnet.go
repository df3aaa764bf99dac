package networks

var BSCTestnet Network = NewBSCTestnet()

type bscTestnet struct {
	*GenericBscscanNetwork
}

func NewBSCTestnet() *bscTestnet {
	return &bscTestnet{
		GenericBscscanNetwork: NewGenericBscscanNetwork(GenericBscscanNetworkConfig{
			Name:               "bsc-test",
			AlternativeNames:   []string{"bsc-testnet"},
			ChainID:            97,
			NativeTokenSymbol:  "BNB",
			NativeTokenDecimal: 18,
			BlockTime:          2,
			NodeVariableName:   "BSC_TESTNET_NODE",
			DefaultNodes: map[string]string{
				"binance1": "https://data-seed-prebsc-1-s1.binance.org:8545",
				"binance2": "https://data-seed-prebsc-2-s1.binance.org:8545",
				"binance3": "https://data-seed-prebsc-1-s2.binance.org:8545",
			},
			BlockExplorerAPIKeyVariableName: "BSCSCAN_API_KEY",
			BlockExplorerAPIURL:             "https://api-testnet.bscscan.com",
		}),
	}
}
