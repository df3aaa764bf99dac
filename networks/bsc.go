package networks

var BSCMainnet Network = NewBSCMainnet()

type bscMainnet struct {
	*GenericBscscanNetwork
}

func NewBSCMainnet() *bscMainnet {
	return &bscMainnet{
		GenericBscscanNetwork: NewGenericBscscanNetwork(GenericBscscanNetworkConfig{
			Name:               "bsc",
			AlternativeNames:   []string{},
			ChainID:            56,
			NativeTokenSymbol:  "BNB",
			NativeTokenDecimal: 18,
			BlockTime:          2,
			NodeVariableName:   "BSC_MAINNET_NODE",
			DefaultNodes: map[string]string{
				"binance":  "https://bsc-dataseed.binance.org",
				"defibit":  "https://bsc-dataseed1.defibit.io",
				"ninicoin": "https://bsc-dataseed1.ninicoin.io",
			},
			BlockExplorerAPIKeyVariableName: "BSCSCAN_API_KEY",
			BlockExplorerAPIURL:             "https://api.bscscan.com",
		}),
	}
}
