package db

import "strings"

// KNOWN_BSC maps well-known BSC mainnet addresses to short descriptions.
// It seeds the address databases so that fresh installs resolve common
// landmarks (pegged tokens, PancakeSwap, system contracts) without any
// prior lookups.
var KNOWN_BSC = map[string]string{
	"0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c": "WBNB (Wrapped BNB)",
	"0xe9e7CEA3DedcA5984780Bafc599bD69ADd087D56": "BUSD (Binance USD)",
	"0x55d398326f99059fF775485246999027B3197955": "BSC-USD (Binance-Peg USDT)",
	"0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d": "USDC (Binance-Peg USD Coin)",
	"0x7130d2A12B9BCbFAe4f2634d864A1Ee1Ce3Ead9c": "BTCB (Binance-Peg Bitcoin)",
	"0x2170Ed0880ac9A755fd29B2688956BD959F933F8": "ETH (Binance-Peg Ethereum)",
	"0x0E09FaBB73Bd3Ade0a17ECC321fD13a19e81cE82": "CAKE (PancakeSwap Token)",
	"0x10ED43C718714eb63d5aA57B78B54704E256024E": "PancakeSwap Router v2",
	"0xcA143Ce32Fe78f1f7019d7d551a6402fC5350c73": "PancakeSwap Factory v2",
	"0xcA11bde05977b3631167028862bE2a173976CA11": "Multicall3",
	"0x000000000000000000000000000000000000dEaD": "Burn Address",
	"0x0000000000000000000000000000000000000000": "Zero Address",
	"0x0000000000000000000000000000000000001000": "BSC Validator Set",
	"0x0000000000000000000000000000000000001001": "BSC Slash Indicator",
	"0x0000000000000000000000000000000000001002": "BSC System Reward",
	"0x0000000000000000000000000000000000001004": "BSC Token Hub",
	"0x0000000000000000000000000000000000001006": "BSC Relayer Hub",
	"0x0000000000000000000000000000000000001007": "BSC Governance Hub",
	"0x0000000000000000000000000000000000002000": "BSC Cross Chain",
}

// KnownAddresses returns the seed address book with lower-cased keys.
func KnownAddresses() map[string]string {
	result := map[string]string{}
	for addr, desc := range KNOWN_BSC {
		result[strings.ToLower(addr)] = desc
	}
	return result
}
