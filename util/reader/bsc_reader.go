package reader

import (
	"github.com/tranvictor/bscscope/util/explorers"
)

func NewBSCReaderWithCustomNodes(nodes map[string]string, be explorers.BlockExplorer) *EthReader {
	return NewEthReaderGeneric(nodes, be)
}

func NewBSCTestnetReaderWithCustomNodes(nodes map[string]string, be explorers.BlockExplorer) *EthReader {
	return NewEthReaderGeneric(nodes, be)
}

// NewBSCReader talks to the public dataseed nodes.
func NewBSCReader(be explorers.BlockExplorer) *EthReader {
	nodes := map[string]string{
		"binance":  "https://bsc-dataseed.binance.org",
		"defibit":  "https://bsc-dataseed1.defibit.io",
		"ninicoin": "https://bsc-dataseed1.ninicoin.io",
	}
	return NewBSCReaderWithCustomNodes(nodes, be)
}

func NewBSCTestnetReader(be explorers.BlockExplorer) *EthReader {
	nodes := map[string]string{
		"binance1": "https://data-seed-prebsc-1-s1.binance.org:8545",
		"binance2": "https://data-seed-prebsc-2-s1.binance.org:8545",
		"binance3": "https://data-seed-prebsc-1-s2.binance.org:8545",
	}
	return NewBSCTestnetReaderWithCustomNodes(nodes, be)
}
