package cmd

import (
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/tranvictor/bscscope/config"
	"github.com/tranvictor/bscscope/contracts"
	"github.com/tranvictor/bscscope/networks"
	"github.com/tranvictor/bscscope/txanalyzer"
	"github.com/tranvictor/bscscope/ui"
	"github.com/tranvictor/bscscope/util"
	"github.com/tranvictor/bscscope/util/explorers"
	"github.com/tranvictor/bscscope/util/reader"
)

// selectedNetwork is resolved from config.Network by the root command's
// PersistentPreRunE before any subcommand runs.
var selectedNetwork networks.Network

// session bundles the clients one command invocation works with. Constructing
// it opens no connections, every client dials lazily on first use.
type session struct {
	network  networks.Network
	ui       ui.UI
	explorer explorers.BlockExplorer
	reader   *reader.EthReader
	actx     *txanalyzer.AnalysisContext
}

func newSession() (*session, error) {
	network := selectedNetwork
	if network == nil {
		var err error
		network, err = networks.GetNetwork(config.Network)
		if err != nil {
			return nil, err
		}
	}
	be := explorers.NewEtherscanLikeExplorer(
		network.GetBlockExplorerAPIURL(),
		config.APIKey,
	)
	cached := explorers.NewCachedExplorer(be.Domain, be)
	r := util.EthReaderFor(network, cached)
	return &session{
		network:  network,
		ui:       ui.NewTerminalUI(),
		explorer: cached,
		reader:   r,
		actx:     txanalyzer.NewAnalysisContext(r, network),
	}, nil
}

func newInspector(s *session, addr string) *contracts.Inspector {
	insp := contracts.NewInspector(addr, s.network, s.reader, s.explorer)
	insp.SetAtBlock(config.AtBlock)
	return insp
}

// hexString normalizes user provided call data, a missing 0x prefix is
// tolerated.
func hexString(data string) string {
	data = strings.TrimSpace(data)
	if !strings.HasPrefix(data, "0x") {
		data = "0x" + data
	}
	return data
}

// hexData normalizes user provided call data and decodes it to bytes.
func hexData(data string) ([]byte, error) {
	return hexutil.Decode(hexString(data))
}
