package networks

import (
	"time"
)

// Network describes a BSC-compatible chain that bscscope can inspect. It is a
// pure data registry: RPC and explorer clients are constructed by the caller
// from these values, they are not owned by the network object.
type Network interface {
	GetName() string
	GetAlternativeNames() []string
	GetChainID() uint64
	GetNativeTokenSymbol() string
	GetNativeTokenDecimal() uint64
	GetBlockTime() time.Duration

	// GetNodeVariableName returns the env var that overrides the default RPC
	// nodes with a single custom node url.
	GetNodeVariableName() string
	GetDefaultNodes() map[string]string

	GetBlockExplorerAPIKeyVariableName() string
	GetBlockExplorerAPIURL() string
}
