package config

// Package level settings bound to CLI flags. cmd.Execute wires them before
// any command runs.
var (
	Network string
	Debug   bool

	// AtBlock reads chain state at a specific block, -1 means latest.
	AtBlock int64

	// APIKey overrides the BSCSCAN_API_KEY env var when set via flag.
	APIKey string

	ForceERC20ABI bool
	CustomABI     string
)
