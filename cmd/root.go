// Copyright © 2018 Victor Tran
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tranvictor/bscscope/config"
	"github.com/tranvictor/bscscope/networks"
	"github.com/tranvictor/bscscope/ui"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bscscope",
	Short: "Inspect BSC addresses, contracts and proxy chains from your terminal",
	Long: fmt.Sprintf(`Bscscope is a command line tool to inspect addresses on Binance Smart Chain.
It shows balances, fetches verified contract metadata and abis from Bscscan,
follows delegation proxies to their implementations, decodes transaction
input data and relays read-only calls.

Bscscope supports bsc and bsc-test. It reads the chain through the default
public dataseed nodes and races every request against all of them:
	1. For bsc: binance, defibit and ninicoin
	2. For bsc-test: binance
You can add your own node by setting the following env vars:
	1. For bsc: %s
	2. For bsc-test: %s

Explorer lookups require a Bscscan api key. Pass it with --api-key or set the
%s env var; a .env file in the working directory is loaded automatically.

For more information or support, reach me at https://github.com/tranvictor.`,
		networks.BSCMainnet.GetNodeVariableName(),
		networks.BSCTestnet.GetNodeVariableName(),
		networks.BSCMainnet.GetBlockExplorerAPIKeyVariableName(),
	),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: preRun,
}

// keyless lists the commands that never talk to the explorer API and
// therefore run without an api key.
var keyless = map[string]bool{
	"find":    true,
	"version": true,
	"help":    true,
}

func preRun(cmd *cobra.Command, args []string) error {
	// a .env in the working dir is a convenience, not a requirement
	godotenv.Load()

	network, err := networks.GetNetwork(config.Network)
	if err != nil {
		return fmt.Errorf(
			"unknown network %q, supported networks: %s",
			config.Network,
			strings.Join(networks.GetSupportedNetworkNames(), ", "),
		)
	}
	selectedNetwork = network

	if keyless[cmd.Name()] {
		return nil
	}

	if config.APIKey == "" {
		config.APIKey = strings.TrimSpace(
			os.Getenv(network.GetBlockExplorerAPIKeyVariableName()),
		)
	}
	if config.APIKey == "" {
		return fmt.Errorf(
			"no explorer api key: pass --api-key or set %s, a .env file works too",
			network.GetBlockExplorerAPIKeyVariableName(),
		)
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().
		StringVarP(&config.Network, "network", "k", "bsc", "BSC network. Valid values: \"bsc\", \"bsc-test\".")
	rootCmd.PersistentFlags().
		BoolVar(&config.Debug, "debug", false, "Print debug information during command execution.")
	rootCmd.PersistentFlags().
		Int64VarP(&config.AtBlock, "at-block", "b", -1, "Read chain state at a specific block. Negative means the latest block.")
	rootCmd.PersistentFlags().
		StringVar(&config.APIKey, "api-key", "", "Bscscan api key. Takes precedence over the BSCSCAN_API_KEY env var.")

	if err := rootCmd.Execute(); err != nil {
		ui.NewTerminalUI().Error("%s", err)
		os.Exit(1)
	}
}
