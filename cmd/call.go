package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tranvictor/bscscope/util"
)

var callTypes string

var callCmd = &cobra.Command{
	Use:   "call ADDRESS DATA",
	Short: "Relay a read-only call and optionally decode the result",
	Long: `call sends DATA to ADDRESS through the explorer's eth_call proxy endpoint
and prints the raw returned data. Since the call goes through the explorer,
no RPC node access is needed.

With --types, the returned data is also decoded against the given comma
separated output types, e.g. --types uint256,address.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		addr, _, err := util.GetAddressFromString(args[0])
		if err != nil {
			return err
		}

		insp := newInspector(s, addr)
		result, err := insp.RelayCall(hexString(args[1]))
		if err != nil {
			return fmt.Errorf("eth_call relay to %s: %w", addr, err)
		}
		s.ui.Info("Returned data: %s", result)

		if callTypes == "" {
			return nil
		}
		params, err := insp.DecodeOutput(result, strings.Split(callTypes, ","))
		if err != nil {
			return fmt.Errorf("decoding returned data as [%s]: %w", callTypes, err)
		}
		s.actx.EnrichParams(params)
		util.DisplayParams(s.ui, params)
		return nil
	},
}

func init() {
	callCmd.Flags().
		StringVarP(&callTypes, "types", "t", "", "Comma separated output types to decode the returned data with.")
	rootCmd.AddCommand(callCmd)
}
