package cmd

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/spf13/cobra"

	bsccommon "github.com/tranvictor/bscscope/common"
	"github.com/tranvictor/bscscope/config"
	"github.com/tranvictor/bscscope/contracts"
	"github.com/tranvictor/bscscope/txanalyzer"
	"github.com/tranvictor/bscscope/util"
)

var decodeCmd = &cobra.Command{
	Use:   "decode ADDRESS DATA",
	Short: "Decode transaction input data against a contract's verified abi",
	Long: `decode binds ADDRESS to its verified abi and decodes DATA as transaction
input. When the address is a delegation proxy, the implementation's abi is
layered on top so data addressed to the proxy decodes correctly; colliding
function names get the f_ prefix.

--abi overrides the explorer lookup with a local abi json file or the
address of another verified contract. --erc20 forces the standard ERC20 abi.`,
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

		var method string
		var params []bsccommon.ParamResult

		forced, err := forcedABI(s)
		if err != nil {
			return err
		}
		if forced != nil {
			payload, herr := hexData(args[1])
			if herr != nil {
				return herr
			}
			method, params, err = txanalyzer.AnalyzeMethodCall(forced, payload)
		} else {
			insp := newInspector(s, addr)
			if _, rerr := insp.ResolveProxies(false); rerr != nil {
				if errors.Is(rerr, contracts.ErrNoContract) {
					return rerr
				}
				s.ui.Warn("Proxy resolution failed: %s, decoding with the abi bound so far", rerr)
			}
			method, params, err = insp.DecodeInput(args[1])
		}
		if err != nil {
			return fmt.Errorf("decoding input: %w", err)
		}

		fc := &bsccommon.FunctionCallResult{
			Contract: bsccommon.Address{Address: addr},
			Network:  s.network.GetName(),
			Method:   method,
			Params:   params,
		}
		s.actx.EnrichCall(fc)
		util.DisplayFunctionCall(s.ui, fc)
		return nil
	},
}

// forcedABI returns the abi forced by --erc20 or --abi, nil when neither
// flag is set.
func forcedABI(s *session) (*abi.ABI, error) {
	if config.ForceERC20ABI {
		return bsccommon.GetERC20ABI(), nil
	}
	if config.CustomABI != "" {
		return util.ReadCustomABI(config.CustomABI, s.explorer)
	}
	return nil, nil
}

func init() {
	decodeCmd.Flags().
		BoolVar(&config.ForceERC20ABI, "erc20", false, "Decode with the standard ERC20 abi instead of the verified abi from the explorer.")
	decodeCmd.Flags().
		StringVar(&config.CustomABI, "abi", "", "Path to an abi json file, or the address of a verified contract to borrow the abi from.")
	rootCmd.AddCommand(decodeCmd)
}
