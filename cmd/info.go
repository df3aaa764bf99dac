package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	bsccommon "github.com/tranvictor/bscscope/common"
	"github.com/tranvictor/bscscope/contracts"
	"github.com/tranvictor/bscscope/db"
	"github.com/tranvictor/bscscope/util"
)

var infoInput string

var infoCmd = &cobra.Command{
	Use:   "info ADDRESS",
	Short: "Show balance, contract binding and proxy chain of an address",
	Long: `info is the primary inspection surface. It prints the native balance of
ADDRESS, and when the address carries code it walks the delegation chain:
each hop shows the explorer metadata, the verified function listing and,
when the contract exposes a zero-arg description() getter, its description.

ADDRESS is a hex address or a hint string to look it up in the address book,
e.g. "pancake router".

With --input, the given transaction input data is decoded against the abi of
the chain's last hop, which is how calls addressed to a proxy execute.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		addr, _, err := util.GetAddressFromString(strings.Join(args, " "))
		if err != nil {
			return err
		}
		u := s.ui

		insp := newInspector(s, addr)
		balance, err := insp.BalanceString()
		if err != nil {
			return fmt.Errorf("balance of %s: %w", addr, err)
		}
		u.Info("Address: %s", bsccommon.PlainAddress(s.actx.ResolveAddress(addr)))
		u.Info("Balance: %s %s", balance, s.network.GetNativeTokenSymbol())

		isContract, err := insp.IsContract()
		if err != nil {
			return fmt.Errorf("code lookup of %s: %w", addr, err)
		}
		if !isContract {
			u.Warn("%s holds no code on %s, nothing more to show", addr, s.network.GetName())
			return nil
		}

		visited := map[string]bool{}
		for hop := 0; ; hop++ {
			current := insp.Address()
			if visited[strings.ToLower(current)] {
				u.Error("Delegation cycle: %s appears twice in the chain", current)
				break
			}
			visited[strings.ToLower(current)] = true
			if hop > contracts.MaxProxyHops {
				u.Error("Delegation chain is longer than %d hops, giving up", contracts.MaxProxyHops)
				break
			}

			next, done := showContractHop(s, insp, hop)
			if done {
				break
			}
			insp = newInspector(s, next)
		}

		if infoInput != "" {
			method, params, derr := insp.DecodeInput(infoInput)
			fc := &bsccommon.FunctionCallResult{
				Contract: bsccommon.Address{Address: addr},
				Network:  s.network.GetName(),
				Method:   method,
				Params:   params,
			}
			if derr != nil {
				fc.Error = derr.Error()
			}
			s.actx.EnrichCall(fc)
			util.DisplayFunctionCall(u, fc)
		}
		return nil
	},
}

// showContractHop renders the metadata card of the inspector's active address
// and reports where the delegation chain goes next. done is true when the
// address doesn't delegate any further or the chain can't be followed.
func showContractHop(s *session, insp *contracts.Inspector, hop int) (next string, done bool) {
	u := s.ui
	current := insp.Address()

	md, err := insp.Metadata()
	if err != nil {
		u.Error("Couldn't fetch contract metadata of %s: %s", current, err)
		return "", true
	}

	implHex := ""
	var resolveErr error
	if md.IsVerified() {
		impl, resolved, rerr := insp.ResolveImplementation()
		resolveErr = rerr
		if rerr == nil && resolved {
			implHex = impl.Hex()
		}
	}
	delegates := implHex != ""

	label := "[Contract]"
	if md.IsProxy() || delegates {
		label = "[Proxy]"
	}
	if hop > 0 && !delegates {
		label = "[Implementation]"
	}
	u.Section(fmt.Sprintf("%s %s", label, current))

	d := &util.ContractDisplay{
		Address:  util.StyledAddress(s.actx.ResolveAddress(current)),
		Name:     md.ContractName,
		Compiler: md.CompilerVersion,
		Verified: md.IsVerified(),
		Proxy:    md.IsProxy() || delegates,
	}
	if delegates {
		d.Implementation = util.StyledAddress(s.actx.ResolveAddress(implHex))
	}
	if md.IsVerified() {
		if funcs, ferr := insp.Functions(); ferr == nil {
			d.Functions = funcs
		} else {
			d.Error = fmt.Sprintf("couldn't load the verified abi: %s", ferr)
		}
		d.Description = contractDescription(insp)
	} else {
		d.Error = fmt.Sprintf("source code of %s is not verified, no abi to show", current)
	}
	util.DisplayContract(u, d)

	db.RecordObserved(current, md.ContractName)

	if resolveErr != nil {
		u.Error("Couldn't follow the delegation of %s: %s", current, resolveErr)
		return "", true
	}
	if !delegates {
		return "", true
	}
	return implHex, false
}

// contractDescription auto-calls the zero-argument description() getter that
// BSC system contracts expose. Absence or failure is not an error.
func contractDescription(insp *contracts.Inspector) string {
	c, err := insp.Contract()
	if err != nil {
		return ""
	}
	f, found := c.Function("description")
	if !found || len(f.Method.Inputs) != 0 {
		return ""
	}
	out, err := insp.Call("description")
	if err != nil || len(out) == 0 {
		return ""
	}
	desc, ok := out[0].(string)
	if !ok {
		return ""
	}
	return desc
}

func init() {
	infoCmd.Flags().
		StringVarP(&infoInput, "input", "i", "", "Transaction input data to decode against the contract's abi.")
	rootCmd.AddCommand(infoCmd)
}
