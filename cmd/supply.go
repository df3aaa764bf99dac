package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	bsccommon "github.com/tranvictor/bscscope/common"
	"github.com/tranvictor/bscscope/util"
)

var supplyCmd = &cobra.Command{
	Use:   "supply TOKEN",
	Short: "Show the circulating supply of a BEP20 token",
	Long: `supply asks the explorer's stats module for the circulating supply of
TOKEN. When the token's decimals are readable on chain, the amount is shown
in whole tokens, otherwise the raw integer is printed.

TOKEN is a hex address or a hint string to look it up in the address book.`,
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

		supply, err := s.explorer.GetCirculatingSupply(addr)
		if err != nil {
			return fmt.Errorf("circulating supply of %s: %w", addr, err)
		}

		info := s.actx.ERC20InfoFor(addr)
		if info == nil {
			s.ui.Warn("Couldn't read the token decimals of %s, showing the raw integer", addr)
			s.ui.Info("Circulating supply: %s", supply.String())
			return nil
		}

		symbol := info.Symbol
		if symbol == "" {
			symbol = "tokens"
		}
		p := message.NewPrinter(language.English)
		s.ui.Info(
			"Circulating supply: %s %s",
			p.Sprintf("%v", number.Decimal(bsccommon.BigToFloat(supply, info.Decimal))),
			symbol,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(supplyCmd)
}
