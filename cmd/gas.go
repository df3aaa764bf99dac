package cmd

import (
	"github.com/spf13/cobra"
)

var gasCmd = &cobra.Command{
	Use:   "gas",
	Short: "Show the recommended gas price from the explorer's oracle",
	Long:  ``,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		price, err := s.explorer.RecommendedGasPrice()
		if err != nil {
			return err
		}
		block, err := s.reader.CurrentBlock()
		if err != nil {
			s.ui.Warn("Couldn't read the current block: %s", err)
			s.ui.Info("Recommended gas price on %s: %g gwei", s.network.GetName(), price)
			return nil
		}
		s.ui.Info("Recommended gas price on %s: %g gwei (block %d)", s.network.GetName(), price, block)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gasCmd)
}
