package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tranvictor/bscscope/bleve"
	"github.com/tranvictor/bscscope/db"
	"github.com/tranvictor/bscscope/ui"
)

var findCmd = &cobra.Command{
	Use:   "find QUERY",
	Short: "Search known and observed addresses by name",
	Long: `find searches the address book for QUERY. The book holds the well known
BSC contracts plus every verified contract bscscope has inspected before.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		u := ui.NewTerminalUI()

		rows := [][]string{}
		seen := map[string]bool{}
		record := func(addr, desc string) {
			key := strings.ToLower(addr)
			if seen[key] {
				return
			}
			seen[key] = true
			rows = append(rows, []string{addr, desc})
		}

		indexed, _ := bleve.GetAddresses(query)
		for _, match := range indexed {
			record(match.Address, match.Desc)
		}
		fuzzed, _ := db.GetAddresses(query)
		for _, match := range fuzzed {
			record(match.Address, match.Desc)
		}

		if len(rows) == 0 {
			u.Warn("No address matches %q", query)
			return nil
		}
		u.Table([]string{"Address", "Description"}, rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
}
