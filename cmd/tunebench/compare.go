package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tunebench/internal/report"
	"github.com/pdiddy/tunebench/internal/runstore"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Print the cross-strategy comparison table",
	Long: `Compare reads the recorded run results and prints one row per tuning
strategy, with a column per metric plus elapsed wall-clock seconds. The
table can be sorted by any column in either direction.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		store, err := runstore.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()

		results, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintln(os.Stderr, "no recorded runs; run a sweep first")
			return nil
		}

		table := report.Build(results)

		if sortBy, _ := cmd.Flags().GetString("sort-by"); sortBy != "" {
			ascending, _ := cmd.Flags().GetBool("ascending")
			if err := table.SortBy(sortBy, !ascending); err != nil {
				return err
			}
		}

		format, _ := cmd.Flags().GetString("format")
		return table.Render(os.Stdout, report.Format(format))
	},
}

func init() {
	compareCmd.Flags().String("sort-by", "", "column to sort by (metric name, elapsed_sec, or strategy)")
	compareCmd.Flags().Bool("ascending", false, "sort ascending instead of descending")
	compareCmd.Flags().String("format", "table", "output format: table, json, or yaml")

	rootCmd.AddCommand(compareCmd)
}
