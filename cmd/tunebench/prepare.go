package main

import (
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tunebench/internal/dataset"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Fetch the ratings dataset and write the train/validation/test splits",
	Long: `Prepare loads the ratings table (downloading it when no local copy is
configured), partitions it into disjoint train/validation/test splits by
seeded random assignment, and writes the three split files into the scratch
directory where trial processes expect them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		if local, _ := cmd.Flags().GetString("local"); local != "" {
			cfg.Dataset.LocalPath = local
		}
		if url, _ := cmd.Flags().GetString("url"); url != "" {
			cfg.Dataset.SourceURL = url
		}

		client := &http.Client{Timeout: 5 * time.Minute}
		return dataset.Prepare(client, cfg.Dataset, os.Stdout)
	},
}

func init() {
	prepareCmd.Flags().String("local", "", "path to an already-downloaded ratings CSV")
	prepareCmd.Flags().String("url", "", "HTTP location of the ratings CSV")

	rootCmd.AddCommand(prepareCmd)
}
