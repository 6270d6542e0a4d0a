// Package main is the entry point for the tunebench CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the tunebench CLI.
var rootCmd = &cobra.Command{
	Use:   "tunebench",
	Short: "Benchmark hyperparameter-tuning strategies for a recommender model",
	Long: `tunebench drives an external hyperparameter-tuning toolkit to optimize a
matrix-factorization recommender, then evaluates the winning model of each
tuning strategy on a held-out test set and tabulates a comparison.

Each step of the workflow is a subcommand: prepare splits the ratings
dataset, run sweeps one or more tuning strategies through the external
tool, stop halts the active experiment, and compare prints the
cross-strategy table.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./tunebench.yaml or ~/.config/tunebench/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("tunebench")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "tunebench"))
		}
	}

	viper.SetEnvPrefix("TUNEBENCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
