package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tunebench/internal/controller"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the active tuning experiment",
	Long: `Stop halts whatever experiment the external tool is currently running and
waits until the tool confirms nothing is active.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		backend := controller.NewCLIBackend(cfg.Controller.Tool)
		ctl := controller.New(backend, cfg.Controller, os.Stdout)
		return ctl.StopAndDrain()
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
