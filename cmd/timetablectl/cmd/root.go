// Package cmd holds the timetablectl subcommands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var apiBase string

var rootCmd = &cobra.Command{
	Use:   "timetablectl",
	Short: "Terminal client for the timetabling service",
	Long: `timetablectl submits input workbooks to the remote timetabling
service and fetches generated schedules, without going through the web UI.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiBase, "api", "http://localhost:5000", "scheduling service base URL")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
