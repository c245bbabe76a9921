package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Raof-Rasti/timetabling-project/internal/client"
)

var downloadOut string

var downloadCmd = &cobra.Command{
	Use:   "download <token>",
	Short: "Fetch a previously generated schedule workbook by token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return saveDownload(ctx, client.New(apiBase), args[0], downloadOut)
	},
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOut, "out", "o", "schedule_output.xlsx", "output path")
	rootCmd.AddCommand(downloadCmd)
}
