package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Raof-Rasti/timetabling-project/internal/client"
	"github.com/Raof-Rasti/timetabling-project/internal/table"
)

var submitOut string

var submitCmd = &cobra.Command{
	Use:   "submit <input.xlsx>",
	Short: "Upload an input workbook and print the schedule preview",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubmit,
}

func init() {
	submitCmd.Flags().StringVarP(&submitOut, "out", "o", "", "also download the generated workbook to this path")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	c := client.New(apiBase)
	res, err := c.Submit(ctx, client.Upload{Filename: args[0], Content: f})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}

	fmt.Printf("soft score:   %g\n", res.SoftScore)
	fmt.Printf("sessions:     %d\n", res.Counts.Sessions)
	fmt.Printf("hard errors:  %d\n", res.Counts.HardErrors)
	fmt.Printf("soft details: %d\n", res.Counts.SoftDetails)
	fmt.Printf("token:        %s\n\n", res.Token)

	if err := table.Build(res.Preview).Text(os.Stdout); err != nil {
		return err
	}

	if submitOut != "" {
		if err := saveDownload(ctx, c, res.Token, submitOut); err != nil {
			return err
		}
		fmt.Printf("\nsaved generated workbook to %s\n", submitOut)
	} else {
		fmt.Printf("\ndownload: %s\n", c.DownloadURL(res.Token))
	}
	return nil
}

// saveDownload streams one generated artifact to disk.
func saveDownload(ctx context.Context, c *client.Client, token, path string) error {
	body, err := c.Download(ctx, token)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer body.Close()

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, body); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
