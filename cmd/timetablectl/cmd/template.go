package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Raof-Rasti/timetabling-project/internal/workbook"
)

var templateOut string

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write an empty input workbook with all expected sheets",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := workbook.TemplateBytes()
		if err != nil {
			return fmt.Errorf("build template: %w", err)
		}
		if err := os.WriteFile(templateOut, data, 0644); err != nil {
			return fmt.Errorf("write template: %w", err)
		}
		fmt.Printf("wrote %s\n", templateOut)
		return nil
	},
}

func init() {
	templateCmd.Flags().StringVarP(&templateOut, "out", "o", workbook.TemplateFilename, "output path")
	rootCmd.AddCommand(templateCmd)
}
