package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

var copyIDCmd = &cobra.Command{
	Use:   "copy-id <id>",
	Short: "Copy an area id to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := GetEngine().GetArea(args[0]); !ok {
			return fmt.Errorf("area %s not found", args[0])
		}
		if err := clipboard.WriteAll(args[0]); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Printf("copied %s to clipboard\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(copyIDCmd)
}
