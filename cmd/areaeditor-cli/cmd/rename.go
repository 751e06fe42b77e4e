package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <id> <new-name>",
	Short: "Rename an area",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		area, err := GetEngine().RenameArea(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("renamed %s to %q\n", area.ID, area.DisplayName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
