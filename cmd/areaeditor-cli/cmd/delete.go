package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCascade bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an area",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deleted, err := GetEngine().DeleteArea(args[0], deleteCascade)
		if err != nil {
			return err
		}
		fmt.Printf("deleted %d area(s)\n", len(deleted))
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteCascade, "cascade", false, "also delete explicit descendants")
	rootCmd.AddCommand(deleteCmd)
}
