package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the most recent edit operation",
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := GetEngine().Undo()
		if err != nil {
			return err
		}
		fmt.Printf("undone: %d created, %d deleted, %d modified\n", len(entry.Created), len(entry.Deleted), len(entry.Modified))
		return nil
	},
}

var redoCmd = &cobra.Command{
	Use:   "redo",
	Short: "Redo the most recently undone edit operation",
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := GetEngine().Redo()
		if err != nil {
			return err
		}
		fmt.Printf("redone: %d created, %d deleted, %d modified\n", len(entry.Created), len(entry.Deleted), len(entry.Modified))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(redoCmd)
}
