package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reparentCmd = &cobra.Command{
	Use:   "reparent <id> <new-parent-id>",
	Short: "Move an area under a different parent",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		area, err := GetEngine().ReparentArea(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("reparented %s under %s\n", area.ID, area.ParentID)
		return nil
	},
}

var mergeCmd = &cobra.Command{
	Use:   "merge <id> <other-id>",
	Short: "Merge two sibling areas into one",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		area, err := GetEngine().MergeArea(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("merged into %s (%s)\n", area.ID, area.DisplayName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reparentCmd)
	rootCmd.AddCommand(mergeCmd)
}
