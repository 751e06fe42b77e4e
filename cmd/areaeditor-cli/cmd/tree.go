package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"areacatalog/internal/domain"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the catalog as a tree, starting from the roots",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, root := range GetEngine().GetRoots() {
			printSubtree(root, "")
		}
		return nil
	},
}

func printSubtree(a domain.Area, prefix string) {
	fmt.Printf("%s%s  %s (%s)\n", prefix, a.ID, a.DisplayName, a.LevelKey)
	for _, child := range GetEngine().GetChildren(a.ID) {
		printSubtree(child, prefix+"  ")
	}
}

var childrenCmd = &cobra.Command{
	Use:   "children <parent-id>",
	Short: "List an area's children, including the synthesized implicit one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, a := range GetEngine().GetChildren(args[0]) {
			kind := "real"
			if a.Implicit {
				kind = "implicit"
			}
			fmt.Printf("%s  %s  %s (%s)\n", a.ID, a.DisplayName, a.LevelKey, kind)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(childrenCmd)
}
