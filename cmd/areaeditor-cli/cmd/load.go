package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Report the number of areas loaded from the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("loaded %d area(s)\n", len(GetEngine().GetAllAreas()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
