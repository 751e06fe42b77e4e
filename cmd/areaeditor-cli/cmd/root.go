package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"areacatalog/internal/adapters/idgen"
	"areacatalog/internal/adapters/planarkernel"
	"areacatalog/internal/adapters/sqlitestore"
	"areacatalog/internal/editor"
)

var (
	dbPath string
	store  *sqlitestore.Adapter
	eng    *editor.Engine
)

var rootCmd = &cobra.Command{
	Use:   "areaeditor-cli",
	Short: "CLI for the area catalog editor",
	Long: `areaeditor-cli is a command-line interface over the area catalog
editor: a transactional editor for a hierarchical catalog of
geographic areas.

It provides commands to browse the catalog and to save, rename,
reparent, merge, delete, and undo/redo area edits.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		store, err = sqlitestore.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		eng, err = editor.New(editor.Config{
			Adapter: store,
			Kernel:  planarkernel.New(),
			IDs:     idgen.New(),
			Levels:  editor.DefaultLevels(),
		}.FromEnv())
		if err != nil {
			return fmt.Errorf("configure engine: %w", err)
		}
		return eng.Init()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			return store.Close()
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", editor.DefaultDBPath(), "path to the catalog database")
}

// GetEngine returns the engine initialized by PersistentPreRunE.
func GetEngine() *editor.Engine { return eng }
