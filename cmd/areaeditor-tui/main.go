// Command areaeditor-tui is the read-only terminal tree browser for the
// area catalog, following the teacher's libraio TUI wiring.
package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"areacatalog/internal/adapters/areatui"
	"areacatalog/internal/adapters/idgen"
	"areacatalog/internal/adapters/planarkernel"
	"areacatalog/internal/adapters/sqlitestore"
	"areacatalog/internal/editor"
)

func main() {
	store, err := sqlitestore.Open(editor.DefaultDBPath())
	if err != nil {
		log.Fatalf("areaeditor-tui: open store: %v", err)
	}
	defer store.Close()

	eng, err := editor.New(editor.Config{
		Adapter: store,
		Kernel:  planarkernel.New(),
		IDs:     idgen.New(),
		Levels:  editor.DefaultLevels(),
	}.FromEnv())
	if err != nil {
		log.Fatalf("areaeditor-tui: configure engine: %v", err)
	}
	if err := eng.Init(); err != nil {
		log.Fatalf("areaeditor-tui: init engine: %v", err)
	}

	p := tea.NewProgram(areatui.New(eng), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "areaeditor-tui: %v\n", err)
		os.Exit(1)
	}
}
