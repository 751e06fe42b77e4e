// Command areaeditor-mcp serves the area catalog editor over MCP
// stdio, following the teacher's libraio-mcp wiring.
package main

import (
	"context"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"areacatalog/internal/adapters/areamcp"
	"areacatalog/internal/adapters/idgen"
	"areacatalog/internal/adapters/planarkernel"
	"areacatalog/internal/adapters/sqlitestore"
	"areacatalog/internal/editor"
)

func main() {
	store, err := sqlitestore.Open(editor.DefaultDBPath())
	if err != nil {
		log.Fatalf("areaeditor-mcp: open store: %v", err)
	}
	defer store.Close()

	eng, err := editor.New(editor.Config{
		Adapter: store,
		Kernel:  planarkernel.New(),
		IDs:     idgen.New(),
		Levels:  editor.DefaultLevels(),
	}.FromEnv())
	if err != nil {
		log.Fatalf("areaeditor-mcp: configure engine: %v", err)
	}
	if err := eng.Init(); err != nil {
		log.Fatalf("areaeditor-mcp: init engine: %v", err)
	}

	mcpServer := server.NewMCPServer(
		"areaeditor-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping", mcp.WithDescription("Health check — returns pong")),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	areamcp.RegisterReadTools(mcpServer, eng)
	areamcp.RegisterWriteTools(mcpServer, eng)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("areaeditor-mcp: %v", err)
	}
}
