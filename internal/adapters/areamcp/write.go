package areamcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"areacatalog/internal/editor"
)

// RegisterWriteTools adds the mutating area-catalog tools to s.
func RegisterWriteTools(s *server.MCPServer, eng *editor.Engine) {
	s.AddTool(saveAsAreaTool(), saveAsAreaHandler(eng))
	s.AddTool(updateGeometryTool(), updateGeometryHandler(eng))
	s.AddTool(renameAreaTool(), renameAreaHandler(eng))
	s.AddTool(reparentAreaTool(), reparentAreaHandler(eng))
	s.AddTool(mergeAreaTool(), mergeAreaHandler(eng))
	s.AddTool(deleteAreaTool(), deleteAreaHandler(eng))
	s.AddTool(undoTool(), undoHandler(eng))
	s.AddTool(redoTool(), redoHandler(eng))
}

func saveAsAreaTool() mcp.Tool {
	return mcp.NewTool("save_as_area",
		mcp.WithDescription("Create a new area from a closed draft polygon."),
		mcp.WithArray("points", mcp.Required()),
		mcp.WithString("name", mcp.Required()),
		mcp.WithString("level_key", mcp.Required()),
		mcp.WithString("parent_id", mcp.Description("Omit for a root-level area")),
	)
}

func saveAsAreaHandler(eng *editor.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		draft, err := parseDraft(req)
		if err != nil {
			return toolError(err)
		}
		draft.Closed = true
		area, err := eng.SaveAsArea(draft, req.GetString("name", ""), req.GetString("level_key", ""), req.GetString("parent_id", ""))
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("created %s", formatArea(area))), nil
	}
}

func updateGeometryTool() mcp.Tool {
	return mcp.NewTool("update_area_geometry",
		mcp.WithDescription("Replace a leaf area's geometry with a new closed draft."),
		mcp.WithString("id", mcp.Required()),
		mcp.WithArray("points", mcp.Required()),
	)
}

func updateGeometryHandler(eng *editor.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		draft, err := parseDraft(req)
		if err != nil {
			return toolError(err)
		}
		draft.Closed = true
		area, err := eng.UpdateAreaGeometry(req.GetString("id", ""), draft)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("updated %s", formatArea(area))), nil
	}
}

func renameAreaTool() mcp.Tool {
	return mcp.NewTool("rename_area",
		mcp.WithDescription("Rename an area."),
		mcp.WithString("id", mcp.Required()),
		mcp.WithString("name", mcp.Required()),
	)
}

func renameAreaHandler(eng *editor.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		area, err := eng.RenameArea(req.GetString("id", ""), req.GetString("name", ""))
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("renamed %s", formatArea(area))), nil
	}
}

func reparentAreaTool() mcp.Tool {
	return mcp.NewTool("reparent_area",
		mcp.WithDescription("Move an area under a different parent at the same level."),
		mcp.WithString("id", mcp.Required()),
		mcp.WithString("new_parent_id", mcp.Description("Omit to make it a root")),
	)
}

func reparentAreaHandler(eng *editor.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		area, err := eng.ReparentArea(req.GetString("id", ""), req.GetString("new_parent_id", ""))
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("reparented %s", formatArea(area))), nil
	}
}

func mergeAreaTool() mcp.Tool {
	return mcp.NewTool("merge_area",
		mcp.WithDescription("Merge two sibling areas into one, keeping the first id."),
		mcp.WithString("id", mcp.Required()),
		mcp.WithString("other_id", mcp.Required()),
	)
}

func mergeAreaHandler(eng *editor.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		area, err := eng.MergeArea(req.GetString("id", ""), req.GetString("other_id", ""))
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("merged into %s", formatArea(area))), nil
	}
}

func deleteAreaTool() mcp.Tool {
	return mcp.NewTool("delete_area",
		mcp.WithDescription("Delete an area; cascade also removes its explicit descendants."),
		mcp.WithString("id", mcp.Required()),
		mcp.WithBoolean("cascade"),
	)
}

func deleteAreaHandler(eng *editor.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		deleted, err := eng.DeleteArea(req.GetString("id", ""), req.GetBool("cascade", false))
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("deleted %d area(s)", len(deleted))), nil
	}
}

func undoTool() mcp.Tool {
	return mcp.NewTool("undo", mcp.WithDescription("Undo the most recent edit operation."))
}

func undoHandler(eng *editor.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entry, err := eng.Undo()
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("undone: %d created, %d deleted, %d modified", len(entry.Created), len(entry.Deleted), len(entry.Modified))), nil
	}
}

func redoTool() mcp.Tool {
	return mcp.NewTool("redo", mcp.WithDescription("Redo the most recently undone edit operation."))
}

func redoHandler(eng *editor.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entry, err := eng.Redo()
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("redone: %d created, %d deleted, %d modified", len(entry.Created), len(entry.Deleted), len(entry.Modified))), nil
	}
}
