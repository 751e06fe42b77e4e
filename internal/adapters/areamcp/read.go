// Package areamcp exposes the Edit Engine over MCP tools, grounded on
// the teacher's internal/adapters/mcp package: one file for read-only
// tools, one for write tools, both built against mcp-go.
package areamcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"areacatalog/internal/domain"
	"areacatalog/internal/editor"
)

// RegisterReadTools adds every read-only area-catalog tool to s.
func RegisterReadTools(s *server.MCPServer, eng *editor.Engine) {
	s.AddTool(getAreaTool(), getAreaHandler(eng))
	s.AddTool(listChildrenTool(), listChildrenHandler(eng))
	s.AddTool(listRootsTool(), listRootsHandler(eng))
	s.AddTool(listByLevelTool(), listByLevelHandler(eng))
	s.AddTool(validateDraftTool(), validateDraftHandler(eng))
}

func getAreaTool() mcp.Tool {
	return mcp.NewTool("get_area",
		mcp.WithDescription("Fetch a single area (real or implicit) by id."),
		mcp.WithString("id", mcp.Description("Area id, or an implicit:<parent>:<level> id"), mcp.Required()),
	)
}

func getAreaHandler(eng *editor.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		area, ok := eng.GetArea(id)
		if !ok {
			return mcp.NewToolResultText(fmt.Sprintf("no area with id %s", id)), nil
		}
		return mcp.NewToolResultText(formatArea(area)), nil
	}
}

func listChildrenTool() mcp.Tool {
	return mcp.NewTool("list_children",
		mcp.WithDescription("List an area's children, synthesizing a single implicit child when the area has none of its own."),
		mcp.WithString("parent_id", mcp.Description("Parent area id"), mcp.Required()),
	)
}

func listChildrenHandler(eng *editor.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		parentID := req.GetString("parent_id", "")
		return formatAreas(eng.GetChildren(parentID))
	}
}

func listRootsTool() mcp.Tool {
	return mcp.NewTool("list_roots", mcp.WithDescription("List every area with no parent."))
}

func listRootsHandler(eng *editor.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return formatAreas(eng.GetRoots())
	}
}

func listByLevelTool() mcp.Tool {
	return mcp.NewTool("list_by_level",
		mcp.WithDescription("List every real area at a given level key."),
		mcp.WithString("level_key", mcp.Required()),
	)
}

func listByLevelHandler(eng *editor.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return formatAreas(eng.GetByLevel(req.GetString("level_key", "")))
	}
}

func validateDraftTool() mcp.Tool {
	return mcp.NewTool("validate_draft",
		mcp.WithDescription("Run the draft validator against a lat/lng point loop without mutating anything."),
		mcp.WithArray("points", mcp.Description("[{lat,lng}, ...]"), mcp.Required()),
		mcp.WithBoolean("closed", mcp.Description("Treat the loop as a closed polygon")),
	)
}

func validateDraftHandler(eng *editor.Engine) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		draft, err := parseDraft(req)
		if err != nil {
			return toolError(err)
		}
		violations := eng.ValidateDraft(draft)
		if len(violations) == 0 {
			return mcp.NewToolResultText("valid"), nil
		}
		var sb strings.Builder
		for _, v := range violations {
			fmt.Fprintf(&sb, "%s\n", v)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- shared helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatArea(a domain.Area) string {
	kind := "real"
	if a.Implicit {
		kind = "implicit"
	}
	return fmt.Sprintf("%s  %s  level=%s parent=%s (%s)", a.ID, a.DisplayName, a.LevelKey, a.ParentID, kind)
}

func formatAreas(areas []domain.Area) (*mcp.CallToolResult, error) {
	if len(areas) == 0 {
		return mcp.NewToolResultText("no areas."), nil
	}
	var sb strings.Builder
	for _, a := range areas {
		sb.WriteString(formatArea(a))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func parseDraft(req mcp.CallToolRequest) (domain.DraftShape, error) {
	raw, ok := req.GetArguments()["points"].([]any)
	if !ok {
		return domain.DraftShape{}, fmt.Errorf("points must be an array of {lat,lng} objects")
	}
	points := make([]domain.LatLng, 0, len(raw))
	for i, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			return domain.DraftShape{}, fmt.Errorf("points[%d] must be an object with lat/lng", i)
		}
		lat, _ := m["lat"].(float64)
		lng, _ := m["lng"].(float64)
		points = append(points, domain.LatLng{Lat: lat, Lng: lng})
	}
	return domain.DraftShape{Points: points, Closed: req.GetBool("closed", false)}, nil
}
