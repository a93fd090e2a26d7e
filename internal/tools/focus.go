package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/byebyeanxiety/internal/planner"
	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

// ─── FocusRecordTool ─────────────────────────────────────────────────────────

// FocusRecordTool handles the focus_record MCP tool.
type FocusRecordTool struct {
	planner *planner.Planner
}

// NewFocusRecordTool creates a FocusRecordTool.
func NewFocusRecordTool(p *planner.Planner) *FocusRecordTool {
	return &FocusRecordTool{planner: p}
}

// Definition returns the MCP tool definition for focus_record.
func (t *FocusRecordTool) Definition() mcp.Tool {
	return mcp.NewTool("focus_record",
		mcp.WithDescription("Record a finished focus session. Every whole minute focused earns one point, even when stopped early."),
		mcp.WithNumber("planned_minutes",
			mcp.Description("Planned length in minutes (default: 25)"),
		),
		mcp.WithNumber("actual_seconds",
			mcp.Required(),
			mcp.Description("How long the user actually focused, in seconds"),
		),
		mcp.WithString("task_name",
			mcp.Description("What the session was for"),
		),
	)
}

// Handle processes the focus_record tool call.
func (t *FocusRecordTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	seconds := intArg(req, "actual_seconds", -1)
	if seconds < 0 {
		return mcp.NewToolResultError("'actual_seconds' is required"), nil
	}
	_, msg, err := t.planner.RecordFocus(req.GetString("task_name", ""), intArg(req, "planned_minutes", 25), seconds)
	if err != nil {
		return failure("record focus session", err), nil
	}
	return mcp.NewToolResultText(msg), nil
}

// ─── FocusStatsTool ──────────────────────────────────────────────────────────

// FocusStatsTool handles the focus_stats MCP tool.
type FocusStatsTool struct {
	store *store.Store
}

// NewFocusStatsTool creates a FocusStatsTool.
func NewFocusStatsTool(s *store.Store) *FocusStatsTool {
	return &FocusStatsTool{store: s}
}

// Definition returns the MCP tool definition for focus_stats.
func (t *FocusStatsTool) Definition() mcp.Tool {
	return mcp.NewTool("focus_stats",
		mcp.WithDescription("Show focus totals: sessions, minutes, points and completion rate."),
	)
}

// Handle processes the focus_stats tool call.
func (t *FocusStatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := t.store.FocusStats()
	if err != nil {
		return failure("load focus stats", err), nil
	}

	var b strings.Builder
	b.WriteString("## Focus stats\n\n")
	fmt.Fprintf(&b, "- Sessions: %d\n", st.TotalSessions)
	fmt.Fprintf(&b, "- Minutes focused: %d\n", st.TotalMinutes)
	fmt.Fprintf(&b, "- Points: %d\n", st.TotalPoints)
	fmt.Fprintf(&b, "- Completion rate: %.0f%%\n", st.CompletionRate*100)
	return mcp.NewToolResultText(b.String()), nil
}
