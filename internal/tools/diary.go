package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/HendryAvila/byebyeanxiety/internal/agent"
	"github.com/HendryAvila/byebyeanxiety/internal/bundle"
	"github.com/HendryAvila/byebyeanxiety/internal/planner"
	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

// ─── DiaryAppendTool ─────────────────────────────────────────────────────────

// DiaryAppendTool handles the diary_append MCP tool.
type DiaryAppendTool struct {
	planner *planner.Planner
}

// NewDiaryAppendTool creates a DiaryAppendTool.
func NewDiaryAppendTool(p *planner.Planner) *DiaryAppendTool {
	return &DiaryAppendTool{planner: p}
}

// Definition returns the MCP tool definition for diary_append.
func (t *DiaryAppendTool) Definition() mcp.Tool {
	return mcp.NewTool("diary_append",
		mcp.WithDescription("Record an experience, achievement or reflection in today's diary. Entries are added below earlier ones."),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("What to record"),
		),
		mcp.WithString("entry_type",
			mcp.Description("note, achievement, reflection, idea... (default: note)"),
		),
	)
}

// Handle processes the diary_append tool call.
func (t *DiaryAppendTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, msg, err := t.planner.AppendDiary(req.GetString("content", ""), req.GetString("entry_type", ""))
	if err != nil {
		return failure("update diary", err), nil
	}
	return mcp.NewToolResultText(msg), nil
}

// ─── DailySummaryTool ────────────────────────────────────────────────────────

// DailySummaryTool handles the daily_summary MCP tool.
type DailySummaryTool struct {
	store *store.Store
	ak    *agent.AnxietyKiller
	now   func() time.Time
	log   *zap.Logger
}

// NewDailySummaryTool creates a DailySummaryTool.
func NewDailySummaryTool(s *store.Store, ak *agent.AnxietyKiller, now func() time.Time, log *zap.Logger) *DailySummaryTool {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DailySummaryTool{store: s, ak: ak, now: now, log: log}
}

// Definition returns the MCP tool definition for daily_summary.
func (t *DailySummaryTool) Definition() mcp.Tool {
	return mcp.NewTool("daily_summary",
		mcp.WithDescription(
			"Write a warm summary of a day from its completed tasks, conversations and todo lists, "+
				"and keep it with that day's diary entry.",
		),
		mcp.WithString("date",
			mcp.Description("Day to summarize (YYYY-MM-DD, default: today)"),
		),
		mcp.WithBoolean("save",
			mcp.Description("Store the summary on the diary entry (default: true)"),
		),
	)
}

// Handle processes the daily_summary tool call.
func (t *DailySummaryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := req.GetString("date", t.now().Format(store.DateLayout))
	if _, err := time.Parse(store.DateLayout, date); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("date %q is not a YYYY-MM-DD date", date)), nil
	}

	digest := bundle.Digest(ctx, t.store, date, t.log)
	summary, err := t.ak.DailySummary(ctx, digest)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to write summary: %v", err)), nil
	}

	if boolArg(req, "save", true) {
		if err := t.saveSummary(date, summary); err != nil {
			return failure("save summary", err), nil
		}
	}
	return mcp.NewToolResultText(summary), nil
}

func (t *DailySummaryTool) saveSummary(date, summary string) error {
	e, err := t.store.GetDiaryEntry(date)
	if errors.Is(err, store.ErrNotFound) {
		e = &store.DiaryEntry{Date: date, CompletedTasks: []string{}, Highlights: []string{}}
	} else if err != nil {
		return err
	}
	e.AISummary = summary
	return t.store.SaveDiaryEntry(e)
}
