package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/byebyeanxiety/internal/planner"
	"github.com/HendryAvila/byebyeanxiety/internal/social"
	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

// ─── SocialAddEntryTool ──────────────────────────────────────────────────────

// SocialAddEntryTool handles the social_add_entry MCP tool.
type SocialAddEntryTool struct {
	store *store.Store
}

// NewSocialAddEntryTool creates a SocialAddEntryTool.
func NewSocialAddEntryTool(s *store.Store) *SocialAddEntryTool {
	return &SocialAddEntryTool{store: s}
}

// Definition returns the MCP tool definition for social_add_entry.
func (t *SocialAddEntryTool) Definition() mcp.Tool {
	return mcp.NewTool("social_add_entry",
		mcp.WithDescription(
			"Add information about a person to the social book, creating them if needed. "+
				"New information is appended to what is already known; only birthday is replaced.",
		),
		mcp.WithString("person_name",
			mcp.Required(),
			mcp.Description("Person's name (matched case-insensitively)"),
		),
		mcp.WithString("information",
			mcp.Required(),
			mcp.Description("What to record"),
		),
		mcp.WithString("category",
			mcp.Description("personal_info, birthday, preferences, events, notes, or any custom field name (default: general)"),
		),
	)
}

// Handle processes the social_add_entry tool call.
func (t *SocialAddEntryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("person_name", "")
	info := req.GetString("information", "")
	if strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("'person_name' is required"), nil
	}
	if strings.TrimSpace(info) == "" {
		return mcp.NewToolResultError("'information' is required"), nil
	}

	res, err := social.AddEntry(t.store, name, info, req.GetString("category", ""))
	if err != nil {
		return failure("update social book", err), nil
	}
	msg := fmt.Sprintf("✅ Updated %s's %s in social book: %s", name, res.Key, info)
	if res.Created {
		msg += fmt.Sprintf("\nNew person added. ID: %s", res.Person.ID)
	}
	return mcp.NewToolResultText(msg), nil
}

// ─── PersonUpdateTool ────────────────────────────────────────────────────────

// PersonUpdateTool handles the person_update MCP tool.
type PersonUpdateTool struct {
	store *store.Store
}

// NewPersonUpdateTool creates a PersonUpdateTool.
func NewPersonUpdateTool(s *store.Store) *PersonUpdateTool {
	return &PersonUpdateTool{store: s}
}

// Definition returns the MCP tool definition for person_update.
func (t *PersonUpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("person_update",
		mcp.WithDescription(
			"Update one field of someone already in the social book. "+
				"Name and birthday are replaced; every other field is appended to.",
		),
		mcp.WithString("person_name",
			mcp.Required(),
			mcp.Description("Person's current name"),
		),
		mcp.WithString("field",
			mcp.Required(),
			mcp.Description("name, personal_info, birthday, preferences, events, notes, or any custom field"),
		),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("New value"),
		),
	)
}

// Handle processes the person_update tool call.
func (t *PersonUpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("person_name", "")
	field := req.GetString("field", "")
	value := req.GetString("value", "")
	if name == "" || field == "" {
		return mcp.NewToolResultError("'person_name' and 'field' are required"), nil
	}

	if _, err := social.UpdateField(t.store, name, field, value); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf(
				"❌ Person '%s' not found in social book. Use social_add_entry to create a new entry.", name)), nil
		}
		return failure("update person", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("✅ Updated %s's %s to: %s", name, field, value)), nil
}

// ─── ReminderScheduleTool ────────────────────────────────────────────────────

// ReminderScheduleTool handles the reminder_schedule MCP tool.
type ReminderScheduleTool struct {
	planner *planner.Planner
}

// NewReminderScheduleTool creates a ReminderScheduleTool.
func NewReminderScheduleTool(p *planner.Planner) *ReminderScheduleTool {
	return &ReminderScheduleTool{planner: p}
}

// Definition returns the MCP tool definition for reminder_schedule.
func (t *ReminderScheduleTool) Definition() mcp.Tool {
	return mcp.NewTool("reminder_schedule",
		mcp.WithDescription("Remember an important date such as a birthday or event, with a heads-up some days before."),
		mcp.WithString("person_name",
			mcp.Required(),
			mcp.Description("Who the event is about"),
		),
		mcp.WithString("event",
			mcp.Required(),
			mcp.Description("What happens (e.g. birthday, wedding)"),
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Event date (YYYY-MM-DD)"),
		),
		mcp.WithNumber("reminder_days",
			mcp.Description("Days of notice (default: 7)"),
		),
	)
}

// Handle processes the reminder_schedule tool call.
func (t *ReminderScheduleTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, msg, err := t.planner.ScheduleReminder(
		req.GetString("person_name", ""),
		req.GetString("event", ""),
		req.GetString("date", ""),
		intArg(req, "reminder_days", 7),
	)
	if err != nil {
		return failure("schedule reminder", err), nil
	}
	return mcp.NewToolResultText(msg), nil
}
