package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/byebyeanxiety/internal/chat"
	"github.com/HendryAvila/byebyeanxiety/internal/mention"
)

func surfaceArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("surface_id",
			mcp.Description("Chat surface composing the message; each surface has its own mention cache (default: mcp)"),
		),
	}
}

func surfaceOf(hub *chat.Hub, req mcp.CallToolRequest, persona chat.Persona) *chat.Surface {
	return hub.Surface(req.GetString("surface_id", DefaultSurface), persona)
}

// ─── MentionSuggestTool ──────────────────────────────────────────────────────

// MentionSuggestTool handles the mention_suggest MCP tool.
type MentionSuggestTool struct {
	hub *chat.Hub
}

// NewMentionSuggestTool creates a MentionSuggestTool.
func NewMentionSuggestTool(hub *chat.Hub) *MentionSuggestTool {
	return &MentionSuggestTool{hub: hub}
}

// Definition returns the MCP tool definition for mention_suggest.
func (t *MentionSuggestTool) Definition() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription(
			"List the tasks, todo lists and people matching the @mention being typed at the cursor. " +
				"Returns nothing when no mention is open.",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The message being composed"),
		),
		mcp.WithNumber("cursor",
			mcp.Description("Cursor position in characters (default: end of text)"),
		),
	}, surfaceArgs()...)
	return mcp.NewTool("mention_suggest", opts...)
}

// Handle processes the mention_suggest tool call.
func (t *MentionSuggestTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	cursor := intArg(req, "cursor", len([]rune(text)))

	cands := surfaceOf(t.hub, req, chat.PersonaAnxietyKiller).Suggest(text, cursor)
	if len(cands) == 0 {
		return mcp.NewToolResultText("No mention candidates."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Mention candidates (%d)\n\n", len(cands))
	for i, c := range cands {
		fmt.Fprintf(&b, "%d. %s `%s:%s`\n", i+1, c.Label, c.Kind, c.ID)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// ─── MentionInsertTool ───────────────────────────────────────────────────────

// MentionInsertTool handles the mention_insert MCP tool.
type MentionInsertTool struct {
	hub *chat.Hub
}

// NewMentionInsertTool creates a MentionInsertTool.
func NewMentionInsertTool(hub *chat.Hub) *MentionInsertTool {
	return &MentionInsertTool{hub: hub}
}

// Definition returns the MCP tool definition for mention_insert.
func (t *MentionInsertTool) Definition() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription(
			"Complete the @mention open at the cursor with an entity, replacing the typed query with its friendly name. " +
				"The surface remembers the mention until the message is sent.",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The message being composed"),
		),
		mcp.WithNumber("cursor",
			mcp.Description("Cursor position in characters (default: end of text)"),
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Entity type"),
			mcp.Enum(string(mention.KindTask), string(mention.KindTodoList), string(mention.KindPerson),
				string(mention.KindDiary), string(mention.KindCalendar), string(mention.KindDate)),
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entity id, or a YYYY-MM-DD date for diary, calendar and date"),
		),
	}, surfaceArgs()...)
	return mcp.NewTool("mention_insert", opts...)
}

// Handle processes the mention_insert tool call.
func (t *MentionInsertTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	cursor := intArg(req, "cursor", len([]rune(text)))
	kind, ok := mention.ParseKind(req.GetString("type", ""))
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown mention type %q", req.GetString("type", ""))), nil
	}
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	ins, err := surfaceOf(t.hub, req, chat.PersonaAnxietyKiller).InsertRef(text, cursor, kind, id)
	if errors.Is(err, mention.ErrNoMention) {
		return mcp.NewToolResultError("no @mention is open at the cursor"), nil
	}
	if err != nil {
		return failure(fmt.Sprintf("insert %s:%s", kind, id), err), nil
	}
	return jsonResult(ins)
}

// ─── MentionResolveTool ──────────────────────────────────────────────────────

// MentionResolveTool handles the mention_resolve MCP tool.
type MentionResolveTool struct {
	hub *chat.Hub
}

// NewMentionResolveTool creates a MentionResolveTool.
func NewMentionResolveTool(hub *chat.Hub) *MentionResolveTool {
	return &MentionResolveTool{hub: hub}
}

// Definition returns the MCP tool definition for mention_resolve.
func (t *MentionResolveTool) Definition() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription(
			"Show which entities the mentions in a message resolve to, without sending it. " +
				"Understands both @type:id and @FriendlyName forms.",
		),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("Message text"),
		),
	}, surfaceArgs()...)
	return mcp.NewTool("mention_resolve", opts...)
}

// Handle processes the mention_resolve tool call.
func (t *MentionResolveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m := surfaceOf(t.hub, req, chat.PersonaAnxietyKiller).Resolve(req.GetString("message", ""))
	if m.Len() == 0 {
		return mcp.NewToolResultText("No mentions resolved."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Resolved mentions (%d)\n\n", m.Len())
	for _, r := range m.Refs() {
		fmt.Fprintf(&b, "- `%s` %s\n", r.Key(), r.Name())
	}
	return mcp.NewToolResultText(b.String()), nil
}
