package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/byebyeanxiety/internal/agent"
	"github.com/HendryAvila/byebyeanxiety/internal/chat"
	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

func personaArg(description string) mcp.ToolOption {
	return mcp.WithString("persona",
		mcp.Description(description),
		mcp.DefaultString(string(chat.PersonaAnxietyKiller)),
		mcp.Enum(string(chat.PersonaAnxietyKiller), string(chat.PersonaAskMe)),
	)
}

// ─── ChatSendTool ────────────────────────────────────────────────────────────

// ChatSendTool handles the chat_send MCP tool.
type ChatSendTool struct {
	hub *chat.Hub
}

// NewChatSendTool creates a ChatSendTool.
func NewChatSendTool(hub *chat.Hub) *ChatSendTool {
	return &ChatSendTool{hub: hub}
}

// Definition returns the MCP tool definition for chat_send.
func (t *ChatSendTool) Definition() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription(
			"Send a message to Anxiety Killer (supportive day-to-day assistant) or Ask Me (learning assistant). " +
				"Mentions inserted with mention_insert are resolved and their details sent along with today's tasks and diary.",
		),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("Message text, may contain @mentions"),
		),
		personaArg("Who to talk to"),
		mcp.WithString("message_type",
			mcp.Description("Intent hint for Anxiety Killer: free, chat (diary entry), inspiration (save idea), task (create task)"),
			mcp.DefaultString(string(agent.MessageFree)),
			mcp.Enum(string(agent.MessageFree), string(agent.MessageChat), string(agent.MessageInspiration), string(agent.MessageTask)),
		),
		mcp.WithString("conversation_id",
			mcp.Description("Conversation to continue (default: main)"),
		),
	}, surfaceArgs()...)
	return mcp.NewTool("chat_send", opts...)
}

// Handle processes the chat_send tool call.
func (t *ChatSendTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message := req.GetString("message", "")
	if strings.TrimSpace(message) == "" {
		return mcp.NewToolResultError("'message' is required"), nil
	}
	persona, err := chat.ParsePersona(req.GetString("persona", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s := surfaceOf(t.hub, req, persona).InConversation(req.GetString("conversation_id", ""))
	res, err := s.Send(ctx, message, agent.ParseMessageType(req.GetString("message_type", "")))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to send message: %v", err)), nil
	}

	text := res.Reply.Content
	if len(res.Mentions) > 0 {
		text += fmt.Sprintf("\n\n_Context included for: %s_", strings.Join(res.Mentions, ", "))
	}
	return mcp.NewToolResultText(text), nil
}

// ─── ChatHistoryTool ─────────────────────────────────────────────────────────

// ChatHistoryTool handles the chat_history MCP tool.
type ChatHistoryTool struct {
	store *store.Store
}

// NewChatHistoryTool creates a ChatHistoryTool.
func NewChatHistoryTool(s *store.Store) *ChatHistoryTool {
	return &ChatHistoryTool{store: s}
}

// Definition returns the MCP tool definition for chat_history.
func (t *ChatHistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("chat_history",
		mcp.WithDescription("Show earlier messages with a persona, oldest first. Mentions are kept exactly as typed."),
		personaArg("Whose history to show"),
		mcp.WithString("conversation_id",
			mcp.Description("Conversation id (default: every conversation)"),
		),
		mcp.WithString("date",
			mcp.Description("Only messages from this day (YYYY-MM-DD)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Only the last N messages (default: 50, 0 for all)"),
		),
	)
}

// Handle processes the chat_history tool call.
func (t *ChatHistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	persona, err := chat.ParsePersona(req.GetString("persona", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	msgs, err := t.store.ChatHistory(store.HistoryQuery{
		Agent:          string(persona),
		ConversationID: req.GetString("conversation_id", ""),
		Date:           req.GetString("date", ""),
		Limit:          intArg(req, "limit", 50),
	})
	if err != nil {
		return failure("load chat history", err), nil
	}
	if len(msgs) == 0 {
		return mcp.NewToolResultText("No messages yet."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Chat history (%d)\n\n", len(msgs))
	for _, m := range msgs {
		who := "You"
		if m.Role == store.RoleAssistant {
			who = "AI"
		}
		fmt.Fprintf(&b, "**%s** [%s] (%s): %s\n", who, m.ConversationID, m.Timestamp, m.Content)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// ─── ChatConversationsTool ───────────────────────────────────────────────────

// ChatConversationsTool handles the chat_conversations MCP tool.
type ChatConversationsTool struct {
	store *store.Store
}

// NewChatConversationsTool creates a ChatConversationsTool.
func NewChatConversationsTool(s *store.Store) *ChatConversationsTool {
	return &ChatConversationsTool{store: s}
}

// Definition returns the MCP tool definition for chat_conversations.
func (t *ChatConversationsTool) Definition() mcp.Tool {
	return mcp.NewTool("chat_conversations",
		mcp.WithDescription("List a persona's conversations, most recent first, or delete one."),
		personaArg("Whose conversations"),
		mcp.WithString("delete",
			mcp.Description("Conversation id to delete"),
		),
	)
}

// Handle processes the chat_conversations tool call.
func (t *ChatConversationsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	persona, err := chat.ParsePersona(req.GetString("persona", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if id := req.GetString("delete", ""); id != "" {
		n, err := t.store.DeleteConversation(string(persona), id)
		if err != nil {
			return failure("delete conversation", err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Deleted conversation %q (%d messages).", id, n)), nil
	}

	ids, err := t.store.Conversations(string(persona))
	if err != nil {
		return failure("list conversations", err), nil
	}
	if len(ids) == 0 {
		return mcp.NewToolResultText("No conversations yet."), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Conversations (%d)\n\n", len(ids))
	for _, id := range ids {
		fmt.Fprintf(&b, "- %s\n", id)
	}
	return mcp.NewToolResultText(b.String()), nil
}
