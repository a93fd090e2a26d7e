package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/byebyeanxiety/internal/agent"
)

// LearnPrompt handles the ask-me MCP prompt.
// It opens a learning session with the Ask Me persona.
type LearnPrompt struct {
	instructions string
}

// NewLearnPrompt creates a LearnPrompt with the user's custom instructions.
func NewLearnPrompt(instructions string) *LearnPrompt {
	return &LearnPrompt{instructions: instructions}
}

// Definition returns the MCP prompt definition for registration.
func (p *LearnPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("ask-me",
		mcp.WithPromptDescription(
			"Learn something with Ask Me. Explanations come in small chunks "+
				"with analogies and a quick recap.",
		),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("What you want to understand"),
		),
		mcp.WithArgument("mode",
			mcp.ArgumentDescription("'explain' for an overview or 'breakdown' for step-by-step parts. Default: explain"),
		),
	)
}

// Handle processes the ask-me prompt request.
func (p *LearnPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic, mode := "", "explain"
	if args := req.Params.Arguments; args != nil {
		topic = strings.TrimSpace(args["topic"])
		if m := strings.TrimSpace(args["mode"]); m != "" {
			mode = m
		}
	}

	var b strings.Builder
	b.WriteString(agent.AskMeSystem(p.instructions))
	b.WriteString("\n\n---\n\n")
	b.WriteString("Use chat_send with persona ask_me so our conversation is remembered.\n\n")
	switch {
	case topic == "":
		b.WriteString("Ask me what I'd like to learn today.\n")
	case mode == "breakdown":
		fmt.Fprintf(&b, "Break down the concept \"%s\" into simple, digestible parts, one step at a time.\n", topic)
	default:
		fmt.Fprintf(&b, "Explain \"%s\" in a clear, ADHD-friendly way.\n", topic)
	}

	return &mcp.GetPromptResult{
		Description: "Ask Me learning session",
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(b.String()),
			},
		},
	}, nil
}
