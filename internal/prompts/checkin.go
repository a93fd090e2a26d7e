// Package prompts implements MCP prompt handlers.
//
// MCP prompts are user-triggered workflows (like slash commands). Each
// one opens a conversation with one of the personas, carrying its
// system prompt so any host can play the persona.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/byebyeanxiety/internal/agent"
)

// CheckInPrompt handles the anxiety-killer MCP prompt.
// It starts a supportive check-in with the Anxiety Killer persona.
type CheckInPrompt struct {
	preferences string
}

// NewCheckInPrompt creates a CheckInPrompt with the user's preferences.
func NewCheckInPrompt(preferences string) *CheckInPrompt {
	return &CheckInPrompt{preferences: preferences}
}

// Definition returns the MCP prompt definition for registration.
func (p *CheckInPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("anxiety-killer",
		mcp.WithPromptDescription(
			"Check in with Anxiety Killer. Talks through how you feel, "+
				"then looks at today's tasks and diary together.",
		),
		mcp.WithArgument("mood",
			mcp.ArgumentDescription("How you feel right now, in a few words"),
		),
	)
}

// Handle processes the anxiety-killer prompt request.
func (p *CheckInPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	mood := ""
	if args := req.Params.Arguments; args != nil {
		mood = strings.TrimSpace(args["mood"])
	}

	var b strings.Builder
	b.WriteString(agent.AnxietyKillerSystem(p.preferences))
	b.WriteString("\n\n---\n\n")
	b.WriteString("Read the byebye://today resource to see my tasks, diary and focus for today. ")
	b.WriteString("Use chat_send to keep our conversation in my history, and the task, diary and social tools to act on what I ask.\n\n")
	if mood != "" {
		fmt.Fprintf(&b, "Right now I feel: %s\n", mood)
	} else {
		b.WriteString("Start by asking me how I feel today.\n")
	}

	return &mcp.GetPromptResult{
		Description: "Anxiety Killer check-in",
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(b.String()),
			},
		},
	}, nil
}
