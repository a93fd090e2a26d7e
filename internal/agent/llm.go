// Package agent is the façade over the language model: a single
// text-in/text-out capability plus the two personas built on it.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("agent: empty response")

// Turn is one earlier message of a conversation. Role is store.RoleUser or
// store.RoleAssistant.
type Turn struct {
	Role string
	Text string
}

// Request is a single generation request.
type Request struct {
	System  string
	History []Turn
	Prompt  string
}

// LLM generates a reply for a request. Implementations must be safe for
// concurrent use.
type LLM interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// TurnsFromHistory converts stored chat messages into conversation turns.
// Messages with other roles are skipped.
func TurnsFromHistory(msgs []store.ChatMessage) []Turn {
	turns := make([]Turn, 0, len(msgs))
	for _, m := range msgs {
		if m.Role != store.RoleUser && m.Role != store.RoleAssistant {
			continue
		}
		turns = append(turns, Turn{Role: m.Role, Text: m.Content})
	}
	return turns
}

// ─── Mock ────────────────────────────────────────────────────────────────────

// Mock is a deterministic LLM for tests and keyless runs.
type Mock struct {
	// Reply overrides the default echo.
	Reply func(req Request) (string, error)

	mu    sync.Mutex
	calls []Request
}

// NewMock returns a Mock that echoes the first line of each prompt.
func NewMock() *Mock {
	return &Mock{}
}

// Generate implements LLM.
func (m *Mock) Generate(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	reply := m.Reply
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if reply != nil {
		return reply(req)
	}
	first, _, _ := strings.Cut(strings.TrimSpace(req.Prompt), "\n")
	return fmt.Sprintf("I hear you: %q. Tell me a little more about how that feels.", first), nil
}

// Calls returns every request received so far.
func (m *Mock) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}
