package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/HendryAvila/byebyeanxiety/internal/agent"
	"github.com/HendryAvila/byebyeanxiety/internal/mention"
	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

// Surface is one place where the user composes messages.
type Surface struct {
	hub          *Hub
	id           string
	persona      Persona
	conversation string
}

// ID returns the surface id.
func (s *Surface) ID() string { return s.id }

// Persona returns the agent behind the surface.
func (s *Surface) Persona() Persona { return s.persona }

// InConversation returns a copy of the surface bound to another
// conversation id. Empty means the default conversation.
func (s *Surface) InConversation(id string) *Surface {
	c := *s
	c.conversation = id
	if c.conversation == "" {
		c.conversation = store.DefaultConversation
	}
	return &c
}

// Suggest returns the mention candidates at cursor.
func (s *Surface) Suggest(text string, cursor int) []mention.Candidate {
	return s.hub.deps.Scanner.Scan(text, cursor)
}

// Insert completes the mention open at cursor with cand.
func (s *Surface) Insert(text string, cursor int, cand mention.Candidate) (mention.Insertion, error) {
	return s.hub.mentionCache(s.id).Insert(text, cursor, cand)
}

// InsertRef completes the mention open at cursor with the entity kind/id,
// looked up live.
func (s *Surface) InsertRef(text string, cursor int, kind mention.Kind, id string) (mention.Insertion, error) {
	if s.hub.deps.Lookup == nil {
		return mention.Insertion{}, fmt.Errorf("chat: insert %s:%s: no lookup configured", kind, id)
	}
	ref, ok := s.hub.deps.Lookup.Resolve(kind, id)
	if !ok {
		return mention.Insertion{}, fmt.Errorf("chat: insert %s:%s: %w", kind, id, store.ErrNotFound)
	}
	return s.Insert(text, cursor, mention.CandidateFor(ref, s.hub.deps.Now()))
}

// Resolve parses the mentions of message without dispatching it.
func (s *Surface) Resolve(message string) *mention.Mentions {
	return s.hub.mentionCache(s.id).Parse(message)
}

// Result is the outcome of one dispatched message.
type Result struct {
	User     store.ChatMessage
	Reply    store.ChatMessage
	Mentions []string
	Err      error
}

// Dispatch sends message to the surface's persona. The user message is
// stored before Dispatch returns; the reply arrives on the channel, which
// receives exactly one Result and is then closed. The mention cache is
// reset once the user message is stored.
func (s *Surface) Dispatch(ctx context.Context, message string, mt agent.MessageType) (<-chan Result, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}
	h := s.hub
	log := h.log.With(zap.String("surface", s.id), zap.String("persona", string(s.persona)))

	var (
		generate func(context.Context) (string, error)
		keys     []string
		mc       *mention.Cache
	)
	switch s.persona {
	case PersonaAskMe:
		if h.deps.AskMe == nil {
			return nil, fmt.Errorf("chat: dispatch: ask me persona not configured")
		}
		turns, err := s.turns()
		if err != nil {
			return nil, err
		}
		generate = func(ctx context.Context) (string, error) {
			return h.deps.AskMe.Ask(ctx, message, turns)
		}

	default:
		if h.deps.AnxietyKiller == nil {
			return nil, fmt.Errorf("chat: dispatch: anxiety killer persona not configured")
		}
		mc = h.mentionCache(s.id)
		mentions := mc.Parse(message)
		keys = mentions.Keys()
		prompt := agent.Prompt(message, mt, h.deps.Assembler.Assemble(ctx, mentions))
		generate = func(ctx context.Context) (string, error) {
			return h.deps.AnxietyKiller.Send(ctx, prompt)
		}
	}

	user := store.ChatMessage{
		Agent:          string(s.persona),
		ConversationID: s.conversation,
		Role:           store.RoleUser,
		Content:        message,
	}
	if err := h.deps.History.AppendChatMessage(&user); err != nil {
		return nil, fmt.Errorf("chat: dispatch: save message: %w", err)
	}
	if mc != nil {
		mc.Reset()
	}
	log.Debug("chat: dispatching", zap.Int("mentions", len(keys)))

	out := make(chan Result, 1)
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer close(out)

		res := Result{User: user, Mentions: keys}
		text, err := generate(ctx)
		if err != nil {
			log.Warn("chat: agent failed", zap.Error(err))
			res.Err = err
			out <- res
			return
		}
		res.Reply = store.ChatMessage{
			Agent:          string(s.persona),
			ConversationID: s.conversation,
			Role:           store.RoleAssistant,
			Content:        text,
		}
		if err := h.deps.History.AppendChatMessage(&res.Reply); err != nil {
			log.Warn("chat: reply not saved", zap.Error(err))
		}
		out <- res
	}()
	return out, nil
}

// Send dispatches message and waits for the reply.
func (s *Surface) Send(ctx context.Context, message string, mt agent.MessageType) (Result, error) {
	ch, err := s.Dispatch(ctx, message, mt)
	if err != nil {
		return Result{}, err
	}
	res := <-ch
	return res, res.Err
}

// turns loads the recent conversation for an Ask Me question.
func (s *Surface) turns() ([]agent.Turn, error) {
	msgs, err := s.hub.deps.History.ChatHistory(store.HistoryQuery{
		Agent:          string(s.persona),
		ConversationID: s.conversation,
		Limit:          s.hub.cfg.HistoryTurns,
	})
	if err != nil {
		return nil, fmt.Errorf("chat: dispatch: load history: %w", err)
	}
	return agent.TurnsFromHistory(msgs), nil
}
