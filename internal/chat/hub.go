// Package chat ties the mention pipeline to the personas. Each chat
// surface (an Anxiety Killer window, an Ask Me window, an MCP client
// session) owns its own mention cache; dispatching a message parses its
// mentions, assembles the context and hands the prompt to a goroutine
// that talks to the model.
package chat

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/HendryAvila/byebyeanxiety/internal/agent"
	"github.com/HendryAvila/byebyeanxiety/internal/bundle"
	"github.com/HendryAvila/byebyeanxiety/internal/mention"
	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

// Persona selects the agent behind a surface.
type Persona string

const (
	PersonaAnxietyKiller Persona = bundle.AgentAnxietyKiller
	PersonaAskMe         Persona = bundle.AgentAskMe
)

// ParsePersona validates a persona name.
func ParsePersona(s string) (Persona, error) {
	switch p := Persona(s); p {
	case PersonaAnxietyKiller, PersonaAskMe:
		return p, nil
	case "":
		return PersonaAnxietyKiller, nil
	}
	return "", fmt.Errorf("chat: unknown persona %q", s)
}

// ErrEmptyMessage is returned when dispatching a blank message.
var ErrEmptyMessage = errors.New("chat: empty message")

// History is where chat messages are kept.
type History interface {
	AppendChatMessage(m *store.ChatMessage) error
	ChatHistory(q store.HistoryQuery) ([]store.ChatMessage, error)
}

// Config tunes a Hub.
type Config struct {
	// IdleTTL is how long an untouched surface keeps its mention cache.
	IdleTTL time.Duration
	// CleanupInterval is how often expired caches are purged; zero
	// disables the background purge.
	CleanupInterval time.Duration
	// HistoryTurns caps the earlier messages sent with an Ask Me question.
	HistoryTurns int
}

// DefaultConfig returns the Hub defaults.
func DefaultConfig() Config {
	return Config{
		IdleTTL:         30 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		HistoryTurns:    20,
	}
}

// Deps are the collaborators a Hub needs.
type Deps struct {
	Scanner       *mention.Scanner
	Lookup        mention.Lookup
	Assembler     *bundle.Assembler
	History       History
	AnxietyKiller *agent.AnxietyKiller
	AskMe         *agent.AskMe
	Now           func() time.Time
	Log           *zap.Logger
}

// Hub owns the chat surfaces.
type Hub struct {
	deps   Deps
	cfg    Config
	log    *zap.Logger
	mu     sync.Mutex
	caches *cache.Cache
	wg     sync.WaitGroup
}

// NewHub creates a Hub.
func NewHub(cfg Config, deps Deps) *Hub {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultConfig().IdleTTL
	}
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = DefaultConfig().HistoryTurns
	}

	h := &Hub{
		deps:   deps,
		cfg:    cfg,
		log:    deps.Log,
		caches: cache.New(cfg.IdleTTL, cfg.CleanupInterval),
	}
	h.caches.OnEvicted(func(id string, v interface{}) {
		if c, ok := v.(*mention.Cache); ok {
			c.Reset()
		}
		h.log.Debug("chat: surface cache evicted", zap.String("surface", id))
	})
	return h
}

// Surface returns the surface with the given id, talking to persona, in
// the default conversation.
func (h *Hub) Surface(id string, persona Persona) *Surface {
	return &Surface{hub: h, id: id, persona: persona, conversation: store.DefaultConversation}
}

// Wait blocks until every dispatched request has finished.
func (h *Hub) Wait() {
	h.wg.Wait()
}

// Surfaces returns the number of surfaces holding a live mention cache.
func (h *Hub) Surfaces() int {
	return h.caches.ItemCount()
}

// Forget drops a surface's mention cache.
func (h *Hub) Forget(id string) {
	h.caches.Delete(id)
}

// mentionCache returns the surface's cache, creating it on first use.
// Every access pushes the idle expiry back.
func (h *Hub) mentionCache(id string) *mention.Cache {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.caches.Get(id)
	mc, _ := c.(*mention.Cache)
	if !ok || mc == nil {
		mc = mention.NewCache(h.deps.Lookup)
	}
	h.caches.Set(id, mc, cache.DefaultExpiration)
	return mc
}
