// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts and resources that depend on them.
// No business logic lives here, only wiring.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/HendryAvila/byebyeanxiety/internal/agent"
	"github.com/HendryAvila/byebyeanxiety/internal/bundle"
	"github.com/HendryAvila/byebyeanxiety/internal/chat"
	"github.com/HendryAvila/byebyeanxiety/internal/config"
	"github.com/HendryAvila/byebyeanxiety/internal/mention"
	"github.com/HendryAvila/byebyeanxiety/internal/planner"
	"github.com/HendryAvila/byebyeanxiety/internal/prompts"
	"github.com/HendryAvila/byebyeanxiety/internal/resources"
	"github.com/HendryAvila/byebyeanxiety/internal/store"
	"github.com/HendryAvila/byebyeanxiety/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// SettingGeminiAPIKey is the store setting read when neither the config
// file nor the environment carries a Gemini key.
const SettingGeminiAPIKey = "gemini_api_key"

// App holds the resolved dependencies shared by the MCP server and the
// command line.
type App struct {
	Config        *config.Config
	Log           *zap.Logger
	Store         *store.Store
	LLM           agent.LLM
	AnxietyKiller *agent.AnxietyKiller
	AskMe         *agent.AskMe
	Planner       *planner.Planner
	Hub           *chat.Hub
	Now           func() time.Time
}

// NewApp opens the store and builds every component from cfg.
func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	st, err := store.New(store.Config{DataDir: cfg.DataDir})
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	log.Info("store opened", zap.String("data_dir", cfg.DataDir))

	llm, err := newLLM(ctx, cfg, st, log)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	now := time.Now
	ak := agent.NewAnxietyKiller(llm, cfg.Preferences, log.Named("anxiety_killer"))
	askMe := agent.NewAskMe(llm, cfg.AskMeInstructions)
	hub := chat.NewHub(chat.Config{
		IdleTTL:         cfg.Chat.IdleTTL,
		CleanupInterval: chat.DefaultConfig().CleanupInterval,
		HistoryTurns:    cfg.Chat.HistoryTurns,
	}, chat.Deps{
		Scanner:       mention.NewScanner(st, log.Named("mention")),
		Lookup:        mention.StoreLookup{Store: st},
		Assembler:     bundle.NewAssembler(st, now, log.Named("bundle")),
		History:       st,
		AnxietyKiller: ak,
		AskMe:         askMe,
		Now:           now,
		Log:           log.Named("chat"),
	})

	return &App{
		Config:        cfg,
		Log:           log,
		Store:         st,
		LLM:           llm,
		AnxietyKiller: ak,
		AskMe:         askMe,
		Planner:       planner.New(st, now),
		Hub:           hub,
		Now:           now,
	}, nil
}

// newLLM picks the model backend. Without a key from the config or the
// store, the mock model answers.
func newLLM(ctx context.Context, cfg *config.Config, st *store.Store, log *zap.Logger) (agent.LLM, error) {
	if cfg.Provider != config.ProviderMock && cfg.GeminiAPIKey == "" {
		var key string
		ok, err := st.Setting(SettingGeminiAPIKey, &key)
		if err != nil {
			log.Warn("reading stored api key", zap.Error(err))
		} else if ok {
			cfg.GeminiAPIKey = key
		}
	}
	if cfg.UseMock() {
		log.Info("using mock model", zap.String("provider", cfg.Provider))
		return agent.NewMock(), nil
	}

	g, err := agent.NewGenAI(ctx, agent.GenAIConfig{APIKey: cfg.GeminiAPIKey, Model: cfg.Model})
	if err != nil {
		return nil, fmt.Errorf("creating model client: %w", err)
	}
	log.Info("using gemini", zap.String("model", g.Model()))
	return g, nil
}

// Close waits for in-flight replies and closes the store.
func (a *App) Close() error {
	a.Hub.Wait()
	return a.Store.Close()
}

// Tool is what every handler in the tools package provides.
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Tools returns every MCP tool handler, bound to the app.
func (a *App) Tools() []Tool {
	return []Tool{
		tools.NewMentionSuggestTool(a.Hub),
		tools.NewMentionInsertTool(a.Hub),
		tools.NewMentionResolveTool(a.Hub),
		tools.NewChatSendTool(a.Hub),
		tools.NewChatHistoryTool(a.Store),
		tools.NewChatConversationsTool(a.Store),
		tools.NewTaskCreateTool(a.Planner),
		tools.NewTaskCompleteTool(a.Planner, a.AnxietyKiller),
		tools.NewTodoListCreateTool(a.Planner),
		tools.NewTaskBreakdownTool(a.Planner, a.Store, a.AnxietyKiller),
		tools.NewDiaryAppendTool(a.Planner),
		tools.NewDailySummaryTool(a.Store, a.AnxietyKiller, a.Now, a.Log.Named("summary")),
		tools.NewSocialAddEntryTool(a.Store),
		tools.NewPersonUpdateTool(a.Store),
		tools.NewReminderScheduleTool(a.Planner),
		tools.NewFocusRecordTool(a.Planner),
		tools.NewFocusStatsTool(a.Store),
	}
}

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function waits for pending replies and closes the
// store. It is always non-nil.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*server.MCPServer, func(), error) {
	app, err := NewApp(ctx, cfg, log)
	if err != nil {
		return nil, noop, err
	}
	cleanup := func() {
		if err := app.Close(); err != nil {
			app.Log.Warn("closing app", zap.Error(err))
		}
	}
	return app.Server(), cleanup, nil
}

// Server builds the MCP server over an existing app.
func (a *App) Server() *server.MCPServer {
	s := server.NewMCPServer(
		"byebye",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	for _, t := range a.Tools() {
		s.AddTool(t.Definition(), t.Handle)
	}

	checkIn := prompts.NewCheckInPrompt(a.Config.Preferences)
	s.AddPrompt(checkIn.Definition(), checkIn.Handle)

	learn := prompts.NewLearnPrompt(a.Config.AskMeInstructions)
	s.AddPrompt(learn.Definition(), learn.Handle)

	rh := resources.NewHandler(a.Store, a.Now)
	s.AddResource(rh.TodayResource(), rh.HandleToday)
	s.AddResource(rh.SocialResource(), rh.HandleSocial)

	return s
}

// noop is the cleanup returned when construction fails.
func noop() {}

func serverInstructions() string {
	return `You have access to ByeBye Anxiety, a personal assistant for people with ADHD.
It keeps tasks, todo lists, a diary, a social book and focus sessions, and talks
through two personas: Anxiety Killer (supportive day-to-day help) and Ask Me (learning).

## Mentions
Users can point at their data with @mentions while composing a message:
1. Call mention_suggest with the text and cursor to list matching tasks, lists and people.
2. Call mention_insert with the chosen type and id. It rewrites the text to "@Friendly Name"
   and remembers the mention on that surface until the message is sent.
3. Call chat_send with the final text. Mentioned entities, today's tasks and today's diary
   are sent to Anxiety Killer along with the message.
Typing @type:id (for example @task:abc or @date:2026-10-19) works without mention_insert.
Use the same surface_id for all three calls.

## Tools
- Mentions: mention_suggest, mention_insert, mention_resolve
- Tasks: task_create, task_complete, todolist_create, task_breakdown
- Diary: diary_append, daily_summary
- Social book: social_add_entry, person_update, reminder_schedule
- Focus: focus_record, focus_stats
- Chat: chat_send, chat_history, chat_conversations

## Tone
Be warm and brief. Celebrate progress, never shame. Offer to break big tasks down.

## Resources
- byebye://today: today's tasks, diary, focus sessions and todo lists
- byebye://social: the social book and reminders`
}
