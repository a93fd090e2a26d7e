// Package resources implements MCP resource handlers.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (byebye://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

// Source is the store surface the resources read from.
type Source interface {
	TasksOnDate(date string) ([]store.Task, error)
	TasksCompletedOn(date string) ([]store.Task, error)
	GetDiaryEntry(date string) (*store.DiaryEntry, error)
	FocusSessionsOn(date string) ([]store.FocusSession, error)
	TodoLists() ([]store.TodoList, error)
	People() ([]store.Person, error)
	Reminders() ([]store.Reminder, error)
}

// Handler manages resource endpoints.
type Handler struct {
	src Source
	now func() time.Time
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(src Source, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{src: src, now: now}
}

// Today is the snapshot served by byebye://today.
type Today struct {
	Date      string               `json:"date"`
	Tasks     []store.Task         `json:"tasks"`
	Completed []store.Task         `json:"completed"`
	Diary     *store.DiaryEntry    `json:"diary,omitempty"`
	Focus     []store.FocusSession `json:"focus_sessions"`
	TodoLists []store.TodoList     `json:"todo_lists"`
}

// Social is the snapshot served by byebye://social.
type Social struct {
	People    []store.Person   `json:"people"`
	Reminders []store.Reminder `json:"reminders"`
}

// TodayResource returns the MCP resource definition for today's overview.
func (h *Handler) TodayResource() mcp.Resource {
	return mcp.NewResource(
		"byebye://today",
		"Today",
		mcp.WithResourceDescription("Today's tasks, completed tasks, diary entry, focus sessions and todo lists"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleToday returns today's overview as JSON.
func (h *Handler) HandleToday(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	date := h.now().Format(store.DateLayout)
	t := Today{Date: date}

	var err error
	if t.Tasks, err = h.src.TasksOnDate(date); err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if t.Completed, err = h.src.TasksCompletedOn(date); err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if t.Focus, err = h.src.FocusSessionsOn(date); err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if t.TodoLists, err = h.src.TodoLists(); err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	t.Diary, err = h.src.GetDiaryEntry(date)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonContents(req.Params.URI, t)
}

// SocialResource returns the MCP resource definition for the social book.
func (h *Handler) SocialResource() mcp.Resource {
	return mcp.NewResource(
		"byebye://social",
		"Social Book",
		mcp.WithResourceDescription("Everyone in the social book and the scheduled reminders"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleSocial returns the social book as JSON.
func (h *Handler) HandleSocial(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	var (
		s   Social
		err error
	)
	if s.People, err = h.src.People(); err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if s.Reminders, err = h.src.Reminders(); err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonContents(req.Params.URI, s)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
