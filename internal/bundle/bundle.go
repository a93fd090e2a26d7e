// Package bundle assembles the per-message context handed to the agent:
// ambient state (today's tasks and diary) plus one projection per
// resolved mention. A Bundle lives for one request and is never stored.
package bundle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/HendryAvila/byebyeanxiety/internal/mention"
	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

const (
	// PreviewRunes is how much diary content a diary mention previews.
	PreviewRunes = 200
	// CalendarTasks caps the tasks listed in a calendar mention.
	CalendarTasks = 10
	noEntry       = "No entry yet"
)

// Source is the store surface the assembler reads.
type Source interface {
	TasksDueOn(date string) ([]store.Task, error)
	TasksOnDate(date string) ([]store.Task, error)
	GetPerson(id string) (*store.Person, error)
	GetDiaryEntry(date string) (*store.DiaryEntry, error)
}

// AmbientTask is one of today's tasks.
type AmbientTask struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Bundle is the context for one outgoing message.
type Bundle struct {
	Tasks []AmbientTask
	// RecentDiary is today's diary content; HasDiary reports whether an
	// entry exists at all.
	RecentDiary string
	HasDiary    bool

	keys     []string
	mentions map[string]MentionContext
}

// Keys returns the mention keys in order.
func (b *Bundle) Keys() []string {
	return append([]string(nil), b.keys...)
}

// Mention returns the projection stored under key ("type:id").
func (b *Bundle) Mention(key string) (MentionContext, bool) {
	c, ok := b.mentions[key]
	return c, ok
}

// Len returns the number of mention projections.
func (b *Bundle) Len() int {
	return len(b.keys)
}

func (b *Bundle) add(key string, c MentionContext) {
	if _, ok := b.mentions[key]; ok {
		return
	}
	b.keys = append(b.keys, key)
	b.mentions[key] = c
}

// Format renders the bundle as the text block appended to the prompt.
func (b *Bundle) Format() string {
	var sb strings.Builder
	sb.WriteString("\n\nCurrent Context:\n")
	sb.WriteString("Tasks: ")
	sb.WriteString(indentJSON(b.Tasks))
	sb.WriteString("\n")
	if b.HasDiary {
		sb.WriteString("Recent Diary: ")
		sb.WriteString(b.RecentDiary)
		sb.WriteString("\n")
	}
	if len(b.keys) > 0 {
		sb.WriteString("\nMentioned Items:\n")
		for _, k := range b.keys {
			b.mentions[k].writeTo(&sb)
		}
	}
	return sb.String()
}

func indentJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "[]"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// ─── Assembler ───────────────────────────────────────────────────────────────

// Assembler builds bundles from resolved mentions.
type Assembler struct {
	src Source
	now func() time.Time
	log *zap.Logger
}

// NewAssembler creates an Assembler. now defaults to time.Now.
func NewAssembler(src Source, now func() time.Time, log *zap.Logger) *Assembler {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{src: src, now: now, log: log}
}

// Assemble builds the bundle for one message. Store failures are logged
// and only shrink the context; it never fails.
func (a *Assembler) Assemble(ctx context.Context, mentions *mention.Mentions) *Bundle {
	today := a.now().Format(store.DateLayout)
	b := &Bundle{Tasks: []AmbientTask{}, mentions: map[string]MentionContext{}}

	if tasks, err := a.src.TasksDueOn(today); err != nil {
		a.log.Warn("bundle: ambient tasks unavailable", zap.Error(err))
	} else {
		for _, t := range tasks {
			b.Tasks = append(b.Tasks, AmbientTask{Title: t.Title, Completed: t.Completed})
		}
	}

	if e, err := a.src.GetDiaryEntry(today); err == nil {
		b.HasDiary = true
		b.RecentDiary = e.Content
	} else if !errors.Is(err, store.ErrNotFound) {
		a.log.Warn("bundle: today's diary unavailable", zap.Error(err))
	}

	for _, r := range mentions.Refs() {
		if err := ctx.Err(); err != nil {
			a.log.Warn("bundle: assembly interrupted", zap.Error(err))
			break
		}
		if c := a.project(r); c != nil {
			b.add(r.Key(), c)
		}
	}
	return b
}

func (a *Assembler) project(r mention.Ref) MentionContext {
	switch r.Kind {
	case mention.KindTask:
		if r.Task == nil {
			return nil
		}
		t := r.Task
		return TaskContext{
			Type: mention.KindTask, Title: t.Title, ID: t.ID, Category: t.Category,
			DueDate: t.DueDate, Description: t.Description,
		}

	case mention.KindTodoList:
		if r.TodoList == nil {
			return nil
		}
		return TodoListContext{
			Type: mention.KindTodoList, Name: r.TodoList.Name, ID: r.TodoList.ID,
			TaskCount: len(r.TodoList.Tasks),
		}

	case mention.KindPerson:
		p, err := a.src.GetPerson(r.ID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				a.log.Warn("bundle: person unavailable, using snapshot", zap.String("id", r.ID), zap.Error(err))
			}
			p = r.Person
		}
		if p == nil {
			return nil
		}
		return personContext(p)

	case mention.KindDiary:
		c := DiaryContext{Type: mention.KindDiary, Date: r.ID, ContentPreview: noEntry}
		e, err := a.src.GetDiaryEntry(r.ID)
		switch {
		case err == nil:
			c.HasEntry = true
			if e.Content != "" {
				c.ContentPreview = preview(e.Content)
			}
		case !errors.Is(err, store.ErrNotFound):
			a.log.Warn("bundle: diary unavailable", zap.String("date", r.ID), zap.Error(err))
		}
		return c

	case mention.KindCalendar:
		c := CalendarContext{Type: mention.KindCalendar, Date: r.ID, Tasks: []CalendarTask{}}
		tasks, err := a.src.TasksOnDate(r.ID)
		if err != nil {
			a.log.Warn("bundle: calendar tasks unavailable", zap.String("date", r.ID), zap.Error(err))
		}
		c.TaskCount = len(tasks)
		for i, t := range tasks {
			if i == CalendarTasks {
				break
			}
			c.Tasks = append(c.Tasks, CalendarTask{
				Title: t.Title, Category: t.Category, Completed: t.Completed,
				StartDate: t.StartDate, DueDate: t.DueDate,
			})
		}
		return c

	case mention.KindDate:
		return DateContext{Type: mention.KindDate, Date: r.ID}
	}
	return nil
}

func personContext(p *store.Person) PersonContext {
	events := p.Events
	if events == nil {
		events = []string{}
	}
	custom := p.CustomFields
	if custom == nil {
		custom = map[string]string{}
	}
	return PersonContext{
		Type:             mention.KindPerson,
		Name:             p.Name,
		ID:               p.ID,
		PersonalInfo:     p.PersonalInfo,
		Birthday:         p.Birthday,
		BirthdayReminder: p.BirthdayReminder,
		Preferences:      p.Preferences,
		Events:           events,
		Notes:            p.Notes,
		CustomFields:     custom,
	}
}

// preview returns the first PreviewRunes runes of s, with "..." appended
// only when something was cut.
func preview(s string) string {
	if utf8.RuneCountInString(s) <= PreviewRunes {
		return s
	}
	return string([]rune(s)[:PreviewRunes]) + "..."
}
