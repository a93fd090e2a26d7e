package bundle

import (
	"fmt"
	"sort"
	"strings"

	"github.com/HendryAvila/byebyeanxiety/internal/mention"
)

// MentionContext is the projection of one mentioned entity handed to the
// agent. The concrete types below are the only implementations.
type MentionContext interface {
	Kind() mention.Kind
	writeTo(b *strings.Builder)
}

// TaskContext projects a task mention from its insertion-time snapshot.
type TaskContext struct {
	Type        mention.Kind `json:"type"`
	Title       string       `json:"title"`
	ID          string       `json:"id"`
	Category    string       `json:"category"`
	DueDate     string       `json:"due_date"`
	Description string       `json:"description"`
}

// TodoListContext projects a todo-list mention.
type TodoListContext struct {
	Type      mention.Kind `json:"type"`
	Name      string       `json:"name"`
	ID        string       `json:"id"`
	TaskCount int          `json:"task_count"`
}

// PersonContext projects a person, re-read from the social book.
type PersonContext struct {
	Type             mention.Kind      `json:"type"`
	Name             string            `json:"name"`
	ID               string            `json:"id"`
	PersonalInfo     string            `json:"personal_info"`
	Birthday         string            `json:"birthday"`
	BirthdayReminder bool              `json:"birthday_reminder"`
	Preferences      string            `json:"preferences"`
	Events           []string          `json:"events"`
	Notes            string            `json:"notes"`
	CustomFields     map[string]string `json:"custom_fields"`
}

// DiaryContext projects a diary date mention.
type DiaryContext struct {
	Type           mention.Kind `json:"type"`
	Date           string       `json:"date"`
	HasEntry       bool         `json:"has_entry"`
	ContentPreview string       `json:"content_preview"`
}

// CalendarTask is a task as shown inside a calendar mention.
type CalendarTask struct {
	Title     string `json:"title"`
	Category  string `json:"category"`
	Completed bool   `json:"completed"`
	StartDate string `json:"start_date"`
	DueDate   string `json:"due_date"`
}

// CalendarContext projects a calendar date mention.
type CalendarContext struct {
	Type      mention.Kind   `json:"type"`
	Date      string         `json:"date"`
	TaskCount int            `json:"task_count"`
	Tasks     []CalendarTask `json:"tasks"`
}

// DateContext projects a plain date mention.
type DateContext struct {
	Type mention.Kind `json:"type"`
	Date string       `json:"date"`
}

func (TaskContext) Kind() mention.Kind     { return mention.KindTask }
func (TodoListContext) Kind() mention.Kind { return mention.KindTodoList }
func (PersonContext) Kind() mention.Kind   { return mention.KindPerson }
func (DiaryContext) Kind() mention.Kind    { return mention.KindDiary }
func (CalendarContext) Kind() mention.Kind { return mention.KindCalendar }
func (DateContext) Kind() mention.Kind     { return mention.KindDate }

func (c TaskContext) writeTo(b *strings.Builder) {
	fmt.Fprintf(b, "- Task: %s (Category: %s, Due: %s)\n", c.Title, orNA(c.Category), orNA(c.DueDate))
	if c.Description != "" {
		fmt.Fprintf(b, "  Description: %s\n", c.Description)
	}
}

func (c TodoListContext) writeTo(b *strings.Builder) {
	fmt.Fprintf(b, "- TodoList: %s (%d tasks)\n", c.Name, c.TaskCount)
}

func (c PersonContext) writeTo(b *strings.Builder) {
	fmt.Fprintf(b, "- Person: %s\n", c.Name)
	if c.PersonalInfo != "" {
		fmt.Fprintf(b, "  Personal Info: %s\n", c.PersonalInfo)
	}
	if c.Birthday != "" {
		fmt.Fprintf(b, "  Birthday: %s\n", c.Birthday)
	}
	if c.Preferences != "" {
		fmt.Fprintf(b, "  Preferences: %s\n", c.Preferences)
	}
	if len(c.Events) > 0 {
		fmt.Fprintf(b, "  Events: %s\n", strings.Join(c.Events, ", "))
	}
	if c.Notes != "" {
		fmt.Fprintf(b, "  Notes: %s\n", c.Notes)
	}
	keys := make([]string, 0, len(c.CustomFields))
	for k := range c.CustomFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "  %s: %s\n", k, c.CustomFields[k])
	}
}

func (c DiaryContext) writeTo(b *strings.Builder) {
	fmt.Fprintf(b, "- Diary Entry: %s\n", c.Date)
	if c.HasEntry {
		fmt.Fprintf(b, "  Content Preview: %s\n", c.ContentPreview)
	}
}

// calendarListed is how many task titles a calendar mention spells out.
const calendarListed = 5

func (c CalendarContext) writeTo(b *strings.Builder) {
	fmt.Fprintf(b, "- Calendar: %s (%d tasks)\n", c.Date, c.TaskCount)
	for i, t := range c.Tasks {
		if i == calendarListed {
			break
		}
		fmt.Fprintf(b, "  - %s\n", t.Title)
	}
}

func (c DateContext) writeTo(b *strings.Builder) {
	fmt.Fprintf(b, "- Date: %s\n", c.Date)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
