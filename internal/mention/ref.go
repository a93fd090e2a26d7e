// Package mention turns @-references in chat input into entity references.
//
// A Scanner proposes candidates while the user is typing a mention. A Cache
// records the candidates the user picked and, once the message is final,
// parses it back into the ordered set of mentions it still contains.
//
// Two wire forms exist and are persisted verbatim in chat history:
//
//	@task:3f2c...      code form, type and stable id
//	@Buy groceries     friendly form, the inserted display name
package mention

import (
	"strings"
	"time"
	"unicode"

	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

// Kind is the type of a mentioned entity.
type Kind string

// Mentionable kinds.
const (
	KindTask     Kind = "task"
	KindTodoList Kind = "todolist"
	KindPerson   Kind = "person"
	KindDiary    Kind = "diary"
	KindCalendar Kind = "calendar"
	KindDate     Kind = "date"
)

// ParseKind reports whether s names a mentionable kind.
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(s); k {
	case KindTask, KindTodoList, KindPerson, KindDiary, KindCalendar, KindDate:
		return k, true
	}
	return "", false
}

// IsDate reports whether the kind refers to a date rather than an entity.
func (k Kind) IsDate() bool {
	return k == KindDiary || k == KindCalendar || k == KindDate
}

// Ref is a reference to one mentioned entity. ID is the entity id, or the
// date (YYYY-MM-DD) for date kinds. Exactly one snapshot field is set for
// entity kinds; they hold the state captured when the mention was inserted.
type Ref struct {
	Kind     Kind            `json:"type"`
	ID       string          `json:"id"`
	Task     *store.Task     `json:"task,omitempty"`
	TodoList *store.TodoList `json:"todolist,omitempty"`
	Person   *store.Person   `json:"person,omitempty"`
}

// Key returns the canonical "type:id" key.
func (r Ref) Key() string {
	return string(r.Kind) + ":" + r.ID
}

// Name returns the display name of the referenced entity.
func (r Ref) Name() string {
	switch {
	case r.Task != nil:
		return r.Task.Title
	case r.TodoList != nil:
		return r.TodoList.Name
	case r.Person != nil:
		return r.Person.Name
	}
	return r.ID
}

// TaskRef builds a reference to a task.
func TaskRef(t store.Task) Ref {
	return Ref{Kind: KindTask, ID: t.ID, Task: &t}
}

// TodoListRef builds a reference to a todo-list.
func TodoListRef(l store.TodoList) Ref {
	return Ref{Kind: KindTodoList, ID: l.ID, TodoList: &l}
}

// PersonRef builds a reference to a person.
func PersonRef(p store.Person) Ref {
	return Ref{Kind: KindPerson, ID: p.ID, Person: &p}
}

// DateRef builds a reference to a date of the given date kind.
func DateRef(k Kind, date string) Ref {
	return Ref{Kind: k, ID: date}
}

// ─── Candidates ──────────────────────────────────────────────────────────────

// Candidate is one entry of the completion list.
type Candidate struct {
	Kind  Kind   `json:"type"`
	ID    string `json:"id"`
	Label string `json:"label"`
	Ref   Ref    `json:"-"`
}

const (
	taskEmoji     = "📋"
	todoListEmoji = "📚"
	personEmoji   = "👤"
	diaryEmoji    = "📔"
	calendarEmoji = "📅"
)

func newCandidate(r Ref, emoji string) Candidate {
	return Candidate{Kind: r.Kind, ID: r.ID, Label: emoji + " " + r.Name(), Ref: r}
}

// CandidateFor rebuilds the completion entry for a resolved reference.
func CandidateFor(r Ref, today time.Time) Candidate {
	switch r.Kind {
	case KindTask:
		return newCandidate(r, taskEmoji)
	case KindTodoList:
		return newCandidate(r, todoListEmoji)
	case KindPerson:
		return newCandidate(r, personEmoji)
	}
	return DateCandidate(r.Kind, r.ID, today)
}

// DateCandidate builds the completion entry for a date mention. Today,
// tomorrow and yesterday get a relative label with the date in
// parentheses; other dates are shown as is.
func DateCandidate(k Kind, date string, today time.Time) Candidate {
	var emoji, title string
	switch k {
	case KindDiary:
		emoji, title = diaryEmoji, "Diary"
	case KindCalendar:
		emoji, title = calendarEmoji, "Calendar"
	default:
		k = KindDate
		emoji, title = calendarEmoji, "Date"
	}

	label := emoji + " " + title + " - " + date
	if rel := relativeDay(date, today); rel != "" {
		label = emoji + " " + title + " - " + rel + " (" + date + ")"
	}
	return Candidate{Kind: k, ID: date, Label: label, Ref: DateRef(k, date)}
}

func relativeDay(date string, today time.Time) string {
	day := today.Format(store.DateLayout)
	switch date {
	case day:
		return "Today"
	case today.AddDate(0, 0, 1).Format(store.DateLayout):
		return "Tomorrow"
	case today.AddDate(0, 0, -1).Format(store.DateLayout):
		return "Yesterday"
	}
	return ""
}

// FriendlyName derives the text inserted after "@" from a candidate label.
// Only date kinds keep the part after " - ", so "📅 Calendar - Today
// (2026-10-19)" becomes "Today". Entity labels lose their leading emoji
// run: "📚 📋 Move house - Breakdown" becomes "Move house - Breakdown".
func FriendlyName(k Kind, label string) string {
	if k.IsDate() {
		if _, rest, ok := strings.Cut(label, " - "); ok {
			name, _, _ := strings.Cut(rest, " (")
			return name
		}
		if _, rest, ok := strings.Cut(label, " "); ok {
			return rest
		}
		return label
	}
	if name := strings.TrimLeftFunc(label, notWordRune); name != "" {
		return name
	}
	return label
}

func notWordRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
