// Package planner holds the task, list, diary, reminder and focus
// operations the assistant performs on the user's behalf. Each operation
// returns the stored entity plus the encouraging confirmation shown to the
// user.
package planner

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

// ErrInvalidInput marks caller mistakes (blank titles, bad dates).
var ErrInvalidInput = errors.New("planner: invalid input")

// Planner performs domain operations against the store.
type Planner struct {
	store *store.Store
	now   func() time.Time
}

// New creates a Planner. now defaults to time.Now.
func New(s *store.Store, now func() time.Time) *Planner {
	if now == nil {
		now = time.Now
	}
	return &Planner{store: s, now: now}
}

func (p *Planner) today() string {
	return p.now().Format(store.DateLayout)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func checkDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(store.DateLayout, value); err != nil {
		return invalid("%s %q is not a YYYY-MM-DD date", field, value)
	}
	return nil
}

// ─── Tasks ───────────────────────────────────────────────────────────────────

// TaskInput describes a task to create.
type TaskInput struct {
	Title       string
	Description string
	Category    string
	DueDate     string
	StartDate   string
}

// DefaultDueDate returns the due date used when none is given: tomorrow
// for future_date tasks, today for everything else.
func DefaultDueDate(category string, today time.Time) string {
	if category == store.CategoryFutureDate {
		return today.AddDate(0, 0, 1).Format(store.DateLayout)
	}
	return today.Format(store.DateLayout)
}

// CreateTask stores a new task. Category defaults to today_must.
func (p *Planner) CreateTask(in TaskInput) (*store.Task, string, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, "", invalid("task title is required")
	}
	if in.Category == "" {
		in.Category = store.CategoryTodayMust
	}
	if !store.ValidCategory(in.Category) {
		return nil, "", invalid("unknown category %q", in.Category)
	}
	if err := checkDate("due_date", in.DueDate); err != nil {
		return nil, "", err
	}
	if err := checkDate("start_date", in.StartDate); err != nil {
		return nil, "", err
	}
	if in.DueDate == "" {
		in.DueDate = DefaultDueDate(in.Category, p.now())
	}

	t := store.NewTask(title, in.Category)
	t.Description = in.Description
	t.DueDate = in.DueDate
	t.StartDate = in.StartDate
	if err := p.store.SaveTask(t); err != nil {
		return nil, "", fmt.Errorf("planner: create task: %w", err)
	}

	msg := taskCreatedMessage(t)
	if t.StartDate != "" && t.StartDate != t.DueDate {
		msg += fmt.Sprintf(" Remember to start working on it from %s.", t.StartDate)
	}
	return t, msg, nil
}

func taskCreatedMessage(t *store.Task) string {
	switch t.Category {
	case store.CategoryTodayMust:
		return fmt.Sprintf("✅ Added '%s' to your today's must-do list! You've got this!", t.Title)
	case store.CategoryFutureDate:
		return fmt.Sprintf("📅 Scheduled '%s' for %s. Great planning ahead!", t.Title, t.DueDate)
	case store.CategoryLongTerm:
		return fmt.Sprintf("🎯 Added '%s' to your long-term goals. Every journey starts with a single step!", t.Title)
	case store.CategorySomedayMaybe:
		return fmt.Sprintf("💭 Added '%s' to your someday/maybe list. It's great to capture all your ideas!", t.Title)
	}
	return fmt.Sprintf("✅ Task '%s' created successfully!", t.Title)
}

// Completion is the outcome of toggling a task.
type Completion struct {
	Task *store.Task
	// Changed is false when the task already had the requested state.
	Changed bool
	// FinishedList is the first todo-list containing the task whose
	// remaining tasks are now all complete.
	FinishedList *store.TodoList
	// FinishedTitles are the titles of FinishedList's tasks.
	FinishedTitles []string
}

// SetCompleted marks a task complete or incomplete. Completing a task
// reports the first list it finished.
func (p *Planner) SetCompleted(id string, completed bool) (*Completion, error) {
	t, err := p.store.GetTask(id)
	if err != nil {
		return nil, fmt.Errorf("planner: set completed: %w", err)
	}
	c := &Completion{Task: t}
	if t.Completed == completed {
		return c, nil
	}

	if completed {
		t.MarkComplete(p.now())
	} else {
		t.MarkIncomplete()
	}
	if err := p.store.SaveTask(t); err != nil {
		return nil, fmt.Errorf("planner: set completed: %w", err)
	}
	c.Changed = true
	if !completed {
		return c, nil
	}

	lists, err := p.store.TodoListsContaining(id)
	if err != nil {
		return nil, fmt.Errorf("planner: set completed: %w", err)
	}
	for i := range lists {
		titles, done, err := p.listDone(&lists[i])
		if err != nil {
			return nil, fmt.Errorf("planner: set completed: %w", err)
		}
		if done {
			c.FinishedList = &lists[i]
			c.FinishedTitles = titles
			break
		}
	}
	return c, nil
}

// listDone reports whether every task of l that still exists is complete.
// Deleted task ids are skipped; a list with no live tasks is never done.
func (p *Planner) listDone(l *store.TodoList) ([]string, bool, error) {
	var titles []string
	for _, id := range l.Tasks {
		t, err := p.store.GetTask(id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, false, err
		}
		if !t.Completed {
			return nil, false, nil
		}
		titles = append(titles, t.Title)
	}
	return titles, len(titles) > 0, nil
}

// ─── Todo lists ──────────────────────────────────────────────────────────────

// CreateTodoList creates a list with one today_must task, due today, per
// title. Blank titles are skipped.
func (p *Planner) CreateTodoList(name, description string, titles []string) (*store.TodoList, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", invalid("todo list name is required")
	}
	l := &store.TodoList{Name: name, Description: description, Tasks: []string{}, CreatedBy: "ai"}
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		t, err := p.newListTask(title, "")
		if err != nil {
			return nil, "", err
		}
		l.Tasks = append(l.Tasks, t.ID)
	}
	if err := p.store.SaveTodoList(l); err != nil {
		return nil, "", fmt.Errorf("planner: create todo list: %w", err)
	}
	msg := fmt.Sprintf("📚 Created todo list '%s' with %d tasks! Perfect for organizing your thoughts!", name, len(l.Tasks))
	return l, msg, nil
}

// BreakDown turns subtasks into a "<title> - Breakdown" list whose tasks
// are numbered in order.
func (p *Planner) BreakDown(title string, subtasks []string) (*store.TodoList, string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, "", invalid("task title is required")
	}
	var steps []string
	for _, s := range subtasks {
		if s = strings.TrimSpace(s); s != "" {
			steps = append(steps, s)
		}
	}
	if len(steps) == 0 {
		return nil, "", invalid("at least one subtask is required")
	}

	l := &store.TodoList{
		Name:        fmt.Sprintf("📋 %s - Breakdown", title),
		Description: "Subtasks for: " + title,
		Tasks:       []string{},
		CreatedBy:   "ai",
	}
	for i, s := range steps {
		t, err := p.newListTask(fmt.Sprintf("%d. %s", i+1, s), "Part of: "+title)
		if err != nil {
			return nil, "", err
		}
		l.Tasks = append(l.Tasks, t.ID)
	}
	if err := p.store.SaveTodoList(l); err != nil {
		return nil, "", fmt.Errorf("planner: break down: %w", err)
	}
	msg := fmt.Sprintf("🔧 Broke down '%s' into %d manageable steps! Taking it one step at a time makes everything easier.", title, len(steps))
	return l, msg, nil
}

func (p *Planner) newListTask(title, description string) (*store.Task, error) {
	t := store.NewTask(title, store.CategoryTodayMust)
	t.Description = description
	t.DueDate = p.today()
	if err := p.store.SaveTask(t); err != nil {
		return nil, fmt.Errorf("planner: create list task: %w", err)
	}
	return t, nil
}

// ─── Diary ───────────────────────────────────────────────────────────────────

// AppendDiary adds "[TYPE] content" to today's diary. entryType defaults
// to note.
func (p *Planner) AppendDiary(content, entryType string) (*store.DiaryEntry, string, error) {
	if strings.TrimSpace(content) == "" {
		return nil, "", invalid("diary content is required")
	}
	entryType = strings.TrimSpace(entryType)
	if entryType == "" {
		entryType = "note"
	}
	e, err := p.store.AppendDiary(p.today(), fmt.Sprintf("[%s] %s", strings.ToUpper(entryType), content))
	if err != nil {
		return nil, "", fmt.Errorf("planner: append diary: %w", err)
	}
	return e, fmt.Sprintf("📔 Diary updated with %s! Your thoughts are safely recorded.", entryType), nil
}

// ─── Reminders ───────────────────────────────────────────────────────────────

// ScheduleReminder records a reminder for a person's event. days defaults
// to 7.
func (p *Planner) ScheduleReminder(personName, event, date string, days int) (*store.Reminder, string, error) {
	if strings.TrimSpace(personName) == "" || strings.TrimSpace(event) == "" {
		return nil, "", invalid("person and event are required")
	}
	if date == "" {
		return nil, "", invalid("date is required")
	}
	if err := checkDate("date", date); err != nil {
		return nil, "", err
	}
	r := &store.Reminder{PersonName: personName, Event: event, Date: date, ReminderDays: days}
	if err := p.store.AddReminder(r); err != nil {
		return nil, "", fmt.Errorf("planner: schedule reminder: %w", err)
	}
	msg := fmt.Sprintf("📅 Set reminder for %s's %s on %s. I'll remind you %d days before!",
		r.PersonName, r.Event, r.Date, r.ReminderDays)
	return r, msg, nil
}

// ─── Focus ───────────────────────────────────────────────────────────────────

// RecordFocus stores a finished focus session that ran for actualSeconds
// out of a planned plannedMinutes.
func (p *Planner) RecordFocus(taskName string, plannedMinutes, actualSeconds int) (*store.FocusSession, string, error) {
	if plannedMinutes <= 0 {
		return nil, "", invalid("planned minutes must be positive")
	}
	if actualSeconds < 0 {
		return nil, "", invalid("actual seconds must not be negative")
	}
	end := p.now()
	f := &store.FocusSession{
		StartTime:       end.Add(-time.Duration(actualSeconds) * time.Second).Format(time.RFC3339),
		DurationMinutes: plannedMinutes,
		TaskName:        taskName,
	}
	f.Complete(actualSeconds, end)
	if err := p.store.SaveFocusSession(f); err != nil {
		return nil, "", fmt.Errorf("planner: record focus: %w", err)
	}
	return f, fmt.Sprintf("🌟 Amazing focus session! You earned %d points.", f.PointsEarned), nil
}
