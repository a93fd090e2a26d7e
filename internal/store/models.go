package store

import "time"

// ─── Tasks ───────────────────────────────────────────────────────────────────

// Task categories, in canonical iteration order.
const (
	CategoryTodayMust    = "today_must"
	CategoryFutureDate   = "future_date"
	CategoryLongTerm     = "long_term"
	CategorySomedayMaybe = "someday_maybe"
)

// Categories returns every task category in canonical order.
func Categories() []string {
	return []string{CategoryTodayMust, CategoryFutureDate, CategoryLongTerm, CategorySomedayMaybe}
}

// ValidCategory reports whether c is a known task category.
func ValidCategory(c string) bool {
	for _, k := range Categories() {
		if k == c {
			return true
		}
	}
	return false
}

// CategoryDisplayName returns the human label for a category.
func CategoryDisplayName(c string) string {
	switch c {
	case CategoryTodayMust:
		return "Today Must Do"
	case CategoryFutureDate:
		return "Future Tasks"
	case CategoryLongTerm:
		return "Long-term Goals"
	case CategorySomedayMaybe:
		return "Someday/Maybe"
	default:
		return c
	}
}

// Task is a single todo item.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Completed   bool     `json:"completed"`
	CreatedAt   string   `json:"created_at"`
	DueDate     string   `json:"due_date,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	CompletedAt string   `json:"completed_at,omitempty"`
	Tags        []string `json:"tags"`
	Subtasks    []string `json:"subtasks"`
	Order       int      `json:"order"`
}

// MarkComplete flags the task as done at the given instant.
func (t *Task) MarkComplete(at time.Time) {
	t.Completed = true
	t.CompletedAt = at.Format(time.RFC3339)
}

// MarkIncomplete reopens the task.
func (t *Task) MarkIncomplete() {
	t.Completed = false
	t.CompletedAt = ""
}

// ─── Todo lists ──────────────────────────────────────────────────────────────

// TodoList groups task ids under a name.
type TodoList struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tasks       []string `json:"tasks"`
	CreatedAt   string   `json:"created_at"`
	CreatedBy   string   `json:"created_by"`
}

// ─── Social book ─────────────────────────────────────────────────────────────

// Person is an entry in the social book. Known fields are struct fields;
// anything else lives in CustomFields.
type Person struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	PersonalInfo     string            `json:"personal_info"`
	Birthday         string            `json:"birthday"`
	BirthdayReminder bool              `json:"birthday_reminder"`
	Preferences      string            `json:"preferences"`
	Events           []string          `json:"events"`
	Notes            string            `json:"notes"`
	CustomFields     map[string]string `json:"custom_fields"`
	CreatedAt        string            `json:"created_at"`
	UpdatedAt        string            `json:"updated_at"`
}

// Reminder is a scheduled heads-up for a person's event.
type Reminder struct {
	ID           string `json:"id"`
	PersonName   string `json:"person_name"`
	Event        string `json:"event"`
	Date         string `json:"date"`
	ReminderDays int    `json:"reminder_days"`
	CreatedAt    string `json:"created_at"`
}

// ─── Diary ───────────────────────────────────────────────────────────────────

// DiaryEntry is the diary page for one date.
type DiaryEntry struct {
	Date           string   `json:"date"`
	Content        string   `json:"content"`
	AISummary      string   `json:"ai_summary"`
	Mood           string   `json:"mood,omitempty"`
	CompletedTasks []string `json:"completed_tasks"`
	Highlights     []string `json:"highlights"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// ─── Focus ───────────────────────────────────────────────────────────────────

// FocusSession is one pomodoro-style focus block.
type FocusSession struct {
	ID                    string `json:"id"`
	StartTime             string `json:"start_time"`
	DurationMinutes       int    `json:"duration_minutes"`
	ActualDurationSeconds int    `json:"actual_duration_seconds"`
	Completed             bool   `json:"completed"`
	PointsEarned          int    `json:"points_earned"`
	EndTime               string `json:"end_time,omitempty"`
	TaskName              string `json:"task_name,omitempty"`
}

// Complete marks the session finished. One point per whole minute, even
// when stopped early.
func (f *FocusSession) Complete(actualSeconds int, at time.Time) {
	f.Completed = true
	f.ActualDurationSeconds = actualSeconds
	f.EndTime = at.Format(time.RFC3339)
	f.PointsEarned = actualSeconds / 60
}

// FocusStats aggregates completed focus sessions.
type FocusStats struct {
	TotalSessions  int     `json:"total_sessions"`
	TotalMinutes   int     `json:"total_minutes"`
	TotalPoints    int     `json:"total_points"`
	CompletionRate float64 `json:"completion_rate"`
}

// ─── Chat ────────────────────────────────────────────────────────────────────

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultConversation is used when no conversation id is given.
const DefaultConversation = "main"

// ChatMessage is one persisted chat turn.
type ChatMessage struct {
	ID             int64  `json:"id"`
	Agent          string `json:"agent"`
	ConversationID string `json:"conversation_id"`
	Role           string `json:"role"`
	Content        string `json:"content"`
	Timestamp      string `json:"timestamp"`
}

// HistoryQuery filters ChatHistory.
type HistoryQuery struct {
	Agent          string
	ConversationID string
	// Date keeps only messages whose timestamp starts with it (YYYY-MM-DD).
	Date string
	// Limit keeps the last N messages when > 0.
	Limit int
}
