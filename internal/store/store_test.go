package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

// newTestStore creates a Store backed by a temp directory for isolation.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(store.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func saveTask(t *testing.T, s *store.Store, title, category string) *store.Task {
	t.Helper()
	task := store.NewTask(title, category)
	if err := s.SaveTask(task); err != nil {
		t.Fatalf("SaveTask(%q): %v", title, err)
	}
	return task
}

// ─── New / Initialization ───────────────────────────────────────────────────

func TestNew_CreatesDBFile(t *testing.T) {
	dir := t.TempDir()
	s, err := store.New(store.Config{DataDir: dir})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(filepath.Join(dir, "byebye.db")); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}

func TestNew_IdempotentReopen(t *testing.T) {
	cfg := store.Config{DataDir: t.TempDir()}

	s1, err := store.New(cfg)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	task := store.NewTask("Water plants", store.CategoryTodayMust)
	if err := s1.SaveTask(task); err != nil {
		t.Fatalf("save task: %v", err)
	}
	s1.Close()

	s2, err := store.New(cfg)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()

	got, err := s2.GetTask(task.ID)
	if err != nil {
		t.Fatalf("task not found after reopen: %v", err)
	}
	if got.Title != "Water plants" {
		t.Errorf("title = %q, want %q", got.Title, "Water plants")
	}
}

// ─── Tasks ──────────────────────────────────────────────────────────────────

func TestSaveTask_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	task := store.NewTask("Buy groceries", store.CategoryFutureDate)
	task.Description = "milk, eggs"
	task.DueDate = "2026-10-20"
	task.Tags = []string{"errand"}
	if err := s.SaveTask(task); err != nil {
		t.Fatalf("SaveTask: %v", err)
	}

	got, err := s.GetTask(task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if diff := cmp.Diff(task, got); diff != "" {
		t.Errorf("task mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveTask_UnknownCategory(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveTask(store.NewTask("x", "whenever")); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestGetTask_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetTask("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveTask_UpsertKeepsPosition(t *testing.T) {
	s := newTestStore(t)

	a := saveTask(t, s, "A", store.CategoryTodayMust)
	saveTask(t, s, "B", store.CategoryTodayMust)

	a.Title = "A (edited)"
	if err := s.SaveTask(a); err != nil {
		t.Fatalf("update: %v", err)
	}

	tasks, err := s.TasksByCategory(store.CategoryTodayMust)
	if err != nil {
		t.Fatalf("TasksByCategory: %v", err)
	}
	var titles []string
	for _, tk := range tasks {
		titles = append(titles, tk.Title)
	}
	if diff := cmp.Diff([]string{"A (edited)", "B"}, titles); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestAllTasks_CategoryOrder(t *testing.T) {
	s := newTestStore(t)

	saveTask(t, s, "someday", store.CategorySomedayMaybe)
	saveTask(t, s, "future", store.CategoryFutureDate)
	saveTask(t, s, "today", store.CategoryTodayMust)
	saveTask(t, s, "long", store.CategoryLongTerm)

	tasks, err := s.AllTasks()
	if err != nil {
		t.Fatalf("AllTasks: %v", err)
	}
	var titles []string
	for _, tk := range tasks {
		titles = append(titles, tk.Title)
	}
	want := []string{"today", "future", "long", "someday"}
	if diff := cmp.Diff(want, titles); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestTasksOnDate_StartOrDue(t *testing.T) {
	s := newTestStore(t)

	starts := store.NewTask("starts", store.CategoryFutureDate)
	starts.StartDate = "2026-10-25"
	due := store.NewTask("due", store.CategoryFutureDate)
	due.DueDate = "2026-10-25"
	other := store.NewTask("other", store.CategoryFutureDate)
	other.DueDate = "2026-10-26"
	for _, tk := range []*store.Task{starts, due, other} {
		if err := s.SaveTask(tk); err != nil {
			t.Fatalf("SaveTask: %v", err)
		}
	}

	got, err := s.TasksOnDate("2026-10-25")
	if err != nil {
		t.Fatalf("TasksOnDate: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	dueOnly, err := s.TasksDueOn("2026-10-25")
	if err != nil {
		t.Fatalf("TasksDueOn: %v", err)
	}
	if len(dueOnly) != 1 || dueOnly[0].Title != "due" {
		t.Errorf("TasksDueOn = %+v, want only %q", dueOnly, "due")
	}
}

func TestTasksCompletedOn(t *testing.T) {
	s := newTestStore(t)

	done := saveTask(t, s, "done", store.CategoryTodayMust)
	saveTask(t, s, "open", store.CategoryTodayMust)

	at := time.Date(2026, 10, 19, 15, 0, 0, 0, time.Local)
	done.MarkComplete(at)
	if err := s.SaveTask(done); err != nil {
		t.Fatalf("SaveTask: %v", err)
	}

	got, err := s.TasksCompletedOn("2026-10-19")
	if err != nil {
		t.Fatalf("TasksCompletedOn: %v", err)
	}
	if len(got) != 1 || got[0].ID != done.ID {
		t.Errorf("TasksCompletedOn = %+v, want only %q", got, done.ID)
	}
}

func TestDeleteTask_RemovesFromTodoLists(t *testing.T) {
	s := newTestStore(t)

	a := saveTask(t, s, "A", store.CategoryTodayMust)
	b := saveTask(t, s, "B", store.CategoryTodayMust)
	list := &store.TodoList{Name: "Chores", Tasks: []string{a.ID, b.ID}}
	if err := s.SaveTodoList(list); err != nil {
		t.Fatalf("SaveTodoList: %v", err)
	}

	if err := s.DeleteTask(a.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	got, err := s.GetTodoList(list.ID)
	if err != nil {
		t.Fatalf("GetTodoList: %v", err)
	}
	if diff := cmp.Diff([]string{b.ID}, got.Tasks); diff != "" {
		t.Errorf("list tasks mismatch (-want +got):\n%s", diff)
	}
	if err := s.DeleteTask(a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

// ─── Todo lists ─────────────────────────────────────────────────────────────

func TestTodoLists_OrderAndContaining(t *testing.T) {
	s := newTestStore(t)

	a := saveTask(t, s, "A", store.CategoryTodayMust)
	first := &store.TodoList{Name: "First", Tasks: []string{a.ID}}
	second := &store.TodoList{Name: "Second"}
	for _, l := range []*store.TodoList{first, second} {
		if err := s.SaveTodoList(l); err != nil {
			t.Fatalf("SaveTodoList: %v", err)
		}
	}

	lists, err := s.TodoLists()
	if err != nil {
		t.Fatalf("TodoLists: %v", err)
	}
	if len(lists) != 2 || lists[0].Name != "First" || lists[1].Name != "Second" {
		t.Fatalf("lists = %+v", lists)
	}
	if lists[1].Tasks == nil || len(lists[1].Tasks) != 0 {
		t.Errorf("empty list tasks = %#v, want empty slice", lists[1].Tasks)
	}
	if lists[0].CreatedBy != "user" {
		t.Errorf("created_by = %q, want %q", lists[0].CreatedBy, "user")
	}

	containing, err := s.TodoListsContaining(a.ID)
	if err != nil {
		t.Fatalf("TodoListsContaining: %v", err)
	}
	if len(containing) != 1 || containing[0].ID != first.ID {
		t.Errorf("containing = %+v, want only %q", containing, first.ID)
	}
}

// ─── People ─────────────────────────────────────────────────────────────────

func TestSavePerson_RoundTripEmptyFields(t *testing.T) {
	s := newTestStore(t)

	p := store.NewPerson("Alice")
	if err := s.SavePerson(p); err != nil {
		t.Fatalf("SavePerson: %v", err)
	}

	got, err := s.GetPerson(p.ID)
	if err != nil {
		t.Fatalf("GetPerson: %v", err)
	}
	if got.Preferences != "" || got.Birthday != "" {
		t.Errorf("empty fields = %q/%q, want empty", got.Preferences, got.Birthday)
	}
	if got.Events == nil || got.CustomFields == nil {
		t.Errorf("events/custom fields must be non-nil, got %#v / %#v", got.Events, got.CustomFields)
	}
}

func TestSavePerson_CustomFields(t *testing.T) {
	s := newTestStore(t)

	p := store.NewPerson("Bob")
	p.CustomFields["favorite_color"] = "green"
	p.Events = []string{"Wedding 2026-11-01"}
	if err := s.SavePerson(p); err != nil {
		t.Fatalf("SavePerson: %v", err)
	}

	got, err := s.GetPerson(p.ID)
	if err != nil {
		t.Fatalf("GetPerson: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"favorite_color": "green"}, got.CustomFields); diff != "" {
		t.Errorf("custom fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Wedding 2026-11-01"}, got.Events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestFindPersonByName_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)

	p := store.NewPerson("Alice Smith")
	if err := s.SavePerson(p); err != nil {
		t.Fatalf("SavePerson: %v", err)
	}

	got, err := s.FindPersonByName("alice smith")
	if err != nil {
		t.Fatalf("FindPersonByName: %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("id = %q, want %q", got.ID, p.ID)
	}
	if _, err := s.FindPersonByName("Carol"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeletePerson(t *testing.T) {
	s := newTestStore(t)

	p := store.NewPerson("Gone")
	if err := s.SavePerson(p); err != nil {
		t.Fatalf("SavePerson: %v", err)
	}
	if err := s.DeletePerson(p.ID); err != nil {
		t.Fatalf("DeletePerson: %v", err)
	}
	if _, err := s.GetPerson(p.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAddReminder_DefaultDays(t *testing.T) {
	s := newTestStore(t)

	if err := s.AddReminder(&store.Reminder{PersonName: "Alice", Event: "Birthday", Date: "2026-12-01"}); err != nil {
		t.Fatalf("AddReminder: %v", err)
	}
	got, err := s.Reminders()
	if err != nil {
		t.Fatalf("Reminders: %v", err)
	}
	if len(got) != 1 || got[0].ReminderDays != 7 {
		t.Errorf("reminders = %+v, want one with 7 days", got)
	}
}

// ─── Diary ──────────────────────────────────────────────────────────────────

func TestAppendDiary_BlankLineSeparated(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.AppendDiary("2026-10-19", "[DIARY_ENTRY] slept well"); err != nil {
		t.Fatalf("first append: %v", err)
	}
	e, err := s.AppendDiary("2026-10-19", "[IDEA] write a song")
	if err != nil {
		t.Fatalf("second append: %v", err)
	}

	want := "[DIARY_ENTRY] slept well\n\n[IDEA] write a song"
	if e.Content != want {
		t.Errorf("content = %q, want %q", e.Content, want)
	}

	got, err := s.GetDiaryEntry("2026-10-19")
	if err != nil {
		t.Fatalf("GetDiaryEntry: %v", err)
	}
	if got.Content != want {
		t.Errorf("stored content = %q, want %q", got.Content, want)
	}
}

func TestGetDiaryEntry_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetDiaryEntry("1999-01-01"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDiaryEntries_NewestFirst(t *testing.T) {
	s := newTestStore(t)

	for _, d := range []string{"2026-10-17", "2026-10-19", "2026-10-18"} {
		if err := s.SaveDiaryEntry(&store.DiaryEntry{Date: d, Content: d}); err != nil {
			t.Fatalf("SaveDiaryEntry: %v", err)
		}
	}
	entries, err := s.DiaryEntries()
	if err != nil {
		t.Fatalf("DiaryEntries: %v", err)
	}
	var dates []string
	for _, e := range entries {
		dates = append(dates, e.Date)
	}
	if diff := cmp.Diff([]string{"2026-10-19", "2026-10-18", "2026-10-17"}, dates); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

// ─── Focus ──────────────────────────────────────────────────────────────────

func TestFocusSession_PointsPerWholeMinute(t *testing.T) {
	f := &store.FocusSession{DurationMinutes: 25}
	f.Complete(25*60+59, time.Now())
	if f.PointsEarned != 25 {
		t.Errorf("points = %d, want 25", f.PointsEarned)
	}

	early := &store.FocusSession{DurationMinutes: 25}
	early.Complete(59, time.Now())
	if early.PointsEarned != 0 {
		t.Errorf("points = %d, want 0", early.PointsEarned)
	}
}

func TestFocusStats(t *testing.T) {
	s := newTestStore(t)

	done := &store.FocusSession{DurationMinutes: 25, TaskName: "report"}
	done.Complete(25*60, time.Now())
	abandoned := &store.FocusSession{DurationMinutes: 25}
	for _, f := range []*store.FocusSession{done, abandoned} {
		if err := s.SaveFocusSession(f); err != nil {
			t.Fatalf("SaveFocusSession: %v", err)
		}
	}

	stats, err := s.FocusStats()
	if err != nil {
		t.Fatalf("FocusStats: %v", err)
	}
	want := &store.FocusStats{TotalSessions: 1, TotalMinutes: 25, TotalPoints: 25, CompletionRate: 0.5}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}

	today, err := s.FocusSessionsOn(store.Today())
	if err != nil {
		t.Fatalf("FocusSessionsOn: %v", err)
	}
	if len(today) != 2 {
		t.Errorf("sessions today = %d, want 2", len(today))
	}
}

// ─── Chat history ───────────────────────────────────────────────────────────

func appendMsg(t *testing.T, s *store.Store, agent, conv, role, content, ts string) {
	t.Helper()
	m := &store.ChatMessage{Agent: agent, ConversationID: conv, Role: role, Content: content, Timestamp: ts}
	if err := s.AppendChatMessage(m); err != nil {
		t.Fatalf("AppendChatMessage: %v", err)
	}
}

func TestChatHistory_Filters(t *testing.T) {
	s := newTestStore(t)

	appendMsg(t, s, "anxiety_killer", "", store.RoleUser, "yesterday", "2026-10-18T09:00:00Z")
	appendMsg(t, s, "anxiety_killer", "", store.RoleUser, "one", "2026-10-19T09:00:00Z")
	appendMsg(t, s, "anxiety_killer", "", store.RoleAssistant, "two", "2026-10-19T09:00:01Z")
	appendMsg(t, s, "anxiety_killer", "", store.RoleUser, "three", "2026-10-19T09:00:02Z")
	appendMsg(t, s, "ask_me", "", store.RoleUser, "other agent", "2026-10-19T09:00:03Z")

	all, err := s.ChatHistory(store.HistoryQuery{Agent: "anxiety_killer", ConversationID: store.DefaultConversation})
	if err != nil {
		t.Fatalf("ChatHistory: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("len = %d, want 4", len(all))
	}

	today, err := s.ChatHistory(store.HistoryQuery{Agent: "anxiety_killer", Date: "2026-10-19", Limit: 2})
	if err != nil {
		t.Fatalf("ChatHistory: %v", err)
	}
	var contents []string
	for _, m := range today {
		contents = append(contents, m.Content)
	}
	if diff := cmp.Diff([]string{"two", "three"}, contents); diff != "" {
		t.Errorf("limited history mismatch (-want +got):\n%s", diff)
	}
}

func TestConversations_AndDelete(t *testing.T) {
	s := newTestStore(t)

	appendMsg(t, s, "ask_me", "go", store.RoleUser, "q1", "2026-10-18T09:00:00Z")
	appendMsg(t, s, "ask_me", "rust", store.RoleUser, "q2", "2026-10-19T09:00:00Z")

	convs, err := s.Conversations("ask_me")
	if err != nil {
		t.Fatalf("Conversations: %v", err)
	}
	if diff := cmp.Diff([]string{"rust", "go"}, convs); diff != "" {
		t.Errorf("conversations mismatch (-want +got):\n%s", diff)
	}

	n, err := s.DeleteConversation("ask_me", "go")
	if err != nil {
		t.Fatalf("DeleteConversation: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
}

// ─── Settings / ClearAll ────────────────────────────────────────────────────

func TestSettings_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveSetting("preferences", map[string]string{"tone": "gentle"}); err != nil {
		t.Fatalf("SaveSetting: %v", err)
	}
	var got map[string]string
	ok, err := s.Setting("preferences", &got)
	if err != nil || !ok {
		t.Fatalf("Setting: ok=%v err=%v", ok, err)
	}
	if got["tone"] != "gentle" {
		t.Errorf("tone = %q, want %q", got["tone"], "gentle")
	}

	var missing string
	ok, err = s.Setting("nope", &missing)
	if err != nil || ok {
		t.Errorf("missing setting: ok=%v err=%v, want false/nil", ok, err)
	}
}

func TestClearAll_KeepsAPIKeys(t *testing.T) {
	s := newTestStore(t)

	saveTask(t, s, "A", store.CategoryTodayMust)
	if err := s.SaveSetting("gemini_api_key", "secret"); err != nil {
		t.Fatalf("SaveSetting: %v", err)
	}
	if err := s.SaveSetting("theme", "dark"); err != nil {
		t.Fatalf("SaveSetting: %v", err)
	}

	if err := s.ClearAll(); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}

	tasks, err := s.AllTasks()
	if err != nil {
		t.Fatalf("AllTasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("tasks after clear = %d, want 0", len(tasks))
	}
	var key, theme string
	if ok, _ := s.Setting("gemini_api_key", &key); !ok || key != "secret" {
		t.Errorf("api key = %q (ok=%v), want kept", key, ok)
	}
	if ok, _ := s.Setting("theme", &theme); ok {
		t.Errorf("theme survived ClearAll")
	}
}

// ─── Failure injection ──────────────────────────────────────────────────────

func TestQueryFailure_Wrapped(t *testing.T) {
	s := newTestStore(t)
	boom := errors.New("disk on fire")
	s.FailQuery(boom)

	if _, err := s.People(); !errors.Is(err, boom) {
		t.Errorf("People err = %v, want wrapped %v", err, boom)
	}
	if _, err := s.TasksByCategory(store.CategoryTodayMust); !errors.Is(err, boom) {
		t.Errorf("TasksByCategory err = %v, want wrapped %v", err, boom)
	}
}

func TestExecFailure_Wrapped(t *testing.T) {
	s := newTestStore(t)
	boom := errors.New("read-only")
	s.FailExec(boom)

	if err := s.SavePerson(store.NewPerson("X")); !errors.Is(err, boom) {
		t.Errorf("SavePerson err = %v, want wrapped %v", err, boom)
	}
}
