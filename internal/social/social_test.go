package social_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/HendryAvila/byebyeanxiety/internal/social"
	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(store.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddEntry_CreatesPerson(t *testing.T) {
	s := newTestStore(t)

	res, err := social.AddEntry(s, "Alice", "Works at the bakery", "personal_info")
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if !res.Created {
		t.Error("Created = false, want true")
	}

	people, err := s.People()
	if err != nil {
		t.Fatalf("People: %v", err)
	}
	if len(people) != 1 || people[0].PersonalInfo != "Works at the bakery" {
		t.Errorf("people = %+v", people)
	}
}

func TestAddEntry_AppendsTextFields(t *testing.T) {
	s := newTestStore(t)

	for _, info := range []string{"likes tea", "hates coffee"} {
		if _, err := social.AddEntry(s, "Alice", info, "preferences"); err != nil {
			t.Fatalf("AddEntry: %v", err)
		}
	}
	res, err := social.AddEntry(s, "ALICE", "allergic to nuts", "Notes")
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if res.Created {
		t.Error("case-insensitive match should reuse the existing person")
	}

	p, err := s.FindPersonByName("alice")
	if err != nil {
		t.Fatalf("FindPersonByName: %v", err)
	}
	if p.Preferences != "likes tea\nhates coffee" {
		t.Errorf("preferences = %q, want %q", p.Preferences, "likes tea\nhates coffee")
	}
	if p.Notes != "allergic to nuts" {
		t.Errorf("notes = %q, want %q", p.Notes, "allergic to nuts")
	}
}

func TestAddEntry_BirthdayReplacesEventsAppend(t *testing.T) {
	s := newTestStore(t)

	steps := []struct{ info, category string }{
		{"1990-01-01", "birthday"},
		{"1990-02-02", "birthday"},
		{"Graduation", "events"},
		{"Wedding", "events"},
	}
	for _, st := range steps {
		if _, err := social.AddEntry(s, "Bob", st.info, st.category); err != nil {
			t.Fatalf("AddEntry(%q): %v", st.category, err)
		}
	}

	p, err := s.FindPersonByName("Bob")
	if err != nil {
		t.Fatalf("FindPersonByName: %v", err)
	}
	if p.Birthday != "1990-02-02" {
		t.Errorf("birthday = %q, want %q", p.Birthday, "1990-02-02")
	}
	if diff := cmp.Diff([]string{"Graduation", "Wedding"}, p.Events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestAddEntry_CustomAndDefaultCategory(t *testing.T) {
	s := newTestStore(t)

	if _, err := social.AddEntry(s, "Carol", "met at the gym", ""); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if _, err := social.AddEntry(s, "Carol", "green", "Favorite Color"); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if _, err := social.AddEntry(s, "Carol", "blue too", "Favorite Color"); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	p, err := s.FindPersonByName("Carol")
	if err != nil {
		t.Fatalf("FindPersonByName: %v", err)
	}
	want := map[string]string{
		social.DefaultCategory: "met at the gym",
		"Favorite Color":       "green\nblue too",
	}
	if diff := cmp.Diff(want, p.CustomFields); diff != "" {
		t.Errorf("custom fields mismatch (-want +got):\n%s", diff)
	}
}

func TestAddEntry_EmptyName(t *testing.T) {
	s := newTestStore(t)
	if _, err := social.AddEntry(s, "  ", "x", "notes"); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestUpdateField_ReplaceVsAppend(t *testing.T) {
	s := newTestStore(t)

	if _, err := social.AddEntry(s, "Dan", "quiet", "personal_info"); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	updates := []struct{ name, field, value string }{
		{"Dan", "personal_info", "plays chess"},
		{"dan", "birthday", "2000-05-05"},
		{"Dan", "name", "Daniel"},
		{"Daniel", "nickname", "D"},
		{"Daniel", "events", "moved to Lisbon"},
	}
	for _, u := range updates {
		if _, err := social.UpdateField(s, u.name, u.field, u.value); err != nil {
			t.Fatalf("UpdateField(%q, %q): %v", u.name, u.field, err)
		}
	}

	p, err := s.FindPersonByName("Daniel")
	if err != nil {
		t.Fatalf("FindPersonByName: %v", err)
	}
	if p.PersonalInfo != "quiet\nplays chess" {
		t.Errorf("personal_info = %q, want %q", p.PersonalInfo, "quiet\nplays chess")
	}
	if p.Birthday != "2000-05-05" {
		t.Errorf("birthday = %q, want %q", p.Birthday, "2000-05-05")
	}
	if p.CustomFields["nickname"] != "D" {
		t.Errorf("nickname = %q, want %q", p.CustomFields["nickname"], "D")
	}
	if len(p.Events) != 1 || p.Events[0] != "moved to Lisbon" {
		t.Errorf("events = %q, want [moved to Lisbon]", p.Events)
	}
	if _, ok := p.CustomFields["events"]; ok {
		t.Error("events stored as a custom field")
	}
}

func TestUpdateField_UnknownPerson(t *testing.T) {
	s := newTestStore(t)

	_, err := social.UpdateField(s, "Nobody", "notes", "x")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	people, _ := s.People()
	if len(people) != 0 {
		t.Errorf("UpdateField must not create people, got %d", len(people))
	}
}

func TestParseField(t *testing.T) {
	tests := []struct {
		in    string
		want  social.Field
		known bool
	}{
		{"Personal_Info", social.FieldPersonalInfo, true},
		{" events ", social.FieldEvents, true},
		{"hobbies", "", false},
	}
	for _, tt := range tests {
		got, ok := social.ParseField(tt.in)
		if got != tt.want || ok != tt.known {
			t.Errorf("ParseField(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.known)
		}
	}
}
