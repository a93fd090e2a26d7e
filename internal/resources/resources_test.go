package resources

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

var fixedNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(store.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func readReq(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func contentText(t *testing.T, c []mcp.ResourceContents) mcp.TextResourceContents {
	t.Helper()
	if len(c) != 1 {
		t.Fatalf("contents = %d, want 1", len(c))
	}
	tc, ok := c[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content is %T", c[0])
	}
	return tc
}

func TestHandleToday(t *testing.T) {
	s := newStore(t)
	task := store.NewTask("Buy groceries", store.CategoryTodayMust)
	task.DueDate = "2026-10-19"
	if err := s.SaveTask(task); err != nil {
		t.Fatal(err)
	}
	later := store.NewTask("Dentist", store.CategoryFutureDate)
	later.DueDate = "2026-10-25"
	if err := s.SaveTask(later); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AppendDiary("2026-10-19", "calm morning"); err != nil {
		t.Fatal(err)
	}

	h := NewHandler(s, func() time.Time { return fixedNow })
	res, err := h.HandleToday(context.Background(), readReq("byebye://today"))
	if err != nil {
		t.Fatal(err)
	}
	tc := contentText(t, res)
	if tc.MIMEType != "application/json" {
		t.Fatalf("mime = %q, text = %s", tc.MIMEType, tc.Text)
	}

	var got Today
	if err := json.Unmarshal([]byte(tc.Text), &got); err != nil {
		t.Fatal(err)
	}
	if got.Date != "2026-10-19" || len(got.Tasks) != 1 || got.Tasks[0].Title != "Buy groceries" {
		t.Errorf("today = %+v", got)
	}
	if got.Diary == nil || got.Diary.Content != "calm morning" {
		t.Errorf("diary = %+v", got.Diary)
	}
}

func TestHandleToday_NoDiary(t *testing.T) {
	h := NewHandler(newStore(t), func() time.Time { return fixedNow })
	res, err := h.HandleToday(context.Background(), readReq("byebye://today"))
	if err != nil {
		t.Fatal(err)
	}
	var got Today
	if err := json.Unmarshal([]byte(contentText(t, res).Text), &got); err != nil {
		t.Fatal(err)
	}
	if got.Diary != nil {
		t.Errorf("diary = %+v, want none", got.Diary)
	}
}

type failingSource struct{ *store.Store }

func (failingSource) People() ([]store.Person, error) { return nil, errors.New("disk gone") }

func TestHandleSocial_Error(t *testing.T) {
	h := NewHandler(failingSource{newStore(t)}, nil)
	res, err := h.HandleSocial(context.Background(), readReq("byebye://social"))
	if err != nil {
		t.Fatal(err)
	}
	tc := contentText(t, res)
	if tc.MIMEType != "text/plain" || tc.Text != "Error: disk gone" {
		t.Errorf("content = %+v", tc)
	}
}

func TestHandleSocial(t *testing.T) {
	s := newStore(t)
	if err := s.SavePerson(store.NewPerson("Alice")); err != nil {
		t.Fatal(err)
	}
	h := NewHandler(s, nil)
	res, err := h.HandleSocial(context.Background(), readReq("byebye://social"))
	if err != nil {
		t.Fatal(err)
	}
	var got Social
	if err := json.Unmarshal([]byte(contentText(t, res).Text), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.People) != 1 || got.People[0].Name != "Alice" {
		t.Errorf("people = %+v", got.People)
	}
}
