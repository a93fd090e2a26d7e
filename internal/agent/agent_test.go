package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/HendryAvila/byebyeanxiety/internal/bundle"
	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

func TestHint(t *testing.T) {
	tests := map[MessageType]string{
		MessageFree:        "",
		MessageChat:        "[DIARY_ENTRY] ",
		MessageInspiration: "[SAVE_IDEA] ",
		MessageTask:        "[CREATE_TASK] ",
	}
	for mt, want := range tests {
		if got := Hint(mt); got != want {
			t.Errorf("Hint(%q) = %q, want %q", mt, got, want)
		}
	}
}

func TestParseMessageType(t *testing.T) {
	tests := map[string]MessageType{
		"":            MessageFree,
		"Chat":        MessageChat,
		" task ":      MessageTask,
		"inspiration": MessageInspiration,
		"whatever":    MessageFree,
	}
	for in, want := range tests {
		if got := ParseMessageType(in); got != want {
			t.Errorf("ParseMessageType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPrompt_WithBundle(t *testing.T) {
	b := &bundle.Bundle{Tasks: []bundle.AmbientTask{{Title: "Water plants"}}}
	got := Prompt("hello", MessageTask, b)
	want := "[CREATE_TASK] hello\n\nCurrent Context:\nTasks: [\n  {\n    \"title\": \"Water plants\",\n    \"completed\": false\n  }\n]\n"
	if got != want {
		t.Errorf("Prompt = %q, want %q", got, want)
	}
}

func TestPrompt_NoBundle(t *testing.T) {
	if got := Prompt("hi", MessageFree, nil); got != "hi" {
		t.Errorf("Prompt = %q, want %q", got, "hi")
	}
}

func TestAnxietyKiller_SendUsesSystemPrompt(t *testing.T) {
	m := NewMock()
	ak := NewAnxietyKiller(m, "Call me Sam.", nil)

	reply, err := ak.Send(context.Background(), "I feel stuck\nmore")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.Contains(reply, `"I feel stuck"`) {
		t.Errorf("reply = %q, want echo of first line", reply)
	}

	calls := m.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	if !strings.HasPrefix(calls[0].System, "You are Anxiety Killer") {
		t.Errorf("system prompt = %q", calls[0].System[:40])
	}
	if !strings.HasSuffix(calls[0].System, "\n\nUser Preferences:\nCall me Sam.") {
		t.Errorf("preferences not appended: %q", calls[0].System)
	}
}

func TestAnxietyKiller_SendWrapsError(t *testing.T) {
	boom := errors.New("quota exceeded")
	m := &Mock{Reply: func(Request) (string, error) { return "", boom }}
	ak := NewAnxietyKiller(m, "", nil)

	_, err := ak.Send(context.Background(), "hi")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapping %v", err, boom)
	}
	if !strings.HasPrefix(err.Error(), "agent: anxiety killer: ") {
		t.Errorf("err = %q", err.Error())
	}
}

func TestAnxietyKiller_SendCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewAnxietyKiller(NewMock(), "", nil).Send(ctx, "hi")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestParseNumberedList(t *testing.T) {
	reply := "Here is a plan:\n\n1. Gather documents\n2) skipped? no\n  3. Fill the form  \n- bullet\n4.\n10. Submit it"
	got := ParseNumberedList(reply)
	want := []string{"Gather documents", ") skipped? no", "Fill the form", "Submit it"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseNumberedList mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestBreakdown(t *testing.T) {
	m := &Mock{Reply: func(req Request) (string, error) {
		if !strings.Contains(req.Prompt, "Task: Taxes\nDescription: yearly") {
			return "", errors.New("unexpected prompt")
		}
		return "1. Find receipts\n2. Open the portal\n3. Submit", nil
	}}
	steps, err := NewAnxietyKiller(m, "", nil).SuggestBreakdown(context.Background(), "Taxes", "yearly")
	if err != nil {
		t.Fatalf("SuggestBreakdown: %v", err)
	}
	if diff := cmp.Diff([]string{"Find receipts", "Open the portal", "Submit"}, steps); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestDailySummary_WrapsDigest(t *testing.T) {
	m := NewMock()
	if _, err := NewAnxietyKiller(m, "", nil).DailySummary(context.Background(), "User's day on 2026-10-19:"); err != nil {
		t.Fatalf("DailySummary: %v", err)
	}
	p := m.Calls()[0].Prompt
	if !strings.HasPrefix(p, "Please create a warm, encouraging daily summary for the user.\n\nUser's day on 2026-10-19:\n\n") {
		t.Errorf("prompt = %q", p)
	}
	if !strings.HasSuffix(p, "(under 150 words).") {
		t.Errorf("prompt suffix = %q", p)
	}
}

func TestCelebrate_Fallbacks(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	m := &Mock{Reply: func(Request) (string, error) { return "", ErrEmptyResponse }}
	ak := NewAnxietyKiller(m, "", zap.New(core))
	ctx := context.Background()

	if got, want := ak.Celebrate(ctx, "Laundry"), "🎉 Great job completing 'Laundry'! Every step forward counts!"; got != want {
		t.Errorf("Celebrate = %q, want %q", got, want)
	}
	if got, want := ak.Encourage(ctx, "Laundry"), "💪 That's okay! You can always come back to 'Laundry' when you're ready. Take your time!"; got != want {
		t.Errorf("Encourage = %q, want %q", got, want)
	}
	if got, want := ak.CelebrateList(ctx, "Move", []string{"a"}), "🎊🎉 Amazing! You've completed the entire 'Move' list! You're absolutely crushing it! 🌟"; got != want {
		t.Errorf("CelebrateList = %q, want %q", got, want)
	}
	if logs.Len() != 3 {
		t.Errorf("warnings = %d, want 3", logs.Len())
	}
}

func TestCelebrateList_SummarisesTitles(t *testing.T) {
	m := NewMock()
	ak := NewAnxietyKiller(m, "", nil)
	ak.CelebrateList(context.Background(), "Move", []string{"a", "b", "c", "d", "e", "f", "g"})

	p := m.Calls()[0].Prompt
	if !strings.Contains(p, "Completed tasks: a, b, c, d, e, and 2 more\nTotal tasks completed: 7") {
		t.Errorf("prompt = %q", p)
	}
}

func TestAskMe_SendsHistory(t *testing.T) {
	m := NewMock()
	am := NewAskMe(m, "Use cooking analogies.")
	history := TurnsFromHistory([]store.ChatMessage{
		{Role: store.RoleUser, Content: "What is DNS?"},
		{Role: store.RoleAssistant, Content: "A phone book."},
		{Role: "system", Content: "ignored"},
	})

	if _, err := am.Ask(context.Background(), "And TTL?", history); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	req := m.Calls()[0]
	want := []Turn{{Role: store.RoleUser, Text: "What is DNS?"}, {Role: store.RoleAssistant, Text: "A phone book."}}
	if diff := cmp.Diff(want, req.History); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	if req.Prompt != "And TTL?" {
		t.Errorf("prompt = %q, want %q", req.Prompt, "And TTL?")
	}
	if !strings.HasPrefix(req.System, "You are Ask Me") || !strings.HasSuffix(req.System, "Custom Instructions:\nUse cooking analogies.") {
		t.Errorf("system = %q", req.System)
	}
}

func TestAskMe_Explain(t *testing.T) {
	m := NewMock()
	if _, err := NewAskMe(m, "").Explain(context.Background(), "recursion"); err != nil {
		t.Fatalf("Explain: %v", err)
	}
	req := m.Calls()[0]
	if !strings.HasPrefix(req.Prompt, "Explain this topic in an ADHD-friendly way: recursion") {
		t.Errorf("prompt = %q", req.Prompt)
	}
	if req.System != AskMeSystem("") {
		t.Error("custom instructions appended for empty input")
	}
}

func TestNewGenAI_RequiresKey(t *testing.T) {
	if _, err := NewGenAI(context.Background(), GenAIConfig{}); err == nil {
		t.Fatal("expected error without api key")
	}
}
