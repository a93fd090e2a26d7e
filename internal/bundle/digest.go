package bundle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

// Agent names under which chat history is stored.
const (
	AgentAnxietyKiller = "anxiety_killer"
	AgentAskMe         = "ask_me"
)

// DigestMessageRunes caps each chat message quoted in a day digest.
const DigestMessageRunes = 300

// DigestSource is the store surface Digest reads.
type DigestSource interface {
	GetDiaryEntry(date string) (*store.DiaryEntry, error)
	TasksCompletedOn(date string) ([]store.Task, error)
	ChatHistory(q store.HistoryQuery) ([]store.ChatMessage, error)
	TodoLists() ([]store.TodoList, error)
}

const digestInstruction = "\nPlease create a brief, encouraging summary (under 150 words) that " +
	"synthesizes the user's diary entry, completed tasks, conversations with AI, and activities. " +
	"Focus on understanding the user's emotional state, achievements, and overall day experience."

// Digest renders everything that happened on date as the context of a
// daily summary request. Missing pieces are skipped.
func Digest(ctx context.Context, src DigestSource, date string, log *zap.Logger) string {
	if log == nil {
		log = zap.NewNop()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "User's day on %s:\n\n", date)

	diary := ""
	if e, err := src.GetDiaryEntry(date); err == nil {
		diary = e.Content
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Warn("bundle: digest diary unavailable", zap.Error(err))
	}
	if diary != "" {
		fmt.Fprintf(&b, "Diary entry:\n%s\n\n", diary)
	} else {
		b.WriteString("Diary entry: (No diary content written today)\n\n")
	}

	done, err := src.TasksCompletedOn(date)
	if err != nil {
		log.Warn("bundle: digest tasks unavailable", zap.Error(err))
	}
	if len(done) > 0 {
		fmt.Fprintf(&b, "Completed tasks (%d):\n", len(done))
		for _, t := range done {
			fmt.Fprintf(&b, "- %s\n", t.Title)
		}
		b.WriteString("\n")
	}

	writeChats(ctx, &b, src, log, date, AgentAnxietyKiller, "Anxiety Killer conversations:", "User", "AI")
	writeChats(ctx, &b, src, log, date, AgentAskMe, "Ask Me questions and answers:", "User question", "AI answer")

	lists, err := src.TodoLists()
	if err != nil {
		log.Warn("bundle: digest todo-lists unavailable", zap.Error(err))
	}
	var created []string
	for _, l := range lists {
		if strings.HasPrefix(l.CreatedAt, date) {
			created = append(created, l.Name)
		}
	}
	if len(created) > 0 {
		b.WriteString("TodoList operations:\n")
		for _, name := range created {
			fmt.Fprintf(&b, "- Created todolist: %s\n", name)
		}
		b.WriteString("\n")
	}

	b.WriteString(digestInstruction)
	return b.String()
}

func writeChats(ctx context.Context, b *strings.Builder, src DigestSource, log *zap.Logger,
	date, agent, heading, userLabel, aiLabel string) {
	if ctx.Err() != nil {
		return
	}
	msgs, err := src.ChatHistory(store.HistoryQuery{Agent: agent, Date: date})
	if err != nil {
		log.Warn("bundle: digest chats unavailable", zap.String("agent", agent), zap.Error(err))
		return
	}
	if len(msgs) == 0 {
		return
	}
	b.WriteString(heading + "\n")
	for _, m := range msgs {
		content := truncateRunes(m.Content, DigestMessageRunes)
		switch m.Role {
		case store.RoleUser:
			fmt.Fprintf(b, "%s: %s\n", userLabel, content)
		case store.RoleAssistant:
			fmt.Fprintf(b, "%s: %s\n", aiLabel, content)
		}
	}
	b.WriteString("\n")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
