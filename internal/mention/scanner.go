package mention

import (
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

// MaxCandidates caps the completion list.
const MaxCandidates = 15

// Source is the live candidate set.
type Source interface {
	TasksByCategory(category string) ([]store.Task, error)
	TodoLists() ([]store.TodoList, error)
	People() ([]store.Person, error)
}

// Scanner proposes mention candidates for the text being composed.
type Scanner struct {
	src Source
	log *zap.Logger
}

// NewScanner creates a Scanner reading candidates from src.
func NewScanner(src Source, log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{src: src, log: log}
}

// Scan returns the candidates for the mention being typed at cursor, a
// rune offset into text. It returns nil when no mention is open.
func (s *Scanner) Scan(text string, cursor int) []Candidate {
	query, _, ok := openMention([]rune(text), cursor)
	if !ok {
		return nil
	}

	query = strings.TrimSpace(query)
	showAll := len([]rune(query)) <= 1
	needle := strings.ToLower(query)
	matches := func(name string) bool {
		return showAll || strings.Contains(strings.ToLower(name), needle)
	}

	var out []Candidate
	full := func() bool { return len(out) >= MaxCandidates }

	for _, category := range store.Categories() {
		tasks, err := s.src.TasksByCategory(category)
		if err != nil {
			s.log.Warn("mention: task candidates unavailable", zap.String("category", category), zap.Error(err))
			continue
		}
		for _, t := range tasks {
			if full() {
				return out
			}
			if matches(t.Title) {
				out = append(out, newCandidate(TaskRef(t), taskEmoji))
			}
		}
	}

	lists, err := s.src.TodoLists()
	if err != nil {
		s.log.Warn("mention: todo-list candidates unavailable", zap.Error(err))
	}
	for _, l := range lists {
		if full() {
			return out
		}
		if matches(l.Name) {
			out = append(out, newCandidate(TodoListRef(l), todoListEmoji))
		}
	}

	people, err := s.src.People()
	if err != nil {
		s.log.Warn("mention: people candidates unavailable", zap.Error(err))
	}
	for _, p := range people {
		if full() {
			return out
		}
		if matches(p.Name) {
			out = append(out, newCandidate(PersonRef(p), personEmoji))
		}
	}

	return out
}

// openMention finds the mention being composed at cursor. It returns the
// text typed after "@" and the rune index of the "@". ok is false when the
// nearest "@" is escaped, missing, or separated from the cursor by
// whitespace.
func openMention(runes []rune, cursor int) (query string, at int, ok bool) {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}
	for i := cursor - 1; i >= 0; i-- {
		r := runes[i]
		if unicode.IsSpace(r) {
			return "", 0, false
		}
		if r == '@' {
			if escaped(runes, i) {
				return "", 0, false
			}
			return string(runes[i+1 : cursor]), i, true
		}
	}
	return "", 0, false
}

func escaped(runes []rune, i int) bool {
	return i > 0 && runes[i-1] == '\\'
}
