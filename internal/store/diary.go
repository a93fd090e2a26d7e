package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ─── Diary ───────────────────────────────────────────────────────────────────

const diaryColumns = `date, content, ai_summary, mood, completed_tasks, highlights, created_at, updated_at`

// SaveDiaryEntry inserts or updates the entry for e.Date.
func (s *Store) SaveDiaryEntry(e *DiaryEntry) error {
	if e.Date == "" {
		return fmt.Errorf("store: save diary entry: empty date")
	}
	now := Now()
	if e.CreatedAt == "" {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	completed, err := encodeJSON(e.CompletedTasks)
	if err != nil {
		return fmt.Errorf("store: encode completed tasks: %w", err)
	}
	highlights, err := encodeJSON(e.Highlights)
	if err != nil {
		return fmt.Errorf("store: encode highlights: %w", err)
	}

	_, err = s.execHook(s.db,
		`INSERT INTO diary (`+diaryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
		   content = excluded.content,
		   ai_summary = excluded.ai_summary,
		   mood = excluded.mood,
		   completed_tasks = excluded.completed_tasks,
		   highlights = excluded.highlights,
		   updated_at = excluded.updated_at`,
		e.Date, e.Content, e.AISummary, nullableString(e.Mood), completed, highlights, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("store: save diary entry: %w", err)
	}
	return nil
}

// GetDiaryEntry returns the entry for date, or ErrNotFound.
func (s *Store) GetDiaryEntry(date string) (*DiaryEntry, error) {
	row := s.db.QueryRow(`SELECT `+diaryColumns+` FROM diary WHERE date = ?`, date)
	e, err := scanDiary(row)
	if isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get diary entry: %w", err)
	}
	return e, nil
}

// AppendDiary appends text to the entry for date, separated by a blank line,
// creating the entry when missing.
func (s *Store) AppendDiary(date, text string) (*DiaryEntry, error) {
	e, err := s.GetDiaryEntry(date)
	if errors.Is(err, ErrNotFound) {
		e = &DiaryEntry{Date: date, CompletedTasks: []string{}, Highlights: []string{}}
	} else if err != nil {
		return nil, err
	}
	if strings.TrimSpace(e.Content) != "" {
		e.Content += "\n\n" + text
	} else {
		e.Content = text
	}
	if err := s.SaveDiaryEntry(e); err != nil {
		return nil, err
	}
	return e, nil
}

// DiaryEntries returns every entry, newest date first.
func (s *Store) DiaryEntries() ([]DiaryEntry, error) {
	rows, err := s.queryHook(s.db, `SELECT `+diaryColumns+` FROM diary ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list diary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []DiaryEntry
	for rows.Next() {
		e, err := scanDiary(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *e)
	}
	return results, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDiary(row scanner) (*DiaryEntry, error) {
	var (
		e                       DiaryEntry
		mood                    sql.NullString
		rawCompleted, rawHighls string
	)
	if err := row.Scan(&e.Date, &e.Content, &e.AISummary, &mood, &rawCompleted, &rawHighls, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Mood = mood.String
	var err error
	if e.CompletedTasks, err = decodeStrings(rawCompleted); err != nil {
		return nil, fmt.Errorf("decode completed tasks of %s: %w", e.Date, err)
	}
	if e.Highlights, err = decodeStrings(rawHighls); err != nil {
		return nil, fmt.Errorf("decode highlights of %s: %w", e.Date, err)
	}
	return &e, nil
}
