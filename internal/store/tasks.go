package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ─── Tasks ───────────────────────────────────────────────────────────────────

const taskColumns = `id, title, description, category, completed, created_at,
	due_date, start_date, completed_at, tags, subtasks, sort_order`

// byCategory orders tasks by canonical category, then insertion.
const byCategory = ` ORDER BY CASE category
	WHEN 'today_must' THEN 0 WHEN 'future_date' THEN 1
	WHEN 'long_term' THEN 2 ELSE 3 END, seq`

// NewTask builds a task with a fresh id and creation time. It is not saved.
func NewTask(title, category string) *Task {
	return &Task{
		ID:        uuid.NewString(),
		Title:     title,
		Category:  category,
		CreatedAt: Now(),
		Tags:      []string{},
		Subtasks:  []string{},
	}
}

// SaveTask inserts or updates a task. Updates keep the original position.
func (s *Store) SaveTask(t *Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt == "" {
		t.CreatedAt = Now()
	}
	if !ValidCategory(t.Category) {
		return fmt.Errorf("store: save task: unknown category %q", t.Category)
	}
	tags, err := encodeJSON(t.Tags)
	if err != nil {
		return fmt.Errorf("store: encode tags: %w", err)
	}
	subtasks, err := encodeJSON(t.Subtasks)
	if err != nil {
		return fmt.Errorf("store: encode subtasks: %w", err)
	}

	_, err = s.execHook(s.db,
		`INSERT INTO tasks (`+taskColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   description = excluded.description,
		   category = excluded.category,
		   completed = excluded.completed,
		   due_date = excluded.due_date,
		   start_date = excluded.start_date,
		   completed_at = excluded.completed_at,
		   tags = excluded.tags,
		   subtasks = excluded.subtasks,
		   sort_order = excluded.sort_order`,
		t.ID, t.Title, t.Description, t.Category, boolInt(t.Completed), t.CreatedAt,
		nullableString(t.DueDate), nullableString(t.StartDate), nullableString(t.CompletedAt),
		tags, subtasks, t.Order,
	)
	if err != nil {
		return fmt.Errorf("store: save task: %w", err)
	}
	return nil
}

// GetTask returns a task by id, or ErrNotFound.
func (s *Store) GetTask(id string) (*Task, error) {
	tasks, err := s.queryTasks(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("store: get task: %w", err)
	}
	if len(tasks) == 0 {
		return nil, ErrNotFound
	}
	return &tasks[0], nil
}

// TasksByCategory returns the tasks of one category in insertion order.
func (s *Store) TasksByCategory(category string) ([]Task, error) {
	tasks, err := s.queryTasks(`SELECT `+taskColumns+` FROM tasks WHERE category = ? ORDER BY seq`, category)
	if err != nil {
		return nil, fmt.Errorf("store: tasks by category: %w", err)
	}
	return tasks, nil
}

// AllTasks returns every task, grouped by category in canonical order.
func (s *Store) AllTasks() ([]Task, error) {
	tasks, err := s.queryTasks(`SELECT ` + taskColumns + ` FROM tasks` + byCategory)
	if err != nil {
		return nil, fmt.Errorf("store: all tasks: %w", err)
	}
	return tasks, nil
}

// TasksDueOn returns tasks whose due date equals date.
func (s *Store) TasksDueOn(date string) ([]Task, error) {
	tasks, err := s.queryTasks(`SELECT `+taskColumns+` FROM tasks WHERE due_date = ?`+byCategory, date)
	if err != nil {
		return nil, fmt.Errorf("store: tasks due on: %w", err)
	}
	return tasks, nil
}

// TasksOnDate returns tasks that start or are due on date.
func (s *Store) TasksOnDate(date string) ([]Task, error) {
	tasks, err := s.queryTasks(
		`SELECT `+taskColumns+` FROM tasks WHERE start_date = ? OR due_date = ?`+byCategory,
		date, date,
	)
	if err != nil {
		return nil, fmt.Errorf("store: tasks on date: %w", err)
	}
	return tasks, nil
}

// TasksCompletedOn returns tasks whose completion timestamp falls on date.
func (s *Store) TasksCompletedOn(date string) ([]Task, error) {
	tasks, err := s.queryTasks(
		`SELECT `+taskColumns+` FROM tasks WHERE completed = 1 AND completed_at LIKE ?`+byCategory,
		date+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("store: tasks completed on: %w", err)
	}
	return tasks, nil
}

// DeleteTask removes a task and drops its id from every todo-list.
func (s *Store) DeleteTask(id string) error {
	tx, err := s.beginTxHook()
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := s.execHook(tx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	lists, err := s.queryTodoLists(tx, `SELECT `+todoListColumns+` FROM todolists ORDER BY seq`)
	if err != nil {
		return fmt.Errorf("store: delete task: %w", err)
	}
	for _, l := range lists {
		kept := l.Tasks[:0]
		for _, tid := range l.Tasks {
			if tid != id {
				kept = append(kept, tid)
			}
		}
		if len(kept) == len(l.Tasks) {
			continue
		}
		raw, err := encodeJSON(kept)
		if err != nil {
			return fmt.Errorf("store: encode list tasks: %w", err)
		}
		if _, err := s.execHook(tx, `UPDATE todolists SET tasks = ? WHERE id = ?`, raw, l.ID); err != nil {
			return fmt.Errorf("store: delete task: %w", err)
		}
	}

	return tx.Commit()
}

func (s *Store) queryTasks(query string, args ...any) ([]Task, error) {
	rows, err := s.queryHook(s.db, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []Task
	for rows.Next() {
		var (
			t                       Task
			completed               int
			due, start, completedAt sql.NullString
			rawTags, rawSubtasks    string
		)
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Category, &completed, &t.CreatedAt,
			&due, &start, &completedAt, &rawTags, &rawSubtasks, &t.Order,
		); err != nil {
			return nil, err
		}
		t.Completed = completed != 0
		t.DueDate = due.String
		t.StartDate = start.String
		t.CompletedAt = completedAt.String
		if t.Tags, err = decodeStrings(rawTags); err != nil {
			return nil, fmt.Errorf("decode tags of %s: %w", t.ID, err)
		}
		if t.Subtasks, err = decodeStrings(rawSubtasks); err != nil {
			return nil, fmt.Errorf("decode subtasks of %s: %w", t.ID, err)
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

// isNoRows reports whether err means "no such row".
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
