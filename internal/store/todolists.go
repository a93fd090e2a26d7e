package store

import (
	"fmt"

	"github.com/google/uuid"
)

// ─── Todo lists ──────────────────────────────────────────────────────────────

const todoListColumns = `id, name, description, tasks, created_at, created_by`

// SaveTodoList inserts or updates a todo-list. Updates keep the original position.
func (s *Store) SaveTodoList(l *TodoList) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt == "" {
		l.CreatedAt = Now()
	}
	if l.CreatedBy == "" {
		l.CreatedBy = "user"
	}
	raw, err := encodeJSON(l.Tasks)
	if err != nil {
		return fmt.Errorf("store: encode list tasks: %w", err)
	}

	_, err = s.execHook(s.db,
		`INSERT INTO todolists (`+todoListColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   tasks = excluded.tasks`,
		l.ID, l.Name, l.Description, raw, l.CreatedAt, l.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("store: save todolist: %w", err)
	}
	return nil
}

// GetTodoList returns a todo-list by id, or ErrNotFound.
func (s *Store) GetTodoList(id string) (*TodoList, error) {
	lists, err := s.queryTodoLists(s.db, `SELECT `+todoListColumns+` FROM todolists WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("store: get todolist: %w", err)
	}
	if len(lists) == 0 {
		return nil, ErrNotFound
	}
	return &lists[0], nil
}

// TodoLists returns every todo-list in insertion order.
func (s *Store) TodoLists() ([]TodoList, error) {
	lists, err := s.queryTodoLists(s.db, `SELECT `+todoListColumns+` FROM todolists ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("store: list todolists: %w", err)
	}
	return lists, nil
}

// TodoListsContaining returns the lists that reference taskID.
func (s *Store) TodoListsContaining(taskID string) ([]TodoList, error) {
	lists, err := s.TodoLists()
	if err != nil {
		return nil, err
	}
	var out []TodoList
	for _, l := range lists {
		for _, id := range l.Tasks {
			if id == taskID {
				out = append(out, l)
				break
			}
		}
	}
	return out, nil
}

// DeleteTodoList removes a todo-list. Its tasks are left untouched.
func (s *Store) DeleteTodoList(id string) error {
	res, err := s.execHook(s.db, `DELETE FROM todolists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete todolist: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) queryTodoLists(db queryer, query string, args ...any) ([]TodoList, error) {
	rows, err := s.queryHook(db, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []TodoList
	for rows.Next() {
		var (
			l   TodoList
			raw string
		)
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &raw, &l.CreatedAt, &l.CreatedBy); err != nil {
			return nil, err
		}
		if l.Tasks, err = decodeStrings(raw); err != nil {
			return nil, fmt.Errorf("decode tasks of %s: %w", l.ID, err)
		}
		results = append(results, l)
	}
	return results, rows.Err()
}
