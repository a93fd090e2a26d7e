// Package store implements the local document store for ByeByeAnxiety.
//
// It uses SQLite (WAL mode) to persist tasks, todo-lists, the social book,
// diary entries, focus sessions, chat history and settings. List fields
// (tags, events, custom fields, ...) are stored as JSON documents inside
// their row. Every list query returns rows in insertion order; upserts keep
// a row's original position.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("store: not found")

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds store configuration.
type Config struct {
	DataDir string
	// FileName is the database file inside DataDir.
	FileName string
}

// DefaultConfig returns the default configuration for the store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:  filepath.Join(home, ".byebye"),
		FileName: "byebye.db",
	}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the document store backed by SQLite.
type Store struct {
	db    *sql.DB
	cfg   Config
	hooks storeHooks
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

type storeHooks struct {
	exec    func(db execer, query string, args ...any) (sql.Result, error)
	query   func(db queryer, query string, args ...any) (*sql.Rows, error)
	beginTx func(db *sql.DB) (*sql.Tx, error)
}

func (s *Store) execHook(db execer, query string, args ...any) (sql.Result, error) {
	if s.hooks.exec != nil {
		return s.hooks.exec(db, query, args...)
	}
	return db.Exec(query, args...)
}

func (s *Store) queryHook(db queryer, query string, args ...any) (*sql.Rows, error) {
	if s.hooks.query != nil {
		return s.hooks.query(db, query, args...)
	}
	return db.Query(query, args...)
}

func (s *Store) beginTxHook() (*sql.Tx, error) {
	if s.hooks.beginTx != nil {
		return s.hooks.beginTx(s.db)
	}
	return s.db.Begin()
}

// New creates a new Store with the given configuration.
// It creates the data directory if needed, opens SQLite with WAL mode,
// and runs migrations.
func New(cfg Config) (*Store, error) {
	if cfg.FileName == "" {
		cfg.FileName = "byebye.db"
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, cfg.FileName)
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	// One connection so the pragmas below hold for every statement.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migration: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS tasks (
			seq          INTEGER PRIMARY KEY AUTOINCREMENT,
			id           TEXT    NOT NULL UNIQUE,
			title        TEXT    NOT NULL,
			description  TEXT    NOT NULL DEFAULT '',
			category     TEXT    NOT NULL,
			completed    INTEGER NOT NULL DEFAULT 0,
			created_at   TEXT    NOT NULL,
			due_date     TEXT,
			start_date   TEXT,
			completed_at TEXT,
			tags         TEXT    NOT NULL DEFAULT '[]',
			subtasks     TEXT    NOT NULL DEFAULT '[]',
			sort_order   INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_category ON tasks(category);
		CREATE INDEX IF NOT EXISTS idx_tasks_due      ON tasks(due_date);
		CREATE INDEX IF NOT EXISTS idx_tasks_start    ON tasks(start_date);

		CREATE TABLE IF NOT EXISTS todolists (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT NOT NULL UNIQUE,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			tasks       TEXT NOT NULL DEFAULT '[]',
			created_at  TEXT NOT NULL,
			created_by  TEXT NOT NULL DEFAULT 'user'
		);

		CREATE TABLE IF NOT EXISTS people (
			seq               INTEGER PRIMARY KEY AUTOINCREMENT,
			id                TEXT    NOT NULL UNIQUE,
			name              TEXT    NOT NULL,
			personal_info     TEXT    NOT NULL DEFAULT '',
			birthday          TEXT,
			birthday_reminder INTEGER NOT NULL DEFAULT 0,
			preferences       TEXT    NOT NULL DEFAULT '',
			events            TEXT    NOT NULL DEFAULT '[]',
			notes             TEXT    NOT NULL DEFAULT '',
			custom_fields     TEXT    NOT NULL DEFAULT '{}',
			created_at        TEXT    NOT NULL,
			updated_at        TEXT    NOT NULL
		);

		CREATE TABLE IF NOT EXISTS diary (
			seq             INTEGER PRIMARY KEY AUTOINCREMENT,
			date            TEXT NOT NULL UNIQUE,
			content         TEXT NOT NULL DEFAULT '',
			ai_summary      TEXT NOT NULL DEFAULT '',
			mood            TEXT,
			completed_tasks TEXT NOT NULL DEFAULT '[]',
			highlights      TEXT NOT NULL DEFAULT '[]',
			created_at      TEXT NOT NULL,
			updated_at      TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS focus_sessions (
			seq                     INTEGER PRIMARY KEY AUTOINCREMENT,
			id                      TEXT    NOT NULL UNIQUE,
			start_time              TEXT    NOT NULL,
			duration_minutes        INTEGER NOT NULL,
			actual_duration_seconds INTEGER NOT NULL DEFAULT 0,
			completed               INTEGER NOT NULL DEFAULT 0,
			points_earned           INTEGER NOT NULL DEFAULT 0,
			end_time                TEXT,
			task_name               TEXT
		);

		CREATE TABLE IF NOT EXISTS chat_messages (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			agent           TEXT NOT NULL,
			conversation_id TEXT NOT NULL DEFAULT 'main',
			role            TEXT NOT NULL,
			content         TEXT NOT NULL,
			timestamp       TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_chat_conv ON chat_messages(agent, conversation_id, timestamp);

		CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS reminders (
			seq           INTEGER PRIMARY KEY AUTOINCREMENT,
			id            TEXT    NOT NULL UNIQUE,
			person_name   TEXT    NOT NULL,
			event         TEXT    NOT NULL,
			date          TEXT    NOT NULL,
			reminder_days INTEGER NOT NULL DEFAULT 7,
			created_at    TEXT    NOT NULL
		);
	`
	_, err := s.execHook(s.db, schema)
	return err
}

// ─── Maintenance ─────────────────────────────────────────────────────────────

// preservedSettings survive ClearAll.
var preservedSettings = []string{"gemini_api_key", "anthropic_api_key"}

// ClearAll wipes every collection. API key settings are kept.
func (s *Store) ClearAll() error {
	tx, err := s.beginTxHook()
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"tasks", "todolists", "people", "diary", "focus_sessions", "chat_messages", "reminders"} {
		if _, err := s.execHook(tx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("store: clear %s: %w", table, err)
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(preservedSettings)), ",")
	args := make([]any, len(preservedSettings))
	for i, k := range preservedSettings {
		args[i] = k
	}
	if _, err := s.execHook(tx, "DELETE FROM settings WHERE key NOT IN ("+placeholders+")", args...); err != nil {
		return fmt.Errorf("store: clear settings: %w", err)
	}

	return tx.Commit()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// encodeJSON marshals list and map fields. Nil slices are stored as "[]".
func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return "[]", nil
	}
	return string(b), nil
}

func decodeStrings(raw string) ([]string, error) {
	out := []string{}
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func decodeStringMap(raw string) (map[string]string, error) {
	out := map[string]string{}
	if raw == "" || raw == "[]" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]string{}
	}
	return out, nil
}

// Now returns the current time formatted the way the store persists it.
func Now() string {
	return time.Now().Format(time.RFC3339)
}

// Today returns the current local date as YYYY-MM-DD.
func Today() string {
	return time.Now().Format(DateLayout)
}

// DateLayout is the layout of every date field (due dates, diary keys, ...).
const DateLayout = "2006-01-02"
