package store

import "database/sql"

// DB exposes the internal *sql.DB for test helpers in store_test.
// This file only compiles during `go test`.
func (s *Store) DB() *sql.DB {
	return s.db
}

// FailExec makes every later exec call fail with err.
func (s *Store) FailExec(err error) {
	s.hooks.exec = func(execer, string, ...any) (sql.Result, error) {
		return nil, err
	}
}

// FailQuery makes every later query call fail with err.
func (s *Store) FailQuery(err error) {
	s.hooks.query = func(queryer, string, ...any) (*sql.Rows, error) {
		return nil, err
	}
}
