package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// ─── Focus ───────────────────────────────────────────────────────────────────

const focusColumns = `id, start_time, duration_minutes, actual_duration_seconds, completed,
	points_earned, end_time, task_name`

// SaveFocusSession inserts or updates a focus session.
func (s *Store) SaveFocusSession(f *FocusSession) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.StartTime == "" {
		f.StartTime = Now()
	}
	_, err := s.execHook(s.db,
		`INSERT INTO focus_sessions (`+focusColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   duration_minutes = excluded.duration_minutes,
		   actual_duration_seconds = excluded.actual_duration_seconds,
		   completed = excluded.completed,
		   points_earned = excluded.points_earned,
		   end_time = excluded.end_time,
		   task_name = excluded.task_name`,
		f.ID, f.StartTime, f.DurationMinutes, f.ActualDurationSeconds, boolInt(f.Completed),
		f.PointsEarned, nullableString(f.EndTime), nullableString(f.TaskName),
	)
	if err != nil {
		return fmt.Errorf("store: save focus session: %w", err)
	}
	return nil
}

// FocusSessions returns every session, oldest first.
func (s *Store) FocusSessions() ([]FocusSession, error) {
	return s.queryFocus(`SELECT ` + focusColumns + ` FROM focus_sessions ORDER BY seq`)
}

// FocusSessionsOn returns the sessions that started on date.
func (s *Store) FocusSessionsOn(date string) ([]FocusSession, error) {
	return s.queryFocus(`SELECT `+focusColumns+` FROM focus_sessions WHERE start_time LIKE ? ORDER BY seq`, date+"%")
}

// FocusStats aggregates every recorded session. Minutes and points only
// count completed sessions.
func (s *Store) FocusStats() (*FocusStats, error) {
	var total, completed, minutes, points int
	row := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(completed), 0),
		       COALESCE(SUM(CASE WHEN completed = 1 THEN actual_duration_seconds / 60 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN completed = 1 THEN points_earned ELSE 0 END), 0)
		FROM focus_sessions`)
	if err := row.Scan(&total, &completed, &minutes, &points); err != nil {
		return nil, fmt.Errorf("store: focus stats: %w", err)
	}
	stats := &FocusStats{
		TotalSessions: completed,
		TotalMinutes:  minutes,
		TotalPoints:   points,
	}
	if total > 0 {
		stats.CompletionRate = float64(completed) / float64(total)
	}
	return stats, nil
}

func (s *Store) queryFocus(query string, args ...any) ([]FocusSession, error) {
	rows, err := s.queryHook(s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list focus sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []FocusSession
	for rows.Next() {
		var (
			f             FocusSession
			completed     int
			end, taskName sql.NullString
		)
		if err := rows.Scan(
			&f.ID, &f.StartTime, &f.DurationMinutes, &f.ActualDurationSeconds, &completed,
			&f.PointsEarned, &end, &taskName,
		); err != nil {
			return nil, err
		}
		f.Completed = completed != 0
		f.EndTime = end.String
		f.TaskName = taskName.String
		results = append(results, f)
	}
	return results, rows.Err()
}
