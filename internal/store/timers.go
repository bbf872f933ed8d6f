package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sadopc/countdown/internal/timer"
)

// LoadTimers returns every persisted timer snapshot ordered by position.
// A NULL remaining_seconds means the countdown was never advanced.
func (s *Store) LoadTimers() ([]timer.Timer, error) {
	rows, err := s.db.Query(
		`SELECT id, name, duration_seconds, remaining_seconds, color, status, created_at, position
		 FROM timers ORDER BY position, created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list timers: %w", err)
	}
	defer rows.Close()

	var timers []timer.Timer
	for rows.Next() {
		var t timer.Timer
		var remaining sql.NullInt64
		var status, createdAt string
		if err := rows.Scan(&t.ID, &t.Name, &t.DurationSeconds, &remaining, &t.Color, &status, &createdAt, &t.Position); err != nil {
			return nil, err
		}
		t.RemainingSeconds = t.DurationSeconds
		if remaining.Valid {
			t.RemainingSeconds = int(remaining.Int64)
		}
		t.Status = timer.Status(status)
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		timers = append(timers, t)
	}
	return timers, rows.Err()
}

// SaveTimers replaces the persisted collection with timers.
func (s *Store) SaveTimers(timers []timer.Timer) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save timers: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM timers`); err != nil {
		return fmt.Errorf("clear timers: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO timers (id, name, duration_seconds, remaining_seconds, color, status, created_at, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare insert timer: %w", err)
	}
	defer stmt.Close()

	for _, t := range timers {
		_, err := stmt.Exec(
			t.ID, t.Name, t.DurationSeconds, t.RemainingSeconds, t.Color,
			string(t.Status), t.CreatedAt.UTC().Format(time.RFC3339), t.Position,
		)
		if err != nil {
			return fmt.Errorf("insert timer %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save timers: %w", err)
	}
	return nil
}

// CountTimers returns how many timers are persisted.
func (s *Store) CountTimers() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM timers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count timers: %w", err)
	}
	return n, nil
}
