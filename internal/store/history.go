package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sadopc/countdown/internal/timer"
)

// RecordFinish stores that t counted down to zero just now.
func (s *Store) RecordFinish(t timer.Timer) (*Finish, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO finishes (timer_id, name, color, duration_seconds, finished_at) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Color, t.DurationSeconds, now,
	)
	if err != nil {
		return nil, fmt.Errorf("record finish: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetFinish(id)
}

func (s *Store) GetFinish(id int64) (*Finish, error) {
	f := &Finish{}
	var finishedAt string
	err := s.db.QueryRow(
		`SELECT id, timer_id, name, color, duration_seconds, finished_at FROM finishes WHERE id = ?`, id,
	).Scan(&f.ID, &f.TimerID, &f.Name, &f.Color, &f.DurationSeconds, &finishedAt)
	if err != nil {
		return nil, fmt.Errorf("get finish %d: %w", id, err)
	}
	f.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt)
	return f, nil
}

func (s *Store) ListFinishes(f FinishFilter) ([]Finish, error) {
	query := `SELECT id, timer_id, name, color, duration_seconds, finished_at FROM finishes WHERE 1=1`
	var args []any

	if f.TimerID != nil {
		query += ` AND timer_id = ?`
		args = append(args, *f.TimerID)
	}
	if f.From != nil {
		query += ` AND finished_at >= ?`
		args = append(args, f.From.Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND finished_at < ?`
		args = append(args, f.To.Format(time.RFC3339))
	}
	query += ` ORDER BY finished_at DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list finishes: %w", err)
	}
	defer rows.Close()

	var finishes []Finish
	for rows.Next() {
		var fin Finish
		var finishedAt string
		if err := rows.Scan(&fin.ID, &fin.TimerID, &fin.Name, &fin.Color, &fin.DurationSeconds, &finishedAt); err != nil {
			return nil, err
		}
		fin.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt)
		finishes = append(finishes, fin)
	}
	return finishes, rows.Err()
}

// GetDailySummary aggregates finished countdown time per timer per day. The
// name and color are taken from the latest finish of each timer that day.
func (s *Store) GetDailySummary(from, to time.Time) ([]DailySummary, error) {
	rows, err := s.db.Query(`
		SELECT date(finished_at) AS day, timer_id, name, color,
		       COALESCE(SUM(duration_seconds), 0), COUNT(*), MAX(finished_at)
		FROM finishes
		WHERE finished_at >= ? AND finished_at < ?
		GROUP BY day, timer_id
		ORDER BY day, name`,
		from.Format(time.RFC3339), to.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	defer rows.Close()

	var summaries []DailySummary
	for rows.Next() {
		var ds DailySummary
		var latest string
		if err := rows.Scan(&ds.Date, &ds.TimerID, &ds.TimerName, &ds.TimerColor, &ds.TotalSeconds, &ds.FinishCount, &latest); err != nil {
			return nil, err
		}
		summaries = append(summaries, ds)
	}
	return summaries, rows.Err()
}

func (s *Store) GetTodayTotal() (int64, error) {
	today := time.Now().UTC().Format("2006-01-02")
	var total sql.NullInt64
	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(duration_seconds), 0)
		FROM finishes
		WHERE date(finished_at) = ?`, today,
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}

// ClearHistory deletes every finish record.
func (s *Store) ClearHistory() error {
	_, err := s.db.Exec(`DELETE FROM finishes`)
	return err
}
