package store

import "time"

// Finish records one countdown that ran to zero.
type Finish struct {
	ID              int64
	TimerID         string
	Name            string
	Color           string
	DurationSeconds int64
	FinishedAt      time.Time
}

type Setting struct {
	Key   string
	Value string
}

// FinishFilter is used to filter finish history in queries.
type FinishFilter struct {
	TimerID *string
	From    *time.Time
	To      *time.Time
	Limit   int
}

// DailySummary represents aggregated countdown time per timer per day.
type DailySummary struct {
	Date         string
	TimerID      string
	TimerName    string
	TimerColor   string
	TotalSeconds int64
	FinishCount  int
}
