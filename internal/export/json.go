package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/countdown/internal/timer"
)

// document is the shared shape of the JSON and YAML exports.
type document struct {
	ExportedAt string   `json:"exported_at" yaml:"exported_at"`
	Count      int      `json:"count" yaml:"count"`
	Timers     []record `json:"timers" yaml:"timers"`
}

type record struct {
	ID           string `json:"id" yaml:"id"`
	Position     int    `json:"position" yaml:"position"`
	Name         string `json:"name" yaml:"name"`
	Status       string `json:"status" yaml:"status"`
	DurationSec  int    `json:"duration_seconds" yaml:"duration_seconds"`
	Duration     string `json:"duration" yaml:"duration"`
	RemainingSec int    `json:"remaining_seconds" yaml:"remaining_seconds"`
	Remaining    string `json:"remaining" yaml:"remaining"`
	Color        string `json:"color" yaml:"color"`
	CreatedAt    string `json:"created_at" yaml:"created_at"`
}

func newDocument(timers []timer.Timer) document {
	doc := document{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(timers),
	}
	for _, t := range timers {
		doc.Timers = append(doc.Timers, record{
			ID:           t.ID,
			Position:     t.Position,
			Name:         t.Name,
			Status:       string(t.Status),
			DurationSec:  t.DurationSeconds,
			Duration:     t.FormattedDuration(),
			RemainingSec: t.RemainingSeconds,
			Remaining:    t.FormattedRemaining(),
			Color:        t.Color,
			CreatedAt:    t.CreatedAt.Local().Format(time.RFC3339),
		})
	}
	return doc
}

func ToJSON(timers []timer.Timer, path string) error {
	data, err := json.MarshalIndent(newDocument(timers), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
