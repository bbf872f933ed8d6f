package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sadopc/countdown/internal/timer"
)

const defaultVolume = 0.7

// State is the content of a state.json file written by the earlier desktop
// version of the app.
type State struct {
	Version string
	SavedAt string
	Timers  []timer.Timer
	Volume  float64
}

type legacyState struct {
	Version  string          `json:"version"`
	SavedAt  string          `json:"saved_at"`
	Timers   []legacyTimer   `json:"timers"`
	Settings *legacySettings `json:"settings"`
}

type legacySettings struct {
	Volume *float64 `json:"volume"`
}

// Missing keys are nil so the defaults can be told apart from zero values.
type legacyTimer struct {
	ID               *string `json:"id"`
	Name             *string `json:"name"`
	DurationSeconds  *int    `json:"duration_seconds"`
	RemainingSeconds *int    `json:"remaining_seconds"`
	Color            *string `json:"color"`
	Status           *string `json:"status"`
	CreatedAt        *string `json:"created_at"`
	Position         *int    `json:"position"`
}

// Timestamps were written as local ISO-8601, with or without fractions.
var legacyLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// ReadState decodes a legacy state file. Keys missing from a timer take the
// defaults a new timer would have; the remaining time defaults to the full
// duration. The result is not normalized.
func ReadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var raw legacyState
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	st := &State{
		Version: raw.Version,
		SavedAt: raw.SavedAt,
		Volume:  defaultVolume,
	}
	if raw.Settings != nil && raw.Settings.Volume != nil {
		st.Volume = *raw.Settings.Volume
	}
	for _, lt := range raw.Timers {
		st.Timers = append(st.Timers, lt.timer())
	}
	return st, nil
}

func (lt legacyTimer) timer() timer.Timer {
	t := timer.Timer{
		Name:            timer.DefaultName,
		DurationSeconds: timer.DefaultDurationSeconds,
		Color:           timer.DefaultColor,
		Status:          timer.StatusStopped,
	}
	if lt.ID != nil {
		t.ID = *lt.ID
	}
	if lt.Name != nil {
		t.Name = *lt.Name
	}
	if lt.DurationSeconds != nil {
		t.DurationSeconds = *lt.DurationSeconds
	}
	t.RemainingSeconds = t.DurationSeconds
	if lt.RemainingSeconds != nil {
		t.RemainingSeconds = *lt.RemainingSeconds
	}
	if lt.Color != nil {
		t.Color = *lt.Color
	}
	if lt.Status != nil {
		t.Status = timer.Status(*lt.Status)
	}
	if lt.Position != nil {
		t.Position = *lt.Position
	}
	if lt.CreatedAt != nil {
		t.CreatedAt = parseLegacyTime(*lt.CreatedAt)
	}
	return t
}

func parseLegacyTime(s string) time.Time {
	for _, layout := range legacyLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// DefaultStatePath returns the location the desktop version saved its state
// to: $XDG_DATA_HOME/CountdownTimer/state.json, or ~/.local/share when unset.
func DefaultStatePath() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "CountdownTimer", "state.json"), nil
}
