package timer

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Status is the run state of a Timer. The string values are the persisted form.
type Status string

const (
	StatusStopped Status = "stopped"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

func (s Status) valid() bool {
	switch s {
	case StatusStopped, StatusRunning, StatusPaused:
		return true
	}
	return false
}

const (
	DefaultName            = "untitled"
	DefaultDurationSeconds = 1500
	DefaultColor           = "#4CAF50"
	MaxNameLength          = 50
)

// Colors is the preset palette offered when creating a timer.
var Colors = []string{
	"#4CAF50",
	"#2196F3",
	"#9C27B0",
	"#FF9800",
	"#00BCD4",
	"#E91E63",
	"#795548",
	"#607D8B",
}

// Timer is one countdown. Values handed out by the Manager are copies.
type Timer struct {
	ID               string
	Name             string
	DurationSeconds  int
	RemainingSeconds int
	Color            string
	Status           Status
	CreatedAt        time.Time
	Position         int
}

// Start moves the timer to running unless it has no time left.
func (t *Timer) Start() { t.fire(eventStart) }

// Pause is a no-op unless the timer is running.
func (t *Timer) Pause() { t.fire(eventPause) }

// Resume continues a paused timer that still has time left.
func (t *Timer) Resume() { t.fire(eventResume) }

// Stop halts the timer and restores the full duration.
func (t *Timer) Stop() {
	t.fire(eventStop)
	t.RemainingSeconds = t.DurationSeconds
}

// Reset restores the full duration and leaves the timer stopped.
func (t *Timer) Reset() {
	t.RemainingSeconds = t.DurationSeconds
	t.fire(eventReset)
}

// Tick takes one second off a running timer. It reports true exactly when
// this tick brought the timer to zero, in which case the timer is stopped.
func (t *Timer) Tick() bool {
	if t.Status != StatusRunning || t.RemainingSeconds <= 0 {
		return false
	}
	t.RemainingSeconds--
	if t.RemainingSeconds > 0 {
		return false
	}
	t.RemainingSeconds = 0
	t.fire(eventFinish)
	return true
}

func (t Timer) IsRunning() bool  { return t.Status == StatusRunning }
func (t Timer) IsPaused() bool   { return t.Status == StatusPaused }
func (t Timer) IsFinished() bool { return t.RemainingSeconds == 0 }

func (t Timer) FormattedRemaining() string { return FormatTime(t.RemainingSeconds) }
func (t Timer) FormattedDuration() string  { return FormatTime(t.DurationSeconds) }

// Progress returns the elapsed fraction of the duration in [0, 1].
func (t Timer) Progress() float64 {
	if t.DurationSeconds <= 0 {
		return 0
	}
	p := float64(t.DurationSeconds-t.RemainingSeconds) / float64(t.DurationSeconds)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// FormatTime renders seconds as HH:MM:SS. Hours are not wrapped at 24.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// cleanName trims the name and cuts it to MaxNameLength runes.
func cleanName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = strings.TrimSpace(string([]rune(name)[:MaxNameLength]))
	}
	return name, true
}
