package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/countdown/internal/timer"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimers viewState = iota
	viewReports
	viewSettings
)

var viewNames = []string{"Timers", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// timerFinishedMsg carries a timer that just counted down to zero.
type timerFinishedMsg struct {
	timer timer.Timer
}

type timersChangedMsg struct{}

type finishRecordedMsg struct {
	name string
}

type exportDoneMsg struct {
	path string
}

type settingsSavedMsg struct{}

// --- Helpers ---

func errStatus(err error) tea.Msg {
	return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func formatMinutes(secs int64) string {
	return fmt.Sprintf("%dm", secs/60)
}

// splitSeconds breaks a duration in seconds into hours, minutes and seconds.
func splitSeconds(secs int) (h, m, s int) {
	return secs / 3600, (secs % 3600) / 60, secs % 60
}
