package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/countdown/internal/timer"
)

// timerForm is the add/edit dialog. Values are pointers so they survive the
// value copies bubbletea makes of the parent model.
type timerForm struct {
	form     *huh.Form
	editing  bool
	original timer.Timer

	name    *string
	hours   *string
	minutes *string
	seconds *string
	color   *string
}

func newTimerForm(name string, durationSeconds int, color string) *timerForm {
	h, m, s := splitSeconds(durationSeconds)
	f := &timerForm{
		name:    &name,
		hours:   ptr(strconv.Itoa(h)),
		minutes: ptr(strconv.Itoa(m)),
		seconds: ptr(strconv.Itoa(s)),
		color:   &color,
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").
				CharLimit(timer.MaxNameLength).
				Validate(validateName).
				Value(f.name),
			huh.NewInput().Title("Hours").Validate(validateUnit(99)).Value(f.hours),
			huh.NewInput().Title("Minutes").Validate(validateUnit(59)).Value(f.minutes),
			huh.NewInput().Title("Seconds").Validate(validateUnit(59)).Value(f.seconds),
			huh.NewSelect[string]().Title("Color").Options(colorOptions(color)...).Value(f.color),
		),
	).WithShowHelp(true).WithShowErrors(true)
	return f
}

// newEditForm prefills the dialog with t.
func newEditForm(t timer.Timer) *timerForm {
	f := newTimerForm(t.Name, t.DurationSeconds, t.Color)
	f.editing = true
	f.original = t
	return f
}

func ptr(s string) *string { return &s }

func colorOptions(current string) []huh.Option[string] {
	colors := timer.Colors
	known := false
	for _, c := range colors {
		if strings.EqualFold(c, current) {
			known = true
			break
		}
	}
	if !known && current != "" {
		colors = append([]string{current}, colors...)
	}

	opts := make([]huh.Option[string], len(colors))
	for i, c := range colors {
		opts[i] = huh.NewOption(fmt.Sprintf("%s %s", colorDot(c), c), c)
	}
	return opts
}

func validateName(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("name is required")
	}
	if utf8.RuneCountInString(s) > timer.MaxNameLength {
		return fmt.Errorf("name must be at most %d characters", timer.MaxNameLength)
	}
	return nil
}

func validateUnit(max int) func(string) error {
	return func(s string) error {
		_, err := parseUnit(s, max)
		return err
	}
}

func parseUnit(s string, max int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > max {
		return 0, fmt.Errorf("enter a number from 0 to %d", max)
	}
	return n, nil
}

// durationSeconds is the total of the three duration fields.
func (f *timerForm) durationSeconds() (int, error) {
	h, err := parseUnit(*f.hours, 99)
	if err != nil {
		return 0, err
	}
	m, err := parseUnit(*f.minutes, 59)
	if err != nil {
		return 0, err
	}
	s, err := parseUnit(*f.seconds, 59)
	if err != nil {
		return 0, err
	}
	return h*3600 + m*60 + s, nil
}

// changes lists what an edit modifies. The duration is only included when it
// differs, since setting it restarts the countdown.
func (f *timerForm) changes() (timer.Changes, error) {
	secs, err := f.durationSeconds()
	if err != nil {
		return timer.Changes{}, err
	}
	c := timer.Changes{Name: f.name, Color: f.color}
	if secs != f.original.DurationSeconds {
		c.DurationSeconds = &secs
	}
	return c, nil
}

func (f *timerForm) title() string {
	if f.editing {
		return "Edit Timer"
	}
	return "New Timer"
}

// --- Cards ---

func renderCard(t timer.Timer, selected bool, w int) string {
	style := cardStyle
	if selected {
		style = selectedCardStyle
	}

	var remaining, indicator string
	switch {
	case t.IsRunning():
		remaining = remainingRunningStyle.Render(t.FormattedRemaining())
		indicator = successStyle.Render("●  RUNNING")
	case t.IsPaused():
		remaining = remainingPausedStyle.Render(t.FormattedRemaining())
		indicator = warningStyle.Render("⏸  PAUSED")
	case t.IsFinished():
		remaining = remainingStyle.Render(t.FormattedRemaining())
		indicator = highlightStyle.Render("✓  DONE")
	default:
		remaining = remainingStyle.Render(t.FormattedRemaining())
		indicator = mutedStyle.Render("■  STOPPED")
	}

	inner := w - 4
	if inner < 10 {
		inner = 10
	}
	title := fmt.Sprintf("%s %s", colorDot(t.Color), titleStyle.Render(t.Name))
	right := fmt.Sprintf("%s  %s", remaining, mutedStyle.Render("/ "+t.FormattedDuration()))
	gap := inner - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	top := title + strings.Repeat(" ", gap) + right

	bar := progressBar(t.Progress(), inner-lipgloss.Width(indicator)-2, t.Color)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, bar, "  ", indicator)

	return style.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, top, bottom))
}

// progressBar draws the elapsed share p in [0, 1] as a bar w cells wide.
func progressBar(p float64, w int, color string) string {
	if w < 1 {
		return ""
	}
	filled := int(p*float64(w) + 0.5)
	if filled > w {
		filled = w
	}
	if filled < 0 {
		filled = 0
	}
	fill := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(strings.Repeat("█", filled))
	return fill + progressEmptyStyle.Render(strings.Repeat("░", w-filled))
}
