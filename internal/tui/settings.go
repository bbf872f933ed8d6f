package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/countdown/internal/store"
	"github.com/sadopc/countdown/internal/timer"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	volume          *string
	soundEnabled    *bool
	bellEnabled     *bool
	defaultDuration *string
	defaultColor    *string
}

func newSettingsModel(s *store.Store) settingsModel {
	vol, dur, color := "", "", ""
	sound, bell := true, true
	return settingsModel{
		store:           s,
		volume:          &vol,
		soundEnabled:    &sound,
		bellEnabled:     &bell,
		defaultDuration: &dur,
		defaultColor:    &color,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.volume = volumeToPercent(s.getVal("volume", "0.7"))
	*s.soundEnabled = s.store.GetBool("sound_enabled", true)
	*s.bellEnabled = s.store.GetBool("bell_enabled", true)
	*s.defaultDuration = secsToMin(s.getVal("default_duration", strconv.Itoa(timer.DefaultDurationSeconds)))
	*s.defaultColor = s.getVal("default_color", timer.DefaultColor)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Volume (%)").Validate(validatePercent).Value(s.volume),
			huh.NewConfirm().Title("Play a sound when a timer finishes").Value(s.soundEnabled),
			huh.NewConfirm().Title("Ring the terminal bell").Value(s.bellEnabled),
		).Title("Alerts"),
		huh.NewGroup(
			huh.NewInput().Title("Default duration (min)").Validate(validateMinutes).Value(s.defaultDuration),
			huh.NewSelect[string]().Title("Default color").
				Options(colorOptions(*s.defaultColor)...).
				Value(s.defaultColor),
		).Title("New timers"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, func() tea.Msg { return errStatus(err) }
		}
		return s, tea.Batch(s.refresh(), func() tea.Msg { return settingsSavedMsg{} })
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	values := map[string]string{
		"volume":           percentToVolume(*s.volume),
		"sound_enabled":    strconv.FormatBool(*s.soundEnabled),
		"bell_enabled":     strconv.FormatBool(*s.bellEnabled),
		"default_duration": minToSecs(*s.defaultDuration),
		"default_color":    *s.defaultColor,
	}
	for k, v := range values {
		if err := s.store.SetSetting(k, v); err != nil {
			return fmt.Errorf("save setting %s: %w", k, err)
		}
	}
	return nil
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "default_duration":
		if secs, err := strconv.Atoi(v); err == nil {
			return timer.FormatTime(secs)
		}
	case "volume":
		return volumeToPercent(v) + "%"
	case "default_color":
		return colorDot(v) + " " + v
	}
	return v
}

func validatePercent(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 100 {
		return fmt.Errorf("enter a number from 0 to 100")
	}
	return nil
}

func validateMinutes(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 99*60 {
		return fmt.Errorf("enter a number of minutes from 1 to %d", 99*60)
	}
	return nil
}

func volumeToPercent(s string) string {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.Itoa(int(v*100 + 0.5))
	}
	return s
}

func percentToVolume(s string) string {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return strconv.FormatFloat(float64(n)/100, 'f', -1, 64)
	}
	return s
}

func secsToMin(s string) string {
	if secs, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(secs / 60)
	}
	return s
}

func minToSecs(s string) string {
	if mins, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return strconv.Itoa(mins * 60)
	}
	return s
}
