package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/countdown/internal/store"
	"github.com/sadopc/countdown/internal/timer"
)

// dashboardModel lists every timer as a card and drives the manager.
type dashboardModel struct {
	manager *timer.Manager
	store   *store.Store
	width   int
	height  int

	cursor     int
	todayTotal int64

	form       *timerForm
	formActive bool

	confirming bool // waiting for y/n on delete
}

func newDashboardModel(m *timer.Manager, s *store.Store) dashboardModel {
	return dashboardModel{manager: m, store: s}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	todayTotal int64
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		total, _ := d.store.GetTodayTotal()
		return dashboardDataMsg{todayTotal: total}
	}
}

// selected returns the timer under the cursor.
func (d dashboardModel) selected() (timer.Timer, bool) {
	timers := d.manager.Timers()
	if len(timers) == 0 {
		return timer.Timer{}, false
	}
	i := min(d.cursor, len(timers)-1)
	return timers[i], true
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.todayTotal = msg.todayTotal
		return d, nil

	case timersChangedMsg:
		d.clampCursor()
		return d, nil

	case tea.KeyMsg:
		if d.confirming {
			return d.updateConfirm(msg)
		}
		return d.updateList(msg)
	}
	return d, nil
}

func (d *dashboardModel) clampCursor() {
	n := d.manager.Len()
	if d.cursor >= n {
		d.cursor = max(0, n-1)
	}
}

func (d dashboardModel) updateList(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	n := d.manager.Len()

	switch {
	case key.Matches(msg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
		return d, nil
	case key.Matches(msg, keys.Down):
		if d.cursor < n-1 {
			d.cursor++
		}
		return d, nil
	case key.Matches(msg, keys.New):
		return d.showNewForm()
	}

	t, ok := d.selected()
	if !ok {
		return d, nil
	}

	switch {
	case key.Matches(msg, keys.Start):
		return d, d.run(d.manager.Start(t.ID))
	case key.Matches(msg, keys.Pause):
		switch t.Status {
		case timer.StatusRunning:
			return d, d.run(d.manager.Pause(t.ID))
		case timer.StatusPaused:
			return d, d.run(d.manager.Resume(t.ID))
		default:
			return d, d.run(d.manager.Start(t.ID))
		}
	case key.Matches(msg, keys.Reset):
		return d, d.run(d.manager.Reset(t.ID))
	case key.Matches(msg, keys.Edit):
		return d.showEditForm(t)
	case key.Matches(msg, keys.Delete):
		d.confirming = true
		return d, nil
	case key.Matches(msg, keys.MoveUp):
		if d.cursor == 0 {
			return d, nil
		}
		if err := d.manager.Reorder(d.cursor, d.cursor-1); err != nil {
			return d, d.run(err)
		}
		d.cursor--
		return d, nil
	case key.Matches(msg, keys.MoveDown):
		if d.cursor >= n-1 {
			return d, nil
		}
		if err := d.manager.Reorder(d.cursor, d.cursor+1); err != nil {
			return d, d.run(err)
		}
		d.cursor++
		return d, nil
	}
	return d, nil
}

func (d dashboardModel) updateConfirm(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	d.confirming = false
	if msg.String() != "y" && msg.String() != "Y" {
		return d, nil
	}
	t, ok := d.selected()
	if !ok {
		return d, nil
	}
	if err := d.manager.Remove(t.ID); err != nil {
		return d, d.run(err)
	}
	d.clampCursor()
	name := t.Name
	return d, func() tea.Msg { return statusMsg{text: "Deleted " + name} }
}

// run turns the result of a manager call into a status command.
func (d dashboardModel) run(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return func() tea.Msg { return errStatus(err) }
}

func (d dashboardModel) showNewForm() (dashboardModel, tea.Cmd) {
	secs := d.store.GetInt("default_duration", timer.DefaultDurationSeconds)
	color, err := d.store.GetSetting("default_color")
	if err != nil {
		color = timer.DefaultColor
	}
	d.form = newTimerForm("", secs, color)
	d.formActive = true
	return d, d.form.form.Init()
}

func (d dashboardModel) showEditForm(t timer.Timer) (dashboardModel, tea.Cmd) {
	d.form = newEditForm(t)
	d.formActive = true
	return d, d.form.form.Init()
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form.form = f
	}

	if d.form.form.State == huh.StateCompleted {
		f := d.form
		d.formActive = false
		d.form = nil
		return d.submit(f)
	}
	return d, cmd
}

func (d dashboardModel) submit(f *timerForm) (dashboardModel, tea.Cmd) {
	if f.editing {
		c, err := f.changes()
		if err == nil {
			err = d.manager.Update(f.original.ID, c)
		}
		return d, d.run(err)
	}

	secs, err := f.durationSeconds()
	if err != nil {
		return d, d.run(err)
	}
	if _, err := d.manager.Add(*f.name, secs, *f.color); err != nil {
		return d, d.run(err)
	}
	d.cursor = d.manager.Len() - 1
	return d, nil
}

func (d dashboardModel) isRunning() bool {
	_, ok := d.manager.Running()
	return ok
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	if d.formActive && d.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(d.form.title()), "", d.form.form.View(),
		)
		return panelStyle.Width(w).Render(content)
	}

	timers := d.manager.Timers()
	header := fmt.Sprintf("%s  %s",
		titleStyle.Render(fmt.Sprintf("Timers (%d)", len(timers))),
		mutedStyle.Render("finished today: "+formatSeconds(d.todayTotal)),
	)

	if len(timers) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			mutedStyle.Render("No timers yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	rows := []string{header, ""}
	for _, t := range d.visible(timers) {
		rows = append(rows, renderCard(t, t.Position == d.cursor, w))
	}

	if d.confirming {
		if t, ok := d.selected(); ok {
			rows = append(rows, "", errorStyle.Render(fmt.Sprintf("  Delete %q? y/n", t.Name)))
		}
	} else {
		rows = append(rows, "", mutedStyle.Render("  n: new  e: edit  d: delete  s: start  space: pause  r: reset  K/J: move"))
	}

	return strings.Join(rows, "\n")
}

// visible returns the window of cards that fits the height, keeping the
// cursor on screen. Each card is four lines tall.
func (d dashboardModel) visible(timers []timer.Timer) []timer.Timer {
	per := 4
	room := (d.height - 4) / per
	if room < 1 || len(timers) <= room {
		return timers
	}
	start := 0
	if d.cursor >= room {
		start = d.cursor - room + 1
	}
	end := min(start+room, len(timers))
	return timers[start:end]
}
