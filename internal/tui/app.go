package tui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/countdown/internal/export"
	"github.com/sadopc/countdown/internal/notify"
	"github.com/sadopc/countdown/internal/store"
	"github.com/sadopc/countdown/internal/timer"
)

var exportFormats = []string{"CSV", "JSON", "YAML", "PDF report (30 days)"}

// App is the root Bubble Tea model.
type App struct {
	manager  *timer.Manager
	store    *store.Store
	notifier notify.Notifier
	log      *slog.Logger
	width    int
	height   int

	// events receives manager callbacks, which may fire while Update runs.
	events chan tea.Msg

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     string

	dashboard dashboardModel
	reports   reportsModel
	settings  settingsModel

	help   help.Model
	status string
}

// NewApp builds the UI around m and registers itself as m's listener.
// n may be nil.
func NewApp(m *timer.Manager, s *store.Store, n notify.Notifier) App {
	h := help.New()
	h.ShowAll = false

	home, _ := os.UserHomeDir()
	events := make(chan tea.Msg, 64)
	log := slog.Default()

	m.SetListener(timer.Listener{
		OnTimerFinished: func(t timer.Timer) {
			log.Info("timer finished", "id", t.ID, "name", t.Name)
			send(events, timerFinishedMsg{timer: t}, log)
		},
		OnTimersChanged: func() {
			send(events, timersChangedMsg{}, log)
		},
	})

	return App{
		manager:    m,
		store:      s,
		notifier:   n,
		log:        log,
		events:     events,
		activeView: viewTimers,
		exportDir:  home,
		dashboard:  newDashboardModel(m, s),
		reports:    newReportsModel(s),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

func send(ch chan tea.Msg, msg tea.Msg, log *slog.Logger) {
	select {
	case ch <- msg:
	default:
		log.Warn("dropped timer event", "msg", fmt.Sprintf("%T", msg))
	}
}

func waitForEvent(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		tickCmd(),
		waitForEvent(a.events),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTimers
			return a, a.dashboard.loadData()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewReports
			return a, a.reports.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		a.manager.Tick()
		return a, tickCmd()

	case timerFinishedMsg:
		a.status = fmt.Sprintf("⏰ %s finished", msg.timer.Name)
		return a, tea.Batch(
			waitForEvent(a.events),
			a.recordFinish(msg.timer),
			a.persist(),
		)

	case timersChangedMsg:
		a.dashboard, _ = a.dashboard.update(msg)
		return a, tea.Batch(waitForEvent(a.events), a.persist())

	case finishRecordedMsg:
		cmds := []tea.Cmd{a.dashboard.loadData()}
		if a.activeView == viewReports {
			cmds = append(cmds, a.reports.refresh())
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		if msg.isError {
			a.log.Warn(msg.text)
		}
		return a, nil

	case settingsSavedMsg:
		a.status = "Settings saved"
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// recordFinish stores the finish and notifies the user off the UI goroutine.
func (a App) recordFinish(t timer.Timer) tea.Cmd {
	s, n, log := a.store, a.notifier, a.log
	return func() tea.Msg {
		if n != nil {
			if err := n.TimerFinished(t.Name); err != nil {
				log.Warn("notify", "name", t.Name, "err", err)
			}
		}
		if _, err := s.RecordFinish(t); err != nil {
			return errStatus(err)
		}
		return finishRecordedMsg{name: t.Name}
	}
}

// persist saves a snapshot of every timer.
func (a App) persist() tea.Cmd {
	snapshot := a.manager.Timers()
	s := a.store
	return func() tea.Msg {
		if err := s.SaveTimers(snapshot); err != nil {
			return errStatus(err)
		}
		return nil
	}
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimers:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTimers:
		return a.dashboard.formActive || a.dashboard.confirming
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewTimers:
		return a.dashboard.loadData()
	case viewReports:
		return a.reports.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimers:
		content = a.dashboard.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("countdown")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Running timer indicator in footer
	timerInfo := ""
	if t, ok := a.manager.Running(); ok {
		timerInfo = successStyle.Render(fmt.Sprintf(" ● %s %s", t.Name, t.FormattedRemaining()))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	timers := a.manager.Timers()
	s, dir := a.store, a.exportDir
	return func() tea.Msg {
		now := time.Now()
		base := filepath.Join(dir, "countdown-export-"+now.Format("2006-01-02"))

		var path string
		var err error
		switch format {
		case 0:
			path = base + ".csv"
			err = export.ToCSV(timers, path)
		case 1:
			path = base + ".json"
			err = export.ToJSON(timers, path)
		case 2:
			path = base + ".yaml"
			err = export.ToYAML(timers, path)
		default:
			path = filepath.Join(dir, "countdown-report-"+now.Format("2006-01-02")+".pdf")
			from, to := now.AddDate(0, 0, -30).UTC(), now.Add(time.Minute).UTC()
			var finishes []store.Finish
			finishes, err = s.ListFinishes(store.FinishFilter{From: &from, To: &to})
			if err == nil {
				err = export.ToPDF(finishes, from, to, path)
			}
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
