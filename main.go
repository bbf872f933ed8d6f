package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/countdown/internal/config"
	"github.com/sadopc/countdown/internal/export"
	"github.com/sadopc/countdown/internal/notify"
	"github.com/sadopc/countdown/internal/store"
	"github.com/sadopc/countdown/internal/timer"
	"github.com/sadopc/countdown/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logFile, err := openLog(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.Level()})))

	dbPath := cfg.DBPath
	if dbPath == "" {
		if dbPath, err = store.DefaultDBPath(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	m := timer.NewManager()
	if err := loadTimers(m, s, cfg.LegacyState); err != nil {
		fmt.Fprintf(os.Stderr, "error loading timers: %v\n", err)
		os.Exit(1)
	}
	slog.Info("started", "config", cfg.File, "db", dbPath, "timers", m.Len())

	sound := notify.NewSound(cfg.SoundFile, s.GetFloat("volume", 0.7))
	n := notify.NewConfigured(s, notify.NewBell(os.Stdout), sound)

	app := tui.NewApp(m, s, n)
	p := tea.NewProgram(app, tea.WithAltScreen())

	_, runErr := p.Run()

	if err := s.SaveTimers(m.Timers()); err != nil {
		slog.Error("save timers on exit", "err", err)
		fmt.Fprintf(os.Stderr, "error saving timers: %v\n", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}

func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// loadTimers restores the saved timers. On first run it imports the state
// file written by the desktop version, if there is one.
func loadTimers(m *timer.Manager, s *store.Store, legacyPath string) error {
	n, err := s.CountTimers()
	if err != nil {
		return err
	}
	if n > 0 {
		timers, err := s.LoadTimers()
		if err != nil {
			return err
		}
		m.Load(timers)
		return nil
	}

	if legacyPath == "" {
		if legacyPath, err = export.DefaultStatePath(); err != nil {
			return nil
		}
	}
	state, err := export.ReadState(legacyPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		slog.Warn("skip legacy state", "path", legacyPath, "err", err)
		return nil
	}

	m.Load(state.Timers)
	if err := s.SetSetting("volume", fmt.Sprint(state.Volume)); err != nil {
		return err
	}
	slog.Info("imported legacy state", "path", legacyPath, "timers", m.Len())
	return s.SaveTimers(m.Timers())
}
