package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 2

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}
	if version < 2 {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS timers (
		id                 TEXT PRIMARY KEY,
		name               TEXT NOT NULL DEFAULT 'untitled',
		duration_seconds   INTEGER NOT NULL DEFAULT 1500,
		remaining_seconds  INTEGER,
		color              TEXT NOT NULL DEFAULT '#4CAF50',
		status             TEXT NOT NULL DEFAULT 'stopped',
		created_at         TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		position           INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('volume',           '0.7'),
		('sound_enabled',    'true'),
		('bell_enabled',     'true'),
		('default_duration', '1500'),
		('default_color',    '#4CAF50');
	`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *Store) migrateV2() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS finishes (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		timer_id          TEXT NOT NULL,
		name              TEXT NOT NULL,
		color             TEXT NOT NULL DEFAULT '#4CAF50',
		duration_seconds  INTEGER NOT NULL,
		finished_at       TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_finishes_timer    ON finishes(timer_id);
	CREATE INDEX IF NOT EXISTS idx_finishes_finished ON finishes(finished_at);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/countdown/countdown.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "countdown", "countdown.db"), nil
}
