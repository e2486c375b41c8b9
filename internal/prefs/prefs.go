// Package prefs persists visitor preferences. The only preference today
// is the theme flag; it is deliberately the sole thing this service
// ever writes to disk.
package prefs

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Theme values accepted by SetTheme.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

const keyTheme = "theme"

// Store is a SQLite-backed key-value store for preferences.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the preference database in dataDir. Pass
// ":memory:" for an in-memory store (used by tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "prefs.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening preference database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging preference database: %w", err)
	}

	// Single connection avoids "database is locked" errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS prefs (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating prefs table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the stored value for key, or "" when unset.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM prefs WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading pref %q: %w", key, err)
	}
	return value, nil
}

// Set stores a value under key, replacing any previous one.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO prefs (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("writing pref %q: %w", key, err)
	}
	return nil
}

// Theme returns the stored theme, defaulting to light when unset.
func (s *Store) Theme() (string, error) {
	v, err := s.Get(keyTheme)
	if err != nil {
		return "", err
	}
	if v == "" {
		return ThemeLight, nil
	}
	return v, nil
}

// SetTheme validates and persists the theme flag.
func (s *Store) SetTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("invalid theme %q: must be %q or %q", theme, ThemeLight, ThemeDark)
	}
	return s.Set(keyTheme, theme)
}
