// Package store handles SQLite persistence.
package store

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout keeps fractional seconds at a fixed width so stored timestamps
// sort chronologically as text. Parsing accepts any RFC 3339 value.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for game sessions and found items.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS game_sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			clicks INTEGER NOT NULL,
			click_earned INTEGER NOT NULL,
			passive_earned INTEGER NOT NULL,
			spent INTEGER NOT NULL,
			purchases INTEGER NOT NULL,
			upgrades INTEGER NOT NULL,
			final_balance INTEGER NOT NULL,
			click_power INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS game_session_helpers (
			session_id TEXT NOT NULL,
			helper_id TEXT NOT NULL,
			owned INTEGER NOT NULL,
			PRIMARY KEY (session_id, helper_id)
		);`,
		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			image_path TEXT NOT NULL DEFAULT '',
			found_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_game_sessions_ended_at ON game_sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_items_category ON items(category);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
