// Package notes persists per-issue annotations keyed by the issue's web
// URL, replacing the browser-local storage of the original dashboard.
package notes

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const busyTimeoutMS = 3000

const schema = `
CREATE TABLE IF NOT EXISTS notes (
	url        TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// Store is a sqlite-backed note store.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the notes database at path.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=WAL", path, busyTimeoutMS)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open notes database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to notes database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create notes schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the note for an issue URL, empty when none exists.
func (s *Store) Get(url string) (string, error) {
	var body string
	err := s.db.QueryRow(`SELECT body FROM notes WHERE url = ?`, url).Scan(&body)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read note: %w", err)
	}
	return body, nil
}

// Set stores the note for an issue URL. An empty body deletes the note,
// matching the dashboard's clear-on-empty behavior.
func (s *Store) Set(url, body string) error {
	if body == "" {
		if _, err := s.db.Exec(`DELETE FROM notes WHERE url = ?`, url); err != nil {
			return fmt.Errorf("failed to delete note: %w", err)
		}
		return nil
	}

	_, err := s.db.Exec(
		`INSERT INTO notes (url, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		url, body, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store note: %w", err)
	}
	return nil
}

// All returns every stored note keyed by issue URL.
func (s *Store) All() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT url, body FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := make(map[string]string)
	for rows.Next() {
		var url, body string
		if err := rows.Scan(&url, &body); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes[url] = body
	}
	return notes, rows.Err()
}

// Clear removes every note.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM notes`); err != nil {
		return fmt.Errorf("failed to clear notes: %w", err)
	}
	return nil
}
