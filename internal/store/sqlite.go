// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package store

import (
	"database/sql"
	"fmt"
	"sync"
)

// Current schema version
const SchemaVersion = "1"

// SQLite is a store backed by an in-memory SQLite database. The database
// is discarded when the store is closed.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite creates a new in-memory SQLite store.
func NewSQLite() (*SQLite, error) {
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			ts INTEGER NOT NULL,
			expression TEXT NOT NULL,
			ok INTEGER NOT NULL,
			value REAL NOT NULL DEFAULT 0,
			formatted TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.setMetadataUnlocked("schema_version", SchemaVersion); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Append adds a record.
func (s *SQLite) Append(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO history (id, ts, expression, ok, value, formatted, kind, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.TimestampMs, r.Expression, r.OK, r.Value, r.Formatted, r.Kind, r.Message)
	return err
}

// Get retrieves a record by ID.
func (s *SQLite) Get(id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var r Record
	err := s.db.QueryRow(
		"SELECT "+columns+" FROM history WHERE id = ?", id,
	).Scan(&r.ID, &r.TimestampMs, &r.Expression, &r.OK, &r.Value, &r.Formatted, &r.Kind, &r.Message)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns records newest first.
func (s *SQLite) List(limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query("SELECT "+columns+" FROM history ORDER BY seq DESC LIMIT ?", sqlLimit(limit))
}

// Search returns records whose expression contains substr.
func (s *SQLite) Search(substr string, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// instr instead of LIKE: '%' is an operator in expressions
	return s.query(
		"SELECT "+columns+" FROM history WHERE instr(expression, ?) > 0 ORDER BY seq DESC LIMIT ?",
		substr, sqlLimit(limit),
	)
}

// Clear removes all records.
func (s *SQLite) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM history")
	return err
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// setMetadataUnlocked stores metadata without locking (caller must hold lock).
func (s *SQLite) setMetadataUnlocked(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

const columns = "id, ts, expression, ok, value, formatted, kind, message"

// query runs a SELECT of columns (caller must hold lock).
func (s *SQLite) query(q string, args ...any) ([]Record, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.TimestampMs, &r.Expression, &r.OK, &r.Value, &r.Formatted, &r.Kind, &r.Message); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// sqlLimit maps 0 (no limit) to SQLite's -1.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
