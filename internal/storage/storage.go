// Package storage implements the durable local state store backing sessions,
// tokens, and the guest device id.
//
// The browser build of this client kept the same values in localStorage; here
// they live in a single SQLite key-value table under the state directory.
// [Store] is the narrow interface the rest of the codebase depends on, with
// [SQLiteStore] as the production implementation and an in-memory double in
// internal/testing.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// Keys for every persisted value. OwnerKey scoping rules depend on exactly one
// writer per key, so all call sites go through these constants.
const (
	KeyUser       = "user"
	KeyToken      = "token"
	KeyDeviceID   = "deviceId"
	KeyAdminUser  = "admin_user"
	KeyAdminToken = "admin_token"
)

// Store is a durable string key-value store.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (string, bool, error)
	// Set stores value under key, replacing any prior value.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

const schema = `
CREATE TABLE IF NOT EXISTS state (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore implements [Store] on a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore prepares the state table on the given connection.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create state table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get returns the stored value and whether the key was present.
func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read state key %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any prior value.
func (s *SQLiteStore) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write state key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete state key %q: %w", key, err)
	}
	return nil
}
