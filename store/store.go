// Package store implements a SQLite-backed key-value store persisting the
// whole session collection under a single key.
package store

import (
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/aimchat/aimchat/chat"
	"github.com/aimchat/aimchat/internal/debug"
)

// sessionsKey is the key the collection is persisted under.
const sessionsKey = "aimchat_sessions"

// schemaVersion is written into the persisted envelope. Version 0 (a bare
// JSON array, the legacy shape) is still accepted on load.
const schemaVersion = 1

var log = debug.GetLogger()

// envelope wraps the persisted collection with a schema version.
type envelope struct {
	Version  int             `json:"version"`
	Sessions chat.Collection `json:"sessions"`
}

// Store implements a SQLite store for the session collection.
type Store struct {
	db *sql.DB
}

// New store.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	// Create kv table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "creating kv table")
	}

	return &Store{db: db}, nil
}

// Load deserializes the persisted collection. Missing or malformed data
// yields an empty collection; parse failures are logged, never propagated.
func (s *Store) Load() chat.Collection {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, sessionsKey).Scan(&value)
	if err == sql.ErrNoRows {
		return chat.Collection{}
	}
	if err != nil {
		log.Error("loading sessions", "error", err)
		return chat.Collection{}
	}
	return decode([]byte(value))
}

// Save serializes and persists the full collection. Saving is skipped when
// the collection is empty so a transient empty state can never clobber a
// previously persisted one.
func (s *Store) Save(sessions chat.Collection) error {
	if len(sessions) == 0 {
		return nil
	}
	value, err := json.Marshal(envelope{Version: schemaVersion, Sessions: sessions})
	if err != nil {
		return errors.Wrap(err, "marshaling sessions")
	}

	// REPLACE INTO handles both insert and update cases
	_, err = s.db.Exec(`REPLACE INTO kv (key, value) VALUES (?, ?)`, sessionsKey, string(value))
	if err != nil {
		return errors.Wrap(err, "writing sessions to database")
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// decode parses a persisted payload, accepting both the versioned envelope
// and the legacy bare-array shape.
func decode(value []byte) chat.Collection {
	var wrapped envelope
	if err := json.Unmarshal(value, &wrapped); err == nil && wrapped.Sessions != nil {
		return wrapped.Sessions
	}
	var sessions chat.Collection
	if err := json.Unmarshal(value, &sessions); err != nil {
		log.Error("parsing persisted sessions, starting fresh", "error", err)
		return chat.Collection{}
	}
	return sessions
}
