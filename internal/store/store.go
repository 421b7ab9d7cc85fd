// Package store provides SQLite persistence for the planner: the
// serialized filter state, the selection list, and a cached catalog
// snapshot for offline starts.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/campusplanner/planner/internal/selection"
)

// Keys in the kv table.
const (
	keyFilterState = "filter_state"
	keySelections  = "selections"
	keyCatalog     = "catalog_snapshot"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a Store at the given database path, creating tables if
// they don't exist. Uses WAL mode for file-based databases.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func (s *Store) put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *Store) get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// SaveFilterState stores the serialized active-filter list.
func (s *Store) SaveFilterState(data []byte) error {
	return s.put(keyFilterState, data)
}

// LoadFilterState returns the serialized active-filter list. ok is
// false when none has been saved.
func (s *Store) LoadFilterState() ([]byte, bool, error) {
	return s.get(keyFilterState)
}

// SaveSelections stores the selection list.
func (s *Store) SaveSelections(selected []selection.StoredSelection) error {
	data, err := json.Marshal(selected)
	if err != nil {
		return fmt.Errorf("encode selections: %w", err)
	}
	return s.put(keySelections, data)
}

// LoadSelections returns the persisted selection list, empty when none
// has been saved.
func (s *Store) LoadSelections() ([]selection.StoredSelection, error) {
	data, ok, err := s.get(keySelections)
	if err != nil || !ok {
		return nil, err
	}
	var selected []selection.StoredSelection
	if err := json.Unmarshal(data, &selected); err != nil {
		return nil, fmt.Errorf("decode selections: %w", err)
	}
	return selected, nil
}

// SaveCatalogSnapshot caches the raw catalog feed bytes.
func (s *Store) SaveCatalogSnapshot(data []byte) error {
	return s.put(keyCatalog, data)
}

// LoadCatalogSnapshot returns the cached catalog feed bytes. ok is
// false when no snapshot exists.
func (s *Store) LoadCatalogSnapshot() ([]byte, bool, error) {
	return s.get(keyCatalog)
}
