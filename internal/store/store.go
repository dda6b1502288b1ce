// Package store persists pipeline runs to a local SQLite database so batch
// and watch commands can accumulate results across invocations.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultLocation is the database path used when the configuration does not
// override storage.location, relative to the project root.
const DefaultLocation = ".girder/girder.db"

// Store wraps the results database. One Store may be shared by a single
// process; SQLite serializes writers internally.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the results database at path and ensures
// the schema exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, path: path}, nil
}

// DB exposes the underlying handle for readers and writers.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
