// Package store persists summary records: metadata in an embedded SQLite
// index, summary bodies as one text file per record in the data directory.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

const DefaultDBName = "summaries.db"

// ErrNotFound is returned when no record matches the requested URL or ID.
var ErrNotFound = errors.New("summary not found")

// Store owns the index database and the content files. All writes go
// through a single mutex so concurrent pipeline runs cannot interleave a
// read-modify-write on the index.
type Store struct {
	db  *sql.DB
	dir string
	mu  sync.Mutex
}

// Open opens or creates the store under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	sqlDB, err := openDB(filepath.Join(dir, DefaultDBName))
	if err != nil {
		return nil, err
	}

	s := &Store{db: sqlDB, dir: dir}
	if err := s.ensureSchemaExists(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func openDB(dbPath string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return sqlDB, nil
}

// ensureSchemaExists checks if the schema exists and initializes it if not
func (s *Store) ensureSchemaExists() error {
	var tableName string
	err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='summaries'").Scan(&tableName)

	if errors.Is(err, sql.ErrNoRows) {
		return s.initSchema()
	}
	if err != nil {
		return fmt.Errorf("failed to check schema: %w", err)
	}
	return nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(schema)
	return err
}

// Dir returns the data directory the store writes to.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Close() error {
	return s.db.Close()
}
