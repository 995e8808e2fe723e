package kv

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "modernc.org/sqlite"
)

var sqliteDialect = dialect{
	name:   "sqlite",
	get:    "SELECT value FROM kv WHERE key = ?",
	upsert: "INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
	delete: "DELETE FROM kv WHERE key = ?",
	stamp:  func(t time.Time) interface{} { return t.Format(time.RFC3339) },
}

// SQLiteStore keeps blobs in a SQLite database file.
type SQLiteStore struct {
	sqlStore
	path string
}

// OpenSQLite opens (creating if needed) the database at path and applies the
// embedded schema migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases and transactions coherent
	db.SetMaxOpenConns(1)

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}
	if err := migrateUp("migrations/sqlite", "sqlite", driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{
		sqlStore: sqlStore{db: db, dialect: sqliteDialect},
		path:     path,
	}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}
