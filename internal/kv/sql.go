package kv

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFiles embed.FS

// dialect holds the SQL that differs between backends.
type dialect struct {
	name   string
	get    string
	upsert string
	delete string
	stamp  func(time.Time) interface{}
}

// sqlStore implements Store over a single kv table.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
}

func (s *sqlStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(s.dialect.get, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (s *sqlStore) Set(key string, value []byte) error {
	return s.SetAll(map[string][]byte{key: value})
}

func (s *sqlStore) SetAll(values map[string][]byte) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	now := s.dialect.stamp(time.Now().UTC())
	for k, v := range values {
		if _, err := tx.Exec(s.dialect.upsert, k, v, now); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to write %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func (s *sqlStore) Delete(keys ...string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, k := range keys {
		if _, err := tx.Exec(s.dialect.delete, k); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to delete %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (s *sqlStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns the underlying database connection.
func (s *sqlStore) DB() *sql.DB {
	return s.db
}

// migrateUp applies the embedded migrations for dir using driver.
// The migrate instance is not closed: that would close the caller's db.
func migrateUp(dir string, driverName string, driver database.Driver) error {
	src, err := iofs.New(migrationFiles, dir)
	if err != nil {
		return fmt.Errorf("failed to read %s migrations: %w", driverName, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driverName, driver)
	if err != nil {
		src.Close()
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d (migration failed previously)", version)
	}
	return nil
}
