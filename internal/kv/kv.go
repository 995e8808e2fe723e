// Package kv provides the key-value stores that hold voidtrack's persisted blobs.
package kv

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/voidtrack/internal/constants"
	"github.com/julianstephens/voidtrack/internal/keyring"
)

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("key not found")

// Store is a synchronous, single-process key-value store.
type Store interface {
	// Get returns the value stored at key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Set replaces the value stored at key.
	Set(key string, value []byte) error
	// SetAll replaces every given key in one atomic write.
	SetAll(values map[string][]byte) error
	// Delete removes the given keys. Missing keys are ignored.
	Delete(keys ...string) error
	Close() error
}

// Open selects and opens a backend from a storage spec:
//   - "memory" opens an in-memory store
//   - a path ending in ".json" opens a JSON file store
//   - "keyring" reads a PostgreSQL connection string from the environment or OS keyring
//   - a postgres:// or postgresql:// URL opens PostgreSQL; the URL may not embed a password,
//     and VOIDTRACK_DB_CONNECTION replaces it when set
//   - anything else is treated as a SQLite database path
func Open(spec string) (Store, error) {
	spec = strings.TrimSpace(spec)
	switch {
	case spec == "":
		return nil, fmt.Errorf("storage spec must not be empty")
	case spec == "memory":
		return NewMemoryStore(), nil
	case spec == "keyring":
		connStr, err := trustedConnectionString()
		if err != nil {
			return nil, err
		}
		return OpenPostgres(connStr)
	case IsPostgresURL(spec):
		if env := os.Getenv(constants.EnvDBConnection); env != "" {
			return OpenPostgres(env)
		}
		if _, err := ValidateConnString(spec); err != nil {
			return nil, err
		}
		return OpenPostgres(spec)
	case strings.HasSuffix(spec, ".json"):
		return OpenFileStore(spec)
	default:
		return OpenSQLite(spec)
	}
}

// IsPostgresURL reports whether spec looks like a PostgreSQL connection URL.
func IsPostgresURL(spec string) bool {
	return strings.HasPrefix(spec, "postgres://") || strings.HasPrefix(spec, "postgresql://")
}

// trustedConnectionString resolves a connection string that may carry
// credentials: the environment variable wins over the OS keyring.
func trustedConnectionString() (string, error) {
	if env := os.Getenv(constants.EnvDBConnection); env != "" {
		return env, nil
	}
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		return "", fmt.Errorf("no connection string in %s or keyring: %w", constants.EnvDBConnection, err)
	}
	return connStr, nil
}
