// Package keyring keeps the Postgres connection string for the "keyring"
// storage mode in the OS credential store.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/voidtrack/internal/constants"
)

var (
	ErrNotFound           = errors.New("no connection string in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Entry addresses one secret in the OS keyring.
type Entry struct {
	Service string
	User    string
}

// Connection is the entry voidtrack reads its database URL from.
var Connection = Entry{Service: constants.AppName, User: constants.DefaultKeyringUser}

func (e Entry) Get() (string, error) {
	secret, err := gokeyring.Get(e.Service, e.User)
	switch {
	case errors.Is(err, gokeyring.ErrNotFound):
		return "", ErrNotFound
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func (e Entry) Set(secret string) error {
	if strings.TrimSpace(secret) == "" {
		return errors.New("refusing to store an empty connection string")
	}
	if err := gokeyring.Set(e.Service, e.User, secret); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

func (e Entry) Delete() error {
	err := gokeyring.Delete(e.Service, e.User)
	switch {
	case errors.Is(err, gokeyring.ErrNotFound):
		return ErrNotFound
	case err != nil:
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

// Stored reports whether the entry holds a value. An unreachable keyring
// counts as empty and is returned as the error.
func (e Entry) Stored() (bool, error) {
	_, err := e.Get()
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// GetConnectionString reads the database URL from the default entry.
func GetConnectionString() (string, error) {
	return Connection.Get()
}
