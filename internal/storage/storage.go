package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/julianstephens/voidtrack/internal/constants"
	apperrors "github.com/julianstephens/voidtrack/internal/errors"
	"github.com/julianstephens/voidtrack/internal/kv"
	"github.com/julianstephens/voidtrack/internal/models"
)

// Storage gives typed access to the persisted blobs. Reads are served from a
// cache of raw values; every write drops the cached value for its key.
type Storage struct {
	kv    kv.Store
	cache map[string][]byte
}

// New wraps a key-value store.
func New(store kv.Store) *Storage {
	return &Storage{
		kv:    store,
		cache: make(map[string][]byte),
	}
}

func (s *Storage) read(key string) ([]byte, error) {
	if v, ok := s.cache[key]; ok {
		return v, nil
	}
	v, err := s.kv.Get(key)
	if err != nil {
		return nil, err
	}
	s.cache[key] = v
	return v, nil
}

func (s *Storage) write(key string, value []byte) error {
	delete(s.cache, key)
	return s.kv.Set(key, value)
}

// Habits returns the persisted habit list. It returns kv.ErrNotFound when
// nothing was ever saved and a *errors.ParseError when the blob is corrupt.
func (s *Storage) Habits() ([]models.Habit, error) {
	raw, err := s.read(constants.KeyHabits)
	if err != nil {
		return nil, err
	}
	var habits []models.Habit
	if err := json.Unmarshal(raw, &habits); err != nil {
		return nil, &apperrors.ParseError{Source: constants.KeyHabits, Err: err}
	}
	if habits == nil {
		habits = []models.Habit{}
	}
	return habits, nil
}

// SaveHabits replaces the persisted habit list.
func (s *Storage) SaveHabits(habits []models.Habit) error {
	raw, err := json.Marshal(habits)
	if err != nil {
		return fmt.Errorf("failed to serialize habits: %w", err)
	}
	return s.write(constants.KeyHabits, raw)
}

// Logs returns the persisted log book with the same error contract as Habits.
func (s *Storage) Logs() (models.LogBook, error) {
	raw, err := s.read(constants.KeyLogs)
	if err != nil {
		return nil, err
	}
	var book models.LogBook
	if err := json.Unmarshal(raw, &book); err != nil {
		return nil, &apperrors.ParseError{Source: constants.KeyLogs, Err: err}
	}
	if book == nil {
		book = models.LogBook{}
	}
	return book, nil
}

// SaveLogs replaces the whole persisted log book.
func (s *Storage) SaveLogs(book models.LogBook) error {
	raw, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("failed to serialize logs: %w", err)
	}
	return s.write(constants.KeyLogs, raw)
}

// Settings returns the opaque settings blob, or "{}" when none was saved.
func (s *Storage) Settings() (json.RawMessage, error) {
	raw, err := s.read(constants.KeySettings)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return json.RawMessage(`{}`), nil
		}
		return nil, err
	}
	if !json.Valid(raw) {
		return nil, &apperrors.ParseError{Source: constants.KeySettings, Err: errors.New("invalid JSON")}
	}
	return append(json.RawMessage(nil), raw...), nil
}

// SaveSettings stores the settings blob unchanged.
func (s *Storage) SaveSettings(settings json.RawMessage) error {
	if !json.Valid(settings) {
		return &apperrors.ParseError{Source: constants.KeySettings, Err: errors.New("invalid JSON")}
	}
	return s.write(constants.KeySettings, settings)
}

// SchemaVersion returns the recorded data schema version, 0 when unset.
func (s *Storage) SchemaVersion() (int, error) {
	raw, err := s.read(constants.KeySchemaVersion)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	v, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, &apperrors.ParseError{Source: constants.KeySchemaVersion, Err: err}
	}
	return v, nil
}

// SetSchemaVersion records the data schema version.
func (s *Storage) SetSchemaVersion(version int) error {
	return s.write(constants.KeySchemaVersion, []byte(strconv.Itoa(version)))
}

// SaveHabitsAtVersion writes habits and the schema version in one atomic batch.
func (s *Storage) SaveHabitsAtVersion(habits []models.Habit, version int) error {
	raw, err := json.Marshal(habits)
	if err != nil {
		return fmt.Errorf("failed to serialize habits: %w", err)
	}
	delete(s.cache, constants.KeyHabits)
	delete(s.cache, constants.KeySchemaVersion)
	return s.kv.SetAll(map[string][]byte{
		constants.KeyHabits:        raw,
		constants.KeySchemaVersion: []byte(strconv.Itoa(version)),
	})
}

// ReplaceAll writes habits, logs and (when non-nil) settings in one atomic batch.
func (s *Storage) ReplaceAll(habits []models.Habit, book models.LogBook, settings json.RawMessage) error {
	if habits == nil {
		habits = []models.Habit{}
	}
	if book == nil {
		book = models.LogBook{}
	}

	rawHabits, err := json.Marshal(habits)
	if err != nil {
		return fmt.Errorf("failed to serialize habits: %w", err)
	}
	rawLogs, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("failed to serialize logs: %w", err)
	}

	batch := map[string][]byte{
		constants.KeyHabits: rawHabits,
		constants.KeyLogs:   rawLogs,
	}
	if settings != nil {
		if !json.Valid(settings) {
			return &apperrors.ParseError{Source: constants.KeySettings, Err: errors.New("invalid JSON")}
		}
		batch[constants.KeySettings] = settings
	}

	for key := range batch {
		delete(s.cache, key)
	}
	return s.kv.SetAll(batch)
}

// Wipe deletes every persisted key.
func (s *Storage) Wipe() error {
	s.cache = make(map[string][]byte)
	return s.kv.Delete(constants.KeyHabits, constants.KeyLogs, constants.KeySettings, constants.KeySchemaVersion)
}

// Close closes the underlying store.
func (s *Storage) Close() error {
	return s.kv.Close()
}
