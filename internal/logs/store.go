package logs

import (
	"errors"
	"strings"

	apperrors "github.com/julianstephens/voidtrack/internal/errors"
	"github.com/julianstephens/voidtrack/internal/kv"
	"github.com/julianstephens/voidtrack/internal/logger"
	"github.com/julianstephens/voidtrack/internal/models"
	"github.com/julianstephens/voidtrack/internal/storage"
	"github.com/julianstephens/voidtrack/internal/utils"
)

// Store owns the per-day, per-habit log entries.
type Store struct {
	store *storage.Storage
}

// NewStore creates a log store backed by store.
func NewStore(store *storage.Storage) *Store {
	return &Store{store: store}
}

// GetAll returns the whole log book. A missing or corrupt blob reads as empty;
// corruption is logged.
func (s *Store) GetAll() (models.LogBook, error) {
	book, err := s.store.Logs()
	if err == nil {
		return book, nil
	}
	var parseErr *apperrors.ParseError
	switch {
	case errors.Is(err, kv.ErrNotFound):
		return models.LogBook{}, nil
	case errors.As(err, &parseErr):
		logger.Warn("Log data is corrupt, falling back to an empty log book", "error", err)
		return models.LogBook{}, nil
	default:
		return nil, err
	}
}

// GetDay returns the stored entries for dateKey. Habits without an entry
// are absent from the map.
func (s *Store) GetDay(dateKey string) (models.DayLog, error) {
	if err := validateDateKey(dateKey); err != nil {
		return nil, err
	}
	book, err := s.GetAll()
	if err != nil {
		return nil, err
	}
	day := make(models.DayLog, len(book[dateKey]))
	for id, entry := range book[dateKey] {
		day[id] = entry
	}
	return day, nil
}

// Entry returns the entry for (dateKey, habitID), or the implicit pending
// entry when none is stored.
func (s *Store) Entry(dateKey, habitID string) (models.LogEntry, error) {
	if err := validateDateKey(dateKey); err != nil {
		return models.LogEntry{}, err
	}
	book, err := s.GetAll()
	if err != nil {
		return models.LogEntry{}, err
	}
	if entry, ok := book.Entry(dateKey, habitID); ok {
		return entry, nil
	}
	return models.PendingEntry(), nil
}

// SetEntry replaces the whole entry for (dateKey, habitID) and persists the
// full log book.
func (s *Store) SetEntry(dateKey, habitID string, entry models.LogEntry) error {
	if err := validateDateKey(dateKey); err != nil {
		return err
	}
	if strings.TrimSpace(habitID) == "" {
		return apperrors.Validationf("habit_id", "must not be empty")
	}
	book, err := s.GetAll()
	if err != nil {
		return err
	}
	day, ok := book[dateKey]
	if !ok {
		day = models.DayLog{}
		book[dateKey] = day
	}
	day[habitID] = entry
	if err := s.store.SaveLogs(book); err != nil {
		return err
	}
	logger.Debug("Saved log entry", "date", dateKey, "habit", habitID, "status", entry.Status)
	return nil
}

func validateDateKey(dateKey string) error {
	if !utils.ValidateDateKey(dateKey) {
		return apperrors.Validationf("date", "%q is not a valid YYYY-MM-DD date", dateKey)
	}
	return nil
}
