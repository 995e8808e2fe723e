package testutil

import (
	"testing"

	"github.com/julianstephens/voidtrack/internal/kv"
	"github.com/julianstephens/voidtrack/internal/models"
	"github.com/julianstephens/voidtrack/internal/storage"
)

// NewStorage returns a Storage over a fresh in-memory store along with the
// raw store, so tests can plant corrupt blobs.
func NewStorage(t *testing.T) (*storage.Storage, *kv.MemoryStore) {
	t.Helper()
	mem := kv.NewMemoryStore()
	s := storage.New(mem)
	t.Cleanup(func() { _ = s.Close() })
	return s, mem
}

// SeedHabits persists habits, failing the test on error.
func SeedHabits(t *testing.T, s *storage.Storage, habits ...models.Habit) {
	t.Helper()
	if err := s.SaveHabits(habits); err != nil {
		t.Fatalf("failed to save habits: %v", err)
	}
}

// SeedLogs persists book, failing the test on error.
func SeedLogs(t *testing.T, s *storage.Storage, book models.LogBook) {
	t.Helper()
	if err := s.SaveLogs(book); err != nil {
		t.Fatalf("failed to save logs: %v", err)
	}
}

// CheckHabit builds a plain check habit.
func CheckHabit(id string) models.Habit {
	return models.Habit{ID: id, Title: id, Type: models.HabitCheck, Section: "other"}
}

// CountHabit builds a count habit with the given target.
func CountHabit(id string, target float64) models.Habit {
	return models.Habit{ID: id, Title: id, Type: models.HabitCount, Section: "daytime", Goal: &models.Goal{Target: target, Unit: "units"}}
}

// MultiCheckHabit builds a checklist habit.
func MultiCheckHabit(id string, items ...string) models.Habit {
	return models.Habit{ID: id, Title: id, Type: models.HabitMultiCheck, Section: "morning", Items: items}
}

// TimeRangeHabit builds a time-range habit with the given minimum.
func TimeRangeHabit(id string, minMinutes int) models.Habit {
	return models.Habit{ID: id, Title: id, Type: models.HabitTimeRange, Section: "night", Goal: &models.Goal{MinDurationMinutes: minMinutes}}
}

// Completed is a completed check entry.
func Completed() models.LogEntry {
	return models.LogEntry{Status: models.StatusCompleted, Value: 1}
}
