package logs

import (
	"errors"
	"testing"

	"github.com/julianstephens/voidtrack/internal/constants"
	apperrors "github.com/julianstephens/voidtrack/internal/errors"
	"github.com/julianstephens/voidtrack/internal/models"
	"github.com/julianstephens/voidtrack/internal/testutil"
)

func TestGetAllMissingAndCorrupt(t *testing.T) {
	s, mem := testutil.NewStorage(t)
	store := NewStore(s)

	book, err := store.GetAll()
	if err != nil || len(book) != 0 {
		t.Fatalf("expected empty book, got %v (%v)", book, err)
	}

	_ = mem.Set(constants.KeyLogs, []byte("nope"))
	book, err = store.GetAll()
	if err != nil || len(book) != 0 {
		t.Fatalf("expected corrupt logs to read as empty, got %v (%v)", book, err)
	}
}

func TestEntryDefaultsToPending(t *testing.T) {
	s, _ := testutil.NewStorage(t)
	store := NewStore(s)

	e, err := store.Entry("2024-01-01", "h")
	if err != nil {
		t.Fatal(err)
	}
	if e.Status != models.StatusPending || e.Value != 0 {
		t.Errorf("expected pending entry, got %+v", e)
	}
}

func TestSetEntryReplacesWholeEntry(t *testing.T) {
	s, _ := testutil.NewStorage(t)
	store := NewStore(s)

	first := models.LogEntry{Status: models.StatusPending, Value: 2, CheckedItems: []string{"A", "B"}}
	if err := store.SetEntry("2024-01-01", "h", first); err != nil {
		t.Fatal(err)
	}
	if err := store.SetEntry("2024-01-01", "h", models.LogEntry{Status: models.StatusCompleted, Value: 1}); err != nil {
		t.Fatal(err)
	}
	if err := store.SetEntry("2024-01-01", "other", testutil.Completed()); err != nil {
		t.Fatal(err)
	}

	e, _ := store.Entry("2024-01-01", "h")
	if len(e.CheckedItems) != 0 || e.Value != 1 {
		t.Errorf("entry was merged instead of replaced: %+v", e)
	}
	day, _ := store.GetDay("2024-01-01")
	if len(day) != 2 {
		t.Errorf("expected 2 entries on the day, got %d", len(day))
	}
}

func TestGetDayReturnsCopy(t *testing.T) {
	s, _ := testutil.NewStorage(t)
	store := NewStore(s)
	_ = store.SetEntry("2024-01-01", "h", testutil.Completed())

	day, _ := store.GetDay("2024-01-01")
	delete(day, "h")

	again, _ := store.GetDay("2024-01-01")
	if _, ok := again["h"]; !ok {
		t.Error("mutating the returned day changed stored state")
	}
}

func TestInvalidInput(t *testing.T) {
	s, _ := testutil.NewStorage(t)
	store := NewStore(s)

	tests := []struct {
		name string
		fn   func() error
	}{
		{"bad date on set", func() error { return store.SetEntry("2024-13-01", "h", testutil.Completed()) }},
		{"empty id on set", func() error { return store.SetEntry("2024-01-01", " ", testutil.Completed()) }},
		{"bad date on get day", func() error { _, err := store.GetDay("yesterday"); return err }},
		{"bad date on entry", func() error { _, err := store.Entry("2024-02-30", "h"); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var vErr *apperrors.ValidationError
			if err := tt.fn(); !errors.As(err, &vErr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}
