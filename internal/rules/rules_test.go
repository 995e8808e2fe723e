package rules

import (
	"errors"
	"testing"

	apperrors "github.com/julianstephens/voidtrack/internal/errors"
	"github.com/julianstephens/voidtrack/internal/models"
	"github.com/julianstephens/voidtrack/internal/testutil"
)

func TestCheckToggle(t *testing.T) {
	h := testutil.CheckHabit("read")

	on, err := Apply(h, models.PendingEntry(), Action{Kind: ActionToggle})
	if err != nil {
		t.Fatal(err)
	}
	if on.Status != models.StatusCompleted || on.Value != 1 {
		t.Errorf("expected completed/1, got %+v", on)
	}

	off, err := Apply(h, on, Action{Kind: ActionToggle})
	if err != nil {
		t.Fatal(err)
	}
	if off.Status != models.StatusPending || off.Value != 0 {
		t.Errorf("expected pending/0, got %+v", off)
	}
}

func TestCountIncrementDecrement(t *testing.T) {
	h := testutil.CountHabit("water", 3)
	tests := []struct {
		name       string
		start      float64
		kind       ActionKind
		wantValue  float64
		wantStatus models.Status
	}{
		{"increment below target", 1, ActionIncrement, 2, models.StatusPending},
		{"increment reaches target", 2, ActionIncrement, 3, models.StatusCompleted},
		{"increment past target", 3, ActionIncrement, 4, models.StatusCompleted},
		{"decrement below target", 3, ActionDecrement, 2, models.StatusPending},
		{"decrement floors at zero", 0, ActionDecrement, 0, models.StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(h, models.LogEntry{Value: tt.start}, Action{Kind: tt.kind})
			if err != nil {
				t.Fatal(err)
			}
			if got.Value != tt.wantValue || got.Status != tt.wantStatus {
				t.Errorf("got %+v, want value %v status %s", got, tt.wantValue, tt.wantStatus)
			}
		})
	}
}

func TestMultiCheckToggleItem(t *testing.T) {
	h := testutil.MultiCheckHabit("morning", "A", "B", "C")
	e := models.PendingEntry()

	for _, item := range []string{"A", "B", "C"} {
		var err error
		e, err = Apply(h, e, Action{Kind: ActionToggleItem, Item: item})
		if err != nil {
			t.Fatal(err)
		}
	}
	if e.Status != models.StatusCompleted || e.Value != 3 {
		t.Errorf("expected completed with 3 items, got %+v", e)
	}

	e, err := Apply(h, e, Action{Kind: ActionToggleItem, Item: "B"})
	if err != nil {
		t.Fatal(err)
	}
	if e.Status != models.StatusPending || e.Value != 2 || e.IsChecked("B") {
		t.Errorf("expected B unchecked and pending, got %+v", e)
	}

	if _, err := Apply(h, e, Action{Kind: ActionToggleItem, Item: "Z"}); err == nil {
		t.Error("expected error for an item the habit does not have")
	}
}

func TestSetTime(t *testing.T) {
	h := testutil.TimeRangeHabit("sleep", 420)
	tests := []struct {
		name       string
		current    models.LogEntry
		start, end string
		wantValue  float64
		wantStatus models.Status
		wantErr    bool
	}{
		{name: "overnight meets minimum", start: "23:00", end: "06:30", wantValue: 7.5, wantStatus: models.StatusCompleted},
		{name: "short night", start: "01:00", end: "06:00", wantValue: 5, wantStatus: models.StatusPending},
		{name: "rounds to one decimal", start: "22:00", end: "05:10", wantValue: 7.2, wantStatus: models.StatusCompleted},
		{name: "only start", start: "23:00", wantValue: 0, wantStatus: models.StatusPending},
		{
			name:       "end completes a stored start",
			current:    models.LogEntry{Status: models.StatusPending, Start: "22:30"},
			end:        "06:00",
			wantValue:  7.5,
			wantStatus: models.StatusCompleted,
		},
		{name: "invalid time", start: "25:00", end: "06:00", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(h, tt.current, Action{Kind: ActionSetTime, Start: tt.start, End: tt.end})
			if tt.wantErr {
				var vErr *apperrors.ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.Value != tt.wantValue || got.Status != tt.wantStatus {
				t.Errorf("got %+v, want value %v status %s", got, tt.wantValue, tt.wantStatus)
			}
		})
	}
}

func TestWrongActionForType(t *testing.T) {
	tests := []struct {
		name  string
		habit models.Habit
		kind  ActionKind
	}{
		{"increment on check", testutil.CheckHabit("c"), ActionIncrement},
		{"toggle on count", testutil.CountHabit("n", 3), ActionToggle},
		{"set_time on multi_check", testutil.MultiCheckHabit("m", "A"), ActionSetTime},
		{"toggle on time_range", testutil.TimeRangeHabit("t", 420), ActionToggle},
		{"unknown type", models.Habit{ID: "x", Type: "weekly"}, ActionToggle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var vErr *apperrors.ValidationError
			if _, err := Apply(tt.habit, models.PendingEntry(), Action{Kind: tt.kind}); !errors.As(err, &vErr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestGridToggle(t *testing.T) {
	partial := models.LogEntry{Status: models.StatusPending, Value: 2, CheckedItems: []string{"A"}}
	got := GridToggle(partial)
	if got.Status != models.StatusCompleted || got.Value != 1 || len(got.CheckedItems) != 0 {
		t.Errorf("unexpected grid toggle result: %+v", got)
	}
	if back := GridToggle(got); back.Status != models.StatusPending || back.Value != 0 {
		t.Errorf("unexpected second grid toggle result: %+v", back)
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		habit models.Habit
		entry models.LogEntry
		want  models.Status
	}{
		{"count at target", testutil.CountHabit("n", 3), models.LogEntry{Value: 3}, models.StatusCompleted},
		{"count below target", testutil.CountHabit("n", 3), models.LogEntry{Value: 2}, models.StatusPending},
		{"all items", testutil.MultiCheckHabit("m", "A", "B"), models.LogEntry{CheckedItems: []string{"B", "A"}}, models.StatusCompleted},
		{"some items", testutil.MultiCheckHabit("m", "A", "B"), models.LogEntry{CheckedItems: []string{"A"}}, models.StatusPending},
		{"time range missing end", testutil.TimeRangeHabit("t", 420), models.LogEntry{Start: "23:00"}, models.StatusPending},
		{"check keeps status", testutil.CheckHabit("c"), testutil.Completed(), models.StatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveStatus(tt.habit, tt.entry)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
