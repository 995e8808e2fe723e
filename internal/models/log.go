package models

import "sort"

// Status is the completion state of a log entry.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// LogEntry is the recorded state of one habit on one calendar day. Which
// progress fields are meaningful depends on the habit type.
type LogEntry struct {
	Status       Status   `json:"status"`
	Value        float64  `json:"value"`
	CheckedItems []string `json:"checked_items,omitempty"`
	Start        string   `json:"start,omitempty"`
	End          string   `json:"end,omitempty"`
}

// PendingEntry is the implicit entry for a day with no recorded progress.
func PendingEntry() LogEntry {
	return LogEntry{Status: StatusPending}
}

// IsCompleted reports whether the entry's status is completed.
func (e LogEntry) IsCompleted() bool {
	return e.Status == StatusCompleted
}

// IsChecked reports whether item is in the entry's checked items.
func (e LogEntry) IsChecked(item string) bool {
	for _, it := range e.CheckedItems {
		if it == item {
			return true
		}
	}
	return false
}

// DayLog maps habit id to its entry for one day.
type DayLog map[string]LogEntry

// LogBook maps dateKey to the day's entries.
type LogBook map[string]DayLog

// Entry returns the stored entry for (dateKey, habitID) and whether it exists.
func (b LogBook) Entry(dateKey, habitID string) (LogEntry, bool) {
	day, ok := b[dateKey]
	if !ok {
		return LogEntry{}, false
	}
	entry, ok := day[habitID]
	return entry, ok
}

// EarliestDate returns the smallest dateKey in the book, or "" when empty.
// dateKeys sort lexically in calendar order.
func (b LogBook) EarliestDate() string {
	earliest := ""
	for key := range b {
		if earliest == "" || key < earliest {
			earliest = key
		}
	}
	return earliest
}

// Dates returns every dateKey in ascending order.
func (b LogBook) Dates() []string {
	dates := make([]string, 0, len(b))
	for key := range b {
		dates = append(dates, key)
	}
	sort.Strings(dates)
	return dates
}

// HabitIDs returns the set of habit ids referenced anywhere in the book.
func (b LogBook) HabitIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, day := range b {
		for id := range day {
			ids[id] = struct{}{}
		}
	}
	return ids
}
