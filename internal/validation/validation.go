package validation

import (
	"fmt"
	"sort"

	"github.com/julianstephens/voidtrack/internal/habits"
	"github.com/julianstephens/voidtrack/internal/models"
	"github.com/julianstephens/voidtrack/internal/rules"
	"github.com/julianstephens/voidtrack/internal/utils"
)

// ConflictType represents the type of integrity problem
type ConflictType string

const (
	ConflictDuplicateHabitID   ConflictType = "duplicate_habit_id"
	ConflictInvalidHabit       ConflictType = "invalid_habit"
	ConflictInvalidDate        ConflictType = "invalid_date"
	ConflictFutureEntry        ConflictType = "future_entry"
	ConflictOrphanedLogs       ConflictType = "orphaned_logs"
	ConflictStatusMismatch     ConflictType = "status_mismatch"
	ConflictUnknownCheckedItem ConflictType = "unknown_checked_item"
)

// Conflict represents a detected problem in the habits or log book
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string // YYYY-MM-DD format (if applicable)
	HabitIDs    []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No problems detected."
	}

	report := "Problems detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator checks persisted habits and logs for integrity problems
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// Validate inspects habits and book. Orphaned logs are reported once per
// habit id.
func (v *Validator) Validate(all []models.Habit, book models.LogBook, today string) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byID := make(map[string]models.Habit, len(all))
	for _, h := range all {
		if _, dup := byID[h.ID]; dup {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitID,
				Description: fmt.Sprintf("Duplicate habit id: %s", h.ID),
				HabitIDs:    []string{h.ID},
			})
			continue
		}
		byID[h.ID] = h

		if err := habits.Validate(h); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidHabit,
				Description: fmt.Sprintf("Habit %s (%q) is invalid: %v", h.ID, h.Title, err),
				HabitIDs:    []string{h.ID},
			})
		}
	}

	orphans := make(map[string]int)
	for _, date := range book.Dates() {
		if !utils.ValidateDateKey(date) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Log book contains an invalid date key: %q", date),
				Date:        date,
			})
			continue
		}

		day := book[date]
		ids := make([]string, 0, len(day))
		for id := range day {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		if date > today && len(ids) > 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictFutureEntry,
				Description: fmt.Sprintf("%d entr(ies) recorded for future date %s", len(ids), date),
				Date:        date,
				HabitIDs:    ids,
			})
		}

		for _, id := range ids {
			h, ok := byID[id]
			if !ok {
				orphans[id]++
				continue
			}
			result.Conflicts = append(result.Conflicts, checkEntry(h, date, day[id])...)
		}
	}

	orphanIDs := make([]string, 0, len(orphans))
	for id := range orphans {
		orphanIDs = append(orphanIDs, id)
	}
	sort.Strings(orphanIDs)
	for _, id := range orphanIDs {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictOrphanedLogs,
			Description: fmt.Sprintf("%d day(s) of logs belong to unknown habit %s", orphans[id], id),
			HabitIDs:    []string{id},
		})
	}

	return result
}

func checkEntry(h models.Habit, date string, e models.LogEntry) []Conflict {
	var conflicts []Conflict

	if h.Type == models.HabitMultiCheck {
		for _, item := range e.CheckedItems {
			if !h.HasItem(item) {
				conflicts = append(conflicts, Conflict{
					Type:        ConflictUnknownCheckedItem,
					Description: fmt.Sprintf("Habit %s on %s has checked step %q that is no longer in its items", h.ID, date, item),
					Date:        date,
					HabitIDs:    []string{h.ID},
				})
			}
		}
	}

	want, err := rules.DeriveStatus(h, e)
	if err != nil {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictStatusMismatch,
			Description: fmt.Sprintf("Habit %s on %s has unreadable progress: %v", h.ID, date, err),
			Date:        date,
			HabitIDs:    []string{h.ID},
		})
		return conflicts
	}
	// Grid toggles may mark any habit completed without progress, so only a
	// pending entry whose progress is complete, or an unknown status, is wrong.
	unknown := e.Status != models.StatusPending && e.Status != models.StatusCompleted
	if unknown || (want == models.StatusCompleted && e.Status != models.StatusCompleted) {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictStatusMismatch,
			Description: fmt.Sprintf("Habit %s on %s is stored as %s but its progress says %s", h.ID, date, e.Status, want),
			Date:        date,
			HabitIDs:    []string{h.ID},
		})
	}
	return conflicts
}
