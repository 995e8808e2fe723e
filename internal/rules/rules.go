package rules

import (
	"math"

	apperrors "github.com/julianstephens/voidtrack/internal/errors"
	"github.com/julianstephens/voidtrack/internal/models"
	"github.com/julianstephens/voidtrack/internal/utils"
)

// ActionKind names a user action on a habit's log entry.
type ActionKind string

const (
	ActionToggle     ActionKind = "toggle"
	ActionIncrement  ActionKind = "increment"
	ActionDecrement  ActionKind = "decrement"
	ActionToggleItem ActionKind = "toggle_item"
	ActionSetTime    ActionKind = "set_time"
)

// Action is a user action. Item is used by toggle_item; Start and End (HH:MM)
// by set_time, where an empty value keeps the entry's current time.
type Action struct {
	Kind  ActionKind
	Item  string
	Start string
	End   string
}

// Apply returns the next full entry for habit h after action a on entry
// current. The stored status is always derived from the progress fields,
// except for check habits which toggle it directly.
func Apply(h models.Habit, current models.LogEntry, a Action) (models.LogEntry, error) {
	switch h.Type {
	case models.HabitCheck:
		if a.Kind != ActionToggle {
			return models.LogEntry{}, invalidAction(h, a)
		}
		return toggle(current), nil
	case models.HabitCount:
		switch a.Kind {
		case ActionIncrement:
			return countEntry(h, current.Value+1), nil
		case ActionDecrement:
			return countEntry(h, math.Max(0, current.Value-1)), nil
		}
		return models.LogEntry{}, invalidAction(h, a)
	case models.HabitMultiCheck:
		if a.Kind != ActionToggleItem {
			return models.LogEntry{}, invalidAction(h, a)
		}
		return toggleItem(h, current, a.Item)
	case models.HabitTimeRange:
		if a.Kind != ActionSetTime {
			return models.LogEntry{}, invalidAction(h, a)
		}
		return setTime(h, current, a.Start, a.End)
	default:
		return models.LogEntry{}, apperrors.Validationf("type", "unknown habit type %q", h.Type)
	}
}

// GridToggle flips completion the way a check habit does, for any habit type.
func GridToggle(current models.LogEntry) models.LogEntry {
	return toggle(current)
}

// DeriveStatus recomputes the status an entry must carry for habit h. Check
// entries carry their own status.
func DeriveStatus(h models.Habit, e models.LogEntry) (models.Status, error) {
	switch h.Type {
	case models.HabitCheck:
		if e.IsCompleted() {
			return models.StatusCompleted, nil
		}
		return models.StatusPending, nil
	case models.HabitCount:
		return statusOf(e.Value >= h.Target()), nil
	case models.HabitMultiCheck:
		return statusOf(allChecked(h.Items, e.CheckedItems)), nil
	case models.HabitTimeRange:
		if e.Start == "" || e.End == "" {
			return models.StatusPending, nil
		}
		minutes, err := utils.ElapsedMinutes(e.Start, e.End)
		if err != nil {
			return "", apperrors.Validationf("time", "%v", err)
		}
		return statusOf(minutes >= h.MinDurationMinutes()), nil
	default:
		return "", apperrors.Validationf("type", "unknown habit type %q", h.Type)
	}
}

func toggle(current models.LogEntry) models.LogEntry {
	if current.IsCompleted() {
		return models.LogEntry{Status: models.StatusPending, Value: 0}
	}
	return models.LogEntry{Status: models.StatusCompleted, Value: 1}
}

func countEntry(h models.Habit, value float64) models.LogEntry {
	return models.LogEntry{Status: statusOf(value >= h.Target()), Value: value}
}

func toggleItem(h models.Habit, current models.LogEntry, item string) (models.LogEntry, error) {
	if !h.HasItem(item) {
		return models.LogEntry{}, apperrors.Validationf("item", "%q is not a step of %s", item, h.ID)
	}

	checked := make([]string, 0, len(current.CheckedItems)+1)
	found := false
	for _, it := range current.CheckedItems {
		if it == item {
			found = true
			continue
		}
		checked = append(checked, it)
	}
	if !found {
		checked = append(checked, item)
	}

	return models.LogEntry{
		Status:       statusOf(allChecked(h.Items, checked)),
		Value:        float64(len(checked)),
		CheckedItems: checked,
	}, nil
}

func setTime(h models.Habit, current models.LogEntry, start, end string) (models.LogEntry, error) {
	if start == "" {
		start = current.Start
	}
	if end == "" {
		end = current.End
	}
	if err := validateClock("start", start); err != nil {
		return models.LogEntry{}, err
	}
	if err := validateClock("end", end); err != nil {
		return models.LogEntry{}, err
	}

	next := models.LogEntry{Status: models.StatusPending, Start: start, End: end}
	if start == "" || end == "" {
		return next, nil
	}

	minutes, err := utils.ElapsedMinutes(start, end)
	if err != nil {
		return models.LogEntry{}, apperrors.Validationf("time", "%v", err)
	}
	next.Value = math.Round(float64(minutes)/60*10) / 10
	next.Status = statusOf(minutes >= h.MinDurationMinutes())
	return next, nil
}

func validateClock(field, v string) error {
	if v == "" {
		return nil
	}
	if _, err := utils.ParseTimeToMinutes(v); err != nil {
		return apperrors.Validationf(field, "%q is not a valid HH:MM time", v)
	}
	return nil
}

func allChecked(items, checked []string) bool {
	set := make(map[string]struct{}, len(checked))
	for _, c := range checked {
		set[c] = struct{}{}
	}
	for _, it := range items {
		if _, ok := set[it]; !ok {
			return false
		}
	}
	return true
}

func statusOf(completed bool) models.Status {
	if completed {
		return models.StatusCompleted
	}
	return models.StatusPending
}

func invalidAction(h models.Habit, a Action) error {
	return apperrors.Validationf("action", "%q is not valid for %s habit %s", a.Kind, h.Type, h.ID)
}
