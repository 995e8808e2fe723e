package models

import (
	"strings"
	"time"

	"github.com/julianstephens/voidtrack/internal/constants"
)

// HabitType determines which mutation rule and log shape apply to a habit.
type HabitType string

const (
	HabitCheck      HabitType = "check"
	HabitCount      HabitType = "count"
	HabitMultiCheck HabitType = "multi_check"
	HabitTimeRange  HabitType = "time_range"
)

// HabitTypes lists every supported habit type.
var HabitTypes = []HabitType{HabitCheck, HabitCount, HabitMultiCheck, HabitTimeRange}

// Valid reports whether t is one of the supported habit types.
func (t HabitType) Valid() bool {
	switch t {
	case HabitCheck, HabitCount, HabitMultiCheck, HabitTimeRange:
		return true
	}
	return false
}

// Goal is the type-specific target of a habit. Target and Unit apply to count
// habits, MinDurationMinutes to time-range habits.
type Goal struct {
	Target             float64 `json:"target,omitempty"`
	Unit               string  `json:"unit,omitempty"`
	MinDurationMinutes int     `json:"min_duration_minutes,omitempty"`
}

// Habit represents a tracked routine definition
type Habit struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      HabitType `json:"type"`
	Section   string    `json:"section,omitempty"`
	Items     []string  `json:"items,omitempty"`
	Goal      *Goal     `json:"goal,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Archived  bool      `json:"archived"`
}

// SectionKey returns the habit's section, treating a missing section as "other".
func (h Habit) SectionKey() string {
	if strings.TrimSpace(h.Section) == "" {
		return constants.SectionOther
	}
	return h.Section
}

// Target returns the count goal target, or 0 when no goal is set.
func (h Habit) Target() float64 {
	if h.Goal == nil {
		return 0
	}
	return h.Goal.Target
}

// MinDurationMinutes returns the time-range goal, defaulting to seven hours.
func (h Habit) MinDurationMinutes() int {
	if h.Goal == nil || h.Goal.MinDurationMinutes <= 0 {
		return constants.DefaultMinSleepMinutes
	}
	return h.Goal.MinDurationMinutes
}

// HasItem reports whether item is one of the habit's checklist steps.
func (h Habit) HasItem(item string) bool {
	for _, it := range h.Items {
		if it == item {
			return true
		}
	}
	return false
}

// HabitDraft holds the user-supplied fields of a habit about to be created.
type HabitDraft struct {
	Title   string
	Type    HabitType
	Section string
	Items   []string
	Goal    *Goal
}

// HabitPatch holds the fields to merge into an existing habit. Nil fields are
// left unchanged. Type is deliberately absent: it is fixed at creation.
type HabitPatch struct {
	Title    *string
	Section  *string
	Items    []string
	Goal     *Goal
	Archived *bool
}
