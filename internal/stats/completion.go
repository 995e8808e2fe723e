package stats

import (
	"math"
	"sort"

	"github.com/julianstephens/voidtrack/internal/constants"
	"github.com/julianstephens/voidtrack/internal/models"
	"github.com/julianstephens/voidtrack/internal/utils"
)

// Completion is a completed/total count with its rounded percentage.
type Completion struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

func newCompletion(completed, total int) Completion {
	return Completion{Completed: completed, Total: total, Percentage: percentage(completed, total)}
}

// percentage returns round(100*c/t), or 0 when t is 0.
func percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// units returns the granular completed/total contribution of one habit on
// one day: each checklist step for multi_check, one unit otherwise.
func units(h models.Habit, day models.DayLog) (completed, total int) {
	entry, ok := day[h.ID]
	switch h.Type {
	case models.HabitMultiCheck:
		total = len(h.Items)
		if ok {
			for _, it := range h.Items {
				if entry.IsChecked(it) {
					completed++
				}
			}
		}
		return completed, total
	case models.HabitCheck, models.HabitCount, models.HabitTimeRange:
		if ok && entry.IsCompleted() {
			completed = 1
		}
		return completed, 1
	default:
		return 0, 0
	}
}

// CompletionForDay counts granular completion across habits for one day.
// Checked steps that are no longer in a habit's items do not count.
func CompletionForDay(habits []models.Habit, day models.DayLog) Completion {
	completed, total := 0, 0
	for _, h := range habits {
		c, t := units(h, day)
		completed += c
		total += t
	}
	return newCompletion(completed, total)
}

// SectionCompletion is the granular completion of one section on one day.
type SectionCompletion struct {
	Section string `json:"section"`
	Completion
}

// CompletionBySection groups CompletionForDay by section. Sections appear in
// the built-in order, then custom sections alphabetically, then "other".
func CompletionBySection(habits []models.Habit, day models.DayLog) []SectionCompletion {
	grouped := make(map[string][]models.Habit)
	for _, h := range habits {
		key := h.SectionKey()
		grouped[key] = append(grouped[key], h)
	}

	out := make([]SectionCompletion, 0, len(grouped))
	for _, key := range SectionKeys(habits) {
		out = append(out, SectionCompletion{Section: key, Completion: CompletionForDay(grouped[key], day)})
	}
	return out
}

// SectionKeys returns the distinct section keys of habits in display order.
func SectionKeys(habits []models.Habit) []string {
	present := make(map[string]bool)
	for _, h := range habits {
		present[h.SectionKey()] = true
	}

	keys := make([]string, 0, len(present))
	builtin := make(map[string]bool, len(constants.SectionOrder))
	for _, key := range constants.SectionOrder {
		builtin[key] = true
		if present[key] {
			keys = append(keys, key)
		}
	}

	var custom []string
	for key := range present {
		if !builtin[key] && key != constants.SectionOther {
			custom = append(custom, key)
		}
	}
	sort.Strings(custom)
	keys = append(keys, custom...)

	if present[constants.SectionOther] {
		keys = append(keys, constants.SectionOther)
	}
	return keys
}

// WeeklyCompletion counts one unit per habit per day across the seven days
// of the ISO week containing weekStart.
func WeeklyCompletion(habits []models.Habit, book models.LogBook, weekStart string) (Completion, error) {
	days, err := utils.WeekDays(weekStart)
	if err != nil {
		return Completion{}, err
	}
	completed, total := 0, 0
	for _, day := range days {
		for _, h := range habits {
			total++
			if entry, ok := book.Entry(day, h.ID); ok && entry.IsCompleted() {
				completed++
			}
		}
	}
	return newCompletion(completed, total), nil
}

// TrendResult compares the weekly completion of one week with the week
// before it.
type TrendResult struct {
	CurrentRate  int    `json:"currentRate"`
	PreviousRate int    `json:"previousRate"`
	Delta        int    `json:"delta"`
	WeekStart    string `json:"weekStart"`
}

// Trend computes the TrendResult for the week offset weeks from today.
func Trend(habits []models.Habit, book models.LogBook, today string, offset int) (TrendResult, error) {
	start, err := WeekStartForOffset(today, offset)
	if err != nil {
		return TrendResult{}, err
	}
	prevStart, err := utils.AddDays(start, -constants.DaysPerWeek)
	if err != nil {
		return TrendResult{}, err
	}

	current, err := WeeklyCompletion(habits, book, start)
	if err != nil {
		return TrendResult{}, err
	}
	previous, err := WeeklyCompletion(habits, book, prevStart)
	if err != nil {
		return TrendResult{}, err
	}
	return TrendResult{
		CurrentRate:  current.Percentage,
		PreviousRate: previous.Percentage,
		Delta:        current.Percentage - previous.Percentage,
		WeekStart:    start,
	}, nil
}

// WeekStartForOffset returns the Monday of the week offset weeks from today.
func WeekStartForOffset(today string, offset int) (string, error) {
	shifted, err := utils.AddDays(today, offset*constants.DaysPerWeek)
	if err != nil {
		return "", err
	}
	return utils.WeekStart(shifted)
}
