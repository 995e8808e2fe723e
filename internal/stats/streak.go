package stats

import (
	"github.com/julianstephens/voidtrack/internal/constants"
	apperrors "github.com/julianstephens/voidtrack/internal/errors"
	"github.com/julianstephens/voidtrack/internal/models"
	"github.com/julianstephens/voidtrack/internal/utils"
)

// Streak counts consecutive completed days for habitID walking backward from
// asOf. The walk stops at the first missing or pending day, before the
// earliest date in the book, or after horizon days (the default horizon
// when horizon <= 0).
func Streak(habitID string, book models.LogBook, asOf string, horizon int) (int, error) {
	if !utils.ValidateDateKey(asOf) {
		return 0, apperrors.Validationf("date", "%q is not a valid YYYY-MM-DD date", asOf)
	}
	if horizon <= 0 {
		horizon = constants.DefaultStreakHorizonDays
	}
	earliest := book.EarliestDate()
	if earliest == "" {
		return 0, nil
	}

	streak := 0
	day := asOf
	for streak < horizon && day >= earliest {
		entry, ok := book.Entry(day, habitID)
		if !ok || !entry.IsCompleted() {
			break
		}
		streak++

		prev, err := utils.AddDays(day, -1)
		if err != nil {
			return streak, err
		}
		day = prev
	}
	return streak, nil
}

// Streaks computes Streak for every habit.
func Streaks(habits []models.Habit, book models.LogBook, asOf string, horizon int) (map[string]int, error) {
	out := make(map[string]int, len(habits))
	for _, h := range habits {
		n, err := Streak(h.ID, book, asOf, horizon)
		if err != nil {
			return nil, err
		}
		out[h.ID] = n
	}
	return out, nil
}
