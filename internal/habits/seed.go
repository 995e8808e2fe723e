package habits

import (
	"time"

	"github.com/julianstephens/voidtrack/internal/constants"
	"github.com/julianstephens/voidtrack/internal/models"
)

// Seed returns the default habit set used when nothing has been persisted yet.
func Seed(now time.Time) []models.Habit {
	return []models.Habit{
		{
			ID:        "h_morning",
			Title:     "Morning Routine",
			Type:      models.HabitMultiCheck,
			Section:   constants.SectionMorning,
			Items:     []string{"Drink 500ml Water", "Cleanser", "Moisturizer", "Sunscreen", "Posture Check"},
			CreatedAt: now,
		},
		{
			ID:        "h_water",
			Title:     "Water Intake",
			Type:      models.HabitCount,
			Section:   constants.SectionDaytime,
			Goal:      &models.Goal{Target: 3, Unit: "bottles"},
			CreatedAt: now,
		},
		{
			ID:        "h_daytime",
			Title:     "Daytime Routine",
			Type:      models.HabitMultiCheck,
			Section:   constants.SectionDaytime,
			Items:     []string{"Sabzi + Roti Eaten", "Face Pulls Done"},
			CreatedAt: now,
		},
		{
			ID:        "h_evening",
			Title:     "Evening Routine",
			Type:      models.HabitMultiCheck,
			Section:   constants.SectionEvening,
			Items:     []string{"Chin Tucks", "Tongue to Palate (Mewing)", "Neck Extensions"},
			CreatedAt: now,
		},
		{
			ID:        "h_night",
			Title:     "Night Routine",
			Type:      models.HabitMultiCheck,
			Section:   constants.SectionNight,
			Items:     []string{"PM Cleanser", "PM Moisturizer", "Light Water Intake", "Screen Off before Sleep"},
			CreatedAt: now,
		},
		{
			ID:        "h_sleep",
			Title:     "Sleep",
			Type:      models.HabitTimeRange,
			Section:   constants.SectionNight,
			Goal:      &models.Goal{MinDurationMinutes: constants.DefaultMinSleepMinutes},
			CreatedAt: now,
		},
	}
}

// IsSeedID reports whether id belongs to one of the default habits.
func IsSeedID(id string) bool {
	for _, h := range Seed(time.Time{}) {
		if h.ID == id {
			return true
		}
	}
	return false
}
