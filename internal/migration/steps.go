package migration

import (
	"time"

	"github.com/julianstephens/voidtrack/internal/habits"
	"github.com/julianstephens/voidtrack/internal/models"
)

// Steps returns the built-in upgrades in version order. now stamps any
// default habit added back by the first step.
func Steps(now time.Time) []Step {
	return []Step{
		{Version: 1, Name: "add_missing_defaults", Apply: addMissingDefaults(now)},
		{Version: 2, Name: "split_gym_nutrition", Apply: splitGymNutrition},
		{Version: 3, Name: "morning_food_soya", Apply: addSoyaGranules},
		{Version: 4, Name: "daytime_drop_gym_items", Apply: dropDaytimeGymItems},
		{Version: 5, Name: "water_target", Apply: fixWaterTarget},
	}
}

// LatestVersion is the version recorded once every built-in step has run.
func LatestVersion() int {
	steps := Steps(time.Time{})
	return steps[len(steps)-1].Version
}

func addMissingDefaults(now time.Time) func([]models.Habit) ([]models.Habit, bool) {
	return func(current []models.Habit) ([]models.Habit, bool) {
		present := make(map[string]bool, len(current))
		for _, h := range current {
			present[h.ID] = true
		}
		changed := false
		for _, d := range habits.Seed(now.UTC()) {
			if !present[d.ID] {
				current = append(current, d)
				changed = true
			}
		}
		return current, changed
	}
}

func splitGymNutrition(current []models.Habit) ([]models.Habit, bool) {
	return editHabit(current, "h_gym", func(h *models.Habit) bool {
		if !h.HasItem("Shake Taken") {
			return false
		}
		h.Items = withoutItems(h.Items, "Shake Taken", "Eggs Eaten")
		return true
	})
}

func addSoyaGranules(current []models.Habit) ([]models.Habit, bool) {
	return editHabit(current, "h_morning_food", func(h *models.Habit) bool {
		if h.HasItem("Soya Granules") {
			return false
		}
		h.Items = append(h.Items, "Soya Granules")
		return true
	})
}

func dropDaytimeGymItems(current []models.Habit) ([]models.Habit, bool) {
	return editHabit(current, "h_daytime", func(h *models.Habit) bool {
		if !h.HasItem("Shake Taken") && !h.HasItem("Gym Done") {
			return false
		}
		h.Items = withoutItems(h.Items, "Shake Taken", "Gym Done")
		return true
	})
}

func fixWaterTarget(current []models.Habit) ([]models.Habit, bool) {
	return editHabit(current, "h_water", func(h *models.Habit) bool {
		if h.Goal == nil || h.Goal.Target != 8 {
			return false
		}
		h.Goal.Target = 3
		return true
	})
}

// editHabit applies fn to the habit with the given id, if present.
func editHabit(current []models.Habit, id string, fn func(*models.Habit) bool) ([]models.Habit, bool) {
	for i := range current {
		if current[i].ID == id {
			return current, fn(&current[i])
		}
	}
	return current, false
}

func withoutItems(items []string, drop ...string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		keep := true
		for _, d := range drop {
			if it == d {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, it)
		}
	}
	return out
}
