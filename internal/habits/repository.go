package habits

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/voidtrack/internal/constants"
	apperrors "github.com/julianstephens/voidtrack/internal/errors"
	"github.com/julianstephens/voidtrack/internal/kv"
	"github.com/julianstephens/voidtrack/internal/logger"
	"github.com/julianstephens/voidtrack/internal/models"
	"github.com/julianstephens/voidtrack/internal/storage"
	"github.com/julianstephens/voidtrack/internal/utils"
)

// maxIDAttempts bounds the retries when a generated id collides.
const maxIDAttempts = 8

// Repository owns the habit definitions. It is the only writer of the
// habits blob.
type Repository struct {
	store *storage.Storage
	clock utils.Clock
	ids   IDGenerator
}

// NewRepository creates a repository backed by store.
func NewRepository(store *storage.Storage, clock utils.Clock, ids IDGenerator) *Repository {
	if clock == nil {
		clock = utils.RealClock{}
	}
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Repository{store: store, clock: clock, ids: ids}
}

// List returns every habit in creation order. The first load of an empty
// store persists and returns the default seed. A corrupt habits blob is
// logged and answered with the seed without overwriting the blob.
func (r *Repository) List() ([]models.Habit, error) {
	habits, err := r.store.Habits()
	if err == nil {
		return habits, nil
	}

	var parseErr *apperrors.ParseError
	switch {
	case errors.Is(err, kv.ErrNotFound):
		seed := Seed(r.clock.Now().UTC())
		if err := r.store.SaveHabits(seed); err != nil {
			return nil, fmt.Errorf("failed to persist default habits: %w", err)
		}
		logger.Debug("Seeded default habits", "count", len(seed))
		return seed, nil
	case errors.As(err, &parseErr):
		logger.Warn("Habits data is corrupt, falling back to defaults", "error", err)
		return Seed(r.clock.Now().UTC()), nil
	default:
		return nil, err
	}
}

// Active returns the non-archived habits in creation order.
func (r *Repository) Active() ([]models.Habit, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}
	active := make([]models.Habit, 0, len(all))
	for _, h := range all {
		if !h.Archived {
			active = append(active, h)
		}
	}
	return active, nil
}

// Get returns the habit with the given id.
func (r *Repository) Get(id string) (models.Habit, error) {
	all, err := r.List()
	if err != nil {
		return models.Habit{}, err
	}
	idx := indexOf(all, id)
	if idx < 0 {
		return models.Habit{}, apperrors.HabitNotFound(id)
	}
	return all[idx], nil
}

// Create validates draft, assigns a fresh id and timestamp, and appends the
// new habit.
func (r *Repository) Create(draft models.HabitDraft) (models.Habit, error) {
	h := models.Habit{
		Title:   draft.Title,
		Type:    draft.Type,
		Section: draft.Section,
		Items:   draft.Items,
		Goal:    copyGoal(draft.Goal),
	}
	normalize(&h)
	if err := Validate(h); err != nil {
		return models.Habit{}, err
	}

	all, err := r.List()
	if err != nil {
		return models.Habit{}, err
	}

	id, err := r.freshID(all)
	if err != nil {
		return models.Habit{}, err
	}
	h.ID = id
	h.CreatedAt = r.clock.Now().UTC()

	if err := r.store.SaveHabits(append(all, h)); err != nil {
		return models.Habit{}, err
	}
	logger.Info("Created habit", "id", h.ID, "type", h.Type)
	return h, nil
}

// freshID draws ids until one is unused by any current habit and by every
// habit id still referenced from the log book.
func (r *Repository) freshID(current []models.Habit) (string, error) {
	used := make(map[string]struct{}, len(current))
	for _, h := range current {
		used[h.ID] = struct{}{}
	}
	book, err := r.store.Logs()
	if err == nil {
		for id := range book.HabitIDs() {
			used[id] = struct{}{}
		}
	} else if !errors.Is(err, kv.ErrNotFound) {
		logger.Warn("Could not read logs while checking id uniqueness", "error", err)
	}

	for i := 0; i < maxIDAttempts; i++ {
		id := r.ids.New()
		if id == "" {
			continue
		}
		if _, taken := used[id]; !taken {
			return id, nil
		}
		logger.Debug("Generated habit id collides, retrying", "id", id)
	}
	return "", fmt.Errorf("failed to generate a unique habit id after %d attempts", maxIDAttempts)
}

// Update merges patch into the habit with the given id. The merged habit is
// validated as on create; on failure the stored habit is unchanged.
func (r *Repository) Update(id string, patch models.HabitPatch) (models.Habit, error) {
	all, err := r.List()
	if err != nil {
		return models.Habit{}, err
	}
	idx := indexOf(all, id)
	if idx < 0 {
		return models.Habit{}, apperrors.HabitNotFound(id)
	}

	merged := all[idx]
	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.Section != nil {
		merged.Section = *patch.Section
	}
	if patch.Items != nil {
		merged.Items = append([]string(nil), patch.Items...)
	}
	if patch.Goal != nil {
		merged.Goal = copyGoal(patch.Goal)
	}
	if patch.Archived != nil {
		merged.Archived = *patch.Archived
	}
	normalize(&merged)
	if err := Validate(merged); err != nil {
		return models.Habit{}, err
	}

	all[idx] = merged
	if err := r.store.SaveHabits(all); err != nil {
		return models.Habit{}, err
	}
	return merged, nil
}

// Delete removes the habit definition. Its log entries are left in place.
func (r *Repository) Delete(id string) error {
	all, err := r.List()
	if err != nil {
		return err
	}
	idx := indexOf(all, id)
	if idx < 0 {
		return apperrors.HabitNotFound(id)
	}
	remaining := append(all[:idx:idx], all[idx+1:]...)
	if err := r.store.SaveHabits(remaining); err != nil {
		return err
	}
	logger.Info("Deleted habit", "id", id)
	return nil
}

// Archive hides a habit from stats without removing it.
func (r *Repository) Archive(id string) (models.Habit, error) {
	archived := true
	return r.Update(id, models.HabitPatch{Archived: &archived})
}

// Unarchive reverses Archive.
func (r *Repository) Unarchive(id string) (models.Habit, error) {
	archived := false
	return r.Update(id, models.HabitPatch{Archived: &archived})
}

// RenameSection moves every habit in oldKey to the key derived from newName
// and returns that key. A missing section matches "other".
func (r *Repository) RenameSection(oldKey, newName string) (string, error) {
	newKey := SectionKey(newName)
	if newKey == "" {
		return "", apperrors.Validationf("section", "name must not be empty")
	}
	oldKey = strings.TrimSpace(oldKey)
	if oldKey == "" {
		oldKey = constants.SectionOther
	}

	all, err := r.List()
	if err != nil {
		return "", err
	}
	moved := 0
	for i := range all {
		if all[i].SectionKey() == oldKey {
			all[i].Section = newKey
			moved++
		}
	}
	if moved == 0 {
		return newKey, nil
	}
	if err := r.store.SaveHabits(all); err != nil {
		return "", err
	}
	logger.Info("Renamed section", "from", oldKey, "to", newKey, "habits", moved)
	return newKey, nil
}

// SectionKey derives a section key from a display name: lower-cased,
// trimmed, with whitespace runs joined by underscores.
func SectionKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// Validate checks the shape rules shared by create and update.
func Validate(h models.Habit) error {
	if strings.TrimSpace(h.Title) == "" {
		return apperrors.Validationf("title", "must not be empty")
	}
	switch h.Type {
	case models.HabitCheck, models.HabitMultiCheck:
		return nil
	case models.HabitCount:
		if h.Goal == nil || h.Goal.Target <= 0 {
			return apperrors.Validationf("goal.target", "must be a positive number")
		}
		if strings.TrimSpace(h.Goal.Unit) == "" {
			return apperrors.Validationf("goal.unit", "must not be empty")
		}
		return nil
	case models.HabitTimeRange:
		if h.Goal != nil && h.Goal.MinDurationMinutes < 0 {
			return apperrors.Validationf("goal.min_duration_minutes", "must not be negative")
		}
		return nil
	default:
		return apperrors.Validationf("type", "unknown habit type %q", h.Type)
	}
}

// normalize trims text fields, drops blank and duplicate items, and fills the
// section and time-range defaults.
func normalize(h *models.Habit) {
	h.Title = strings.TrimSpace(h.Title)
	h.Section = strings.TrimSpace(h.Section)
	if h.Section == "" {
		h.Section = constants.SectionOther
	}

	if h.Items != nil {
		seen := make(map[string]struct{}, len(h.Items))
		items := make([]string, 0, len(h.Items))
		for _, it := range h.Items {
			it = strings.TrimSpace(it)
			if it == "" {
				continue
			}
			if _, dup := seen[it]; dup {
				continue
			}
			seen[it] = struct{}{}
			items = append(items, it)
		}
		h.Items = items
	}

	if h.Goal != nil {
		h.Goal.Unit = strings.TrimSpace(h.Goal.Unit)
	}
	if h.Type == models.HabitTimeRange && (h.Goal == nil || h.Goal.MinDurationMinutes == 0) {
		h.Goal = &models.Goal{MinDurationMinutes: constants.DefaultMinSleepMinutes}
	}
}

func copyGoal(g *models.Goal) *models.Goal {
	if g == nil {
		return nil
	}
	c := *g
	return &c
}

func indexOf(habits []models.Habit, id string) int {
	for i, h := range habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}
