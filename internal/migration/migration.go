package migration

import (
	"errors"
	"fmt"
	"time"

	apperrors "github.com/julianstephens/voidtrack/internal/errors"
	"github.com/julianstephens/voidtrack/internal/kv"
	"github.com/julianstephens/voidtrack/internal/models"
	"github.com/julianstephens/voidtrack/internal/storage"
)

// Step is a single numbered upgrade of the persisted habit set. Apply
// returns the upgraded habits and whether anything changed.
type Step struct {
	Version int
	Name    string
	Apply   func(habits []models.Habit) ([]models.Habit, bool)
}

// Runner applies pending steps to the habits blob and records the schema
// version after each one.
type Runner struct {
	store *storage.Storage
	steps []Step
}

// NewRunner creates a runner for the given steps. Steps must be sorted by
// version with no duplicates; use Steps() for the built-in list.
func NewRunner(store *storage.Storage, steps []Step) *Runner {
	return &Runner{
		store: store,
		steps: steps,
	}
}

// GetCurrentVersion returns the recorded schema version, 0 for a fresh store.
func (r *Runner) GetCurrentVersion() (int, error) {
	return r.store.SchemaVersion()
}

// GetLatestVersion returns the highest step version available.
func (r *Runner) GetLatestVersion() int {
	if len(r.steps) == 0 {
		return 0
	}
	return r.steps[len(r.steps)-1].Version
}

// ApplyMigrations applies all pending steps up to the latest version.
// Returns the number of steps applied.
func (r *Runner) ApplyMigrations(logFn func(string)) (int, error) {
	if logFn == nil {
		logFn = func(s string) {}
	}
	if err := validateSteps(r.steps); err != nil {
		return 0, err
	}

	currentVersion, err := r.GetCurrentVersion()
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	latestVersion := r.GetLatestVersion()

	if currentVersion > latestVersion {
		return 0, newerVersionError(currentVersion, latestVersion)
	}
	if currentVersion == latestVersion {
		logFn(fmt.Sprintf("Habit data is up to date (version %d)", currentVersion))
		return 0, nil
	}

	habits, err := r.store.Habits()
	if err != nil {
		var parseErr *apperrors.ParseError
		switch {
		case errors.Is(err, kv.ErrNotFound):
			// Nothing persisted yet: the seed written on first load is current.
			logFn(fmt.Sprintf("No habit data found, recording version %d", latestVersion))
			return 0, r.store.SetSchemaVersion(latestVersion)
		case errors.As(err, &parseErr):
			logFn("Habit data is corrupt, skipping upgrades")
			return 0, nil
		default:
			return 0, fmt.Errorf("failed to read habits: %w", err)
		}
	}

	var pending []Step
	for _, s := range r.steps {
		if s.Version > currentVersion {
			pending = append(pending, s)
		}
	}

	logFn(fmt.Sprintf("Current data version: %d", currentVersion))
	logFn(fmt.Sprintf("Target data version: %d", latestVersion))
	logFn(fmt.Sprintf("Applying %d upgrade(s)...", len(pending)))

	startTime := time.Now()
	appliedCount := 0

	for _, step := range pending {
		logFn(fmt.Sprintf("  Applying upgrade %d: %s", step.Version, step.Name))

		next, changed := step.Apply(cloneHabits(habits))
		if !changed {
			next = habits
		}

		if err := r.store.SaveHabitsAtVersion(next, step.Version); err != nil {
			return appliedCount, fmt.Errorf("failed to apply upgrade %d (%s): %w", step.Version, step.Name, err)
		}
		habits = next

		appliedCount++
		if changed {
			logFn(fmt.Sprintf("  ✓ Upgrade %d applied", step.Version))
		} else {
			logFn(fmt.Sprintf("  ✓ Upgrade %d had nothing to change", step.Version))
		}
	}

	logFn(fmt.Sprintf("Applied %d upgrade(s) in %v", appliedCount, time.Since(startTime)))
	return appliedCount, nil
}

// ValidateVersion checks that the recorded version is one this binary understands.
func (r *Runner) ValidateVersion() error {
	currentVersion, err := r.GetCurrentVersion()
	if err != nil {
		return err
	}
	if latest := r.GetLatestVersion(); currentVersion > latest {
		return newerVersionError(currentVersion, latest)
	}
	return nil
}

func newerVersionError(current, latest int) error {
	return fmt.Errorf("habit data version (%d) is newer than supported version (%d) - please upgrade the application", current, latest)
}

func validateSteps(steps []Step) error {
	for i, s := range steps {
		if s.Version < 1 {
			return fmt.Errorf("invalid upgrade version %d (%s): version must be at least 1", s.Version, s.Name)
		}
		if s.Apply == nil {
			return fmt.Errorf("upgrade %d (%s) has no Apply function", s.Version, s.Name)
		}
		if i > 0 && s.Version <= steps[i-1].Version {
			return fmt.Errorf("upgrade versions must be strictly increasing: %d follows %d", s.Version, steps[i-1].Version)
		}
	}
	return nil
}

func cloneHabits(habits []models.Habit) []models.Habit {
	out := make([]models.Habit, len(habits))
	for i, h := range habits {
		h.Items = append([]string(nil), h.Items...)
		if h.Goal != nil {
			g := *h.Goal
			h.Goal = &g
		}
		out[i] = h
	}
	return out
}
