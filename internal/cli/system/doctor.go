package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/voidtrack/internal/cli"
	"github.com/julianstephens/voidtrack/internal/tracker"
	"github.com/julianstephens/voidtrack/internal/utils"
	"github.com/julianstephens/voidtrack/internal/validation"
)

type DoctorCmd struct{}

// check is one diagnostic. Warnings are reported but do not fail the command.
type check struct {
	name     string
	needsDB  bool
	warnOnly bool
	run      func(t *tracker.Tracker) error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	t, err := ctx.Tracker()
	if err != nil {
		ctx.Printf("❌ Storage reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.Printf("✓ Storage reachable: OK\n")
	}

	checks := []check{
		{name: "Data version", needsDB: true, run: checkDataVersion},
		{name: "Backups present", needsDB: true, warnOnly: true, run: checkBackupsPresent},
		{name: "Data integrity", needsDB: true, run: checkIntegrity},
		{name: "Orphaned logs", needsDB: true, warnOnly: true, run: checkOrphans},
		{name: "Clock/timezone", run: func(*tracker.Tracker) error { return checkClockTimezone(ctx.Config.Timezone) }},
	}

	for _, c := range checks {
		if c.needsDB && t == nil {
			ctx.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(t)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		return errors.New("diagnostics found problems")
	}
	ctx.Println("All checks passed.")
	return nil
}

func checkDataVersion(t *tracker.Tracker) error {
	if err := t.ValidateVersion(); err != nil {
		return err
	}
	current, latest, err := t.DataVersion()
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("habit data is at version %d, latest is %d (run 'voidtrack migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(t *tracker.Tracker) error {
	backups, err := t.Backups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s (run 'voidtrack export')", t.BackupDir())
	}
	return nil
}

func checkIntegrity(t *tracker.Tracker) error {
	return checkConflicts(t, func(c validation.ConflictType) bool { return c != validation.ConflictOrphanedLogs })
}

// checkOrphans reports logs left behind by deleted habits.
func checkOrphans(t *tracker.Tracker) error {
	return checkConflicts(t, func(c validation.ConflictType) bool { return c == validation.ConflictOrphanedLogs })
}

func checkConflicts(t *tracker.Tracker, keep func(validation.ConflictType) bool) error {
	result, err := t.Check()
	if err != nil {
		return err
	}
	filtered := validation.ValidationResult{}
	for _, c := range result.Conflicts {
		if keep(c.Type) {
			filtered.Conflicts = append(filtered.Conflicts, c)
		}
	}
	if filtered.HasConflicts() {
		return errors.New(filtered.FormatReport())
	}
	return nil
}

func checkClockTimezone(timezone string) error {
	loc, err := utils.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	if time.Now().In(loc).Year() < 2000 {
		return errors.New("system clock appears to be wrong")
	}
	return nil
}
