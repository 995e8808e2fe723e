package logs

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/voidtrack/internal/cli"
	apperrors "github.com/julianstephens/voidtrack/internal/errors"
	"github.com/julianstephens/voidtrack/internal/models"
	"github.com/julianstephens/voidtrack/internal/testutil"
	"github.com/julianstephens/voidtrack/internal/testutil/clitest"
)

type runner interface {
	Run(ctx *cli.Context) error
}

func entryFor(t *testing.T, env *clitest.Env, id, date string) models.LogEntry {
	t.Helper()
	entries, err := env.Tracker.DayEntries(date)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Habit.ID == id {
			return e.Entry
		}
	}
	t.Fatalf("no entry for %s", id)
	return models.LogEntry{}
}

func TestLogCommands(t *testing.T) {
	env := clitest.New(t,
		testutil.CheckHabit("read"),
		testutil.CountHabit("water", 2),
		testutil.MultiCheckHabit("morning", "Stretch", "Journal"),
		testutil.TimeRangeHabit("sleep", 420),
	)
	today := env.Tracker.Today()

	cmds := []runner{
		&LogToggleCmd{ID: "read"},
		&LogIncCmd{ID: "water"},
		&LogIncCmd{ID: "water"},
		&LogDecCmd{ID: "water"},
		&LogItemCmd{ID: "morning", Item: "Journal"},
		&LogSleepCmd{ID: "sleep", Start: "23:00", End: "06:30"},
	}
	for _, c := range cmds {
		if err := c.Run(env.Ctx); err != nil {
			t.Fatalf("%T failed: %v", c, err)
		}
	}

	if e := entryFor(t, env, "read", today); !e.IsCompleted() {
		t.Errorf("read: %+v", e)
	}
	if e := entryFor(t, env, "water", today); e.Value != 1 || e.IsCompleted() {
		t.Errorf("water: %+v", e)
	}
	if e := entryFor(t, env, "morning", today); !e.IsChecked("Journal") || e.IsCompleted() {
		t.Errorf("morning: %+v", e)
	}
	if e := entryFor(t, env, "sleep", today); e.Value != 7.5 || !e.IsCompleted() {
		t.Errorf("sleep: %+v", e)
	}
	if !strings.Contains(env.Out.String(), "Journal") {
		t.Errorf("expected checklist output, got %s", env.Out.String())
	}
}

func TestLogCommandErrors(t *testing.T) {
	env := clitest.New(t, testutil.CheckHabit("read"), testutil.CountHabit("water", 2))

	tests := []struct {
		name string
		cmd  runner
	}{
		{"future date", &LogToggleCmd{ID: "read", Date: "2024-01-09"}},
		{"bad date", &LogToggleCmd{ID: "read", Date: "01/08/2024"}},
		{"wrong action", &LogIncCmd{ID: "read"}},
		{"toggle on count", &LogToggleCmd{ID: "water"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var vErr *apperrors.ValidationError
			if err := tt.cmd.Run(env.Ctx); !errors.As(err, &vErr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}

	var nf *apperrors.NotFoundError
	if err := (&LogToggleCmd{ID: "missing"}).Run(env.Ctx); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestLogGridCmd(t *testing.T) {
	env := clitest.New(t, testutil.CountHabit("water", 3))

	if err := (&LogGridCmd{ID: "water", Date: "2024-01-07"}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if e := entryFor(t, env, "water", "2024-01-07"); !e.IsCompleted() {
		t.Errorf("expected completed, got %+v", e)
	}

	env.Out.Reset()
	if err := (&LogGridCmd{ID: "water", Date: "2024-01-12"}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.Out.String(), "nothing changed") {
		t.Errorf("unexpected output: %s", env.Out.String())
	}
	if e := entryFor(t, env, "water", "2024-01-12"); e.Status != models.StatusPending {
		t.Errorf("future entry changed: %+v", e)
	}
}
