package report

import (
	"strings"
	"testing"

	"github.com/julianstephens/voidtrack/internal/models"
	"github.com/julianstephens/voidtrack/internal/rules"
	"github.com/julianstephens/voidtrack/internal/testutil"
	"github.com/julianstephens/voidtrack/internal/testutil/clitest"
)

func TestTodayCmd(t *testing.T) {
	env := clitest.New(t, testutil.CheckHabit("read"), testutil.MultiCheckHabit("morning", "Stretch", "Journal"))
	if _, err := env.Tracker.Apply("read", "2024-01-08", rules.Action{Kind: rules.ActionToggle}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Tracker.Apply("morning", "2024-01-08", rules.Action{Kind: rules.ActionToggleItem, Item: "Stretch"}); err != nil {
		t.Fatal(err)
	}

	if err := (&TodayCmd{}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	out := env.Out.String()
	for _, want := range []string{"Habits for 2024-01-08", "read", "Stretch", "Journal", "2/3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTodayCmdNoHabits(t *testing.T) {
	env := clitest.New(t, []models.Habit{}...)
	if err := (&TodayCmd{}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.Out.String(), "No habits found.") {
		t.Errorf("unexpected output: %s", env.Out.String())
	}
}

func TestStreaksCmd(t *testing.T) {
	env := clitest.New(t, testutil.CheckHabit("a"), testutil.CheckHabit("b"))
	for _, d := range []string{"2024-01-07", "2024-01-08"} {
		if _, err := env.Tracker.Apply("b", d, rules.Action{Kind: rules.ActionToggle}); err != nil {
			t.Fatal(err)
		}
	}

	if err := (&StreaksCmd{}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	out := env.Out.String()
	if strings.Index(out, " b\n") > strings.Index(out, " a\n") {
		t.Errorf("longest streak should be listed first:\n%s", out)
	}
	if !strings.Contains(out, "2 day(s)  b") {
		t.Errorf("expected b's streak of 2:\n%s", out)
	}
}

func TestWeekAndTrendCmd(t *testing.T) {
	env := clitest.New(t, testutil.CheckHabit("a"))
	if _, err := env.Tracker.Apply("a", "2024-01-08", rules.Action{Kind: rules.ActionToggle}); err != nil {
		t.Fatal(err)
	}

	if err := (&WeekCmd{}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.Out.String(), "Week completion: 14%") {
		t.Errorf("unexpected week output:\n%s", env.Out.String())
	}

	env.Out.Reset()
	if err := (&TrendCmd{Offset: -1}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.Out.String(), "Week of 2024-01-01: 0%") {
		t.Errorf("unexpected trend output:\n%s", env.Out.String())
	}
}
