package report

import (
	"sort"
	"strconv"

	"github.com/julianstephens/voidtrack/internal/cli"
	"github.com/julianstephens/voidtrack/internal/models"
)

type TodayCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)." short:"d"`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	day := cli.ResolveDate(t, c.Date)
	entries, err := t.DayEntries(day)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	sections, err := t.SectionCompletion(day)
	if err != nil {
		return err
	}
	total, err := t.DayCompletion(day)
	if err != nil {
		return err
	}
	streaks, err := t.Streaks()
	if err != nil {
		return err
	}

	ctx.Println(cli.Title("Habits for " + day))
	for _, section := range sections {
		ctx.Printf("\n%s  %s\n", cli.Section(section.Section), cli.Progress(section.Completion))
		for _, e := range entries {
			if e.Habit.SectionKey() != section.Section {
				continue
			}
			line := "  " + cli.DescribeEntry(e.Habit, e.Entry) + " " + e.Habit.Title
			if n := streaks[e.Habit.ID]; n > 0 && day == t.Today() {
				line += cli.Dim(" 🔥" + strconv.Itoa(n))
			}
			ctx.Println(line)
			if e.Habit.Type == models.HabitMultiCheck {
				for _, item := range cli.ChecklistLines(e.Habit, e.Entry) {
					ctx.Println("      " + item)
				}
			}
		}
	}

	ctx.Printf("\nCompletion: %s\n", cli.Progress(total))
	return nil
}

type StreaksCmd struct{}

func (c *StreaksCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	active, err := t.ActiveHabits()
	if err != nil {
		return err
	}
	streaks, err := t.Streaks()
	if err != nil {
		return err
	}
	if len(active) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	sort.SliceStable(active, func(i, j int) bool {
		return streaks[active[i].ID] > streaks[active[j].ID]
	})

	ctx.Println(cli.Title("Streaks as of " + t.Today()))
	for _, h := range active {
		ctx.Printf("  %4d day(s)  %s\n", streaks[h.ID], h.Title)
	}
	return nil
}

type WeekCmd struct {
	Offset int `help:"Weeks relative to this one (e.g. -1 for last week)." default:"0"`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	grid, err := t.WeeklyGrid(c.Offset)
	if err != nil {
		return err
	}
	if len(grid.Rows) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	trend, err := t.Trend(c.Offset)
	if err != nil {
		return err
	}

	ctx.Print(cli.RenderGrid(grid))
	ctx.Printf("Week completion: %d%%  %s vs previous week (%d%%)\n", trend.CurrentRate, cli.Delta(trend.Delta), trend.PreviousRate)
	return nil
}

type TrendCmd struct {
	Offset int `help:"Weeks relative to this one (e.g. -1 for last week)." default:"0"`
}

func (c *TrendCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	trend, err := t.Trend(c.Offset)
	if err != nil {
		return err
	}

	ctx.Printf("Week of %s: %d%%\n", trend.WeekStart, trend.CurrentRate)
	ctx.Printf("Previous week: %d%%\n", trend.PreviousRate)
	ctx.Printf("Change: %s\n", cli.Delta(trend.Delta))
	return nil
}
