package habits

import (
	"github.com/julianstephens/voidtrack/internal/cli"
	"github.com/julianstephens/voidtrack/internal/models"
	"github.com/julianstephens/voidtrack/internal/stats"
)

type HabitCmd struct {
	Add           HabitAddCmd           `cmd:"" help:"Add a new habit."`
	List          HabitListCmd          `cmd:"" help:"List habits."`
	Edit          HabitEditCmd          `cmd:"" help:"Edit an existing habit."`
	Delete        HabitDeleteCmd        `cmd:"" help:"Delete a habit (its logs are kept)."`
	Archive       HabitArchiveCmd       `cmd:"" help:"Archive a habit (hidden from stats)."`
	Unarchive     HabitUnarchiveCmd     `cmd:"" help:"Restore an archived habit."`
	RenameSection HabitRenameSectionCmd `cmd:"" name:"rename-section" help:"Rename a section across all its habits."`
}

type HabitAddCmd struct {
	Title      string   `arg:"" help:"Habit title."`
	Type       string   `help:"Habit type." enum:"check,count,multi_check,time_range" default:"check" short:"t"`
	Section    string   `help:"Section key (default: other)." short:"s"`
	Item       []string `help:"Checklist step (repeatable, multi_check only)." short:"i"`
	Target     float64  `help:"Daily target (count only)."`
	Unit       string   `help:"Unit of the target (count only)."`
	MinMinutes int      `help:"Minimum duration in minutes (time_range only, default 420)." name:"min-minutes"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	draft := models.HabitDraft{
		Title:   c.Title,
		Type:    models.HabitType(c.Type),
		Section: c.Section,
		Items:   c.Item,
	}
	switch draft.Type {
	case models.HabitCount:
		draft.Goal = &models.Goal{Target: c.Target, Unit: c.Unit}
	case models.HabitTimeRange:
		if c.MinMinutes != 0 {
			draft.Goal = &models.Goal{MinDurationMinutes: c.MinMinutes}
		}
	}

	habit, err := t.CreateHabit(draft)
	if err != nil {
		return err
	}

	ctx.Printf("Added habit: %s (%s)\n", habit.Title, habit.ID)
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	all, err := t.Habits()
	if err != nil {
		return err
	}

	var shown []models.Habit
	for _, h := range all {
		if h.Archived && !c.Archived {
			continue
		}
		shown = append(shown, h)
	}
	if len(shown) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	for _, section := range stats.SectionKeys(shown) {
		ctx.Println(cli.Section(section))
		for _, h := range shown {
			if h.SectionKey() != section {
				continue
			}
			status := ""
			if h.Archived {
				status = " [ARCHIVED]"
			}
			ctx.Printf("  %s%s  %s\n", h.Title, status, cli.Dim(h.ID+" · "+cli.DescribeHabit(h)))
		}
	}
	return nil
}

type HabitEditCmd struct {
	ID         string   `arg:"" help:"Habit id."`
	Title      *string  `help:"New title."`
	Section    *string  `help:"New section key."`
	Item       []string `help:"Replace checklist steps (repeatable)." short:"i"`
	ClearItems bool     `help:"Remove every checklist step." name:"clear-items"`
	Target     *float64 `help:"New daily target (count only)."`
	Unit       *string  `help:"New unit (count only)."`
	MinMinutes *int     `help:"New minimum duration in minutes (time_range only)." name:"min-minutes"`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	current, err := t.Habit(c.ID)
	if err != nil {
		return err
	}

	patch := models.HabitPatch{
		Title:   c.Title,
		Section: c.Section,
	}
	switch {
	case c.ClearItems:
		patch.Items = []string{}
	case len(c.Item) > 0:
		patch.Items = c.Item
	}

	if c.Target != nil || c.Unit != nil || c.MinMinutes != nil {
		goal := models.Goal{}
		if current.Goal != nil {
			goal = *current.Goal
		}
		if c.Target != nil {
			goal.Target = *c.Target
		}
		if c.Unit != nil {
			goal.Unit = *c.Unit
		}
		if c.MinMinutes != nil {
			goal.MinDurationMinutes = *c.MinMinutes
		}
		patch.Goal = &goal
	}

	habit, err := t.UpdateHabit(c.ID, patch)
	if err != nil {
		return err
	}

	ctx.Printf("Updated habit: %s\n", habit.Title)
	return nil
}

type HabitDeleteCmd struct {
	ID  string `arg:"" help:"Habit id."`
	Yes bool   `help:"Skip confirmation." short:"y"`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	habit, err := t.Habit(c.ID)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm("Delete habit \"" + habit.Title + "\"? Its logs are kept but no longer shown.")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	if err := t.DeleteHabit(c.ID); err != nil {
		return err
	}

	ctx.Printf("Deleted habit: %s\n", habit.Title)
	return nil
}

type HabitArchiveCmd struct {
	ID string `arg:"" help:"Habit id."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	habit, err := t.ArchiveHabit(c.ID)
	if err != nil {
		return err
	}

	ctx.Printf("Archived habit: %s\n", habit.Title)
	return nil
}

type HabitUnarchiveCmd struct {
	ID string `arg:"" help:"Habit id."`
}

func (c *HabitUnarchiveCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	habit, err := t.UnarchiveHabit(c.ID)
	if err != nil {
		return err
	}

	ctx.Printf("Unarchived habit: %s\n", habit.Title)
	return nil
}

type HabitRenameSectionCmd struct {
	From string `arg:"" help:"Current section key."`
	To   string `arg:"" help:"New section name."`
}

func (c *HabitRenameSectionCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	key, err := t.RenameSection(c.From, c.To)
	if err != nil {
		return err
	}

	ctx.Printf("Renamed section %s to %s\n", c.From, key)
	return nil
}
