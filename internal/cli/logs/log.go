package logs

import (
	"github.com/julianstephens/voidtrack/internal/cli"
	"github.com/julianstephens/voidtrack/internal/models"
	"github.com/julianstephens/voidtrack/internal/rules"
)

type LogCmd struct {
	Toggle LogToggleCmd `cmd:"" help:"Toggle a check habit."`
	Inc    LogIncCmd    `cmd:"" help:"Increment a count habit."`
	Dec    LogDecCmd    `cmd:"" help:"Decrement a count habit."`
	Item   LogItemCmd   `cmd:"" help:"Toggle one step of a checklist habit."`
	Sleep  LogSleepCmd  `cmd:"" help:"Record start/end times of a time-range habit."`
	Grid   LogGridCmd   `cmd:"" help:"Toggle completion of any habit on a day, as the weekly grid does."`
}

type LogToggleCmd struct {
	ID   string `arg:"" help:"Habit id."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." short:"d"`
}

func (c *LogToggleCmd) Run(ctx *cli.Context) error {
	return apply(ctx, c.ID, c.Date, rules.Action{Kind: rules.ActionToggle})
}

type LogIncCmd struct {
	ID   string `arg:"" help:"Habit id."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." short:"d"`
}

func (c *LogIncCmd) Run(ctx *cli.Context) error {
	return apply(ctx, c.ID, c.Date, rules.Action{Kind: rules.ActionIncrement})
}

type LogDecCmd struct {
	ID   string `arg:"" help:"Habit id."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." short:"d"`
}

func (c *LogDecCmd) Run(ctx *cli.Context) error {
	return apply(ctx, c.ID, c.Date, rules.Action{Kind: rules.ActionDecrement})
}

type LogItemCmd struct {
	ID   string `arg:"" help:"Habit id."`
	Item string `arg:"" help:"Checklist step, as listed on the habit."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." short:"d"`
}

func (c *LogItemCmd) Run(ctx *cli.Context) error {
	return apply(ctx, c.ID, c.Date, rules.Action{Kind: rules.ActionToggleItem, Item: c.Item})
}

type LogSleepCmd struct {
	ID    string `arg:"" help:"Habit id."`
	Start string `help:"Start time (HH:MM)."`
	End   string `help:"End time (HH:MM); earlier than start means the next day."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." short:"d"`
}

func (c *LogSleepCmd) Run(ctx *cli.Context) error {
	return apply(ctx, c.ID, c.Date, rules.Action{Kind: rules.ActionSetTime, Start: c.Start, End: c.End})
}

type LogGridCmd struct {
	ID   string `arg:"" help:"Habit id."`
	Date string `arg:"" help:"Date in YYYY-MM-DD format."`
}

func (c *LogGridCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	habit, err := t.Habit(c.ID)
	if err != nil {
		return err
	}

	entry, changed, err := t.GridToggle(c.ID, c.Date)
	if err != nil {
		return err
	}
	if !changed {
		ctx.Printf("%s is in the future; nothing changed.\n", c.Date)
		return nil
	}

	ctx.Printf("%s on %s: %s\n", habit.Title, c.Date, entry.Status)
	return nil
}

func apply(ctx *cli.Context, id, date string, action rules.Action) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	habit, err := t.Habit(id)
	if err != nil {
		return err
	}

	day := cli.ResolveDate(t, date)
	entry, err := t.Apply(id, day, action)
	if err != nil {
		return err
	}

	printEntry(ctx, habit, day, entry)
	return nil
}

func printEntry(ctx *cli.Context, habit models.Habit, day string, entry models.LogEntry) {
	ctx.Printf("%s on %s: %s\n", habit.Title, day, cli.DescribeEntry(habit, entry))
	if habit.Type == models.HabitMultiCheck {
		for _, line := range cli.ChecklistLines(habit, entry) {
			ctx.Printf("  %s\n", line)
		}
	}
}
