package system

import (
	"fmt"

	"github.com/julianstephens/voidtrack/internal/cli"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	count, err := t.Migrate(func(msg string) {
		ctx.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	current, latest, err := t.DataVersion()
	if err != nil {
		return err
	}
	if count == 0 {
		ctx.Printf("No upgrades to apply. Habit data is at version %d of %d.\n", current, latest)
	} else {
		ctx.Printf("\nSuccessfully applied %d upgrade(s).\n", count)
	}
	return nil
}
