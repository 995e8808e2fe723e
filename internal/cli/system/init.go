package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/voidtrack/internal/cli"
	"github.com/julianstephens/voidtrack/internal/config"
)

type InitCmd struct {
	Force bool `help:"Overwrite an existing config file."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	path := config.ExpandHome(ctx.ConfigPath)
	if _, err := os.Stat(path); err == nil && !c.Force {
		ctx.Printf("Config already exists at: %s\n", path)
	} else {
		if err := config.Save(path, ctx.Config, c.Force); err != nil {
			return err
		}
		ctx.Printf("Wrote config to: %s\n", path)
	}

	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	habits, err := t.Habits()
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}

	ctx.Printf("Initialized voidtrack storage at: %s\n", ctx.Config.Storage)
	ctx.Printf("Tracking %d habit(s).\n", len(habits))
	return nil
}
