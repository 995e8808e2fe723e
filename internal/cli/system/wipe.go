package system

import (
	"github.com/julianstephens/voidtrack/internal/cli"
)

type WipeCmd struct {
	Yes bool `help:"Skip confirmation." short:"y"`
}

func (c *WipeCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	if !c.Yes {
		ctx.Println("⚠️  WARNING: This permanently deletes every habit, log and setting.")
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Wipe cancelled.")
			return nil
		}
	}

	if err := t.Wipe(); err != nil {
		return err
	}
	ctx.Println("✓ All data wiped")
	return nil
}
