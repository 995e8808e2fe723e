// Package clitest runs CLI commands against an in-memory tracker.
package clitest

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/voidtrack/internal/cli"
	"github.com/julianstephens/voidtrack/internal/config"
	"github.com/julianstephens/voidtrack/internal/models"
	"github.com/julianstephens/voidtrack/internal/testutil"
	"github.com/julianstephens/voidtrack/internal/tracker"
)

// Env is a command context over an in-memory tracker with captured output.
type Env struct {
	Ctx     *cli.Context
	Out     *bytes.Buffer
	Tracker *tracker.Tracker
	Clock   *testutil.StubClock
}

// New builds an Env. With no habits the tracker seeds the defaults
// on first use.
func New(t *testing.T, habits ...models.Habit) *Env {
	t.Helper()
	s, _ := testutil.NewStorage(t)
	if habits != nil {
		testutil.SeedHabits(t, s, habits...)
	}

	dir := t.TempDir()
	cfg := config.Default(dir)
	cfg.Timezone = "UTC"
	clock := testutil.FixedClock()
	tr := tracker.New(s, tracker.Options{
		Clock:     clock,
		IDs:       testutil.NewStubIDGenerator(),
		Location:  time.UTC,
		BackupDir: filepath.Join(dir, "backups"),
	})

	ctx := cli.NewContext(cfg, filepath.Join(dir, "config.toml"), func(*config.Config) (*tracker.Tracker, error) {
		return tr, nil
	})
	out := &bytes.Buffer{}
	ctx.Out = out
	ctx.In = strings.NewReader("")
	return &Env{Ctx: ctx, Out: out, Tracker: tr, Clock: clock}
}

// Answer queues input for the next confirmation prompt.
func (e *Env) Answer(s string) {
	e.Ctx.In = strings.NewReader(s + "\n")
}
