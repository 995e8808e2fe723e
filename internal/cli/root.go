package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/voidtrack/internal/config"
	"github.com/julianstephens/voidtrack/internal/kv"
	"github.com/julianstephens/voidtrack/internal/logger"
	"github.com/julianstephens/voidtrack/internal/storage"
	"github.com/julianstephens/voidtrack/internal/tracker"
	"github.com/julianstephens/voidtrack/internal/utils"
)

// Opener builds a Tracker from configuration.
type Opener func(cfg *config.Config) (*tracker.Tracker, error)

type Context struct {
	Config     *config.Config
	ConfigPath string
	Out        io.Writer
	In         io.Reader

	open    Opener
	tracker *tracker.Tracker
}

// NewContext creates a command context. The tracker is opened on first use
// so commands that never touch data (keyring, init) work without a store.
func NewContext(cfg *config.Config, configPath string, open Opener) *Context {
	if open == nil {
		open = OpenTracker
	}
	return &Context{
		Config:     cfg,
		ConfigPath: configPath,
		Out:        os.Stdout,
		In:         os.Stdin,
		open:       open,
	}
}

// Tracker returns the opened tracker, opening it on the first call.
func (c *Context) Tracker() (*tracker.Tracker, error) {
	if c.tracker != nil {
		return c.tracker, nil
	}
	t, err := c.open(c.Config)
	if err != nil {
		return nil, err
	}
	c.tracker = t
	return t, nil
}

// Close closes the tracker if it was opened.
func (c *Context) Close() error {
	if c.tracker == nil {
		return nil
	}
	err := c.tracker.Close()
	c.tracker = nil
	return err
}

// Printf writes formatted output for the user.
func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

// Print writes output for the user as-is.
func (c *Context) Print(args ...interface{}) {
	fmt.Fprint(c.Out, args...)
}

// Println writes a line of output for the user.
func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// Confirm asks a yes/no question on In and reports whether the answer was yes.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(c.In)
	response, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// OpenTracker opens the configured store, rejects data from a newer binary,
// and applies pending habit data upgrades.
func OpenTracker(cfg *config.Config) (*tracker.Tracker, error) {
	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	store, err := kv.Open(config.ExpandHome(cfg.Storage))
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	t := tracker.New(storage.New(store), tracker.Options{
		Location:          loc,
		StreakHorizonDays: cfg.StreakHorizonDays,
		BackupDir:         cfg.BackupPath(),
	})

	if err := t.ValidateVersion(); err != nil {
		_ = t.Close()
		return nil, err
	}
	if _, err := t.Migrate(func(msg string) { logger.Debug(msg) }); err != nil {
		_ = t.Close()
		return nil, fmt.Errorf("failed to upgrade habit data: %w", err)
	}
	return t, nil
}

// ResolveDate returns date, or today when date is empty.
func ResolveDate(t *tracker.Tracker, date string) string {
	if strings.TrimSpace(date) == "" {
		return t.Today()
	}
	return strings.TrimSpace(date)
}
