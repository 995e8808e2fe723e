package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/voidtrack/internal/cli"
	"github.com/julianstephens/voidtrack/internal/cli/backups"
	"github.com/julianstephens/voidtrack/internal/cli/habits"
	"github.com/julianstephens/voidtrack/internal/cli/logs"
	"github.com/julianstephens/voidtrack/internal/cli/report"
	"github.com/julianstephens/voidtrack/internal/cli/system"
	"github.com/julianstephens/voidtrack/internal/config"
	"github.com/julianstephens/voidtrack/internal/constants"
	apperrors "github.com/julianstephens/voidtrack/internal/errors"
	"github.com/julianstephens/voidtrack/internal/logger"
)

type CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"string" default:"${config_path}"`
	Store   string `help:"Storage override: a .json path, memory, keyring, a SQLite path, or a PostgreSQL URL without a password. Credentials belong in ${env_db} or the OS keyring." type:"string"`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Write a config file and initialize storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Apply pending habit data upgrades."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Wipe    system.WipeCmd    `cmd:"" help:"Delete all habits, logs and settings."`

	Habit habits.HabitCmd `cmd:"" help:"Manage habits."`
	Log   logs.LogCmd     `cmd:"" help:"Record progress on a habit."`

	Today   report.TodayCmd   `cmd:"" help:"Show a day's habits and completion." default:"1"`
	Streaks report.StreaksCmd `cmd:"" help:"Show current streaks."`
	Week    report.WeekCmd    `cmd:"" help:"Show the weekly grid."`
	Trend   report.TrendCmd   `cmd:"" help:"Compare a week's completion with the week before."`

	Export  backups.ExportCmd  `cmd:"" help:"Export a backup."`
	Import  backups.ImportCmd  `cmd:"" help:"Replace all data with a backup."`
	Backups backups.BackupsCmd `cmd:"" help:"List backup files."`
}

func newParser(c *CLI, opts ...kong.Option) (*kong.Kong, error) {
	base := []kong.Option{
		kong.Name(constants.AppName),
		kong.Description("Personal habit tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
			"env_db":      constants.EnvDBConnection,
		},
	}
	return kong.New(c, append(base, opts...)...)
}

// run loads configuration for the parsed command line and executes the
// selected command.
func run(kctx *kong.Context, c *CLI, out io.Writer, in io.Reader) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Store != "" {
		cfg.Storage = c.Store
	}
	if c.Debug {
		cfg.Debug = true
	}

	logFile, err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.Dir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	} else {
		defer logFile.Close()
	}
	logger.Debug("Starting", "command", kctx.Command(), "config", filepath.Clean(config.ExpandHome(c.Config)))

	appCtx := cli.NewContext(cfg, c.Config, cli.OpenTracker)
	appCtx.Out = out
	appCtx.In = in
	err = kctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	return err
}

func main() {
	var c CLI
	parser, err := newParser(&c)
	if err != nil {
		apperrors.Fatal(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	apperrors.Fatal(run(kctx, &c, os.Stdout, os.Stdin))
}
