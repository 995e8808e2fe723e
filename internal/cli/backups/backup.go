package backups

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/voidtrack/internal/cli"
	"github.com/julianstephens/voidtrack/internal/constants"
	apperrors "github.com/julianstephens/voidtrack/internal/errors"
)

type ExportCmd struct {
	Output string `arg:"" optional:"" help:"Output file, or - for stdout (default: a dated file in the backup directory)."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	switch c.Output {
	case "":
		path, err := t.ExportToDir()
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		ctx.Printf("✓ Backup written: %s\n", path)
		return nil
	case "-":
		return t.Export(ctx.Out)
	}

	f, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := t.Export(f); err != nil {
		f.Close()
		return fmt.Errorf("export failed: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	ctx.Printf("✓ Backup written: %s\n", c.Output)
	return nil
}

type ImportCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to import."`
	Yes        bool   `help:"Skip confirmation." short:"y"`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	// Determine the full path to the backup file
	backupPath := c.BackupFile
	if _, err := os.Stat(backupPath); err != nil {
		if filepath.IsAbs(backupPath) {
			return fmt.Errorf("backup file not found: %s", backupPath)
		}
		possiblePath := filepath.Join(t.BackupDir(), c.BackupFile)
		if _, err := os.Stat(possiblePath); err != nil {
			return fmt.Errorf("backup file not found: tried current directory and %s", t.BackupDir())
		}
		backupPath = possiblePath
	}

	if !c.Yes {
		ctx.Println("⚠️  WARNING: This will replace all habits, logs and settings with the backup.")
		ctx.Printf("\nImport from: %s\n", backupPath)
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Import cancelled.")
			return nil
		}
	}

	doc, err := t.ImportFile(backupPath)
	if err != nil {
		var formatErr *apperrors.BackupFormatError
		if errors.As(err, &formatErr) {
			return fmt.Errorf("%w (nothing was changed)", err)
		}
		return err
	}

	ctx.Printf("✓ Imported %d habit(s) and %d day(s) of logs\n", len(doc.Habits), len(doc.Logs))
	return nil
}

type BackupsCmd struct{}

func (c *BackupsCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	backups, err := t.Backups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", t.BackupDir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		ctx.Printf("  %s  %s  (%.1f KB)\n", b.Date, filepath.Base(b.Path), sizeKB)
	}
	ctx.Printf("\nBackup directory: %s\n", t.BackupDir())
	return nil
}
