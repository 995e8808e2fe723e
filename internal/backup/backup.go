package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/voidtrack/internal/constants"
	apperrors "github.com/julianstephens/voidtrack/internal/errors"
	"github.com/julianstephens/voidtrack/internal/logger"
	"github.com/julianstephens/voidtrack/internal/models"
	"github.com/julianstephens/voidtrack/internal/storage"
	"github.com/julianstephens/voidtrack/internal/utils"
)

// HabitLister supplies the habits to export.
type HabitLister interface {
	List() ([]models.Habit, error)
}

// LogReader supplies the log book to export.
type LogReader interface {
	GetAll() (models.LogBook, error)
}

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path string
	Date string
	Seq  int
	Size int64
}

// Manager handles export, import and backup file rotation
type Manager struct {
	store     *storage.Storage
	habits    HabitLister
	logs      LogReader
	backupDir string
	clock     utils.Clock
	loc       *time.Location
}

// NewManager creates a new backup manager writing files into backupDir
func NewManager(store *storage.Storage, habits HabitLister, logs LogReader, backupDir string, clock utils.Clock, loc *time.Location) *Manager {
	if clock == nil {
		clock = utils.RealClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Manager{
		store:     store,
		habits:    habits,
		logs:      logs,
		backupDir: backupDir,
		clock:     clock,
		loc:       loc,
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// Snapshot assembles the current backup document.
func (m *Manager) Snapshot() (models.Backup, error) {
	habits, err := m.habits.List()
	if err != nil {
		return models.Backup{}, fmt.Errorf("failed to read habits: %w", err)
	}
	book, err := m.logs.GetAll()
	if err != nil {
		return models.Backup{}, fmt.Errorf("failed to read logs: %w", err)
	}
	settings, err := m.store.Settings()
	if err != nil {
		logger.Warn("Settings are unreadable, exporting empty settings", "error", err)
		settings = json.RawMessage(`{}`)
	}
	return models.Backup{
		Habits:     habits,
		Logs:       book,
		Settings:   settings,
		ExportDate: m.clock.Now().UTC(),
		Version:    constants.BackupFormatVersion,
	}, nil
}

// Export writes the backup document to w.
func (m *Manager) Export(w io.Writer) error {
	doc, err := m.Snapshot()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// ExportToDir writes a dated backup file into the backup directory, then
// removes the oldest files beyond the retention limit.
func (m *Manager) ExportToDir() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	date := utils.DateKey(m.clock.Now().In(m.loc))
	backupPath := filepath.Join(m.backupDir, fileName(date, 0))
	counter := 1
	for {
		if _, err := os.Stat(backupPath); os.IsNotExist(err) {
			break
		}
		backupPath = filepath.Join(m.backupDir, fileName(date, counter))
		counter++
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
	}

	var buf bytes.Buffer
	if err := m.Export(&buf); err != nil {
		return "", err
	}

	// Write to a temporary file and rename so a partial file is never listed
	tempPath := backupPath + ".tmp"
	if err := os.WriteFile(tempPath, buf.Bytes(), 0600); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}
	if err := os.Rename(tempPath, backupPath); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}

	if err := m.rotateBackups(); err != nil {
		// Log error but don't fail the backup operation
		logger.Warn("Failed to rotate old backups", "error", err)
	}

	logger.Info("Wrote backup", "path", backupPath)
	return backupPath, nil
}

func fileName(date string, seq int) string {
	if seq == 0 {
		return constants.BackupFilePrefix + date + constants.BackupFileSuffix
	}
	return fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, date, seq, constants.BackupFileSuffix)
}

// parseFileName extracts the date and sequence number from a backup file name.
func parseFileName(name string) (string, int, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return "", 0, false
	}
	stem := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
	if len(stem) < len(constants.DateFormat) {
		return "", 0, false
	}
	date, rest := stem[:len(constants.DateFormat)], stem[len(constants.DateFormat):]
	if !utils.ValidateDateKey(date) {
		return "", 0, false
	}
	if rest == "" {
		return date, 0, true
	}
	if !strings.HasPrefix(rest, "-") {
		return "", 0, false
	}
	seq, err := strconv.Atoi(rest[1:])
	if err != nil || seq < 1 {
		return "", 0, false
	}
	return date, seq, true
}

// ListBackups returns all backup files, newest first
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		date, seq, ok := parseFileName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path: filepath.Join(m.backupDir, entry.Name()),
			Date: date,
			Seq:  seq,
			Size: info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		if backups[i].Date != backups[j].Date {
			return backups[i].Date > backups[j].Date
		}
		return backups[i].Seq > backups[j].Seq
	})
	return backups, nil
}

// rotateBackups removes old backups beyond the retention limit
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Import replaces habits, logs and (when present) settings with the content
// of a backup document. Nothing is written unless the whole document is valid.
func (m *Manager) Import(r io.Reader) (models.Backup, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return models.Backup{}, &apperrors.ParseError{Source: "backup", Err: err}
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return models.Backup{}, &apperrors.ParseError{Source: "backup", Err: err}
	}

	var missing []string
	for _, key := range []string{constants.KeyHabits, constants.KeyLogs} {
		if isAbsent(top[key]) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return models.Backup{}, &apperrors.BackupFormatError{Missing: missing}
	}

	var doc models.Backup
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.Backup{}, &apperrors.ParseError{Source: "backup", Err: err}
	}
	for date := range doc.Logs {
		if !utils.ValidateDateKey(date) {
			return models.Backup{}, &apperrors.ParseError{Source: "backup", Err: fmt.Errorf("invalid log date %q", date)}
		}
	}

	var settings json.RawMessage
	if !isAbsent(top[constants.KeySettings]) {
		settings = top[constants.KeySettings]
	}

	if err := m.store.ReplaceAll(doc.Habits, doc.Logs, settings); err != nil {
		return models.Backup{}, fmt.Errorf("failed to import backup: %w", err)
	}
	logger.Info("Imported backup", "habits", len(doc.Habits), "days", len(doc.Logs), "version", doc.Version)
	return doc, nil
}

// ImportFile imports the backup document at path.
func (m *Manager) ImportFile(path string) (models.Backup, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Backup{}, fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()
	return m.Import(f)
}

// Wipe deletes every persisted key.
func (m *Manager) Wipe() error {
	if err := m.store.Wipe(); err != nil {
		return fmt.Errorf("failed to wipe data: %w", err)
	}
	logger.Info("Wiped all data")
	return nil
}

func isAbsent(v json.RawMessage) bool {
	return len(v) == 0 || string(bytes.TrimSpace(v)) == "null"
}
