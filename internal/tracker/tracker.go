package tracker

import (
	"io"
	"time"

	"github.com/julianstephens/voidtrack/internal/backup"
	"github.com/julianstephens/voidtrack/internal/constants"
	apperrors "github.com/julianstephens/voidtrack/internal/errors"
	"github.com/julianstephens/voidtrack/internal/habits"
	"github.com/julianstephens/voidtrack/internal/logger"
	"github.com/julianstephens/voidtrack/internal/logs"
	"github.com/julianstephens/voidtrack/internal/migration"
	"github.com/julianstephens/voidtrack/internal/models"
	"github.com/julianstephens/voidtrack/internal/rules"
	"github.com/julianstephens/voidtrack/internal/stats"
	"github.com/julianstephens/voidtrack/internal/storage"
	"github.com/julianstephens/voidtrack/internal/utils"
	"github.com/julianstephens/voidtrack/internal/validation"
)

// Options configures a Tracker. Zero values select the defaults.
type Options struct {
	Clock             utils.Clock
	IDs               habits.IDGenerator
	Location          *time.Location
	StreakHorizonDays int
	BackupDir         string
}

// Tracker is the single entry point used by the CLI. It wires the habit
// repository, log store, rules and stats over one Storage.
type Tracker struct {
	store      *storage.Storage
	habits     *habits.Repository
	logs       *logs.Store
	backups    *backup.Manager
	migrations *migration.Runner
	clock      utils.Clock
	loc        *time.Location
	horizon    int
}

// DayEntry pairs an active habit with its entry for one day. Stored is false
// when the entry is the implicit pending default.
type DayEntry struct {
	Habit  models.Habit
	Entry  models.LogEntry
	Stored bool
}

// New builds a Tracker over store.
func New(store *storage.Storage, opts Options) *Tracker {
	if opts.Clock == nil {
		opts.Clock = utils.RealClock{}
	}
	if opts.IDs == nil {
		opts.IDs = habits.UUIDGenerator{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.StreakHorizonDays <= 0 {
		opts.StreakHorizonDays = constants.DefaultStreakHorizonDays
	}

	repo := habits.NewRepository(store, opts.Clock, opts.IDs)
	logStore := logs.NewStore(store)
	return &Tracker{
		store:      store,
		habits:     repo,
		logs:       logStore,
		backups:    backup.NewManager(store, repo, logStore, opts.BackupDir, opts.Clock, opts.Location),
		migrations: migration.NewRunner(store, migration.Steps(opts.Clock.Now().UTC())),
		clock:      opts.Clock,
		loc:        opts.Location,
		horizon:    opts.StreakHorizonDays,
	}
}

// Close closes the underlying store.
func (t *Tracker) Close() error {
	return t.store.Close()
}

// Migrate applies pending habit data upgrades.
func (t *Tracker) Migrate(logFn func(string)) (int, error) {
	return t.migrations.ApplyMigrations(logFn)
}

// ValidateVersion rejects data written by a newer binary.
func (t *Tracker) ValidateVersion() error {
	return t.migrations.ValidateVersion()
}

// DataVersion returns the recorded and latest supported data versions.
func (t *Tracker) DataVersion() (current, latest int, err error) {
	current, err = t.migrations.GetCurrentVersion()
	return current, t.migrations.GetLatestVersion(), err
}

// Today returns today's dateKey in the configured time zone.
func (t *Tracker) Today() string {
	return utils.TodayKey(t.clock, t.loc)
}

// Habits returns every habit, archived ones included.
func (t *Tracker) Habits() ([]models.Habit, error) {
	return t.habits.List()
}

// ActiveHabits returns the habits that count toward stats.
func (t *Tracker) ActiveHabits() ([]models.Habit, error) {
	return t.habits.Active()
}

// Habit returns one habit by id.
func (t *Tracker) Habit(id string) (models.Habit, error) {
	return t.habits.Get(id)
}

// DayEntries returns an entry for every active habit on dateKey, filling in
// the implicit default where nothing is stored.
func (t *Tracker) DayEntries(dateKey string) ([]DayEntry, error) {
	day, err := t.logs.GetDay(dateKey)
	if err != nil {
		return nil, err
	}
	active, err := t.habits.Active()
	if err != nil {
		return nil, err
	}
	out := make([]DayEntry, 0, len(active))
	for _, h := range active {
		entry, ok := day[h.ID]
		if !ok {
			entry = models.PendingEntry()
		}
		out = append(out, DayEntry{Habit: h, Entry: entry, Stored: ok})
	}
	return out, nil
}

func (t *Tracker) CreateHabit(draft models.HabitDraft) (models.Habit, error) {
	return t.habits.Create(draft)
}

func (t *Tracker) UpdateHabit(id string, patch models.HabitPatch) (models.Habit, error) {
	return t.habits.Update(id, patch)
}

func (t *Tracker) DeleteHabit(id string) error {
	return t.habits.Delete(id)
}

func (t *Tracker) ArchiveHabit(id string) (models.Habit, error) {
	return t.habits.Archive(id)
}

func (t *Tracker) UnarchiveHabit(id string) (models.Habit, error) {
	return t.habits.Unarchive(id)
}

func (t *Tracker) RenameSection(oldKey, newName string) (string, error) {
	return t.habits.RenameSection(oldKey, newName)
}

// Apply runs action against the habit's entry on dateKey and persists the
// result. Future dates are rejected.
func (t *Tracker) Apply(habitID, dateKey string, action rules.Action) (models.LogEntry, error) {
	if err := t.checkNotFuture(dateKey); err != nil {
		return models.LogEntry{}, err
	}
	h, err := t.habits.Get(habitID)
	if err != nil {
		return models.LogEntry{}, err
	}
	current, err := t.logs.Entry(dateKey, habitID)
	if err != nil {
		return models.LogEntry{}, err
	}
	next, err := rules.Apply(h, current, action)
	if err != nil {
		return models.LogEntry{}, err
	}
	if err := t.logs.SetEntry(dateKey, habitID, next); err != nil {
		return models.LogEntry{}, err
	}
	return next, nil
}

// GridToggle flips completion of any habit on dateKey. On a future date it
// changes nothing and reports false.
func (t *Tracker) GridToggle(habitID, dateKey string) (models.LogEntry, bool, error) {
	if !utils.ValidateDateKey(dateKey) {
		return models.LogEntry{}, false, apperrors.Validationf("date", "%q is not a valid YYYY-MM-DD date", dateKey)
	}
	if _, err := t.habits.Get(habitID); err != nil {
		return models.LogEntry{}, false, err
	}
	current, err := t.logs.Entry(dateKey, habitID)
	if err != nil {
		return models.LogEntry{}, false, err
	}
	if dateKey > t.Today() {
		logger.Debug("Ignoring grid toggle on a future date", "habit", habitID, "date", dateKey)
		return current, false, nil
	}
	next := rules.GridToggle(current)
	if err := t.logs.SetEntry(dateKey, habitID, next); err != nil {
		return models.LogEntry{}, false, err
	}
	return next, true, nil
}

func (t *Tracker) checkNotFuture(dateKey string) error {
	if !utils.ValidateDateKey(dateKey) {
		return apperrors.Validationf("date", "%q is not a valid YYYY-MM-DD date", dateKey)
	}
	if dateKey > t.Today() {
		return apperrors.Validationf("date", "%s is in the future", dateKey)
	}
	return nil
}

// TodayCompletion is DayCompletion for today.
func (t *Tracker) TodayCompletion() (stats.Completion, error) {
	return t.DayCompletion(t.Today())
}

// DayCompletion is the granular completion of the active habits on dateKey.
func (t *Tracker) DayCompletion(dateKey string) (stats.Completion, error) {
	day, err := t.logs.GetDay(dateKey)
	if err != nil {
		return stats.Completion{}, err
	}
	active, err := t.habits.Active()
	if err != nil {
		return stats.Completion{}, err
	}
	return stats.CompletionForDay(active, day), nil
}

// SectionCompletion is DayCompletion split by section.
func (t *Tracker) SectionCompletion(dateKey string) ([]stats.SectionCompletion, error) {
	day, err := t.logs.GetDay(dateKey)
	if err != nil {
		return nil, err
	}
	active, err := t.habits.Active()
	if err != nil {
		return nil, err
	}
	return stats.CompletionBySection(active, day), nil
}

// Streaks returns the current streak of every active habit as of today.
func (t *Tracker) Streaks() (map[string]int, error) {
	book, err := t.logs.GetAll()
	if err != nil {
		return nil, err
	}
	active, err := t.habits.Active()
	if err != nil {
		return nil, err
	}
	return stats.Streaks(active, book, t.Today(), t.horizon)
}

// WeeklyGrid returns the grid for the week offset weeks from this one.
func (t *Tracker) WeeklyGrid(offset int) (stats.Grid, error) {
	book, err := t.logs.GetAll()
	if err != nil {
		return stats.Grid{}, err
	}
	active, err := t.habits.Active()
	if err != nil {
		return stats.Grid{}, err
	}
	return stats.WeeklyGrid(active, book, t.Today(), offset)
}

// Trend compares the week offset weeks from this one with the week before.
func (t *Tracker) Trend(offset int) (stats.TrendResult, error) {
	book, err := t.logs.GetAll()
	if err != nil {
		return stats.TrendResult{}, err
	}
	active, err := t.habits.Active()
	if err != nil {
		return stats.TrendResult{}, err
	}
	return stats.Trend(active, book, t.Today(), offset)
}

// Check reports integrity problems in the persisted data.
func (t *Tracker) Check() (validation.ValidationResult, error) {
	book, err := t.logs.GetAll()
	if err != nil {
		return validation.ValidationResult{}, err
	}
	all, err := t.habits.List()
	if err != nil {
		return validation.ValidationResult{}, err
	}
	return validation.New().Validate(all, book, t.Today()), nil
}

func (t *Tracker) Export(w io.Writer) error {
	return t.backups.Export(w)
}

func (t *Tracker) ExportToDir() (string, error) {
	return t.backups.ExportToDir()
}

func (t *Tracker) Import(r io.Reader) (models.Backup, error) {
	return t.backups.Import(r)
}

func (t *Tracker) ImportFile(path string) (models.Backup, error) {
	return t.backups.ImportFile(path)
}

func (t *Tracker) Backups() ([]backup.BackupInfo, error) {
	return t.backups.ListBackups()
}

func (t *Tracker) BackupDir() string {
	return t.backups.GetBackupDir()
}

func (t *Tracker) Wipe() error {
	return t.backups.Wipe()
}
