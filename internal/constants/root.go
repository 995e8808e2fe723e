package constants

const (
	AppName           = "voidtrack"
	DefaultConfigPath = "~/.config/voidtrack/config.toml"
	DefaultStorePath  = "~/.config/voidtrack/voidtrack.db"
	Version           = "v1.0.0"

	// DateFormat is the dateKey layout used for every log partition (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the clock layout used by time-range entries (HH:MM)
	TimeFormat = "15:04"

	// Persisted keys
	KeyHabits        = "habits"
	KeyLogs          = "logs"
	KeySettings      = "settings"
	KeySchemaVersion = "schema_version"

	// Backup constants
	BackupFormatVersion = "1.0"
	MaxBackups          = 14
	BackupDirName       = "backups"
	BackupFilePrefix    = "voidtrack_backup_"
	BackupFileSuffix    = ".json"

	// Keyring
	DefaultKeyringUser = "database-connection"
	EnvDBConnection    = "VOIDTRACK_DB_CONNECTION"

	// Sections
	SectionMorning = "morning"
	SectionDaytime = "daytime"
	SectionEvening = "evening"
	SectionNight   = "night"
	SectionOther   = "other"

	// Habit defaults
	DefaultMinSleepMinutes   = 420
	DefaultStreakHorizonDays = 3650
	DaysPerWeek              = 7
	DefaultTimezone          = "Local"
)

// SectionOrder is the display order of the built-in sections. Custom sections
// sort between the built-ins and "other".
var SectionOrder = []string{SectionMorning, SectionDaytime, SectionEvening, SectionNight}
