// Package logger holds the process-wide structured logger. Every helper is a
// no-op until Init or SetOutput has been called.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/voidtrack/internal/constants"
)

// Rotation limits for the log file.
const (
	maxFileMB   = 10
	maxBackups  = 3
	maxAgeDays  = 28
	logDirName  = "logs"
	logFileName = constants.AppName + ".log"
)

// Logger is the global logger. Nil until initialized.
var Logger *log.Logger

// Config selects where and how much is logged.
type Config struct {
	// Debug lowers the level to debug, reports callers and mirrors to stderr.
	Debug bool
	// ConfigDir is the directory of the config file; the log file lives in
	// its logs/ subdirectory.
	ConfigDir string
}

// LogPath returns the log file location for a config directory.
func LogPath(configDir string) string {
	return filepath.Join(configDir, logDirName, logFileName)
}

// Init points the global logger at a rotating file under cfg.ConfigDir. The
// returned closer releases the file.
func Init(cfg Config) (io.Closer, error) {
	path := LogPath(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxFileMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	var out io.Writer = file
	level := log.WarnLevel
	if cfg.Debug {
		out = io.MultiWriter(os.Stderr, file)
		level = log.DebugLevel
	}

	Logger = log.NewWithOptions(out, log.Options{
		Level:           level,
		Prefix:          constants.AppName,
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
	})
	return file, nil
}

// SetOutput points the global logger at w with the given level.
func SetOutput(w io.Writer, level log.Level) {
	Logger = log.NewWithOptions(w, log.Options{Level: level, Prefix: constants.AppName})
}

// Reset drops the global logger so later calls are no-ops again.
func Reset() {
	Logger = nil
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
