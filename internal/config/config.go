package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/julianstephens/voidtrack/internal/constants"
	"github.com/julianstephens/voidtrack/internal/utils"
)

// Config represents the voidtrack configuration file.
type Config struct {
	// Storage selects the key-value backend: a .json path, "memory",
	// a postgres:// URL, "keyring", or (default) a SQLite file path.
	Storage           string `toml:"storage"`
	Timezone          string `toml:"timezone"`
	StreakHorizonDays int    `toml:"streak_horizon_days"`
	BackupDir         string `toml:"backup_dir,omitempty"`
	Debug             bool   `toml:"debug"`

	// Dir is the directory holding the config file; logs and backups default under it.
	Dir string `toml:"-"`
}

// Default returns the configuration used when no file exists.
func Default(dir string) *Config {
	return &Config{
		Storage:           filepath.Join(dir, constants.AppName+".db"),
		Timezone:          constants.DefaultTimezone,
		StreakHorizonDays: constants.DefaultStreakHorizonDays,
		Dir:               dir,
	}
}

// Read decodes a Config from the provided reader, filling unset fields with defaults.
func Read(r io.Reader, dir string) (*Config, error) {
	cfg := Default(dir)
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Dir = dir
	return cfg, nil
}

// Write encodes a Config to the provided writer.
func Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Load reads the config file at path. A missing file yields defaults.
func Load(path string) (*Config, error) {
	path = ExpandHome(path)
	dir := filepath.Dir(path)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(dir), nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := Read(f, dir)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed. It refuses to
// overwrite an existing file unless force is set.
func Save(path string, cfg *Config, force bool) error {
	path = ExpandHome(path)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks field values that cannot be fixed up silently.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage) == "" {
		return fmt.Errorf("config: storage must not be empty")
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("config: invalid timezone %q", c.Timezone)
	}
	if c.StreakHorizonDays <= 0 {
		return fmt.Errorf("config: streak_horizon_days must be positive, got %d", c.StreakHorizonDays)
	}
	return nil
}

// BackupPath returns the directory used for exported backups.
func (c *Config) BackupPath() string {
	if c.BackupDir != "" {
		return ExpandHome(c.BackupDir)
	}
	return filepath.Join(c.Dir, constants.BackupDirName)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
