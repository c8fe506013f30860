// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ersonp/carelog/internal/domain/entities"
)

const (
	// DefaultConfigDir is the directory name for carelog configuration.
	DefaultConfigDir = ".carelog"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultChildrenFile is the default children registry file name.
	DefaultChildrenFile = "children.yaml"
	// DefaultDatabaseFile is the SQLite file used when sqlite.path is unset.
	DefaultDatabaseFile = "carelog.db"
	// DefaultWatchInterval is how often watch polls the store.
	DefaultWatchInterval = 2 * time.Second
	// LocalTimezone selects the machine's timezone.
	LocalTimezone = "Local"
)

var (
	// reNonAlphanumeric matches characters that aren't alphanumeric or underscore.
	reNonAlphanumeric = regexp.MustCompile(`[^a-z0-9_]`)
	// reMultipleUnderscores matches consecutive underscores.
	reMultipleUnderscores = regexp.MustCompile(`_+`)
)

// Config holds static configuration (read-only after init).
type Config struct {
	SQLite SQLiteConfig `yaml:"sqlite,omitempty"`
	Stats  StatsConfig  `yaml:"stats,omitempty"`
	User   UserConfig   `yaml:"user,omitempty"`
	Watch  WatchConfig  `yaml:"watch,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite document store.
type SQLiteConfig struct {
	// Path is the database file. Relative paths are resolved against the
	// directory holding .carelog.
	Path string `yaml:"path,omitempty"`
}

// StatsConfig holds reporting defaults.
type StatsConfig struct {
	Window   int    `yaml:"window,omitempty"`
	Timezone string `yaml:"timezone,omitempty"`
}

// UserConfig identifies the caregiver logging entries.
type UserConfig struct {
	ID string `yaml:"id,omitempty"`
}

// WatchConfig holds live dashboard settings.
type WatchConfig struct {
	Interval string `yaml:"interval,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Stats: StatsConfig{
			Window:   int(entities.Window7),
			Timezone: LocalTimezone,
		},
		Watch: WatchConfig{
			Interval: DefaultWatchInterval.String(),
		},
	}
}

// Load loads configuration from the .carelog directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'carelog init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	return cfg, nil
}

// applyEnvOverrides fills empty fields from the environment.
func (c *Config) applyEnvOverrides() {
	if user := os.Getenv("CARELOG_USER"); user != "" && c.User.ID == "" {
		c.User.ID = user
	}
	if tz := os.Getenv("CARELOG_TIMEZONE"); tz != "" && (c.Stats.Timezone == "" || c.Stats.Timezone == LocalTimezone) {
		c.Stats.Timezone = tz
	}
}

// StatsWindow returns the configured default window.
func (c *Config) StatsWindow() (entities.Window, error) {
	if c.Stats.Window == 0 {
		return entities.Window7, nil
	}
	return entities.ParseWindow(c.Stats.Window)
}

// Location returns the configured stats timezone.
func (c *Config) Location() (*time.Location, error) {
	return LoadLocation(c.Stats.Timezone)
}

// WatchInterval returns the configured poll interval.
func (c *Config) WatchInterval() (time.Duration, error) {
	if c.Watch.Interval == "" {
		return DefaultWatchInterval, nil
	}
	d, err := time.ParseDuration(c.Watch.Interval)
	if err != nil {
		return 0, fmt.Errorf("parsing watch.interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("watch.interval must be positive, got %s", d)
	}
	return d, nil
}

// SQLitePath returns the database file for the config in basePath.
func (c *Config) SQLitePath(basePath string) string {
	if c.SQLite.Path == "" {
		return filepath.Join(basePath, DefaultConfigDir, DefaultDatabaseFile)
	}
	if filepath.IsAbs(c.SQLite.Path) {
		return c.SQLite.Path
	}
	return filepath.Join(basePath, c.SQLite.Path)
}

// LoadLocation resolves an IANA timezone name. Empty and "Local" select the
// machine's timezone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, LocalTimezone) {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", name, err)
	}
	return loc, nil
}

// ConfigDir returns the path to the .carelog config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// ChildrenFilePath returns the path to the children registry.
func ChildrenFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultChildrenFile)
}

// Exists checks if a carelog config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}

// SanitizeChildName converts a child name to a registry key.
func SanitizeChildName(name string) string {
	// Convert to lowercase
	name = strings.ToLower(strings.TrimSpace(name))

	// Replace spaces and hyphens with underscores
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")

	// Remove any characters that aren't alphanumeric or underscore
	name = reNonAlphanumeric.ReplaceAllString(name, "")

	// Remove consecutive underscores
	name = reMultipleUnderscores.ReplaceAllString(name, "_")

	// Trim leading/trailing underscores
	name = strings.Trim(name, "_")

	if name == "" {
		return "default"
	}

	return name
}
