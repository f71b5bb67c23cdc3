package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// SourceConfig describes a single local event source: either a JSON payload
// of event records or an .ics export.
type SourceConfig struct {
	// Path is the file path of the source.
	Path string `yaml:"path" json:"path"`
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label.
	Name string `yaml:"name" json:"name"`
	// Color is applied to imported events that carry none of their own.
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA timezone zone-naive timestamps are interpreted
	// in (e.g. "Europe/Zurich"). "Local" or empty means the host zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// WeekStart controls which weekday opens a rendered week. Supported:
	//   - "sunday" (default)
	//   - "monday"
	WeekStart string `yaml:"week_start" json:"week_start"`

	// View is the default view when none is requested: day, week or month.
	View string `yaml:"view" json:"view"`

	// MonthPreview caps how many events a month cell lists before showing
	// an overflow count.
	MonthPreview int `yaml:"month_preview" json:"month_preview"`

	// MinDurationMinutes is the layout floor for zero-length events.
	MinDurationMinutes int `yaml:"min_duration_minutes" json:"min_duration_minutes"`

	// HorizonDays bounds how far ahead the upcoming listing scans.
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`

	// RefreshCron is a cron-style schedule (e.g. "*/15 * * * *") for
	// periodic re-rendering in watch mode. Empty disables watching.
	RefreshCron string `yaml:"refresh,omitempty" json:"refresh,omitempty"`

	// Sources is the list of local event sources.
	Sources []SourceConfig `yaml:"sources" json:"sources"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone:           "Local",
		WeekStart:          "sunday",
		View:               "month",
		MonthPreview:       3,
		MinDurationMinutes: 15,
		HorizonDays:        90,
		Sources:            []SourceConfig{},
	}
}

// Normalize fills missing/zero values with defaults so partially-filled
// configs still behave correctly.
func (c *Config) Normalize() {
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	switch c.WeekStart {
	case "sunday", "monday":
	default:
		c.WeekStart = "sunday"
	}
	switch c.View {
	case "day", "week", "month":
	default:
		c.View = "month"
	}
	if c.MonthPreview <= 0 {
		c.MonthPreview = 3
	}
	if c.MinDurationMinutes <= 0 {
		c.MinDurationMinutes = 15
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = 90
	}
	if c.Sources == nil {
		c.Sources = []SourceConfig{}
	}
}

// Location resolves the configured timezone, falling back to the host zone
// on unknown names.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// WeekStartDay maps the configured week start onto time.Weekday.
func (c *Config) WeekStartDay() time.Weekday {
	if c.WeekStart == "monday" {
		return time.Monday
	}
	return time.Sunday
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there (parent
// directory created as needed, 0600 perms) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename, 0600).
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".glancecal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
