// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Venue    VenueConfig    `toml:"venue"`
	Schedule ScheduleConfig `toml:"schedule"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
}

// VenueConfig describes the venue the schedule belongs to. Timezone is the
// reference zone: every calendar-day boundary is computed in it, never in
// the machine-local zone, so two operators in different countries see the
// same grid.
type VenueConfig struct {
	Name     string `toml:"name"`
	Timezone string `toml:"timezone"`  // IANA name, e.g. "Europe/Madrid"
	DayStart string `toml:"day_start"` // e.g., "08:00"
	DayEnd   string `toml:"day_end"`   // e.g., "20:00"
}

// ScheduleConfig holds grid layout settings.
type ScheduleConfig struct {
	SlotMinutes    int `toml:"slot_minutes"`      // row granularity of the grid
	MaxSlotsPerDay int `toml:"max_slots_per_day"` // hard cap before the grid truncates
	DragThreshold  int `toml:"drag_threshold"`    // cells of travel before a press becomes a drag
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "latte"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Venue: VenueConfig{
			Name:     "",
			Timezone: "UTC",
			DayStart: "08:00",
			DayEnd:   "20:00",
		},
		Schedule: ScheduleConfig{
			SlotMinutes:    15,
			MaxSlotsPerDay: 96,
			DragThreshold:  1,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "eventgrid.db"
	}
	return filepath.Join(home, ".local", "share", "eventgrid", "eventgrid.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "eventgrid", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Expand paths
	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	// Venue overrides
	if v := os.Getenv("EVENTGRID_VENUE"); v != "" {
		cfg.Venue.Name = v
	}
	if v := os.Getenv("EVENTGRID_TIMEZONE"); v != "" {
		cfg.Venue.Timezone = v
	}
	if v := os.Getenv("EVENTGRID_DAY_START"); v != "" {
		cfg.Venue.DayStart = v
	}
	if v := os.Getenv("EVENTGRID_DAY_END"); v != "" {
		cfg.Venue.DayEnd = v
	}

	// Schedule overrides
	if v := os.Getenv("EVENTGRID_SLOT_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.SlotMinutes = n
		}
	}
	if v := os.Getenv("EVENTGRID_MAX_SLOTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.MaxSlotsPerDay = n
		}
	}
	if v := os.Getenv("EVENTGRID_DRAG_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.DragThreshold = n
		}
	}

	// Storage overrides
	if v := os.Getenv("EVENTGRID_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	// UI overrides
	if v := os.Getenv("EVENTGRID_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Venue.Timezone == "" {
		return errors.New("timezone must be set")
	}
	if _, err := time.LoadLocation(c.Venue.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Venue.Timezone, err)
	}

	if err := validateTime(c.Venue.DayStart, "day_start"); err != nil {
		return err
	}
	if err := validateTime(c.Venue.DayEnd, "day_end"); err != nil {
		return err
	}
	if c.Venue.DayStart >= c.Venue.DayEnd {
		return errors.New("day_start must be before day_end")
	}

	if c.Schedule.SlotMinutes <= 0 || c.Schedule.SlotMinutes > 60 {
		return fmt.Errorf("slot_minutes must be between 1 and 60, got %d", c.Schedule.SlotMinutes)
	}
	if c.Schedule.MaxSlotsPerDay <= 0 {
		return fmt.Errorf("max_slots_per_day must be positive, got %d", c.Schedule.MaxSlotsPerDay)
	}
	if c.Schedule.DragThreshold < 0 {
		return fmt.Errorf("drag_threshold cannot be negative, got %d", c.Schedule.DragThreshold)
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// Location returns the venue's reference zone. Validate must have accepted
// the config first.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Venue.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Venue.Timezone, err)
	}
	return loc, nil
}

// DayStartMinutes returns the venue opening time as minutes after midnight.
func (c *Config) DayStartMinutes() int {
	return minutesOf(c.Venue.DayStart)
}

// DayEndMinutes returns the venue closing time as minutes after midnight.
func (c *Config) DayEndMinutes() int {
	return minutesOf(c.Venue.DayEnd)
}

// minutesOf parses a validated HH:MM string. Unvalidated input yields 0.
func minutesOf(t string) int {
	if len(t) != 5 || t[2] != ':' {
		return 0
	}
	hour, err := strconv.Atoi(t[0:2])
	if err != nil {
		return 0
	}
	min, err := strconv.Atoi(t[3:5])
	if err != nil {
		return 0
	}
	return hour*60 + min
}

// validateTime checks if a time string is in HH:MM format.
func validateTime(t, field string) error {
	if len(t) != 5 || t[2] != ':' {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	hour := t[0:2]
	min := t[3:5]
	if !isDigits(hour) || !isDigits(min) {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	return nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
