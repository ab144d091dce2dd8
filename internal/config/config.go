package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// Config holds the settings shared by the alarm-clock binaries.
type Config struct {
	// ServerAddress is the gRPC address of the daemon.
	ServerAddress string `yaml:"server_addr" validate:"required"`
	// HTTPAddress enables the HTTP control surface when set.
	HTTPAddress string `yaml:"http_addr,omitempty"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum level of log messages.
	LogLevel string `yaml:"log_level"`
	// Settings selects where the last alarm request is remembered.
	Settings Settings `yaml:"settings"`
	// Alarm holds the alarm defaults.
	Alarm Alarm `yaml:"alarm"`
	// Alerts switches alert channels off.
	Alerts Alerts `yaml:"alerts"`
	// Presets maps preset names to "HH:MM" times.
	Presets map[string]string `yaml:"presets,omitempty"`
}

// Settings configures the settings store.
type Settings struct {
	// Backend is "file" or "sqlite".
	Backend string `yaml:"backend" validate:"oneof=file sqlite"`
	// Path is the JSON file or the database file.
	Path string `yaml:"path"`
}

// Alarm holds the alarm defaults.
type Alarm struct {
	// Time arms the alarm at daemon start when set.
	Time string `yaml:"time,omitempty"`
	// RepeatDaily is used together with Time.
	RepeatDaily bool `yaml:"repeat_daily,omitempty"`
	// Label is used together with Time.
	Label string `yaml:"label,omitempty" validate:"max=64"`
	// SnoozeMinutes is used when a snooze request carries no duration.
	SnoozeMinutes int `yaml:"snooze_minutes" validate:"min=0,max=1440"`
	// AlertPeriod is the interval between alert pulses while ringing.
	AlertPeriod time.Duration `yaml:"alert_period"`
}

// Alerts switches alert channels off.
type Alerts struct {
	// NoBell disables the terminal bell.
	NoBell bool `yaml:"no_bell,omitempty"`
	// NoNotifications disables desktop notifications.
	NoNotifications bool `yaml:"no_notifications,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for the settings.
	DefaultConfigFilename = "alarm-clock-settings.yaml"

	// DefaultServerAddress is where the daemon listens by default.
	DefaultServerAddress = "127.0.0.1:50051"

	// DefaultSettingsFilename is the default file for the remembered request.
	DefaultSettingsFilename = "alarm-clock-state.json"

	// DefaultSettingsDatabase is the default SQLite database file.
	DefaultSettingsDatabase = "alarm-clock.db"

	// BackendFile keeps settings in a JSON file.
	BackendFile = "file"

	// BackendSQLite keeps settings in an SQLite database.
	BackendSQLite = "sqlite"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultSnoozeMinutes is the snooze length when none is given.
	DefaultSnoozeMinutes = 5

	// DefaultAlertPeriod is the interval between alert pulses.
	DefaultAlertPeriod = 1200 * time.Millisecond

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// envPrefix prefixes every environment override.
	envPrefix = "ALARM_CLOCK_"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")

	validate = validator.New(validator.WithRequiredStructEnabled())
)

// Default returns a configuration with every default filled in.
func Default() *Config {
	cfg := &Config{ServerAddress: DefaultServerAddress}

	// Defaults never fail validation.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path, applies the environment
// and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills in defaults and checks the settings.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	applyDefaults(settings)

	if err := validate.Struct(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server socket: %w", err)
	}

	if settings.HTTPAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", settings.HTTPAddress); err != nil {
			return fmt.Errorf("invalid HTTP socket: %w", err)
		}
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", logger.ErrUnknownLevel, settings.LogLevel)
	}

	if settings.Alarm.Time != "" {
		if _, err := domain.ParseTimeOfDay(settings.Alarm.Time); err != nil {
			return fmt.Errorf("invalid alarm time: %w", err)
		}
	}

	for name, value := range settings.Presets {
		if _, err := domain.ParseTimeOfDay(value); err != nil {
			return fmt.Errorf("invalid preset %q: %w", name, err)
		}
	}

	return nil
}

func applyDefaults(settings *Config) {
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if settings.Settings.Backend == "" {
		settings.Settings.Backend = BackendFile
	}

	if settings.Settings.Path == "" {
		settings.Settings.Path = DefaultSettingsFilename
		if settings.Settings.Backend == BackendSQLite {
			settings.Settings.Path = DefaultSettingsDatabase
		}
	}

	if settings.Alarm.SnoozeMinutes == 0 {
		settings.Alarm.SnoozeMinutes = DefaultSnoozeMinutes
	}

	if settings.Alarm.AlertPeriod <= 0 {
		settings.Alarm.AlertPeriod = DefaultAlertPeriod
	}
}

// loadDotEnv reads .env from the working directory when it exists.
// Variables already set in the environment win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}

// ApplyEnv overrides settings from ALARM_CLOCK_* variables found by lookup.
func ApplyEnv(settings *Config, lookup func(string) (string, bool)) error {
	textVars := map[string]*string{
		"SERVER_ADDR":      &settings.ServerAddress,
		"HTTP_ADDR":        &settings.HTTPAddress,
		"LOG_LEVEL":        &settings.LogLevel,
		"SETTINGS_BACKEND": &settings.Settings.Backend,
		"SETTINGS_PATH":    &settings.Settings.Path,
		"ALARM_TIME":       &settings.Alarm.Time,
		"ALARM_LABEL":      &settings.Alarm.Label,
	}

	for name, target := range textVars {
		if value, ok := lookup(envPrefix + name); ok {
			*target = value
		}
	}

	if value, ok := lookup(envPrefix + "TIMEOUT"); ok {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("parse %sTIMEOUT: %w", envPrefix, err)
		}

		settings.Timeout = timeout
	}

	if value, ok := lookup(envPrefix + "SNOOZE_MINUTES"); ok {
		minutes, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parse %sSNOOZE_MINUTES: %w", envPrefix, err)
		}

		settings.Alarm.SnoozeMinutes = minutes
	}

	return nil
}
