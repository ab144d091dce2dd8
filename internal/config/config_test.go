package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields, formats and defaults.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing socket.
	err := Validate(new(Config))
	require.Error(t, err)

	// Bad socket.
	err = Validate(&Config{ServerAddress: "bad:address"})
	require.Error(t, err)

	// Nil.
	require.ErrorIs(t, Validate(nil), errConfigIsNotSet)

	// Defaults.
	settings := &Config{ServerAddress: "127.0.0.1:0"}
	require.NoError(t, Validate(settings))
	require.Equal(t, DefaultTimeout, settings.Timeout)
	require.Equal(t, DefaultLogLevel, settings.LogLevel)
	require.Equal(t, BackendFile, settings.Settings.Backend)
	require.Equal(t, DefaultSettingsFilename, settings.Settings.Path)
	require.Equal(t, DefaultSnoozeMinutes, settings.Alarm.SnoozeMinutes)
	require.Equal(t, DefaultAlertPeriod, settings.Alarm.AlertPeriod)

	// SQLite gets its own default path.
	settings = &Config{ServerAddress: "127.0.0.1:0", Settings: Settings{Backend: BackendSQLite}}
	require.NoError(t, Validate(settings))
	require.Equal(t, DefaultSettingsDatabase, settings.Settings.Path)
}

// TestValidate_Rejects covers the remaining invalid inputs.
func TestValidate_Rejects(t *testing.T) {
	t.Parallel()

	cases := map[string]*Config{
		"backend":    {ServerAddress: "127.0.0.1:0", Settings: Settings{Backend: "redis"}},
		"http addr":  {ServerAddress: "127.0.0.1:0", HTTPAddress: "nope"},
		"log level":  {ServerAddress: "127.0.0.1:0", LogLevel: "loud"},
		"alarm time": {ServerAddress: "127.0.0.1:0", Alarm: Alarm{Time: "7am"}},
		"snooze":     {ServerAddress: "127.0.0.1:0", Alarm: Alarm{SnoozeMinutes: -1}},
		"preset":     {ServerAddress: "127.0.0.1:0", Presets: map[string]string{"nap": "99:00"}},
	}

	for name, settings := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.Error(t, Validate(settings))
		})
	}
}

// TestDefault returns a valid configuration.
func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.Equal(t, DefaultServerAddress, cfg.ServerAddress)
	require.NoError(t, Validate(cfg))
}

// TestApplyEnv overrides file values from the environment.
func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"ALARM_CLOCK_SERVER_ADDR":      "127.0.0.1:6000",
		"ALARM_CLOCK_HTTP_ADDR":        "127.0.0.1:6001",
		"ALARM_CLOCK_LOG_LEVEL":        "debug",
		"ALARM_CLOCK_SETTINGS_BACKEND": "sqlite",
		"ALARM_CLOCK_TIMEOUT":          "2s",
		"ALARM_CLOCK_SNOOZE_MINUTES":   "10",
	}
	lookup := func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}

	cfg := &Config{ServerAddress: DefaultServerAddress, LogLevel: "warn"}
	require.NoError(t, ApplyEnv(cfg, lookup))
	require.Equal(t, "127.0.0.1:6000", cfg.ServerAddress)
	require.Equal(t, "127.0.0.1:6001", cfg.HTTPAddress)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, BackendSQLite, cfg.Settings.Backend)
	require.Equal(t, 2*time.Second, cfg.Timeout)
	require.Equal(t, 10, cfg.Alarm.SnoozeMinutes)

	env["ALARM_CLOCK_TIMEOUT"] = "soon"
	require.Error(t, ApplyEnv(cfg, lookup))
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	settings := &Config{
		ServerAddress: "127.0.0.1:50051",
		HTTPAddress:   "127.0.0.1:8080",
		Alarm:         Alarm{Time: "06:45", RepeatDaily: true, Label: "Gym"},
		Presets:       map[string]string{"workday": "07:00"},
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings.ServerAddress, loaded.ServerAddress)
	require.Equal(t, settings.HTTPAddress, loaded.HTTPAddress)
	require.Equal(t, settings.Alarm, loaded.Alarm)
	require.Equal(t, settings.Presets, loaded.Presets)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.ErrorIs(t, Save(path, nil), errConfigIsNotSet)
}
