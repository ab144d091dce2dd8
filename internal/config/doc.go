// Package config defines the settings shared by the alarm-clock binaries and
// provides helpers to load, validate and save them in YAML format.
//
// Values from a .env file and ALARM_CLOCK_* environment variables override
// the file.
package config
