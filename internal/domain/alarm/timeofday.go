package alarm

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock hour and minute.
type TimeOfDay struct {
	Hour   int `validate:"min=0,max=23"`
	Minute int `validate:"min=0,max=59"`
}

// NewTimeOfDay returns a validated time-of-day.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, Errorf(ErrInvalid, "hour %d is out of range 0-23", hour)
	}

	if minute < 0 || minute > 59 {
		return TimeOfDay{}, Errorf(ErrInvalid, "minute %d is out of range 0-59", minute)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// ParseTimeOfDay accepts "H:MM", "HH:MM" and "HH:MM:SS"; seconds are ignored.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimeOfDay{}, Errorf(ErrInvalid, "time of day is empty")
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, Errorf(ErrInvalid, "time of day %q must look like HH:MM", s)
	}

	hour, ok := parseDigits(parts[0])
	if !ok || len(parts[0]) > 2 {
		return TimeOfDay{}, Errorf(ErrInvalid, "bad hour in %q", s)
	}

	if len(parts[1]) != 2 {
		return TimeOfDay{}, Errorf(ErrInvalid, "bad minute in %q", s)
	}

	minute, ok := parseDigits(parts[1])
	if !ok {
		return TimeOfDay{}, Errorf(ErrInvalid, "bad minute in %q", s)
	}

	if len(parts) == 3 {
		if sec, ok := parseDigits(parts[2]); !ok || sec > 59 || len(parts[2]) != 2 {
			return TimeOfDay{}, Errorf(ErrInvalid, "bad second in %q", s)
		}
	}

	return NewTimeOfDay(hour, minute)
}

// parseDigits parses a non-empty run of ASCII digits. Signs are rejected.
func parseDigits(part string) (int, bool) {
	if part == "" {
		return 0, false
	}

	for _, r := range part {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	n, err := strconv.Atoi(part)

	return n, err == nil
}

// String renders the time-of-day as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}

// On returns the instant at this time-of-day on the calendar date of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	year, month, date := day.Date()

	return time.Date(year, month, date, t.Hour, t.Minute, 0, 0, day.Location())
}

// NextOccurrence returns the first instant at tod that is strictly after now.
// When today's instant has passed it moves one calendar day forward, so the
// wall-clock time is kept across DST changes.
func NextOccurrence(now time.Time, tod TimeOfDay) time.Time {
	target := tod.On(now)
	if target.After(now) {
		return target
	}

	year, month, date := now.Date()

	return time.Date(year, month, date+1, tod.Hour, tod.Minute, 0, 0, now.Location())
}
