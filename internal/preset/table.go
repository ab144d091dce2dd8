package preset

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// errEmptyName is returned for a blank preset name.
var errEmptyName = errors.New("preset name must not be empty")

// Source resolves a preset name to a time of day.
type Source interface {
	Resolve(name string) (domain.TimeOfDay, error)
}

// Table is a fixed set of presets. Names are case-insensitive.
type Table struct {
	entries map[string]domain.TimeOfDay
}

// NewTable parses a name -> "HH:MM" map.
func NewTable(raw map[string]string) (*Table, error) {
	entries := make(map[string]domain.TimeOfDay, len(raw))

	for name, value := range raw {
		key := normalize(name)
		if key == "" {
			return nil, errEmptyName
		}

		if _, dup := entries[key]; dup {
			return nil, fmt.Errorf("preset %q is defined twice", name)
		}

		tod, err := domain.ParseTimeOfDay(value)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}

		entries[key] = tod
	}

	return &Table{entries: entries}, nil
}

// Resolve returns the time of the named preset.
func (t *Table) Resolve(name string) (domain.TimeOfDay, error) {
	if t != nil {
		if tod, ok := t.entries[normalize(name)]; ok {
			return tod, nil
		}
	}

	names := t.Names()
	if len(names) == 0 {
		return domain.TimeOfDay{}, domain.Errorf(domain.ErrInvalid, "unknown preset %q, none are configured", name)
	}

	return domain.TimeOfDay{}, domain.Errorf(domain.ErrInvalid,
		"unknown preset %q, known presets: %s", name, strings.Join(names, ", "))
}

// Names lists preset names in sorted order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}

	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
