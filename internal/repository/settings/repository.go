package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// Repository loads and saves the remembered alarm request.
type Repository interface {
	Load(ctx context.Context) (*domain.Request, error)
	Save(ctx context.Context, req *domain.Request) error
}

var (
	// ErrNotFound is returned when nothing was saved yet.
	ErrNotFound = errors.New("settings not found")
	// ErrMalformed is returned when the saved settings cannot be decoded.
	ErrMalformed = errors.New("settings are malformed")
)

// record is the stored JSON document.
type record struct {
	Time        string    `json:"time"         validate:"required"`
	RepeatDaily bool      `json:"repeat_daily"`
	Label       string    `json:"label"        validate:"max=64"`
	SavedAt     time.Time `json:"saved_at"`
}

var recordValidator = validator.New(validator.WithRequiredStructEnabled())

func encode(req *domain.Request, now time.Time) ([]byte, error) {
	if req == nil {
		return nil, errors.New("settings request is not set")
	}

	data, err := json.Marshal(record{
		Time:        req.TimeOfDay.String(),
		RepeatDaily: req.RepeatDaily,
		Label:       req.Label,
		SavedAt:     now.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}

	return data, nil
}

func decode(data []byte) (*domain.Request, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if err := recordValidator.Struct(rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	tod, err := domain.ParseTimeOfDay(rec.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return &domain.Request{
		TimeOfDay:   tod,
		RepeatDaily: rec.RepeatDaily,
		Label:       rec.Label,
	}, nil
}
