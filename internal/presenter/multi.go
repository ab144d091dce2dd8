package presenter

import (
	"context"
	"time"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/scheduler"
)

// Multi forwards every event to each presenter in order.
type Multi []scheduler.Presenter

// Armed implements scheduler.Presenter.
func (m Multi) Armed(ctx context.Context, target time.Time, label string) {
	for _, p := range m {
		p.Armed(ctx, target, label)
	}
}

// Ringing implements scheduler.Presenter.
func (m Multi) Ringing(ctx context.Context, label string) {
	for _, p := range m {
		p.Ringing(ctx, label)
	}
}

// AlertTick implements scheduler.Presenter.
func (m Multi) AlertTick(ctx context.Context, label string, pulse int) {
	for _, p := range m {
		p.AlertTick(ctx, label, pulse)
	}
}

// Idle implements scheduler.Presenter.
func (m Multi) Idle(ctx context.Context) {
	for _, p := range m {
		p.Idle(ctx)
	}
}

// Countdown implements scheduler.Presenter.
func (m Multi) Countdown(ctx context.Context, countdown domain.Countdown) {
	for _, p := range m {
		p.Countdown(ctx, countdown)
	}
}
