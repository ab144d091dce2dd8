package scheduler

import (
	"context"
	"time"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// Clock returns the current wall-clock time.
type Clock interface {
	Now() time.Time
}

// Handle identifies a trigger armed through a TriggerPort.
// The zero Handle never refers to a live trigger.
type Handle uint64

// NoHandle is the zero Handle.
const NoHandle Handle = 0

// TriggerPort arms delayed callbacks.
type TriggerPort interface {
	// Arm runs fn once after delay.
	Arm(delay time.Duration, fn func()) Handle
	// ArmRepeating runs fn every period until cancelled.
	ArmRepeating(period time.Duration, fn func()) Handle
	// Cancel stops the trigger. Unknown or fired handles are ignored.
	Cancel(h Handle)
}

// Presenter receives scheduler events. It owns display, sound and
// notification side effects and carries no scheduling logic.
type Presenter interface {
	Armed(ctx context.Context, target time.Time, label string)
	Ringing(ctx context.Context, label string)
	AlertTick(ctx context.Context, label string, pulse int)
	Idle(ctx context.Context)
	Countdown(ctx context.Context, countdown domain.Countdown)
}
