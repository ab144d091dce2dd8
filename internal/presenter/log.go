package presenter

import (
	"context"
	"time"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// Log writes every scheduler event to the context logger.
type Log struct {
	// Now is used to show the wall clock next to countdown lines.
	Now func() time.Time
}

// NewLog creates a logging presenter on the host clock.
func NewLog() *Log {
	return &Log{Now: time.Now}
}

// Armed logs the new target.
func (l *Log) Armed(ctx context.Context, target time.Time, label string) {
	logger.InfoKV(ctx, "Alarm armed",
		"label", label,
		"target", target.Format(time.RFC3339),
		"in", FormatRemaining(target.Sub(l.Now())),
	)
}

// Ringing logs that the alarm fired.
func (l *Log) Ringing(ctx context.Context, label string) {
	logger.WarnKV(ctx, "Wake up!", "label", label, "at", FormatClock(l.Now()))
}

// AlertTick logs alert pulses at debug level.
func (l *Log) AlertTick(ctx context.Context, label string, pulse int) {
	logger.DebugKV(ctx, "Alarm still ringing", "label", label, "pulse", pulse)
}

// Idle logs that no alarm is pending.
func (l *Log) Idle(ctx context.Context) {
	logger.Info(ctx, "Alarm stopped, no active alarm")
}

// Countdown logs the clock face and remaining time at debug level.
func (l *Log) Countdown(ctx context.Context, countdown domain.Countdown) {
	if !countdown.Active {
		logger.DebugKV(ctx, "No active alarm", "clock", FormatClock(l.Now()))
		return
	}

	logger.DebugKV(ctx, "Countdown",
		"clock", FormatClock(l.Now()),
		"state", countdown.State.String(),
		"remaining", FormatRemaining(countdown.Remaining),
	)
}
