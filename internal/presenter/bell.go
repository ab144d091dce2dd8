package presenter

import (
	"context"
	"io"
	"sync"
	"time"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// bellCharacter makes a terminal beep.
const bellCharacter = "\a"

// Bell rings the terminal bell when the alarm fires and on every alert pulse.
type Bell struct {
	mu  sync.Mutex
	out io.Writer
}

// NewBell creates a bell that writes to out.
func NewBell(out io.Writer) *Bell {
	return &Bell{out: out}
}

// Armed does nothing.
func (b *Bell) Armed(context.Context, time.Time, string) {}

// Ringing beeps once.
func (b *Bell) Ringing(ctx context.Context, _ string) {
	b.beep(ctx)
}

// AlertTick beeps once per pulse.
func (b *Bell) AlertTick(ctx context.Context, _ string, _ int) {
	b.beep(ctx)
}

// Idle does nothing.
func (b *Bell) Idle(context.Context) {}

// Countdown does nothing.
func (b *Bell) Countdown(context.Context, domain.Countdown) {}

func (b *Bell) beep(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := io.WriteString(b.out, bellCharacter); err != nil {
		logger.DebugKV(ctx, "Bell is not available", "error", err)
	}
}
