package ctl

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/presenter"
)

// DefaultWatchInterval is how often watch polls the daemon.
const DefaultWatchInterval = time.Second

// Watch shows a countdown bar until the alarm rings, goes idle or ctx ends.
func Watch(ctx context.Context, opts *Options, interval time.Duration) error {
	ctx = scope(ctx, opts)

	s, err := open(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	fetch := func(ctx context.Context) (*api.AlarmStateResponse, error) {
		return s.client.GetState(ctx, s.actor)
	}

	return watch(ctx, fetch, s.out, interval)
}

// fetchFunc reads the current alarm state.
type fetchFunc func(ctx context.Context) (*api.AlarmStateResponse, error)

// countdownBar is the bar of one armed target.
type countdownBar struct {
	bar       *mpb.Bar
	target    time.Time
	total     int64
	remaining atomic.Int64
}

func watch(ctx context.Context, fetch fetchFunc, out io.Writer, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	progress := mpb.NewWithContext(ctx,
		mpb.WithOutput(out),
		mpb.WithWidth(48),
		mpb.WithRefreshRate(max(interval/2, 50*time.Millisecond)),
	)

	var (
		current *countdownBar
		message string
		result  error
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

loop:
	for {
		resp, err := fetch(ctx)
		if err != nil {
			result = err
			break
		}

		switch resp.GetState() {
		case domain.StateArmed:
			target := time.Now().Add(resp.Remaining())
			if resp.Target != nil {
				target = *resp.Target
			}

			if current == nil || !current.target.Equal(target) {
				if current != nil {
					current.bar.Abort(true)
				}

				logger.DebugKV(ctx, "Following alarm", "target", target.Format(time.RFC3339))

				current = newCountdownBar(progress, labelOf(resp), target, resp.RemainingSeconds)
			}

			current.update(resp.RemainingSeconds)
		case domain.StateRinging:
			if current != nil {
				current.update(0)
				current.bar.SetTotal(-1, true)
			}

			message = fmt.Sprintf("Wake up! %s", labelOf(resp))

			break loop
		default:
			message = "No active alarm"

			break loop
		}

		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
		}
	}

	if current != nil && !current.bar.Completed() {
		current.bar.Abort(false)
	}

	progress.Wait()

	if message != "" {
		if _, err := fmt.Fprintln(out, message); err != nil && result == nil {
			result = err
		}
	}

	return result
}

func newCountdownBar(progress *mpb.Progress, label string, target time.Time, remaining int64) *countdownBar {
	barStyle := mpb.BarStyle().Lbound("╢").Filler("█").Tip("█").Padding("░").Rbound("╟")
	total := max(remaining, 1)

	cb := &countdownBar{target: target, total: total}
	cb.remaining.Store(remaining)

	name := label + " at " + presenter.FormatClock(target.Local())

	cb.bar = progress.New(total,
		barStyle,
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.OnComplete(
				decor.Any(func(decor.Statistics) string {
					return presenter.FormatRemaining(time.Duration(cb.remaining.Load()) * time.Second)
				}, decor.WC{W: 8}),
				"Ringing",
			),
		),
	)

	return cb
}

// update moves the bar to the remaining seconds.
func (cb *countdownBar) update(remaining int64) {
	remaining = min(max(remaining, 0), cb.total)
	cb.remaining.Store(remaining)
	cb.bar.SetCurrent(cb.total - remaining)
}
