package presenter

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/scheduler"
)

var (
	_ scheduler.Presenter = (*Log)(nil)
	_ scheduler.Presenter = (*Bell)(nil)
	_ scheduler.Presenter = (*Notifier)(nil)
	_ scheduler.Presenter = Multi(nil)
)

var errNotFound = errors.New("not found")

// TestFormatClock checks the 12-hour clock face.
func TestFormatClock(t *testing.T) {
	t.Parallel()

	cases := map[string]time.Time{
		"12:00:00 AM": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"7:05:09 AM":  time.Date(2024, 1, 1, 7, 5, 9, 0, time.UTC),
		"12:30:00 PM": time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC),
		"11:59:59 PM": time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC),
	}
	for want, in := range cases {
		require.Equal(t, want, FormatClock(in))
	}
}

// TestFormatRemaining rounds up and clamps negatives.
func TestFormatRemaining(t *testing.T) {
	t.Parallel()

	require.Equal(t, "00:00:00", FormatRemaining(-time.Second))
	require.Equal(t, "00:00:00", FormatRemaining(0))
	require.Equal(t, "00:00:01", FormatRemaining(time.Millisecond))
	require.Equal(t, "01:02:03", FormatRemaining(time.Hour+2*time.Minute+3*time.Second))
	require.Equal(t, "23:30:00", FormatRemaining(23*time.Hour+30*time.Minute))
}

// TestBell beeps on ringing and every pulse only.
func TestBell(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ctx := context.Background()
	b := NewBell(&buf)

	b.Armed(ctx, time.Now(), "x")
	b.Idle(ctx)
	b.Countdown(ctx, domain.Countdown{})
	require.Zero(t, buf.Len())

	b.Ringing(ctx, "x")
	b.AlertTick(ctx, "x", 1)
	b.AlertTick(ctx, "x", 2)
	require.Equal(t, strings.Repeat("\a", 3), buf.String())
}

// TestNotifier_Linux builds a notify-send command when the tool exists.
func TestNotifier_Linux(t *testing.T) {
	t.Parallel()

	var (
		gotName string
		gotArgs []string
	)

	run := func(_ context.Context, name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}
	lookPath := func(file string) (string, error) { return "/usr/bin/" + file, nil }

	n := newNotifier("linux", lookPath, run)
	require.True(t, n.Supported())

	n.Ringing(context.Background(), "Fajr")
	require.Equal(t, "/usr/bin/notify-send", gotName)
	require.Equal(t, []string{"--urgency=critical", notificationTitle, "Wake up! Fajr"}, gotArgs)
}

// TestNotifier_Darwin quotes the AppleScript arguments.
func TestNotifier_Darwin(t *testing.T) {
	t.Parallel()

	var gotArgs []string

	run := func(_ context.Context, _ string, args ...string) error {
		gotArgs = args
		return nil
	}
	lookPath := func(file string) (string, error) { return "/usr/bin/" + file, nil }

	n := newNotifier("darwin", lookPath, run)
	n.Ringing(context.Background(), `say "hi"`)

	require.Len(t, gotArgs, 2)
	require.Contains(t, gotArgs[1], `"Wake up! say \"hi\""`)
}

// TestNotifier_Unsupported degrades to a no-op.
func TestNotifier_Unsupported(t *testing.T) {
	t.Parallel()

	called := false
	run := func(context.Context, string, ...string) error {
		called = true
		return nil
	}
	missing := func(string) (string, error) { return "", errNotFound }

	for _, goos := range []string{"linux", "darwin", "windows", "plan9"} {
		n := newNotifier(goos, missing, run)
		require.False(t, n.Supported(), goos)
		n.Ringing(context.Background(), "x")
	}

	require.False(t, called)
}

// countingPresenter counts calls per event.
type countingPresenter struct {
	calls map[string]int
}

func (c *countingPresenter) Armed(context.Context, time.Time, string) { c.calls["armed"]++ }
func (c *countingPresenter) Ringing(context.Context, string)          { c.calls["ringing"]++ }
func (c *countingPresenter) AlertTick(context.Context, string, int)   { c.calls["tick"]++ }
func (c *countingPresenter) Idle(context.Context)                     { c.calls["idle"]++ }
func (c *countingPresenter) Countdown(context.Context, domain.Countdown) {
	c.calls["countdown"]++
}

// TestMulti fans every event out to all presenters.
func TestMulti(t *testing.T) {
	t.Parallel()

	a := &countingPresenter{calls: map[string]int{}}
	b := &countingPresenter{calls: map[string]int{}}
	m := Multi{a, b, NewLog()}
	ctx := context.Background()

	m.Armed(ctx, time.Now().Add(time.Hour), "x")
	m.Ringing(ctx, "x")
	m.AlertTick(ctx, "x", 1)
	m.Idle(ctx)
	m.Countdown(ctx, domain.Countdown{Active: true, State: domain.StateArmed, Remaining: time.Minute})
	m.Countdown(ctx, domain.Countdown{})

	want := map[string]int{"armed": 1, "ringing": 1, "tick": 1, "idle": 1, "countdown": 2}
	require.Equal(t, want, a.calls)
	require.Equal(t, want, b.calls)
}
