package presenter

import (
	"context"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// notificationTitle is the desktop notification title.
const notificationTitle = "Alarm clock"

// CommandRunner starts an external command.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Notifier raises desktop notifications through notify-send on Linux and
// osascript on macOS. Where neither exists it silently does nothing.
type Notifier struct {
	// run starts the notification command.
	run CommandRunner
	// command builds the command line for a message, nil when unsupported.
	command func(title, message string) (string, []string)
}

// NewNotifier detects the platform notification tool.
func NewNotifier() *Notifier {
	return newNotifier(runtime.GOOS, exec.LookPath, startCommand)
}

func newNotifier(goos string, lookPath func(string) (string, error), run CommandRunner) *Notifier {
	n := &Notifier{run: run}

	switch goos {
	case "linux", "freebsd", "openbsd":
		if path, err := lookPath("notify-send"); err == nil {
			n.command = func(title, message string) (string, []string) {
				return path, []string{"--urgency=critical", title, message}
			}
		}
	case "darwin":
		if path, err := lookPath("osascript"); err == nil {
			n.command = func(title, message string) (string, []string) {
				script := "display notification " + strconv.Quote(message) +
					" with title " + strconv.Quote(title) + " sound name \"Glass\""

				return path, []string{"-e", script}
			}
		}
	}

	return n
}

// Supported reports whether notifications can be shown on this host.
func (n *Notifier) Supported() bool {
	return n.command != nil
}

// Armed does nothing.
func (n *Notifier) Armed(context.Context, time.Time, string) {}

// Ringing shows a notification with the alarm label.
func (n *Notifier) Ringing(ctx context.Context, label string) {
	n.send(ctx, "Wake up! "+label)
}

// AlertTick does nothing; one notification per ring is enough.
func (n *Notifier) AlertTick(context.Context, string, int) {}

// Idle does nothing.
func (n *Notifier) Idle(context.Context) {}

// Countdown does nothing.
func (n *Notifier) Countdown(context.Context, domain.Countdown) {}

func (n *Notifier) send(ctx context.Context, message string) {
	if !n.Supported() {
		return
	}

	name, args := n.command(notificationTitle, message)
	if err := n.run(ctx, name, args...); err != nil {
		logger.WarnKV(ctx, "Desktop notification failed", "error", err)
	}
}

// startCommand starts the command without waiting for it; the notification
// tool takes over from there.
func startCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}

	go func() {
		_ = cmd.Wait()
	}()

	return nil
}
