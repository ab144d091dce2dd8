package ctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	"github.com/oshokin/alarm-clock/internal/config"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/presenter"
	"github.com/oshokin/alarm-clock/internal/service/common"
)

// Options holds the connection settings shared by every command.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Output receives human-readable results; stdout when nil.
	Output io.Writer
	// Verbose logs debug messages of alarm-ctl regardless of log_level.
	Verbose bool
}

// ArmOptions describes the alarm to arm.
type ArmOptions struct {
	// Time is the time of day, e.g. "07:30".
	Time string
	// Preset names a configured preset and wins over Time.
	Preset string
	// RepeatDaily re-arms the alarm for the next day when stopped.
	RepeatDaily bool
	// Label is shown when the alarm rings.
	Label string
}

// session is an open connection to the daemon.
type session struct {
	client *common.Client
	actor  *api.SystemActor
	out    io.Writer
}

// scope names the command logger and applies --verbose.
func scope(ctx context.Context, opts *Options) context.Context {
	ctx = logger.WithName(ctx, "alarm-ctl")
	if opts.Verbose {
		ctx = logger.WithScopedLevel(ctx, zapcore.DebugLevel)
	}

	return ctx
}

// open loads the configuration and dials the daemon.
func open(ctx context.Context, opts *Options) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		if opts.ServerAddress == "" || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load settings: %w", err)
		}

		// A server address on the command line is enough to talk to the daemon.
		cfg = config.Default()
	}

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	actor, err := common.DetectActor()
	if err != nil {
		return nil, err
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	logger.DebugKV(ctx, "Connected to alarm clock", "server_address", serverAddress, "actor", actor.Username)

	return &session{client: client, actor: actor, out: out}, nil
}

func (s *session) close() {
	_ = s.client.Close()
}

// Arm arms the alarm on the daemon.
func Arm(ctx context.Context, opts *Options, arm ArmOptions) error {
	ctx = scope(ctx, opts)

	s, err := open(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	resp, err := s.client.Arm(ctx, &api.ArmRequest{
		Actor:       s.actor,
		Time:        arm.Time,
		Preset:      arm.Preset,
		RepeatDaily: arm.RepeatDaily,
		Label:       arm.Label,
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(s.out, FormatState(resp))

	return err
}

// Snooze snoozes a ringing alarm for minutes, zero meaning the daemon default.
func Snooze(ctx context.Context, opts *Options, minutes int) error {
	ctx = scope(ctx, opts)

	s, err := open(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	resp, err := s.client.Snooze(ctx, s.actor, minutes)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(s.out, FormatState(resp))

	return err
}

// Stop stops the alarm; cancel also disarms a pending or daily alarm.
func Stop(ctx context.Context, opts *Options, cancel bool) error {
	ctx = scope(ctx, opts)

	s, err := open(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	resp, err := s.client.Stop(ctx, s.actor, cancel)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(s.out, FormatState(resp))

	return err
}

// Status prints the current alarm state.
func Status(ctx context.Context, opts *Options) error {
	ctx = scope(ctx, opts)

	s, err := open(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	resp, err := s.client.GetState(ctx, s.actor)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(s.out, FormatState(resp))

	return err
}

// InitConfig writes a configuration file with defaults. An existing file is
// kept unless force is set.
func InitConfig(path string, force bool) error {
	if path == "" {
		path = config.DefaultConfigFilename
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
	}

	cfg := config.Default()
	cfg.Presets = map[string]string{
		"workday": "07:00",
		"weekend": "09:30",
	}

	return config.Save(path, cfg)
}

// FormatState renders a daemon response for humans.
func FormatState(resp *api.AlarmStateResponse) string {
	var b strings.Builder

	switch resp.GetState() {
	case domain.StateArmed:
		fmt.Fprintf(&b, "Armed %q", labelOf(resp))

		if resp.Target != nil {
			fmt.Fprintf(&b, " for %s", presenter.FormatClock(resp.Target.Local()))
		}

		fmt.Fprintf(&b, ", rings in %s", presenter.FormatRemaining(resp.Remaining()))

		if resp.RepeatDaily {
			b.WriteString(", repeats daily")
		}
	case domain.StateRinging:
		fmt.Fprintf(&b, "Ringing %q: Wake up!", labelOf(resp))
	default:
		b.WriteString("No active alarm")

		if resp.SavedTime != "" {
			fmt.Fprintf(&b, " (last time %s)", resp.SavedTime)
		}
	}

	if resp.LastActor != nil {
		fmt.Fprintf(&b, " [last change by %s@%s]", resp.LastActor.Username, resp.LastActor.Hostname)
	}

	return b.String()
}

func labelOf(resp *api.AlarmStateResponse) string {
	if resp.Label == "" {
		return domain.DefaultLabel
	}

	return resp.Label
}
