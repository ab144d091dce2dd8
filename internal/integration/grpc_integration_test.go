package integration

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	"github.com/oshokin/alarm-clock/internal/config"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/service/clock"
	"github.com/oshokin/alarm-clock/internal/service/common"
)

// reservePort returns a free loopback address.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// startDaemon runs the daemon with a temporary config and returns a stop function.
func startDaemon(t *testing.T, cfg *config.Config) (stop func()) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")

	cfg.Alerts = config.Alerts{NoBell: true, NoNotifications: true}
	require.NoError(t, config.Save(cfgPath, cfg))

	done := make(chan error, 1)

	go func() {
		done <- clock.Run(ctx, &clock.Options{
			ConfigPath:    cfgPath,
			AllowMultiple: true,
			TickInterval:  50 * time.Millisecond,
		})
	}()

	// Wait for the gRPC listener.
	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", cfg.ServerAddress, 50*time.Millisecond)
		if err != nil {
			return false
		}

		_ = conn.Close()

		return true
	}, 5*time.Second, 20*time.Millisecond)

	return func() {
		cancel()
		require.NoError(t, <-done)
	}
}

func dial(t *testing.T, addr string) *common.Client {
	t.Helper()

	c, err := common.Dial(context.Background(), addr, common.WithCallTimeout(3*time.Second))
	require.NoError(t, err)

	t.Cleanup(func() { _ = c.Close() })

	return c
}

// TestGRPC_Roundtrip starts the real daemon and exercises arm, state and stop with on-disk settings.
func TestGRPC_Roundtrip(t *testing.T) {
	t.Parallel()

	addr := reservePort(t)
	settingsPath := filepath.Join(t.TempDir(), "state.json")

	stop := startDaemon(t, &config.Config{
		ServerAddress: addr,
		Settings:      config.Settings{Backend: config.BackendFile, Path: settingsPath},
		Presets:       map[string]string{"workday": "07:00"},
	})
	defer stop()

	ctx := context.Background()
	c := dial(t, addr)

	actor := &api.SystemActor{
		Hostname: "test-hostname",
		Username: "test-user",
	}

	// Initially idle.
	got, err := c.GetState(ctx, actor)
	require.NoError(t, err)
	require.Equal(t, domain.StateIdle, got.GetState())

	// Arming without a time is rejected.
	_, err = c.Arm(ctx, &api.ArmRequest{Actor: actor})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	require.Contains(t, status.Convert(err).Message(), domain.MissingTimeMessage)

	// Arm from a preset.
	got, err = c.Arm(ctx, &api.ArmRequest{Actor: actor, Preset: "workday", Label: "Work"})
	require.NoError(t, err)
	require.Equal(t, domain.StateArmed, got.GetState())
	require.Equal(t, "07:00", got.Time)
	require.Equal(t, "Work", got.Label)
	require.NotNil(t, got.Target)
	require.True(t, got.Target.After(time.Now()))
	require.LessOrEqual(t, got.Remaining(), 24*time.Hour)
	require.Equal(t, "test-user", got.LastActor.Username)

	// Settings were written to disk.
	_, err = os.Stat(settingsPath)
	require.NoError(t, err)

	// Snooze while armed is ignored.
	got, err = c.Snooze(ctx, actor, 0)
	require.NoError(t, err)
	require.Equal(t, domain.StateArmed, got.GetState())

	// Cancel disarms.
	got, err = c.Stop(ctx, actor, true)
	require.NoError(t, err)
	require.Equal(t, domain.StateIdle, got.GetState())
	require.Equal(t, "07:00", got.SavedTime)
}

// TestGRPC_SavedSettingsSurviveRestart arms against SQLite, restarts and re-arms from the pre-fill.
func TestGRPC_SavedSettingsSurviveRestart(t *testing.T) {
	t.Parallel()

	addr := reservePort(t)
	settings := config.Settings{
		Backend: config.BackendSQLite,
		Path:    filepath.Join(t.TempDir(), "alarm.db"),
	}

	ctx := context.Background()
	actor := &api.SystemActor{Hostname: "h", Username: "u"}

	stop := startDaemon(t, &config.Config{ServerAddress: addr, Settings: settings})
	c := dial(t, addr)

	_, err := c.Arm(ctx, &api.ArmRequest{Actor: actor, Time: "05:45", Label: "Run"})
	require.NoError(t, err)
	require.NoError(t, c.Close())
	stop()

	stop = startDaemon(t, &config.Config{ServerAddress: addr, Settings: settings})
	defer stop()

	c = dial(t, addr)

	got, err := c.GetState(ctx, actor)
	require.NoError(t, err)
	require.Equal(t, domain.StateIdle, got.GetState())
	require.Equal(t, "05:45", got.SavedTime)

	got, err = c.Arm(ctx, &api.ArmRequest{Actor: actor})
	require.NoError(t, err)
	require.Equal(t, "05:45", got.Time)
	require.Equal(t, "Run", got.Label)
}
