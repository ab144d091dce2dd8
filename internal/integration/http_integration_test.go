package integration

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	"github.com/oshokin/alarm-clock/internal/config"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

func call(t *testing.T, method, url, body string) (int, *api.AlarmStateResponse) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var state api.AlarmStateResponse
	if resp.StatusCode == http.StatusOK && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(data, &state))
	}

	return resp.StatusCode, &state
}

// TestHTTP_ControlSurface drives the daemon through its HTTP API.
func TestHTTP_ControlSurface(t *testing.T) {
	t.Parallel()

	addr := reservePort(t)
	httpAddr := reservePort(t)

	stop := startDaemon(t, &config.Config{
		ServerAddress: addr,
		HTTPAddress:   httpAddr,
		Settings:      config.Settings{Path: filepath.Join(t.TempDir(), "state.json")},
	})
	defer stop()

	base := "http://" + httpAddr

	// The HTTP listener starts right after gRPC.
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/healthz") //nolint:noctx // Readiness probe.
		if err != nil {
			return false
		}

		_ = resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	code, _ := call(t, http.MethodPost, base+"/v1/alarm/arm", `{}`)
	require.Equal(t, http.StatusBadRequest, code)

	code, state := call(t, http.MethodPost, base+"/v1/alarm/arm", `{"time":"23:59","repeat_daily":true}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, domain.StateArmed, state.GetState())
	require.True(t, state.RepeatDaily)
	require.Equal(t, "http", state.LastActor.Username)

	code, state = call(t, http.MethodGet, base+"/v1/alarm", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "23:59", state.Time)

	// Stop outside ringing goes idle even for a daily alarm.
	code, state = call(t, http.MethodPost, base+"/v1/alarm/stop", `{}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, domain.StateIdle, state.GetState())
}
