//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// TestDial_ValidatesAddress verifies that Dial rejects empty addresses.
func TestDial_ValidatesAddress(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "")
	require.Error(t, err)
	require.Nil(t, c)
}

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}

// TestClient_NilActor asserts that mutating calls without an actor are rejected by the client.
func TestClient_NilActor(t *testing.T) {
	t.Parallel()

	c := new(Client)
	ctx := context.Background()

	_, err := c.Arm(ctx, nil)
	require.ErrorIs(t, err, errActorRequired)

	_, err = c.Arm(ctx, &api.ArmRequest{Time: "07:00"})
	require.ErrorIs(t, err, errActorRequired)

	_, err = c.Snooze(ctx, nil, 5)
	require.ErrorIs(t, err, errActorRequired)

	_, err = c.Stop(ctx, nil, false)
	require.ErrorIs(t, err, errActorRequired)
}

// TestClient_SnoozeBounds rejects lengths that do not fit a snooze before any call is made.
func TestClient_SnoozeBounds(t *testing.T) {
	t.Parallel()

	c := new(Client)
	actor := &api.SystemActor{Hostname: "h", Username: "u"}

	for _, minutes := range []int{-1, domain.MaxSnoozeMinutes + 1, 4294967301} {
		_, err := c.Snooze(context.Background(), actor, minutes)
		require.Equal(t, domain.ErrInvalid, domain.CodeOf(err), minutes)
	}
}

// TestClient_Close tolerates a nil client.
func TestClient_Close(t *testing.T) {
	t.Parallel()

	var c *Client
	require.NoError(t, c.Close())

	c, err := Dial(context.Background(), "127.0.0.1:1", WithCallTimeout(time.Second))
	require.NoError(t, err)
	require.Equal(t, time.Second, c.callTimeout)
	require.NoError(t, c.Close())
}
