//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	"github.com/oshokin/alarm-clock/internal/config"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/version"
)

// Client wraps the alarm clock gRPC client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the daemon.
	conn *grpc.ClientConn
	// api is the AlarmClock client stub.
	api api.AlarmClockClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errActorRequired is returned when an actor is not provided but is required for the operation.
	errActorRequired = errors.New("actor must be provided")
)

// Dial establishes a gRPC connection to the daemon.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy until native TLS is added.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	// The AlarmClock stub selects the JSON codec on every call.
	conn, err := grpc.NewClient(address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUserAgent(version.UserAgent("alarm-ctl")),
	)
	if err != nil {
		return nil, fmt.Errorf("dial alarm clock: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         api.NewAlarmClockClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// GetState retrieves the current alarm state.
func (c *Client) GetState(ctx context.Context, actor *api.SystemActor) (*api.AlarmStateResponse, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetState(callCtx, &api.GetStateRequest{RequestingActor: actor})
	if err != nil {
		return nil, fmt.Errorf("get alarm state: %w", err)
	}

	return resp, nil
}

// Arm arms the remote alarm.
func (c *Client) Arm(ctx context.Context, request *api.ArmRequest) (*api.AlarmStateResponse, error) {
	if request == nil || request.Actor == nil {
		return nil, errActorRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.Arm(callCtx, request)
	if err != nil {
		return nil, fmt.Errorf("arm alarm: %w", err)
	}

	return response, nil
}

// Snooze snoozes the remote alarm for minutes; zero uses the daemon default.
func (c *Client) Snooze(ctx context.Context, actor *api.SystemActor, minutes int) (*api.AlarmStateResponse, error) {
	if actor == nil {
		return nil, errActorRequired
	}

	if err := domain.CheckSnoozeMinutes(minutes); err != nil {
		return nil, fmt.Errorf("snooze alarm: %w", err)
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	request := &api.SnoozeRequest{
		Actor:   actor,
		Minutes: int32(minutes), //nolint:gosec // Checked against MaxSnoozeMinutes above.
	}

	response, err := c.api.Snooze(callCtx, request)
	if err != nil {
		return nil, fmt.Errorf("snooze alarm: %w", err)
	}

	return response, nil
}

// Stop stops the remote alarm; cancel also disarms it.
func (c *Client) Stop(ctx context.Context, actor *api.SystemActor, cancel bool) (*api.AlarmStateResponse, error) {
	if actor == nil {
		return nil, errActorRequired
	}

	callCtx, cancelCall := c.callContext(ctx)
	defer cancelCall()

	response, err := c.api.Stop(callCtx, &api.StopRequest{Actor: actor, Cancel: cancel})
	if err != nil {
		return nil, fmt.Errorf("stop alarm: %w", err)
	}

	return response, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
