package alarm

import (
	"context"
	"errors"
	"math"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

var errTestBroken = errors.New("disk on fire")

// fakeService implements the alarm Service interface for unit testing the transport.
type fakeService struct {
	// snapshot is returned by every call.
	snapshot *domain.Snapshot
	// err is returned by mutating calls when set.
	err error

	// lastActor, lastCommand, lastMinutes and lastCancel record the inputs.
	lastActor   *domain.Actor
	lastCommand domain.ArmCommand
	lastMinutes int
	lastCancel  bool
}

func (f *fakeService) Arm(_ context.Context, actor *domain.Actor, cmd domain.ArmCommand) (*domain.Snapshot, error) {
	f.lastActor, f.lastCommand = actor, cmd
	return f.snapshot, f.err
}

func (f *fakeService) Snooze(_ context.Context, actor *domain.Actor, minutes int) (*domain.Snapshot, error) {
	f.lastActor, f.lastMinutes = actor, minutes
	return f.snapshot, f.err
}

func (f *fakeService) Stop(_ context.Context, actor *domain.Actor, cancel bool) (*domain.Snapshot, error) {
	f.lastActor, f.lastCancel = actor, cancel
	return f.snapshot, f.err
}

func (f *fakeService) GetState(context.Context) *domain.Snapshot { return f.snapshot }

func armedSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		State:     domain.StateArmed,
		Target:    time.Date(2024, 1, 2, 7, 30, 0, 0, time.UTC),
		Remaining: 90*time.Second + time.Millisecond,
		Request: &domain.Request{
			TimeOfDay:   domain.TimeOfDay{Hour: 7, Minute: 30},
			RepeatDaily: true,
		},
		Timestamp: time.Date(2024, 1, 2, 7, 28, 30, 0, time.UTC),
		LastActor: &domain.Actor{Hostname: "host", Username: "user"},
	}
}

// TestServer_Validation ensures invalid requests return InvalidArgument errors.
func TestServer_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewServer(new(fakeService))

	_, err := s.Arm(ctx, nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.Arm(ctx, &ArmRequest{Time: "07:30"})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.Snooze(ctx, &SnoozeRequest{})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.Snooze(ctx, &SnoozeRequest{Actor: &SystemActor{}, Minutes: -1})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.Snooze(ctx, &SnoozeRequest{Actor: &SystemActor{}, Minutes: domain.MaxSnoozeMinutes + 1})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.Snooze(ctx, &SnoozeRequest{Actor: &SystemActor{}, Minutes: math.MaxInt32})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.Stop(ctx, nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

// TestServer_ErrorMapping maps invalid input and internal failures.
func TestServer_ErrorMapping(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	actor := &SystemActor{Hostname: "h", Username: "u"}

	svc := &fakeService{err: domain.Errorf(domain.ErrInvalid, domain.MissingTimeMessage)}
	_, err := NewServer(svc).Arm(ctx, &ArmRequest{Actor: actor})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	require.Equal(t, domain.MissingTimeMessage, status.Convert(err).Message())

	svc = &fakeService{err: errTestBroken}
	_, err = NewServer(svc).Stop(ctx, &StopRequest{Actor: actor})
	require.Equal(t, codes.Internal, status.Code(err))
	require.NotContains(t, status.Convert(err).Message(), "fire")
}

// TestServer_PassesInputs checks the request is translated for the service.
func TestServer_PassesInputs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := &fakeService{snapshot: armedSnapshot()}
	s := NewServer(svc)
	actor := &SystemActor{Hostname: "h", Username: "u"}

	response, err := s.Arm(ctx, &ArmRequest{Actor: actor, Preset: "workday", RepeatDaily: true, Label: "Gym"})
	require.NoError(t, err)
	require.Equal(t, domain.ArmCommand{Preset: "workday", RepeatDaily: true, Label: "Gym"}, svc.lastCommand)
	require.Equal(t, &domain.Actor{Hostname: "h", Username: "u"}, svc.lastActor)
	require.Equal(t, "armed", response.State)
	require.Equal(t, int64(91), response.RemainingSeconds)
	require.Equal(t, "07:30", response.Time)
	require.Equal(t, domain.DefaultLabel, response.Label)

	_, err = s.Snooze(ctx, &SnoozeRequest{Actor: actor, Minutes: 9})
	require.NoError(t, err)
	require.Equal(t, 9, svc.lastMinutes)

	_, err = s.Stop(ctx, &StopRequest{Actor: actor, Cancel: true})
	require.NoError(t, err)
	require.True(t, svc.lastCancel)
}

// TestFromSnapshot_Idle renders an idle alarm without target.
func TestFromSnapshot_Idle(t *testing.T) {
	t.Parallel()

	response := FromSnapshot(&domain.Snapshot{
		Saved: &domain.Request{TimeOfDay: domain.TimeOfDay{Hour: 6, Minute: 5}},
	})
	require.Equal(t, "idle", response.State)
	require.Nil(t, response.Target)
	require.Equal(t, "06:05", response.SavedTime)
	require.Equal(t, domain.StateIdle, response.GetState())

	require.Equal(t, "idle", FromSnapshot(nil).State)
}

// TestRoundtrip_OverBufconn runs a real gRPC server with the JSON codec.
func TestRoundtrip_OverBufconn(t *testing.T) {
	t.Parallel()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor))
	svc := &fakeService{snapshot: armedSnapshot()}
	RegisterAlarmClockServer(srv, NewServer(svc))

	go func() { _ = srv.Serve(lis) }()

	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() { _ = conn.Close() })

	client := NewAlarmClockClient(conn)
	ctx := metadata.AppendToOutgoingContext(context.Background(), RequestIDHeader, "req-1")

	var header metadata.MD

	response, err := client.Arm(ctx, &ArmRequest{
		Actor: &SystemActor{Hostname: "h", Username: "u"},
		Time:  "07:30",
	}, grpc.Header(&header))
	require.NoError(t, err)
	require.Equal(t, domain.StateArmed, response.GetState())
	require.NotNil(t, response.Target)
	require.True(t, response.Target.Equal(armedSnapshot().Target))
	require.Equal(t, "user", response.LastActor.Username)
	require.Equal(t, []string{"req-1"}, header.Get(RequestIDHeader))
	require.Equal(t, "07:30", svc.lastCommand.Time)

	state, err := client.GetState(context.Background(), &GetStateRequest{})
	require.NoError(t, err)
	require.Equal(t, "armed", state.State)

	_, err = client.Stop(context.Background(), &StopRequest{})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

// TestRequestIDFrom generates an id when none is supplied.
func TestRequestIDFrom(t *testing.T) {
	t.Parallel()

	id := requestIDFrom(context.Background())
	require.Len(t, id, 36)

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "abc"))
	require.Equal(t, "abc", requestIDFrom(ctx))
}
