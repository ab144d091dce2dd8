package alarm

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	Arm(ctx context.Context, actor *domain.Actor, cmd domain.ArmCommand) (*domain.Snapshot, error)
	Snooze(ctx context.Context, actor *domain.Actor, minutes int) (*domain.Snapshot, error)
	Stop(ctx context.Context, actor *domain.Actor, cancel bool) (*domain.Snapshot, error)
	GetState(ctx context.Context) *domain.Snapshot
}

// Server implements AlarmClockServer on top of a Service.
type Server struct {
	// service provides the business logic for alarm operations.
	service Service
}

var _ AlarmClockServer = (*Server)(nil)

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// Arm arms the alarm.
func (s *Server) Arm(ctx context.Context, req *ArmRequest) (*AlarmStateResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if req.Actor == nil {
		return nil, status.Error(codes.InvalidArgument, "actor is required")
	}

	snapshot, err := s.service.Arm(ctx, ToDomainActor(req.Actor), domain.ArmCommand{
		Time:        req.Time,
		Preset:      req.Preset,
		RepeatDaily: req.RepeatDaily,
		Label:       req.Label,
	})
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return FromSnapshot(snapshot), nil
}

// Snooze snoozes a ringing alarm.
func (s *Server) Snooze(ctx context.Context, req *SnoozeRequest) (*AlarmStateResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if req.Actor == nil {
		return nil, status.Error(codes.InvalidArgument, "actor is required")
	}

	if err := domain.CheckSnoozeMinutes(int(req.Minutes)); err != nil {
		return nil, status.Error(codes.InvalidArgument, domain.DescriptionOf(err))
	}

	snapshot, err := s.service.Snooze(ctx, ToDomainActor(req.Actor), int(req.Minutes))
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return FromSnapshot(snapshot), nil
}

// Stop stops the alarm.
func (s *Server) Stop(ctx context.Context, req *StopRequest) (*AlarmStateResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if req.Actor == nil {
		return nil, status.Error(codes.InvalidArgument, "actor is required")
	}

	snapshot, err := s.service.Stop(ctx, ToDomainActor(req.Actor), req.Cancel)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return FromSnapshot(snapshot), nil
}

// GetState returns the current alarm state.
func (s *Server) GetState(ctx context.Context, _ *GetStateRequest) (*AlarmStateResponse, error) {
	return FromSnapshot(s.service.GetState(ctx)), nil
}

// toStatus maps application errors to gRPC status codes.
func toStatus(ctx context.Context, err error) error {
	if domain.CodeOf(err) == domain.ErrInvalid {
		return status.Error(codes.InvalidArgument, domain.DescriptionOf(err))
	}

	logger.ErrorKV(ctx, "Alarm request failed", "error", err)

	return status.Error(codes.Internal, domain.DescriptionOf(err))
}
