package clock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/oshokin/alarm-clock/internal/config"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/preset"
	repo "github.com/oshokin/alarm-clock/internal/repository/settings"
	"github.com/oshokin/alarm-clock/internal/scheduler"
)

// Service is the alarm business logic shared by all control surfaces.
type Service struct {
	// scheduler owns the alarm state machine.
	scheduler *scheduler.Scheduler
	// repo remembers the last armed request; nil disables persistence.
	repo repo.Repository
	// presets resolves named times; nil means no presets.
	presets preset.Source
	// snoozeMinutes is used when a snooze carries no duration.
	snoozeMinutes int
	// validate checks resolved requests.
	validate *validator.Validate

	// mu guards the fields below.
	mu sync.Mutex
	// saved is the remembered request used to pre-fill arm.
	saved *domain.Request
	// lastActor is who issued the last control command.
	lastActor *domain.Actor
}

// NewService creates a service and reads the remembered request once.
// Missing or malformed settings leave the pre-fill empty.
func NewService(
	ctx context.Context,
	sched *scheduler.Scheduler,
	repository repo.Repository,
	presets preset.Source,
	snoozeMinutes int,
) *Service {
	if snoozeMinutes <= 0 {
		snoozeMinutes = config.DefaultSnoozeMinutes
	}

	s := &Service{
		scheduler:     sched,
		repo:          repository,
		presets:       presets,
		snoozeMinutes: snoozeMinutes,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
	}

	if repository == nil {
		return s
	}

	saved, err := repository.Load(ctx)
	switch {
	case err == nil:
		s.saved = saved
		logger.InfoKV(ctx, "Loaded saved alarm settings", "time", saved.TimeOfDay, "label", saved.DisplayLabel())
	case errors.Is(err, repo.ErrNotFound):
		// Nothing saved yet.
	case errors.Is(err, repo.ErrMalformed):
		logger.WarnKV(ctx, "Discarding malformed alarm settings", "error", err)
	default:
		logger.WarnKV(ctx, "Unable to read alarm settings", "error", err)
	}

	return s
}

// Arm resolves cmd into a request and arms the alarm. A preset wins over an
// explicit time; with neither the remembered request is used.
func (s *Service) Arm(ctx context.Context, actor *domain.Actor, cmd domain.ArmCommand) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, err := s.resolveLocked(cmd)
	if err != nil {
		return nil, err
	}

	if err = s.validate.Struct(req); err != nil {
		return nil, domain.Errorf(domain.ErrInvalid, "invalid alarm request: %v", err)
	}

	target := s.scheduler.Arm(ctx, *req)
	s.lastActor = actor.Clone()

	logger.InfoKV(ctx, "Alarm armed by request",
		"time", req.TimeOfDay,
		"target", target.Format(time.RFC3339),
		"repeat_daily", req.RepeatDaily,
		"actor", s.lastActor,
	)

	if s.repo != nil {
		if err = s.repo.Save(ctx, req); err != nil {
			logger.ErrorKV(ctx, "Failed to save alarm settings", "error", err)
		} else {
			s.saved = req.Clone()
		}
	}

	return s.snapshotLocked(), nil
}

// resolveLocked turns raw input into a request.
func (s *Service) resolveLocked(cmd domain.ArmCommand) (*domain.Request, error) {
	req := &domain.Request{
		RepeatDaily: cmd.RepeatDaily,
		Label:       cmd.Label,
	}

	switch {
	case cmd.Preset != "":
		if s.presets == nil {
			return nil, domain.Errorf(domain.ErrInvalid, "unknown preset %q", cmd.Preset)
		}

		tod, err := s.presets.Resolve(cmd.Preset)
		if err != nil {
			return nil, err
		}

		req.TimeOfDay = tod
	case cmd.Time != "":
		tod, err := domain.ParseTimeOfDay(cmd.Time)
		if err != nil {
			return nil, domain.Errorf(domain.ErrInvalid, "%s (%s)", domain.MissingTimeMessage, domain.DescriptionOf(err))
		}

		req.TimeOfDay = tod
	case s.saved != nil:
		req.TimeOfDay = s.saved.TimeOfDay
		req.RepeatDaily = req.RepeatDaily || s.saved.RepeatDaily

		if req.Label == "" {
			req.Label = s.saved.Label
		}
	default:
		return nil, domain.Errorf(domain.ErrInvalid, domain.MissingTimeMessage)
	}

	return req, nil
}

// Snooze silences a ringing alarm for minutes, or the configured default when
// minutes is not positive. Snoozing an alarm that is not ringing does nothing.
// More than domain.MaxSnoozeMinutes is rejected as invalid.
func (s *Service) Snooze(ctx context.Context, actor *domain.Actor, minutes int) (*domain.Snapshot, error) {
	if minutes > domain.MaxSnoozeMinutes {
		return nil, domain.CheckSnoozeMinutes(minutes)
	}

	if minutes <= 0 {
		minutes = s.snoozeMinutes
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.scheduler.Snooze(ctx, time.Duration(minutes)*time.Minute)
	if !ok {
		logger.InfoKV(ctx, "Snooze ignored, alarm is not ringing", "actor", actor)
		return s.snapshotLocked(), nil
	}

	s.lastActor = actor.Clone()
	logger.InfoKV(ctx, "Alarm snoozed", "minutes", minutes, "target", target.Format(time.RFC3339), "actor", actor)

	return s.snapshotLocked(), nil
}

// Stop acknowledges the alarm. A ringing daily alarm re-arms for tomorrow
// unless cancel is set, which always disarms.
func (s *Service) Stop(ctx context.Context, actor *domain.Actor, cancel bool) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snapshot domain.Snapshot
	if cancel {
		snapshot = s.scheduler.Cancel(ctx)
	} else {
		snapshot = s.scheduler.Stop(ctx)
	}

	s.lastActor = actor.Clone()
	logger.InfoKV(ctx, "Alarm stopped", "cancel", cancel, "state", snapshot.State.String(), "actor", actor)

	return s.decorateLocked(snapshot), nil
}

// GetState returns the current alarm state.
func (s *Service) GetState(_ context.Context) *domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

// Tick refreshes the countdown shown by the presenters.
func (s *Service) Tick(ctx context.Context) domain.Countdown {
	return s.scheduler.Tick(ctx)
}

func (s *Service) snapshotLocked() *domain.Snapshot {
	return s.decorateLocked(s.scheduler.Snapshot())
}

func (s *Service) decorateLocked(snapshot domain.Snapshot) *domain.Snapshot {
	snapshot.Saved = s.saved.Clone()
	snapshot.LastActor = s.lastActor.Clone()

	return &snapshot
}
