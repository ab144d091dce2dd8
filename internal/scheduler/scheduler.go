package scheduler

import (
	"context"
	"sync"
	"time"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// DefaultAlertPeriod is the interval between alert pulses while ringing.
const DefaultAlertPeriod = 1200 * time.Millisecond

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithAlertPeriod sets the alert pulse period used while ringing.
func WithAlertPeriod(period time.Duration) Option {
	return func(s *Scheduler) {
		if period > 0 {
			s.alertPeriod = period
		}
	}
}

// WithContext sets the context passed to the presenter from trigger callbacks.
// Callbacks have no caller of their own, so this is where their logger comes from.
func WithContext(ctx context.Context) Option {
	return func(s *Scheduler) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// Scheduler is the single-alarm state machine: Idle -> Armed -> Ringing and back.
//
// It owns at most one one-shot trigger (while Armed) and at most one alert
// pulse trigger (while Ringing). Every armed trigger carries a generation
// number; a callback whose generation is no longer current is dropped, so a
// cancelled trigger never reaches the state machine even if the platform
// timer already started running it.
//
// Presenter calls happen after the state lock is released, in commit order.
// A Presenter must not call back into the Scheduler from an event handler,
// and a TriggerPort must not run callbacks synchronously from Arm.
type Scheduler struct {
	// clock is the wall-clock source.
	clock Clock
	// triggers arms and cancels delayed callbacks.
	triggers TriggerPort
	// presenter receives state change events.
	presenter Presenter
	// alertPeriod is the pulse interval while ringing.
	alertPeriod time.Duration
	// ctx is handed to the presenter from trigger callbacks.
	ctx context.Context

	// mu guards every field below.
	mu sync.Mutex
	// state is the current lifecycle position.
	state domain.State
	// target is the pending (or just fired) alarm time.
	target time.Time
	// request is the request the alarm was armed with.
	request *domain.Request
	// fire is the outstanding one-shot trigger.
	fire pending
	// pulse is the outstanding alert pulse trigger.
	pulse pending
	// pulses counts alert ticks in the current ringing phase.
	pulses int
	// generation is the last generation handed out.
	generation uint64

	// emitMu serialises presenter delivery.
	emitMu sync.Mutex
}

// pending is an outstanding trigger. A zero generation means none.
type pending struct {
	handle     Handle
	generation uint64
}

// event is a deferred presenter call.
type event func()

// New creates an idle scheduler.
func New(clock Clock, triggers TriggerPort, presenter Presenter, opts ...Option) *Scheduler {
	if presenter == nil {
		presenter = nopPresenter{}
	}

	s := &Scheduler{
		clock:       clock,
		triggers:    triggers,
		presenter:   presenter,
		alertPeriod: DefaultAlertPeriod,
		ctx:         context.Background(),
		state:       domain.StateIdle,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Arm schedules the alarm for the next occurrence of req.TimeOfDay and returns the target.
// Any pending trigger, including a ringing alert, is cancelled first.
func (s *Scheduler) Arm(ctx context.Context, req domain.Request) time.Time {
	s.mu.Lock()
	target, events := s.armLocked(ctx, req)
	s.commit(events)

	return target
}

// Fire moves an armed alarm to ringing as if its trigger elapsed.
// It reports false and does nothing unless the alarm is armed.
func (s *Scheduler) Fire(ctx context.Context) bool {
	s.mu.Lock()
	if s.state != domain.StateArmed {
		s.mu.Unlock()
		return false
	}

	s.commit(s.fireLocked(ctx))

	return true
}

// Snooze silences a ringing alarm and re-arms it d from now.
// It reports false and does nothing unless the alarm is ringing and d is positive.
func (s *Scheduler) Snooze(ctx context.Context, d time.Duration) (time.Time, bool) {
	s.mu.Lock()
	if s.state != domain.StateRinging || d <= 0 {
		s.mu.Unlock()
		return time.Time{}, false
	}

	s.cancel(&s.pulse)
	s.pulses = 0

	now := s.clock.Now()
	target := now.Add(d)
	s.scheduleFireLocked(target, now)

	label := s.request.DisplayLabel()
	s.commit([]event{func() { s.presenter.Armed(ctx, target, label) }})

	return target, true
}

// Stop acknowledges the alarm. A ringing alarm armed with RepeatDaily is
// re-armed for the same time-of-day on the next calendar day; in every other
// case all triggers are cancelled and the scheduler goes idle.
func (s *Scheduler) Stop(ctx context.Context) domain.Snapshot {
	s.mu.Lock()

	var events []event
	if s.state == domain.StateRinging && s.request != nil && s.request.RepeatDaily {
		_, events = s.armLocked(ctx, *s.request)
	} else {
		events = s.idleLocked(ctx)
	}

	snapshot := s.snapshotLocked(s.clock.Now())
	s.commit(events)

	return snapshot
}

// Cancel disarms the alarm regardless of RepeatDaily.
func (s *Scheduler) Cancel(ctx context.Context) domain.Snapshot {
	s.mu.Lock()
	events := s.idleLocked(ctx)
	snapshot := s.snapshotLocked(s.clock.Now())
	s.commit(events)

	return snapshot
}

// Tick reports the countdown to the pending target. It never changes state:
// only the trigger callback moves the alarm to ringing.
func (s *Scheduler) Tick(ctx context.Context) domain.Countdown {
	s.mu.Lock()
	countdown := s.countdownLocked(s.clock.Now())
	s.commit([]event{func() { s.presenter.Countdown(ctx, countdown) }})

	return countdown
}

// Snapshot returns the current state without notifying the presenter.
func (s *Scheduler) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked(s.clock.Now())
}

// State returns the current lifecycle position.
func (s *Scheduler) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Scheduler) armLocked(ctx context.Context, req domain.Request) (time.Time, []event) {
	now := s.clock.Now()
	target := domain.NextOccurrence(now, req.TimeOfDay)

	s.cancel(&s.fire)
	s.cancel(&s.pulse)
	s.pulses = 0
	s.request = req.Clone()
	s.scheduleFireLocked(target, now)

	label := s.request.DisplayLabel()

	return target, []event{func() { s.presenter.Armed(ctx, target, label) }}
}

// scheduleFireLocked arms the one-shot trigger for target and enters Armed.
func (s *Scheduler) scheduleFireLocked(target, now time.Time) {
	s.cancel(&s.fire)

	delay := max(target.Sub(now), 0)
	generation := s.nextGeneration()
	handle := s.triggers.Arm(delay, func() { s.onFire(generation) })

	s.fire = pending{handle: handle, generation: generation}
	s.state = domain.StateArmed
	s.target = target
}

func (s *Scheduler) fireLocked(ctx context.Context) []event {
	s.cancel(&s.fire)

	s.state = domain.StateRinging
	s.pulses = 0

	generation := s.nextGeneration()
	handle := s.triggers.ArmRepeating(s.alertPeriod, func() { s.onPulse(generation) })
	s.pulse = pending{handle: handle, generation: generation}

	label := s.request.DisplayLabel()

	return []event{func() { s.presenter.Ringing(ctx, label) }}
}

func (s *Scheduler) idleLocked(ctx context.Context) []event {
	s.cancel(&s.fire)
	s.cancel(&s.pulse)

	s.state = domain.StateIdle
	s.target = time.Time{}
	s.request = nil
	s.pulses = 0

	return []event{func() { s.presenter.Idle(ctx) }}
}

// onFire is the one-shot trigger callback.
func (s *Scheduler) onFire(generation uint64) {
	s.mu.Lock()
	if s.fire.generation != generation || s.state != domain.StateArmed {
		s.mu.Unlock()
		return
	}

	s.commit(s.fireLocked(s.ctx))
}

// onPulse is the alert pulse callback.
func (s *Scheduler) onPulse(generation uint64) {
	s.mu.Lock()
	if s.pulse.generation != generation || s.state != domain.StateRinging {
		s.mu.Unlock()
		return
	}

	s.pulses++

	var (
		ctx   = s.ctx
		pulse = s.pulses
		label = s.request.DisplayLabel()
	)

	s.commit([]event{func() { s.presenter.AlertTick(ctx, label, pulse) }})
}

func (s *Scheduler) countdownLocked(now time.Time) domain.Countdown {
	if s.state == domain.StateIdle {
		return domain.Countdown{State: domain.StateIdle}
	}

	return domain.Countdown{
		State:     s.state,
		Target:    s.target,
		Remaining: max(s.target.Sub(now), 0),
		Active:    true,
	}
}

func (s *Scheduler) snapshotLocked(now time.Time) domain.Snapshot {
	countdown := s.countdownLocked(now)

	return domain.Snapshot{
		State:     s.state,
		Target:    countdown.Target,
		Remaining: countdown.Remaining,
		Request:   s.request.Clone(),
		Pulses:    s.pulses,
		Timestamp: now,
	}
}

// cancel stops the trigger p refers to and forgets it.
func (s *Scheduler) cancel(p *pending) {
	if p.generation == 0 {
		return
	}

	s.triggers.Cancel(p.handle)
	*p = pending{}
}

func (s *Scheduler) nextGeneration() uint64 {
	s.generation++

	return s.generation
}

// commit releases mu and delivers events in order. The caller must hold mu.
func (s *Scheduler) commit(events []event) {
	s.emitMu.Lock()
	s.mu.Unlock()

	defer s.emitMu.Unlock()

	for _, e := range events {
		e()
	}
}

// nopPresenter discards every event.
type nopPresenter struct{}

func (nopPresenter) Armed(context.Context, time.Time, string) {}
func (nopPresenter) Ringing(context.Context, string) {}
func (nopPresenter) AlertTick(context.Context, string, int) {}
func (nopPresenter) Idle(context.Context) {}
func (nopPresenter) Countdown(context.Context, domain.Countdown) {}
