package trigger

import (
	"sync"
	"time"

	"github.com/oshokin/alarm-clock/internal/scheduler"
)

// Simulator is a virtual clock and TriggerPort. Time only moves through Set
// and Advance, which run due callbacks in time order on the caller's goroutine.
type Simulator struct {
	mu   sync.Mutex
	now  time.Time
	last scheduler.Handle
	live map[scheduler.Handle]*simEntry
}

type simEntry struct {
	at     time.Time
	period time.Duration
	fn     func()
}

// NewSimulator creates a simulator whose clock reads start.
func NewSimulator(start time.Time) *Simulator {
	return &Simulator{
		now:  start,
		live: make(map[scheduler.Handle]*simEntry),
	}
}

// Now returns the virtual time.
func (s *Simulator) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.now
}

// Arm registers a one-shot callback at now+delay.
func (s *Simulator) Arm(delay time.Duration, fn func()) scheduler.Handle {
	return s.add(max(delay, 0), 0, fn)
}

// ArmRepeating registers a callback every period.
func (s *Simulator) ArmRepeating(period time.Duration, fn func()) scheduler.Handle {
	if period <= 0 {
		return scheduler.NoHandle
	}

	return s.add(period, period, fn)
}

// Cancel forgets the trigger.
func (s *Simulator) Cancel(h scheduler.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.live, h)
}

// Advance moves the clock forward by d, firing every trigger that falls due.
func (s *Simulator) Advance(d time.Duration) {
	s.Set(s.Now().Add(d))
}

// Set moves the clock to t, firing every trigger due at or before t.
// Moving backwards only changes the reading.
func (s *Simulator) Set(t time.Time) {
	for {
		fn, ok := s.popDue(t)
		if !ok {
			return
		}

		fn()
	}
}

// LiveOneShots counts outstanding one-shot triggers.
func (s *Simulator) LiveOneShots() int {
	return s.count(func(e *simEntry) bool { return e.period == 0 })
}

// LiveRepeating counts outstanding repeating triggers.
func (s *Simulator) LiveRepeating() int {
	return s.count(func(e *simEntry) bool { return e.period > 0 })
}

func (s *Simulator) add(delay, period time.Duration, fn func()) scheduler.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last++
	s.live[s.last] = &simEntry{
		at:     s.now.Add(delay),
		period: period,
		fn:     fn,
	}

	return s.last
}

// popDue picks the earliest trigger due at or before t, moves the clock to
// it and reschedules or forgets it. With nothing due the clock moves to t.
func (s *Simulator) popDue(t time.Time) (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		handle scheduler.Handle
		next   *simEntry
	)

	for h, e := range s.live {
		if e.at.After(t) {
			continue
		}

		if next == nil || e.at.Before(next.at) || (e.at.Equal(next.at) && h < handle) {
			handle, next = h, e
		}
	}

	if next == nil {
		s.now = t

		return nil, false
	}

	if next.at.After(s.now) {
		s.now = next.at
	}

	if next.period > 0 {
		next.at = next.at.Add(next.period)
	} else {
		delete(s.live, handle)
	}

	return next.fn, true
}

func (s *Simulator) count(match func(*simEntry) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0

	for _, e := range s.live {
		if match(e) {
			n++
		}
	}

	return n
}
