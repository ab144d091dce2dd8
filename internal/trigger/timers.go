package trigger

import (
	"sync"
	"time"

	"github.com/oshokin/alarm-clock/internal/scheduler"
)

// System reads the host clock.
type System struct{}

// Now returns time.Now().
func (System) Now() time.Time {
	return time.Now()
}

// Timers is the production TriggerPort built on time.AfterFunc and time.Ticker.
type Timers struct {
	// mu protects the fields below.
	mu sync.Mutex
	// last is the last handle handed out.
	last scheduler.Handle
	// live maps outstanding handles to their stop functions.
	live map[scheduler.Handle]func()
	// closed rejects new triggers after Close.
	closed bool
}

// NewTimers creates an empty trigger set.
func NewTimers() *Timers {
	return &Timers{
		live: make(map[scheduler.Handle]func()),
	}
}

// Arm runs fn once after delay on its own goroutine.
func (t *Timers) Arm(delay time.Duration, fn func()) scheduler.Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return scheduler.NoHandle
	}

	handle := t.nextHandle()

	timer := time.AfterFunc(delay, func() {
		if !t.release(handle) {
			return
		}

		fn()
	})

	t.live[handle] = func() { timer.Stop() }

	return handle
}

// ArmRepeating runs fn every period until the handle is cancelled.
func (t *Timers) ArmRepeating(period time.Duration, fn func()) scheduler.Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || period <= 0 {
		return scheduler.NoHandle
	}

	var (
		handle = t.nextHandle()
		ticker = time.NewTicker(period)
		done   = make(chan struct{})
	)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if !t.isLive(handle) {
					return
				}

				fn()
			}
		}
	}()

	t.live[handle] = func() { close(done) }

	return handle
}

// Cancel stops the trigger. Unknown or already fired handles are ignored.
func (t *Timers) Cancel(h scheduler.Handle) {
	t.mu.Lock()
	stop, ok := t.live[h]
	delete(t.live, h)
	t.mu.Unlock()

	if ok {
		stop()
	}
}

// Close cancels every outstanding trigger and rejects new ones.
func (t *Timers) Close() {
	t.mu.Lock()
	live := t.live
	t.live = make(map[scheduler.Handle]func())
	t.closed = true
	t.mu.Unlock()

	for _, stop := range live {
		stop()
	}
}

// Len reports the number of outstanding triggers.
func (t *Timers) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.live)
}

func (t *Timers) nextHandle() scheduler.Handle {
	t.last++

	return t.last
}

// release forgets a fired one-shot handle and reports whether it was still live.
func (t *Timers) release(h scheduler.Handle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.live[h]; !ok {
		return false
	}

	delete(t.live, h)

	return true
}

func (t *Timers) isLive(h scheduler.Handle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.live[h]

	return ok
}
