package alarm

import (
	"fmt"
	"time"
)

// State is the position of the alarm in its lifecycle.
type State uint8

const (
	// StateIdle means no alarm is pending.
	StateIdle State = iota
	// StateArmed means a one-shot trigger is waiting for the target time.
	StateArmed
	// StateRinging means the alarm fired and alerts until stopped or snoozed.
	StateRinging
)

// String returns the lower-case name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateRinging:
		return "ringing"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle", "":
		*s = StateIdle
	case "armed":
		*s = StateArmed
	case "ringing":
		*s = StateRinging
	default:
		return Errorf(ErrInvalid, "unknown alarm state %q", string(text))
	}

	return nil
}

// Actor identifies who issued a control command.
type Actor struct {
	// Hostname is the machine name where the command originated.
	Hostname string `json:"hostname"`
	// Username is the system user who issued the command.
	Username string `json:"username"`
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// String renders the actor as user@host.
func (a *Actor) String() string {
	if a == nil {
		return "<unknown>"
	}

	return a.Username + "@" + a.Hostname
}

// DefaultLabel is shown when a request carries no label.
const DefaultLabel = "Alarm"

// Request is what the caller supplies when arming the alarm.
type Request struct {
	// TimeOfDay is the wall-clock hour and minute to fire at.
	TimeOfDay TimeOfDay `json:"time"`
	// RepeatDaily re-arms for the same time tomorrow when the ringing alarm is stopped.
	RepeatDaily bool `json:"repeat_daily"`
	// Label is a free-form caption passed to the presenter.
	Label string `json:"label,omitempty" validate:"max=64"`
}

// DisplayLabel returns the label or DefaultLabel when empty.
func (r *Request) DisplayLabel() string {
	if r == nil || r.Label == "" {
		return DefaultLabel
	}

	return r.Label
}

// Clone returns a copy of the request.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}

	cloned := *r

	return &cloned
}

// ArmCommand is raw user input for arming, resolved by the service into a Request.
type ArmCommand struct {
	// Time is the time-of-day string, for example "07:30".
	Time string
	// Preset names an entry of the preset table and wins over Time.
	Preset string
	// RepeatDaily is copied into the resulting Request.
	RepeatDaily bool
	// Label is copied into the resulting Request.
	Label string
}

// Countdown is the read-only result of a scheduler tick.
type Countdown struct {
	// State is the scheduler state when the tick was taken.
	State State
	// Target is the pending fire time, zero when idle.
	Target time.Time
	// Remaining is Target minus now, clamped to zero.
	Remaining time.Duration
	// Active is false when there is no alarm at all.
	Active bool
}

// Snapshot describes the alarm as seen by control surfaces.
type Snapshot struct {
	// State is the scheduler state.
	State State
	// Target is the pending fire time, zero when idle.
	Target time.Time
	// Remaining is the time left until Target, clamped to zero.
	Remaining time.Duration
	// Request is the request the alarm was armed with, nil when idle.
	Request *Request
	// Saved is the pre-filled request read from the settings store.
	Saved *Request
	// Pulses counts alert ticks since the alarm started ringing.
	Pulses int
	// Timestamp is the clock reading the snapshot was taken at.
	Timestamp time.Time
	// LastActor is who issued the last control command.
	LastActor *Actor
}

// Clone returns a copy of the snapshot to avoid leaking internal references.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	cloned := *s
	cloned.Request = s.Request.Clone()
	cloned.Saved = s.Saved.Clone()
	cloned.LastActor = s.LastActor.Clone()

	return &cloned
}
