package alarm

import (
	"time"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// SystemActor identifies the machine and user behind a command.
type SystemActor struct {
	Hostname string `json:"hostname"`
	Username string `json:"username"`
}

// ArmRequest arms the alarm. Preset wins over Time; with neither the daemon
// falls back to the remembered request.
type ArmRequest struct {
	Actor       *SystemActor `json:"actor"`
	Time        string       `json:"time,omitempty"`
	Preset      string       `json:"preset,omitempty"`
	RepeatDaily bool         `json:"repeat_daily,omitempty"`
	Label       string       `json:"label,omitempty"`
}

// SnoozeRequest snoozes a ringing alarm. Zero minutes means the daemon default.
type SnoozeRequest struct {
	Actor   *SystemActor `json:"actor"`
	Minutes int32        `json:"minutes,omitempty"`
}

// StopRequest stops a ringing alarm. Cancel also disarms a pending alarm,
// including the next daily occurrence.
type StopRequest struct {
	Actor  *SystemActor `json:"actor"`
	Cancel bool         `json:"cancel,omitempty"`
}

// GetStateRequest asks for the current alarm state.
type GetStateRequest struct {
	RequestingActor *SystemActor `json:"requesting_actor,omitempty"`
}

// AlarmStateResponse describes the alarm.
type AlarmStateResponse struct {
	State            string       `json:"state"`
	Target           *time.Time   `json:"target,omitempty"`
	RemainingSeconds int64        `json:"remaining_seconds"`
	Time             string       `json:"time,omitempty"`
	RepeatDaily      bool         `json:"repeat_daily,omitempty"`
	Label            string       `json:"label,omitempty"`
	SavedTime        string       `json:"saved_time,omitempty"`
	Pulses           int32        `json:"pulses,omitempty"`
	Timestamp        time.Time    `json:"timestamp"`
	LastActor        *SystemActor `json:"last_actor,omitempty"`
}

// GetState returns the parsed state, idle when unknown.
func (r *AlarmStateResponse) GetState() domain.State {
	var state domain.State
	if r == nil {
		return state
	}

	_ = state.UnmarshalText([]byte(r.State))

	return state
}

// Remaining returns RemainingSeconds as a duration.
func (r *AlarmStateResponse) Remaining() time.Duration {
	if r == nil {
		return 0
	}

	return time.Duration(r.RemainingSeconds) * time.Second
}

// ToDomainActor converts a wire actor to a domain Actor.
func ToDomainActor(actor *SystemActor) *domain.Actor {
	if actor == nil {
		return nil
	}

	return &domain.Actor{
		Hostname: actor.Hostname,
		Username: actor.Username,
	}
}

// FromDomainActor converts a domain Actor to a wire actor.
func FromDomainActor(actor *domain.Actor) *SystemActor {
	if actor == nil {
		return nil
	}

	return &SystemActor{
		Hostname: actor.Hostname,
		Username: actor.Username,
	}
}

// FromSnapshot converts a domain snapshot to a response.
func FromSnapshot(snapshot *domain.Snapshot) *AlarmStateResponse {
	if snapshot == nil {
		return &AlarmStateResponse{State: domain.StateIdle.String()}
	}

	response := &AlarmStateResponse{
		State:            snapshot.State.String(),
		RemainingSeconds: int64((snapshot.Remaining + time.Second - 1) / time.Second),
		Pulses:           int32(snapshot.Pulses), //nolint:gosec // Pulse counts stay tiny.
		Timestamp:        snapshot.Timestamp,
		LastActor:        FromDomainActor(snapshot.LastActor),
	}

	if !snapshot.Target.IsZero() {
		target := snapshot.Target
		response.Target = &target
	}

	if snapshot.Request != nil {
		response.Time = snapshot.Request.TimeOfDay.String()
		response.RepeatDaily = snapshot.Request.RepeatDaily
		response.Label = snapshot.Request.DisplayLabel()
	}

	if snapshot.Saved != nil {
		response.SavedTime = snapshot.Saved.TimeOfDay.String()
	}

	return response
}
