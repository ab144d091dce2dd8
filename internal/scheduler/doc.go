// Package scheduler implements the alarm state machine.
//
// A Scheduler is built from three collaborators: a Clock for the current
// time, a TriggerPort that runs delayed and repeating callbacks, and a
// Presenter that turns events into log lines, sounds and notifications.
package scheduler
