// Package alarm contains core domain types for the alarm clock.
//
// It defines the scheduler State, the TimeOfDay a user picks, the Request
// that arms an alarm, read models (Countdown, Snapshot) and the calendar
// arithmetic that turns a time-of-day into the next strictly-future target.
package alarm
