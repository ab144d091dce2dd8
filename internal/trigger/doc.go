// Package trigger provides the clocks and trigger ports the scheduler runs on:
// System and Timers for the daemon, Simulator for deterministic tests.
package trigger
