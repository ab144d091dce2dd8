// Package presenter turns scheduler events into side effects: log lines,
// terminal bells and desktop notifications. Capabilities missing on the host
// degrade to no-ops and never block scheduling.
package presenter
