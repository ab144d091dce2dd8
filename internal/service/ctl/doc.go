// Package ctl implements the alarm-ctl commands that drive a running
// alarm-clock daemon over gRPC: arm, snooze, stop, status and watch, plus
// writing a starter configuration file.
package ctl
