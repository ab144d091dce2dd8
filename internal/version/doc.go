// Package version exposes build metadata for the alarm-clock binaries.
//
// Version, Commit and BuildTime are injected via ldflags. The version is also
// sent as the gRPC user agent of alarm-ctl.
package version
