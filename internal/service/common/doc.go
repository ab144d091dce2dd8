// Package common holds helpers shared by the alarm-clock binaries.
//
// It provides a gRPC client wrapper with call timeouts and a helper that
// detects the current system actor (hostname/username) for audit purposes.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
