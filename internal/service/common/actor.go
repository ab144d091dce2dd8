//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os"
	"os/user"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
)

// DetectActor gathers host and user information for audit trail.
// Returns the wire type because callers pass it directly to the client.
func DetectActor() (*api.SystemActor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	return &api.SystemActor{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}
