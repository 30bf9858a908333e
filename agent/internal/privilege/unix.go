//go:build !windows

package privilege

import (
	"errors"
	"os"
)

// IsElevated reports whether the process runs as root.
func IsElevated() bool { return os.Geteuid() == 0 }

// AttemptElevate is not available on unix; run the agent with sudo instead.
func AttemptElevate() (bool, error) {
	return false, errors.New("self-elevation is not supported on this platform; run with sudo")
}
