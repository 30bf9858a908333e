//go:build windows

package privilege

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/windows"
)

// IsElevated reports whether the process token carries administrator rights.
func IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

// AttemptElevate relaunches the current executable through a UAC prompt.
// Returns (relaunched, error). If relaunched is true, caller should exit.
func AttemptElevate() (bool, error) {
	exe, err := os.Executable()
	if err != nil {
		return false, err
	}
	if strings.HasSuffix(strings.ToLower(exe), "go.exe") {
		return false, errors.New("cannot elevate in go run mode; build the agent first")
	}
	ps := fmt.Sprintf("Start-Process -FilePath '%s' -Verb RunAs", exe)
	if len(os.Args) > 1 {
		quoted := make([]string, 0, len(os.Args)-1)
		for _, a := range os.Args[1:] {
			if a == "--elevate" || a == "-elevate" {
				continue
			}
			quoted = append(quoted, "'"+strings.ReplaceAll(a, "'", "''")+"'")
		}
		if len(quoted) > 0 {
			ps += " -ArgumentList " + strings.Join(quoted, ",")
		}
	}
	cmd := exec.Command("powershell", "-NoProfile", "-Command", ps)
	if err := cmd.Start(); err != nil {
		return false, err
	}
	return true, nil
}
