//go:build !windows

package hosts

import (
	"errors"
	"os"
	"syscall"

	"gambleguard/agent/internal/logger"

	"github.com/google/renameio/v2"
)

// writeFile replaces path through a temp file and rename, keeping the
// existing permissions. Bind-mounted hosts files (containers) refuse the
// rename; those are rewritten in place.
func writeFile(path string, data []byte) error {
	err := renameio.WriteFile(path, data, 0o644, renameio.WithExistingPermissions())
	if err == nil {
		return nil
	}
	if errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.EXDEV) {
		logger.Warnf("Atomic replace of %s not possible (%v), writing in place", path, err)
		return writeInPlace(path, data)
	}
	return err
}

func writeInPlace(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(path, data, perm)
}
