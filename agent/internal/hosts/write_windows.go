//go:build windows

package hosts

import "os"

// writeFile rewrites path in place. Windows keeps the hosts file open in the
// DNS client service, so a rename over it is not reliable.
func writeFile(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(path, data, perm)
}
