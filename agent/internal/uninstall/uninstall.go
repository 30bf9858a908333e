package uninstall

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"

	"gambleguard/agent/internal/config"
	"gambleguard/agent/internal/logger"
)

const (
	ServiceName     = "gambleguard.service"
	DefaultUnitFile = "/etc/systemd/system/gambleguard.service"
)

type HostsCleaner interface {
	Remove() error
}

type AutostartRemover interface {
	Remove() error
}

// Uninstaller tears down everything the agent installed.
type Uninstaller struct {
	GOOS      string
	Paths     config.Paths
	Hosts     HostsCleaner
	Autostart AutostartRemover // optional
	UnitFile  string           // systemd unit, linux only
	// Exec runs an external command; output is discarded.
	Exec func(name string, args ...string) error
}

// Run strips the managed block from the hosts file, then removes the service,
// autostart entry, binary and state directory. Only the hosts cleanup
// result is returned; the other steps are best effort and logged.
func (u *Uninstaller) Run() error {
	logger.Infof("Uninstalling GambleGuard on %s...", u.GOOS)

	hostsErr := u.Hosts.Remove()
	if hostsErr != nil {
		logger.Errorf("Failed to clean hosts file: %v", hostsErr)
	}

	if u.GOOS == "linux" {
		u.exec("systemctl", "stop", ServiceName)
		u.exec("systemctl", "disable", ServiceName)
		u.remove(u.UnitFile)
	}
	if u.Autostart != nil {
		if err := u.Autostart.Remove(); err != nil {
			logger.Warnf("Failed to remove autostart entry: %v", err)
		}
	}
	u.remove(u.Paths.InstallBinary)
	u.removeAll(u.Paths.InstallDir)
	u.removeAll(u.Paths.StateDir)
	if u.GOOS == "linux" {
		u.exec("systemctl", "daemon-reload")
	}

	if hostsErr != nil {
		return hostsErr
	}
	logger.Info("GambleGuard successfully uninstalled.")
	return nil
}

func (u *Uninstaller) exec(name string, args ...string) {
	run := u.Exec
	if run == nil {
		run = func(name string, args ...string) error { return exec.Command(name, args...).Run() }
	}
	if err := run(name, args...); err != nil {
		logger.Debugf("%s %v: %v", name, args, err)
	}
}

func (u *Uninstaller) remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warnf("Failed to remove %s: %v", path, err)
	}
}

func (u *Uninstaller) removeAll(path string) {
	if path == "" {
		return
	}
	if err := os.RemoveAll(path); err != nil {
		logger.Warnf("Failed to remove %s: %v", path, err)
	}
}
