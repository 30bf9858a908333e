package hosts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gambleguard/agent/internal/logger"
	"gambleguard/agent/internal/privilege"
)

var ErrNotPrivileged = errors.New("hosts: administrative privileges required")

// Patcher owns the managed block inside the hosts file.
type Patcher struct {
	hostsPath  string
	backupPath string
	privileged func() bool
	write      func(path string, data []byte) error

	mu sync.Mutex
}

type Option func(*Patcher)

// WithPrivilegeCheck replaces the platform elevation check.
func WithPrivilegeCheck(fn func() bool) Option {
	return func(p *Patcher) { p.privileged = fn }
}

// NewPatcher resolves hostsPath once, so a symlinked hosts file is patched
// at its target and the link itself stays in place.
func NewPatcher(hostsPath, backupPath string, opts ...Option) *Patcher {
	p := &Patcher{
		hostsPath:  resolve(hostsPath),
		backupPath: backupPath,
		privileged: privilege.IsElevated,
		write:      writeFile,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// HostsPath is the resolved file the patcher reads and writes.
func (p *Patcher) HostsPath() string { return p.hostsPath }

func resolve(path string) string {
	target, err := filepath.EvalSymlinks(path)
	if err != nil || target == "" {
		return path
	}
	return target
}

// Apply replaces the managed block with one covering exactly domains.
// Without privileges it returns ErrNotPrivileged and leaves the file alone.
func (p *Patcher) Apply(domains []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.privileged() {
		logger.Warn("Insufficient privileges to modify hosts file, skipping")
		return ErrNotPrivileged
	}

	data, err := os.ReadFile(p.hostsPath)
	if err != nil {
		return fmt.Errorf("read hosts file: %w", err)
	}
	p.ensureBackup(data)

	next, strays := patch(string(data), domains)
	if strays > 0 {
		logger.Warnf("Hosts file %s had %d unmatched GambleGuard marker(s); they were dropped and surrounding lines kept", p.hostsPath, strays)
	}
	if next != string(data) {
		if err := p.write(p.hostsPath, []byte(next)); err != nil {
			return fmt.Errorf("write hosts file: %w", err)
		}
	}

	for _, d := range domains {
		logger.Infof("Blocked domain: %s", d)
	}
	return nil
}

// Intact reports whether the hosts file already holds exactly the block
// Apply would write for domains.
func (p *Patcher) Intact(domains []string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := os.ReadFile(p.hostsPath)
	if err != nil {
		return false, fmt.Errorf("read hosts file: %w", err)
	}
	next, strays := patch(string(data), domains)
	return strays == 0 && next == string(data), nil
}

// Remove deletes the managed block and every line inside it. Content outside
// the block is written back unchanged.
func (p *Patcher) Remove() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.privileged() {
		logger.Warn("Insufficient privileges to modify hosts file, skipping cleanup")
		return ErrNotPrivileged
	}

	data, err := os.ReadFile(p.hostsPath)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Infof("Hosts file %s not found, nothing to clean", p.hostsPath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read hosts file: %w", err)
	}

	next, strays := excise(string(data))
	if strays > 0 {
		logger.Warnf("Hosts file %s had %d unmatched GambleGuard marker(s); only the marker lines were removed", p.hostsPath, strays)
	}
	if next == string(data) {
		logger.Info("Hosts file has no GambleGuard entries")
		return nil
	}
	if err := p.write(p.hostsPath, []byte(next)); err != nil {
		return fmt.Errorf("write hosts file: %w", err)
	}
	logger.Info("Cleaned hosts file from GambleGuard entries.")
	return nil
}

// ensureBackup stores data at the backup path unless a backup already
// exists. The exclusive create makes the first writer win.
func (p *Patcher) ensureBackup(data []byte) {
	if p.backupPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(p.backupPath), 0o755); err != nil {
		logger.Warnf("Failed to prepare backup directory for %s: %v", p.backupPath, err)
		return
	}
	f, err := os.OpenFile(p.backupPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return
	}
	if err != nil {
		logger.Warnf("Failed to back up hosts file to %s: %v", p.backupPath, err)
		return
	}
	_, werr := f.Write(data)
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(p.backupPath)
		logger.Warnf("Failed to back up hosts file to %s: %v", p.backupPath, errors.Join(werr, cerr))
		return
	}
	logger.Infof("Backed up hosts file to %s", p.backupPath)
}
