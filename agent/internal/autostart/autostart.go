package autostart

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"text/template"

	"gambleguard/agent/internal/logger"
)

const (
	Label   = "com.gambleguard.agent"
	RunKey  = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`
	RunName = "GambleGuard"
)

var desktopTmpl = template.Must(template.New("desktop").Parse(`[Desktop Entry]
Type=Application
Exec={{.Exe}}
Hidden=false
NoDisplay=true
X-GNOME-Autostart-enabled=true
Name=GambleGuard
Comment=Gambling site blocker
`))

var plistTmpl = template.Must(template.New("plist").Funcs(template.FuncMap{"xml": xmlText}).Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>{{xml .Label}}</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{xml .Exe}}</string>
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <false/>
</dict>
</plist>
`))

func xmlText(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// Registrar registers the agent to start at login on one platform.
type Registrar struct {
	GOOS string
	Home string
	// Run executes an external command; exec.Command by default.
	Run func(name string, args ...string) error
}

// New returns a Registrar for the running platform and user.
func New() (*Registrar, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("autostart: home dir: %w", err)
	}
	return &Registrar{GOOS: runtime.GOOS, Home: home, Run: runCommand}, nil
}

func runCommand(name string, args ...string) error {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, bytes.TrimSpace(out))
	}
	return nil
}

// EntryPath is the file that holds the login entry, empty on Windows.
func (r *Registrar) EntryPath() string {
	switch r.GOOS {
	case "linux":
		return filepath.Join(r.Home, ".config", "autostart", "gambleguard.desktop")
	case "darwin":
		return filepath.Join(r.Home, "Library", "LaunchAgents", Label+".plist")
	default:
		return ""
	}
}

// Setup registers exe to run at login.
func (r *Registrar) Setup(exe string) error {
	switch r.GOOS {
	case "windows":
		if err := r.Run("reg", "add", RunKey, "/v", RunName, "/d", exe, "/f"); err != nil {
			return fmt.Errorf("autostart: write registry key: %w", err)
		}
		logger.Info("Windows autostart registry key set.")
		return nil
	case "linux":
		return r.writeEntry(desktopTmpl, exe)
	case "darwin":
		return r.writeEntry(plistTmpl, exe)
	default:
		return fmt.Errorf("autostart: unsupported platform %s", r.GOOS)
	}
}

func (r *Registrar) writeEntry(tmpl *template.Template, exe string) error {
	path := r.EntryPath()
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Exe, Label string }{exe, Label}); err != nil {
		return fmt.Errorf("autostart: render entry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("autostart: create dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("autostart: write entry: %w", err)
	}
	logger.Infof("Autostart entry written to %s", path)
	return nil
}

// Remove undoes Setup. A missing entry is not an error.
func (r *Registrar) Remove() error {
	switch r.GOOS {
	case "windows":
		if err := r.Run("reg", "delete", RunKey, "/v", RunName, "/f"); err != nil {
			return fmt.Errorf("autostart: delete registry key: %w", err)
		}
		return nil
	case "darwin":
		path := r.EntryPath()
		if err := r.Run("launchctl", "unload", path); err != nil {
			logger.Warnf("launchctl unload %s: %v", path, err)
		}
		return removeIfExists(path)
	case "linux":
		return removeIfExists(r.EntryPath())
	default:
		return fmt.Errorf("autostart: unsupported platform %s", r.GOOS)
	}
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("autostart: remove %s: %w", path, err)
	}
	return nil
}
