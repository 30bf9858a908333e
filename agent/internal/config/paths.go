package config

import (
	"path"
	"strings"
)

// Paths holds every filesystem location the agent touches. It is resolved
// once at startup and handed to the components that need it.
type Paths struct {
	HostsFile     string
	BackupFile    string
	StateDir      string
	LogFile       string
	DBFile        string
	FallbackList  string
	InstallBinary string
	InstallDir    string
}

const (
	logFileName      = "logs.txt"
	dbFileName       = "gambleguard.db"
	fallbackFileName = "gambleguard_domain_blocklist.txt"
	backupFileName   = "hosts.gambleguard.bak"
)

// DefaultPaths returns the platform layout for goos. getenv is consulted for
// the Windows system and profile roots.
func DefaultPaths(goos string, getenv func(string) string) Paths {
	switch goos {
	case "windows":
		root := getenv("SystemRoot")
		if root == "" {
			root = `C:\Windows`
		}
		appData := getenv("APPDATA")
		if appData == "" {
			appData = `C:\ProgramData`
		}
		state := `C:\ProgramData\GambleGuard`
		return Paths{
			HostsFile:     winJoin(root, "System32", "drivers", "etc", "hosts"),
			BackupFile:    winJoin(state, backupFileName),
			StateDir:      state,
			LogFile:       winJoin(state, logFileName),
			DBFile:        winJoin(state, dbFileName),
			FallbackList:  winJoin(appData, "GambleGuard", fallbackFileName),
			InstallBinary: `C:\Program Files\GambleGuard\gambleguard.exe`,
			InstallDir:    `C:\Program Files\GambleGuard`,
		}
	case "darwin":
		state := "/Library/Application Support/GambleGuard"
		return Paths{
			HostsFile:     "/etc/hosts",
			BackupFile:    "/etc/hosts.gambleguard.bak",
			StateDir:      state,
			LogFile:       path.Join(state, logFileName),
			DBFile:        path.Join(state, dbFileName),
			FallbackList:  path.Join("/usr/local/etc", fallbackFileName),
			InstallBinary: "/usr/local/bin/gambleguard",
		}
	default:
		state := "/etc/gambleguard"
		return Paths{
			HostsFile:     "/etc/hosts",
			BackupFile:    "/etc/hosts.gambleguard.bak",
			StateDir:      state,
			LogFile:       path.Join(state, logFileName),
			DBFile:        path.Join(state, dbFileName),
			FallbackList:  path.Join(state, fallbackFileName),
			InstallBinary: "/usr/local/bin/gambleguard",
		}
	}
}

// winJoin builds a Windows path regardless of the host the agent was built on.
func winJoin(elem ...string) string {
	for i, e := range elem {
		if i > 0 {
			elem[i] = strings.Trim(e, `\`)
		} else {
			elem[i] = strings.TrimRight(e, `\`)
		}
	}
	return strings.Join(elem, `\`)
}
