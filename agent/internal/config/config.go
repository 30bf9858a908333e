package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const DefaultRemoteURL = "https://raw.githubusercontent.com/Zacwat7/gambleguard-block-list/refs/heads/main/blocks.txt"

// BlocklistSource is the remote endpoint plus the local copy used when the
// remote cannot be reached.
type BlocklistSource struct {
	RemoteURL    string
	FallbackPath string
}

type AppConfig struct {
	Paths           Paths
	Source          BlocklistSource
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
	WarningAddr     string
	DashboardAddr   string
	WatchHosts      bool
	LogLevel        string
}

// Init loads the configuration from path for the running platform.
func Init(path string) (AppConfig, error) {
	return Load(path, runtime.GOOS, os.Getenv)
}

// Load reads path on top of the platform defaults for goos. A missing file
// leaves the defaults in place.
func Load(path, goos string, getenv func(string) string) (AppConfig, error) {
	p := DefaultPaths(goos, getenv)

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("GAMBLEGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// defaults
	v.SetDefault("agent.paths.hosts_file", p.HostsFile)
	v.SetDefault("agent.paths.backup_file", p.BackupFile)
	v.SetDefault("agent.paths.state_dir", p.StateDir)
	v.SetDefault("agent.paths.log_file", p.LogFile)
	v.SetDefault("agent.paths.db_file", p.DBFile)
	v.SetDefault("agent.paths.install_binary", p.InstallBinary)
	v.SetDefault("agent.paths.install_dir", p.InstallDir)
	v.SetDefault("agent.blocklist.remote_url", DefaultRemoteURL)
	v.SetDefault("agent.blocklist.fallback_path", p.FallbackList)
	v.SetDefault("agent.refresh_interval", 24*time.Hour)
	v.SetDefault("agent.fetch_timeout", 30*time.Second)
	v.SetDefault("agent.warning_addr", "127.0.0.1:80")
	v.SetDefault("agent.dashboard_addr", "127.0.0.1:7878")
	v.SetDefault("agent.watch_hosts", true)
	v.SetDefault("agent.log_level", "info")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := v.ReadInConfig(); err != nil {
				return AppConfig{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	c := AppConfig{
		Paths: Paths{
			HostsFile:     v.GetString("agent.paths.hosts_file"),
			BackupFile:    v.GetString("agent.paths.backup_file"),
			StateDir:      v.GetString("agent.paths.state_dir"),
			LogFile:       v.GetString("agent.paths.log_file"),
			DBFile:        v.GetString("agent.paths.db_file"),
			FallbackList:  v.GetString("agent.blocklist.fallback_path"),
			InstallBinary: v.GetString("agent.paths.install_binary"),
			InstallDir:    v.GetString("agent.paths.install_dir"),
		},
		Source: BlocklistSource{
			RemoteURL:    v.GetString("agent.blocklist.remote_url"),
			FallbackPath: v.GetString("agent.blocklist.fallback_path"),
		},
		RefreshInterval: v.GetDuration("agent.refresh_interval"),
		FetchTimeout:    v.GetDuration("agent.fetch_timeout"),
		WarningAddr:     v.GetString("agent.warning_addr"),
		DashboardAddr:   v.GetString("agent.dashboard_addr"),
		WatchHosts:      v.GetBool("agent.watch_hosts"),
		LogLevel:        v.GetString("agent.log_level"),
	}
	if c.RefreshInterval <= 0 {
		return AppConfig{}, fmt.Errorf("config: refresh_interval must be positive, got %s", c.RefreshInterval)
	}
	if c.FetchTimeout <= 0 {
		return AppConfig{}, fmt.Errorf("config: fetch_timeout must be positive, got %s", c.FetchTimeout)
	}
	return c, nil
}
