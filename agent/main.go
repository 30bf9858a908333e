package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"gambleguard/agent/internal/app"
	"gambleguard/agent/internal/autostart"
	"gambleguard/agent/internal/config"
	"gambleguard/agent/internal/hosts"
	"gambleguard/agent/internal/logger"
	"gambleguard/agent/internal/privilege"
	"gambleguard/agent/internal/uninstall"
)

func main() {
	os.Exit(run())
}

// run holds the agent's lifecycle so deferred cleanup finishes before exit.
func run() int {
	var (
		cfgPath     = flag.String("config", "config/config.yaml", "Path to configuration file")
		doUninstall = flag.Bool("uninstall", false, "Remove the hosts block, autostart entry and installed files, then exit")
		once        = flag.Bool("once", false, "Run a single refresh cycle and exit")
		elevate     = flag.Bool("elevate", false, "Attempt to relaunch with administrator rights")
		noAutostart = flag.Bool("no-autostart", false, "Do not register the agent to start at login")
	)
	flag.Parse()

	cfg, err := config.Init(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Cannot load configuration:", err)
		return 1
	}

	if err := os.MkdirAll(cfg.Paths.StateDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to create state directory:", err)
	}
	if err := logger.Init(cfg.Paths.LogFile, cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "Cannot open log file, logging to stdout only:", err)
		_ = logger.Init("", cfg.LogLevel)
	}
	defer logger.Close()
	logger.Info("GambleGuard agent starting...")

	if *elevate && !privilege.IsElevated() {
		if relaunched, err := privilege.AttemptElevate(); err != nil {
			logger.Error("Cannot request admin privileges: ", err)
		} else if relaunched {
			return 0
		}
	}
	if !privilege.IsElevated() {
		logger.Warn("Not running with administrator rights; the hosts file will not be modified")
	}

	if *doUninstall {
		return runUninstall(cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		st := app.RunOnce(ctx, cfg)
		if !st.Applied {
			return 1
		}
		return 0
	}

	if !*noAutostart {
		setupAutostart()
	}

	if err := app.Run(ctx, cfg); err != nil {
		logger.Error("Agent failed: ", err)
		return 1
	}
	return 0
}

func setupAutostart() {
	reg, err := autostart.New()
	if err != nil {
		logger.Warnf("Skipping autostart: %v", err)
		return
	}
	exe, err := os.Executable()
	if err != nil {
		logger.Warnf("Skipping autostart, cannot resolve executable: %v", err)
		return
	}
	if err := reg.Setup(exe); err != nil {
		logger.Warnf("Failed to register autostart: %v", err)
	}
}

func runUninstall(cfg config.AppConfig) int {
	// the log file lives in the state directory, which is about to go away
	_ = logger.Init("", cfg.LogLevel)

	u := &uninstall.Uninstaller{
		GOOS:     runtime.GOOS,
		Paths:    cfg.Paths,
		Hosts:    hosts.NewPatcher(cfg.Paths.HostsFile, cfg.Paths.BackupFile),
		UnitFile: uninstall.DefaultUnitFile,
	}
	if reg, err := autostart.New(); err == nil {
		u.Autostart = reg
	} else {
		logger.Warnf("Skipping autostart removal: %v", err)
	}
	if err := u.Run(); err != nil {
		return 1
	}
	return 0
}
