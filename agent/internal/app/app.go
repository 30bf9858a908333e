package app

import (
	"context"
	"net/http"
	"time"

	"gambleguard/agent/internal/blocklist"
	"gambleguard/agent/internal/config"
	"gambleguard/agent/internal/db"
	"gambleguard/agent/internal/hosts"
	"gambleguard/agent/internal/logger"
	"gambleguard/agent/internal/refresh"
	"gambleguard/agent/internal/state"
	"gambleguard/agent/internal/web"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const watchDebounce = 2 * time.Second

type components struct {
	gdb       *gorm.DB
	patcher   *hosts.Patcher
	driver    *refresh.Driver
	visits    web.VisitRecorder
	dashboard *web.Dashboard
}

func build(cfg config.AppConfig, hostsOpts []hosts.Option) *components {
	c := &components{dashboard: &web.Dashboard{LogFile: cfg.Paths.LogFile}}

	var runs refresh.RunRecorder
	gdb, err := db.Open(cfg.Paths.DBFile)
	if err != nil {
		logger.Errorf("Cannot open local database, history disabled: %v", err)
	} else {
		c.gdb = gdb
		runRepo := db.NewRefreshRunRepository(gdb)
		visitRepo := db.NewVisitRepository(gdb)
		runs = runRepo
		c.visits = visitRepo
		c.dashboard.Runs = runRepo
		c.dashboard.Visits = visitRepo
	}

	fetcher := blocklist.NewFetcher(cfg.Source, cfg.FetchTimeout)
	c.patcher = hosts.NewPatcher(cfg.Paths.HostsFile, cfg.Paths.BackupFile, hostsOpts...)
	c.driver = refresh.NewDriver(fetcher, c.patcher, runs)
	return c
}

func (c *components) close() {
	if err := db.Close(c.gdb); err != nil {
		logger.Warnf("Close database: %v", err)
	}
}

// Run starts the refresh loop, the hosts watcher and both local servers, and
// blocks until ctx is cancelled.
func Run(ctx context.Context, cfg config.AppConfig, hostsOpts ...hosts.Option) error {
	c := build(cfg, hostsOpts)
	defer c.close()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.driver.Run(ctx, cfg.RefreshInterval)
	})

	if cfg.WatchHosts {
		w, err := hosts.NewWatcher(c.patcher.HostsPath(), watchDebounce, func() {
			if err := c.driver.Reapply(); err != nil {
				logger.Errorf("Failed to restore managed block: %v", err)
			}
		})
		if err != nil {
			logger.Warnf("Hosts watcher disabled: %v", err)
		} else {
			g.Go(func() error { return w.Run(ctx) })
		}
	}

	// A server that cannot bind is logged; blocking keeps working without it.
	serve := func(name, addr string, h http.Handler) {
		if addr == "" {
			return
		}
		g.Go(func() error {
			if err := web.Serve(ctx, name, addr, h); err != nil {
				logger.Errorf("%v", err)
			}
			return nil
		})
	}
	serve("warning server", cfg.WarningAddr, web.NewWarningRouter(c.visits))
	serve("dashboard API", cfg.DashboardAddr, c.dashboard.Router())

	if err := g.Wait(); err != nil {
		logger.Errorf("Agent stopped with error: %v", err)
		return err
	}
	logger.Info("Agent stopped")
	return nil
}

// RunOnce performs a single refresh cycle and returns its status.
func RunOnce(ctx context.Context, cfg config.AppConfig, hostsOpts ...hosts.Option) state.RefreshStatus {
	c := build(cfg, hostsOpts)
	defer c.close()
	return c.driver.RefreshOnce(ctx)
}
