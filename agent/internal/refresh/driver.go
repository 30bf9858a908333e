package refresh

import (
	"context"
	"sync"
	"time"

	"gambleguard/agent/internal/blocklist"
	"gambleguard/agent/internal/db"
	"gambleguard/agent/internal/logger"
	"gambleguard/agent/internal/metrics"
	"gambleguard/agent/internal/state"

	"github.com/google/uuid"
)

type Fetcher interface {
	Fetch(ctx context.Context) (*blocklist.List, error)
}

type Applier interface {
	Apply(domains []string) error
	Intact(domains []string) (bool, error)
}

// RunRecorder persists finished cycles. Optional.
type RunRecorder interface {
	Create(run *db.RefreshRun) error
}

// Driver runs fetch → normalize → apply cycles.
type Driver struct {
	fetcher Fetcher
	applier Applier
	runs    RunRecorder

	mu   sync.Mutex
	last []string
}

func NewDriver(f Fetcher, a Applier, runs RunRecorder) *Driver {
	return &Driver{fetcher: f, applier: a, runs: runs}
}

// RefreshOnce runs a single cycle. A failed fetch skips the cycle and leaves
// the hosts file as it was.
func (d *Driver) RefreshOnce(ctx context.Context) (st state.RefreshStatus) {
	st = state.RefreshStatus{RunID: uuid.NewString(), StartedAt: time.Now()}
	defer d.finish(&st)

	list, err := d.fetcher.Fetch(ctx)
	if err != nil {
		logger.Errorf("Failed to fetch blocklist: %v", err)
		st.Error = err.Error()
		metrics.RefreshTotal.WithLabelValues(metrics.ResultFetchError).Inc()
		return st
	}
	st.Origin = string(list.Origin)
	st.Fetched = len(list.Lines)
	metrics.FetchOrigin.WithLabelValues(st.Origin).Inc()
	logger.Infof("Fetched %d domains", st.Fetched)

	domains := blocklist.Normalize(list.Lines)
	st.Parsed = len(domains)
	logger.Infof("Parsed %d entries", st.Parsed)

	d.mu.Lock()
	err = d.applier.Apply(domains)
	if err == nil {
		d.last = domains
	}
	d.mu.Unlock()

	if err != nil {
		logger.Errorf("Failed to apply blocklist: %v", err)
		st.Error = err.Error()
		metrics.RefreshTotal.WithLabelValues(metrics.ResultApplyError).Inc()
		return st
	}
	st.Applied = true
	metrics.RefreshTotal.WithLabelValues(metrics.ResultOK).Inc()
	metrics.BlockedDomains.Set(float64(len(domains)))
	return st
}

func (d *Driver) finish(st *state.RefreshStatus) {
	st.FinishedAt = time.Now()
	state.SetStatus(*st)
	metrics.LastRefresh.Set(float64(st.FinishedAt.Unix()))
	if d.runs == nil {
		return
	}
	run := db.RefreshRun{
		RunID:      st.RunID,
		Origin:     st.Origin,
		Fetched:    st.Fetched,
		Parsed:     st.Parsed,
		Applied:    st.Applied,
		Error:      st.Error,
		StartedAt:  st.StartedAt,
		FinishedAt: st.FinishedAt,
	}
	if err := d.runs.Create(&run); err != nil {
		logger.Warnf("Failed to record refresh run %s: %v", st.RunID, err)
	}
}

// Run refreshes immediately and then every interval until ctx is done.
func (d *Driver) Run(ctx context.Context, interval time.Duration) error {
	d.RefreshOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Refresh loop stopped")
			return nil
		case <-ticker.C:
			logger.Info("Auto-refreshing blocklist...")
			d.RefreshOnce(ctx)
		}
	}
}

// Reapply restores the last applied list when the hosts file no longer
// carries it. It does nothing before the first successful cycle.
func (d *Driver) Reapply() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.last == nil {
		return nil
	}
	ok, err := d.applier.Intact(d.last)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	logger.Warn("Managed block was altered outside GambleGuard, restoring it")
	metrics.HostsReapplied.Inc()
	return d.applier.Apply(d.last)
}
