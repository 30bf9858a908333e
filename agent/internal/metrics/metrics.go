package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gambleguard_refresh_total",
			Help: "Refresh cycles by result",
		},
		[]string{"result"},
	)
	FetchOrigin = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gambleguard_fetch_origin_total",
			Help: "Successful blocklist fetches by origin (remote or fallback)",
		},
		[]string{"origin"},
	)
	BlockedDomains = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gambleguard_blocked_domains",
			Help: "Domains in the managed block after the last successful refresh",
		},
	)
	LastRefresh = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gambleguard_last_refresh_timestamp_seconds",
			Help: "Unix time of the last finished refresh cycle",
		},
	)
	HostsReapplied = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gambleguard_hosts_reapplied_total",
			Help: "Times the managed block was restored after an external edit",
		},
	)
	WarningHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gambleguard_warning_page_hits_total",
			Help: "Requests served by the local warning page",
		},
	)
)

const (
	ResultOK         = "ok"
	ResultFetchError = "fetch_error"
	ResultApplyError = "apply_error"
)

func init() {
	prometheus.MustRegister(RefreshTotal, FetchOrigin, BlockedDomains, LastRefresh, HostsReapplied, WarningHits)
}
