package web

import (
	"net"
	"net/http"
	"strings"

	"gambleguard/agent/internal/db"
	"gambleguard/agent/internal/logger"
	"gambleguard/agent/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const warningPage = `<html>
  <head><title>Access Blocked</title></head>
  <body style="text-align:center;font-family:sans-serif;margin-top:10%;">
    <h1>Gambling Site Blocked</h1>
    <p>This site is blocked by GambleGuard to protect users from gambling harm.</p>
  </body>
</html>
`

// VisitRecorder stores hits on the warning page. Optional.
type VisitRecorder interface {
	Create(v *db.BlockedVisit) error
}

// NewWarningRouter serves the block page on every path. Blocked domains
// resolve to loopback, so any browser visit to them ends up here.
func NewWarningRouter(visits VisitRecorder) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer, Logging)

	h := func(w http.ResponseWriter, req *http.Request) {
		host := hostOnly(req.Host)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(warningPage))

		logger.Infof("Blocked gambling site: %s", host)
		metrics.WarningHits.Inc()
		if visits != nil {
			v := db.BlockedVisit{Host: host, Path: req.URL.Path, RemoteAddr: req.RemoteAddr}
			if err := visits.Create(&v); err != nil {
				logger.Warnf("Failed to record visit to %s: %v", host, err)
			}
		}
	}
	r.HandleFunc("/*", h)
	r.NotFound(h)
	r.MethodNotAllowed(h)
	return r
}

func hostOnly(hostport string) string {
	hostport = strings.TrimSpace(hostport)
	if hostport == "" {
		return "Unknown"
	}
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		return h
	}
	return hostport
}
