package web

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"strings"

	"gambleguard/agent/internal/db"
	"gambleguard/agent/internal/state"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	noLogs       = "No logs yet."
	defaultLimit = 20
	maxLimit     = 500
)

type RunLister interface {
	Latest(limit int) ([]db.RefreshRun, error)
}

type VisitLister interface {
	Latest(limit int) ([]db.BlockedVisit, error)
	CountByHost(host string) (int64, error)
}

// Dashboard exposes the agent's log file, refresh status and history.
// Runs and Visits may be nil when the local database is unavailable.
type Dashboard struct {
	LogFile string
	Runs    RunLister
	Visits  VisitLister
}

func (d *Dashboard) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer, Logging)

	r.Get("/logs", d.logs)
	r.Get("/status", d.status)
	r.Get("/runs", d.runs)
	r.Get("/visits", d.visits)
	r.Get("/visits/{host}", d.visitCount)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "404 Not Found", http.StatusNotFound)
	})
	return r
}

// logs returns the log file as plain text. ?tail=N keeps the last N lines.
func (d *Dashboard) logs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	data, err := os.ReadFile(d.LogFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "cannot read log file", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(noLogs))
		return
	}
	out := strings.TrimRight(string(data), "\n")
	if n, err := strconv.Atoi(r.URL.Query().Get("tail")); err == nil && n > 0 {
		lines := strings.Split(out, "\n")
		if len(lines) > n {
			out = strings.Join(lines[len(lines)-n:], "\n")
		}
	}
	if out == "" {
		out = noLogs
	}
	_, _ = w.Write([]byte(out))
}

func (d *Dashboard) status(w http.ResponseWriter, r *http.Request) {
	st, ok := state.GetStatus()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (d *Dashboard) runs(w http.ResponseWriter, r *http.Request) {
	if d.Runs == nil {
		writeError(w, http.StatusServiceUnavailable, "history unavailable")
		return
	}
	runs, err := d.Runs.Latest(limitParam(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (d *Dashboard) visits(w http.ResponseWriter, r *http.Request) {
	if d.Visits == nil {
		writeError(w, http.StatusServiceUnavailable, "history unavailable")
		return
	}
	visits, err := d.Visits.Latest(limitParam(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, visits)
}

// visitCount reports how often one host reached the warning page.
func (d *Dashboard) visitCount(w http.ResponseWriter, r *http.Request) {
	if d.Visits == nil {
		writeError(w, http.StatusServiceUnavailable, "history unavailable")
		return
	}
	host := chi.URLParam(r, "host")
	n, err := d.Visits.CountByHost(host)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"host": host, "count": n})
}

func limitParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return defaultLimit
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
