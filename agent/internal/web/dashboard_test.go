package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gambleguard/agent/internal/db"
	"gambleguard/agent/internal/state"
)

type fakeRuns struct {
	runs  []db.RefreshRun
	err   error
	limit int
}

func (f *fakeRuns) Latest(limit int) ([]db.RefreshRun, error) {
	f.limit = limit
	return f.runs, f.err
}

type fakeVisitLog struct {
	visits []db.BlockedVisit
	counts map[string]int64
	err    error
}

func (f *fakeVisitLog) Latest(limit int) ([]db.BlockedVisit, error) { return f.visits, f.err }

func (f *fakeVisitLog) CountByHost(host string) (int64, error) { return f.counts[host], f.err }

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestDashboardLogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.txt")
	h := (&Dashboard{LogFile: path}).Router()

	rec := get(t, h, "/logs")
	if rec.Code != http.StatusOK || rec.Body.String() != "No logs yet." {
		t.Fatalf("missing log: %d %q", rec.Code, rec.Body.String())
	}

	if err := os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec = get(t, h, "/logs")
	if rec.Body.String() != "one\ntwo\nthree" {
		t.Fatalf("logs = %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type = %q", ct)
	}

	rec = get(t, h, "/logs?tail=2")
	if rec.Body.String() != "two\nthree" {
		t.Fatalf("tail = %q", rec.Body.String())
	}
}

func TestDashboardNotFound(t *testing.T) {
	rec := get(t, (&Dashboard{}).Router(), "/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "404 Not Found" {
		t.Fatalf("body %q", rec.Body.String())
	}
}

func TestDashboardStatus(t *testing.T) {
	state.SetStatus(state.RefreshStatus{RunID: "abc", Origin: "remote", Fetched: 5, Parsed: 4, Applied: true})

	rec := get(t, (&Dashboard{}).Router(), "/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var st state.RefreshStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.RunID != "abc" || st.Parsed != 4 || !st.Applied {
		t.Fatalf("status = %+v", st)
	}
}

func TestDashboardRuns(t *testing.T) {
	rec := get(t, (&Dashboard{}).Router(), "/runs")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("nil store: status %d", rec.Code)
	}

	runs := &fakeRuns{runs: []db.RefreshRun{{RunID: "r2", Parsed: 2}, {RunID: "r1", Parsed: 1}}}
	h := (&Dashboard{Runs: runs}).Router()

	rec = get(t, h, "/runs?limit=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var got []db.RefreshRun
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].RunID != "r2" {
		t.Fatalf("runs = %+v", got)
	}
	if runs.limit != 5 {
		t.Fatalf("limit = %d", runs.limit)
	}

	get(t, h, "/runs?limit=100000")
	if runs.limit != maxLimit {
		t.Fatalf("limit not capped: %d", runs.limit)
	}
	get(t, h, "/runs?limit=junk")
	if runs.limit != defaultLimit {
		t.Fatalf("limit default: %d", runs.limit)
	}

	runs.err = errors.New("disk gone")
	if rec := get(t, h, "/runs"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("error status %d", rec.Code)
	}
}

func TestDashboardMetrics(t *testing.T) {
	rec := get(t, (&Dashboard{}).Router(), "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "gambleguard_warning_page_hits_total") {
		t.Fatal("agent metrics not exported")
	}
}

func TestDashboardVisitCount(t *testing.T) {
	rec := get(t, (&Dashboard{}).Router(), "/visits/casino.example")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("nil store: status %d", rec.Code)
	}

	visits := &fakeVisitLog{counts: map[string]int64{"casino.example": 3}}
	h := (&Dashboard{Visits: visits}).Router()

	rec = get(t, h, "/visits/casino.example")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var got struct {
		Host  string `json:"host"`
		Count int64  `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Host != "casino.example" || got.Count != 3 {
		t.Fatalf("got %+v", got)
	}

	rec = get(t, h, "/visits")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status %d", rec.Code)
	}

	visits.err = errors.New("disk gone")
	if rec := get(t, h, "/visits/casino.example"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("error status %d", rec.Code)
	}
}
