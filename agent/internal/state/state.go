package state

import (
	"sync/atomic"
	"time"
)

// RefreshStatus describes the most recent refresh cycle.
type RefreshStatus struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Origin     string    `json:"origin,omitempty"`
	Fetched    int       `json:"fetched"`
	Parsed     int       `json:"parsed"`
	Applied    bool      `json:"applied"`
	Error      string    `json:"error,omitempty"`
}

type appState struct {
	Status atomic.Value // RefreshStatus
}

var s appState

func SetStatus(st RefreshStatus) { s.Status.Store(st) }

// GetStatus returns the last published status; ok is false before the first
// cycle finished.
func GetStatus() (RefreshStatus, bool) {
	if v := s.Status.Load(); v != nil {
		if st, ok := v.(RefreshStatus); ok {
			return st, true
		}
	}
	return RefreshStatus{}, false
}
