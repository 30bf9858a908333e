package db

import "time"

// RefreshRun records one fetch → normalize → patch cycle.
type RefreshRun struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RunID      string    `gorm:"uniqueIndex;size:36" json:"run_id"`
	Origin     string    `gorm:"size:16" json:"origin"`
	Fetched    int       `json:"fetched"`
	Parsed     int       `json:"parsed"`
	Applied    bool      `json:"applied"`
	Error      string    `gorm:"size:1024" json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// BlockedVisit is a request that reached the local warning page.
type BlockedVisit struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Host       string    `gorm:"index;size:255" json:"host"`
	Path       string    `gorm:"size:1024" json:"path"`
	RemoteAddr string    `gorm:"size:64" json:"remote_addr"`
	CreatedAt  time.Time `json:"created_at"`
}
