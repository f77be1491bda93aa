package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// CheckRun is the operational record of one scrape cycle. Written to SQLite
// best-effort so a human can see what the daemon has been doing.
type CheckRun struct {
	ID             string     `json:"id" db:"id"`
	StartedAt      time.Time  `json:"started_at" db:"started_at"`
	FinishedAt     *time.Time `json:"finished_at" db:"finished_at"`
	Status         RunStatus  `json:"status" db:"status"`
	ListingsFound  int        `json:"listings_found" db:"listings_found"`
	ListingsNew    int        `json:"listings_new" db:"listings_new"`
	SkippedInvalid int        `json:"skipped_invalid" db:"skipped_invalid"`
	Notified       int        `json:"notified" db:"notified"`
	Error          string     `json:"error" db:"error"`
}
