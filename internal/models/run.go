package models

import "time"

// Run statuses
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
	RunCancelled = "cancelled"
)

// Run records one report generation in the history database
type Run struct {
	ID           int64              `json:"id"`
	StartedAt    time.Time          `json:"started_at"`
	FinishedAt   time.Time          `json:"finished_at"`
	Server       string             `json:"server"`
	Group        string             `json:"group"`
	PeriodDays   int                `json:"period_days"`
	HostCount    int                `json:"host_count"`
	OutputPath   string             `json:"output_path"`
	Status       string             `json:"status"`
	ErrorMessage string             `json:"error_message,omitempty"`
	Hosts        []HostAvailability `json:"hosts,omitempty"`
}

// Duration returns how long the run took
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
