package models

import "time"

// HostAvailability is one row of an availability report
type HostAvailability struct {
	Host            string  `json:"host"`
	IP              string  `json:"ip"` // empty when the host has no interface
	Availability    float64 `json:"availability"`     // percentage
	DowntimeSeconds int64   `json:"downtime_seconds"` // total within the period
	PeriodDays      int     `json:"period_days"`
}

// Report holds the rows collected for one report run, in API order
type Report struct {
	Group       string             `json:"group"`
	PeriodDays  int                `json:"period_days"`
	From        time.Time          `json:"from"`
	Till        time.Time          `json:"till"`
	GeneratedAt time.Time          `json:"generated_at"`
	Hosts       []HostAvailability `json:"hosts"`
}

// Empty reports whether the report has no host rows
func (r *Report) Empty() bool {
	return r == nil || len(r.Hosts) == 0
}
