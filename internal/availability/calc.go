// Package availability turns Zabbix ping trends into per-host uptime figures.
package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/zabbix"
)

const (
	secondsPerDay  = 24 * 3600
	secondsPerHour = 3600

	// NoDowntime is shown instead of a duration when a host never went down.
	NoDowntime = "N/A"
)

// Category buckets an availability percentage for display
type Category int

const (
	Unknown Category = iota
	Critical
	Warning
	Healthy
)

// Thresholds between categories, in percent
const (
	CriticalBelow = 98.0
	WarningBelow  = 99.9
)

// Colors holds hex background and foreground colours for a category
type Colors struct {
	Background string
	Foreground string
}

var categoryColors = map[Category]Colors{
	Critical: {Background: "#FFCDD2", Foreground: "#C62828"},
	Warning:  {Background: "#FFF9C4", Foreground: "#F9A825"},
	Healthy:  {Background: "#C8E6C9", Foreground: "#2E7D32"},
}

func (c Category) String() string {
	switch c {
	case Critical:
		return "critical"
	case Warning:
		return "warning"
	case Healthy:
		return "healthy"
	default:
		return "unknown"
	}
}

// Colors returns the display colours. ok is false for Unknown.
func (c Category) Colors() (Colors, bool) {
	colors, ok := categoryColors[c]
	return colors, ok
}

// Classify maps a percentage to its category
func Classify(pct float64) Category {
	switch {
	case pct < CriticalBelow:
		return Critical
	case pct < WarningBelow:
		return Warning
	default:
		return Healthy
	}
}

// ParsePercentage parses display strings such as "99.500%".
func ParsePercentage(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// ClassifyText classifies a display string; unparseable input is Unknown.
func ClassifyText(s string) Category {
	pct, err := ParsePercentage(s)
	if err != nil {
		return Unknown
	}
	return Classify(pct)
}

// FormatPercentage renders a percentage with three decimals
func FormatPercentage(pct float64) string {
	return fmt.Sprintf("%.3f%%", pct)
}

// Window is the reporting period
type Window struct {
	From time.Time
	Till time.Time
	Days int
}

// Period returns the window ending at now and spanning exactly days*24h,
// so it matches Seconds even across a DST change.
func Period(now time.Time, days int) Window {
	return Window{
		From: now.Add(-time.Duration(days) * 24 * time.Hour),
		Till: now,
		Days: days,
	}
}

// Seconds is the nominal length of the window
func (w Window) Seconds() int64 {
	return int64(w.Days) * secondsPerDay
}

// DowntimeSeconds counts hourly trends whose minimum was 0, i.e. hours in
// which at least one ping failed, and converts them to seconds. Rows whose
// value cannot be parsed are ignored. The result never exceeds
// periodSeconds.
func DowntimeSeconds(trends []zabbix.Trend, periodSeconds int64) int64 {
	var hours int64
	for _, t := range trends {
		v, err := t.Min()
		if err != nil {
			continue
		}
		if v == 0 {
			hours++
		}
	}

	downtime := hours * secondsPerHour
	if periodSeconds > 0 && downtime > periodSeconds {
		downtime = periodSeconds
	}
	return downtime
}

// Percentage returns 100 * (1 - downtime/period)
func Percentage(downtimeSeconds, periodSeconds int64) float64 {
	if periodSeconds <= 0 {
		return 0
	}
	return 100 * (1 - float64(downtimeSeconds)/float64(periodSeconds))
}

// FormatDowntime renders seconds as "1d 2h 3m". Zero renders as NoDowntime
// and anything under a minute as "< 1m".
func FormatDowntime(seconds int64) string {
	if seconds <= 0 {
		return NoDowntime
	}

	days := seconds / secondsPerDay
	rem := seconds % secondsPerDay
	hours := rem / secondsPerHour
	rem %= secondsPerHour
	minutes := rem / 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}

	if len(parts) == 0 {
		return "< 1m"
	}
	return strings.Join(parts, " ")
}
