package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/availability"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/models"
)

// Summary renders the report as plain text
type Summary struct {
	title string
}

// NewSummary creates a plain-text renderer
func NewSummary(title string) *Summary {
	if title == "" {
		title = DefaultTitle
	}
	return &Summary{title: title}
}

// Render writes the text summary to w
func (s *Summary) Render(w io.Writer, rep *models.Report) error {
	if rep == nil {
		return fmt.Errorf("nil report")
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, s.title)
	fmt.Fprintf(bw, "Host group: %s\n", rep.Group)
	fmt.Fprintf(bw, "Generated: %s\n", rep.GeneratedAt.Format("2006-01-02 15:04:05"))
	if !rep.From.IsZero() {
		fmt.Fprintf(bw, "Period: Last %d days (%s to %s)\n\n", rep.PeriodDays,
			rep.From.Format("2006-01-02 15:04"), rep.Till.Format("2006-01-02 15:04"))
	} else {
		fmt.Fprintf(bw, "Period: Last %d days\n\n", rep.PeriodDays)
	}
	fmt.Fprintln(bw, strings.Repeat("=", 60))

	counts := make(map[availability.Category]int)
	var worst *models.HostAvailability

	fmt.Fprintln(bw, "\nHOSTS")
	for i := range rep.Hosts {
		h := &rep.Hosts[i]
		cat := availability.Classify(h.Availability)
		counts[cat]++
		if worst == nil || h.Availability < worst.Availability {
			worst = h
		}

		fmt.Fprintf(bw, "Host: %s\n", h.Host)
		fmt.Fprintf(bw, "  IP Address: %s\n", availability.DisplayIP(h.IP))
		fmt.Fprintf(bw, "  Availability: %s (%s)\n", availability.FormatPercentage(h.Availability), cat)
		fmt.Fprintf(bw, "  Total Downtime: %s\n", availability.FormatDowntime(h.DowntimeSeconds))
		fmt.Fprintln(bw)
	}

	fmt.Fprintln(bw, strings.Repeat("=", 60))
	fmt.Fprintln(bw, "\nOVERALL")
	fmt.Fprintf(bw, "Hosts: %d\n", len(rep.Hosts))
	fmt.Fprintf(bw, "  Healthy: %d\n", counts[availability.Healthy])
	fmt.Fprintf(bw, "  Warning: %d\n", counts[availability.Warning])
	fmt.Fprintf(bw, "  Critical: %d\n", counts[availability.Critical])
	if worst != nil {
		fmt.Fprintf(bw, "Lowest availability: %s (%s)\n", worst.Host, availability.FormatPercentage(worst.Availability))
	} else {
		fmt.Fprintln(bw, "No hosts with ping data.")
	}

	return bw.Flush()
}
