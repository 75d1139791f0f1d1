package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/availability"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(ColorMuted)
)

// RenderReportTable renders the host rows of a report with the
// availability column coloured by category.
func RenderReportTable(rep *models.Report) string {
	if rep.Empty() {
		return "No hosts with ping data"
	}

	rows := make([][]string, 0, len(rep.Hosts))
	cats := make([]availability.Category, 0, len(rep.Hosts))
	for _, h := range rep.Hosts {
		pct := availability.FormatPercentage(h.Availability)
		rows = append(rows, []string{
			h.Host,
			availability.DisplayIP(h.IP),
			pct,
			availability.FormatDowntime(h.DowntimeSeconds),
		})
		cats = append(cats, availability.ClassifyText(pct))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("HOST", "IP ADDRESS", "AVAILABILITY", "TOTAL DOWNTIME").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 2 && row >= 0 && row < len(cats) {
				return CategoryStyle(cats[row]).Padding(0, 1)
			}
			return cellStyle
		})

	return t.String()
}

// RenderRunsTable renders run history rows, newest first
func RenderRunsTable(runs []models.Run, now time.Time) string {
	if len(runs) == 0 {
		return "No runs recorded"
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.ID),
			humanize.RelTime(r.StartedAt, now, "ago", "from now"),
			r.Group,
			fmt.Sprintf("%dd", r.PeriodDays),
			humanize.Comma(int64(r.HostCount)),
			statusText(r.Status),
			r.Duration().Round(time.Millisecond).String(),
			runDetail(r),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("ID", "STARTED", "GROUP", "PERIOD", "HOSTS", "STATUS", "TOOK", "OUTPUT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 5 && row >= 0 && row < len(runs) {
				return cellStyle.Foreground(statusColor(runs[row].Status))
			}
			return cellStyle
		})

	return t.String()
}

// RenderRunDetail renders one run with its host rows
func RenderRunDetail(run *models.Run, now time.Time) string {
	var b strings.Builder
	label := lipgloss.NewStyle().Foreground(ColorMuted)

	fmt.Fprintf(&b, "%s %d\n", label.Render("Run"), run.ID)
	fmt.Fprintf(&b, "%s %s (%s)\n", label.Render("Started"),
		run.StartedAt.Format("2006-01-02 15:04:05"), humanize.RelTime(run.StartedAt, now, "ago", "from now"))
	fmt.Fprintf(&b, "%s %s\n", label.Render("Server"), run.Server)
	fmt.Fprintf(&b, "%s %s, last %d days\n", label.Render("Group"), run.Group, run.PeriodDays)
	fmt.Fprintf(&b, "%s %s\n", label.Render("Status"),
		lipgloss.NewStyle().Foreground(statusColor(run.Status)).Render(statusText(run.Status)))
	if run.ErrorMessage != "" {
		fmt.Fprintf(&b, "%s %s\n", label.Render("Error"), run.ErrorMessage)
	}
	if run.OutputPath != "" {
		fmt.Fprintf(&b, "%s %s\n", label.Render("Output"), run.OutputPath)
	}

	if len(run.Hosts) > 0 {
		b.WriteString("\n")
		b.WriteString(RenderReportTable(&models.Report{Hosts: run.Hosts}))
	}
	return b.String()
}

func runDetail(r models.Run) string {
	if r.ErrorMessage != "" {
		return r.ErrorMessage
	}
	return r.OutputPath
}

func statusText(status string) string {
	switch status {
	case models.RunSucceeded:
		return SymbolSuccess + " " + status
	case models.RunFailed:
		return SymbolFail + " " + status
	case models.RunCancelled:
		return SymbolSkipped + " " + status
	default:
		return status
	}
}

func statusColor(status string) lipgloss.Color {
	switch status {
	case models.RunSucceeded:
		return ColorSuccess
	case models.RunFailed:
		return ColorError
	default:
		return ColorWarning
	}
}
