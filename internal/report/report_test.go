package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/logging"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/models"
)

func sampleReport(n int) *models.Report {
	generated := time.Date(2024, 5, 2, 14, 30, 5, 0, time.UTC)
	rep := &models.Report{
		Group:       "Routers",
		PeriodDays:  30,
		From:        generated.AddDate(0, 0, -30),
		Till:        generated,
		GeneratedAt: generated,
	}
	pcts := []float64{100, 99.5, 95, 99.95}
	for i := 0; i < n; i++ {
		pct := pcts[i%len(pcts)]
		rep.Hosts = append(rep.Hosts, models.HostAvailability{
			Host:            "São Paulo edge " + strings.Repeat("x", i%5),
			IP:              "10.0.0.1",
			Availability:    pct,
			DowntimeSeconds: int64((100 - pct) / 100 * 30 * 86400),
			PeriodDays:      30,
		})
	}
	return rep
}

func TestRenderProducesPDF(t *testing.T) {
	g := NewGenerator(WithLogger(logging.Discard()))

	var buf bytes.Buffer
	require.NoError(t, g.Render(&buf, sampleReport(4)))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestRenderManyHostsSpansPages(t *testing.T) {
	g := NewGenerator(WithLogger(logging.Discard()), WithChart(false))

	var buf bytes.Buffer
	require.NoError(t, g.Render(&buf, sampleReport(120)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.GreaterOrEqual(t, bytes.Count(buf.Bytes(), []byte("/Type /Page\n")), 3)
}

func TestRenderEmptyReport(t *testing.T) {
	g := NewGenerator(WithLogger(logging.Discard()), WithTitle("Custom"))

	var buf bytes.Buffer
	require.NoError(t, g.Render(&buf, &models.Report{Group: "Nothing"}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRenderNilReport(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, NewGenerator().Render(&buf, nil))
}

func TestAvailabilityChart(t *testing.T) {
	png, ratio, err := availabilityChart(sampleReport(3))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
	assert.InDelta(t, 0.5, ratio, 0.01)

	_, _, err = availabilityChart(&models.Report{})
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSummary("").Render(&buf, sampleReport(3)))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, DefaultTitle))
	assert.Contains(t, out, "Host group: Routers")
	assert.Contains(t, out, "Availability: 100.000% (healthy)")
	assert.Contains(t, out, "Availability: 95.000% (critical)")
	assert.Contains(t, out, "Total Downtime: N/A")
	assert.Contains(t, out, "Critical: 1")
	assert.Contains(t, out, "Lowest availability: São Paulo edge xx (95.000%)")
}

func TestSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSummary("T").Render(&buf, &models.Report{Group: "g", PeriodDays: 7}))
	assert.Contains(t, buf.String(), "No hosts with ping data.")
}

func TestDefaultFilename(t *testing.T) {
	assert.Equal(t, "Linux_servers_availability.pdf", DefaultFilename("Linux servers"))
	assert.Equal(t, "a_b_c_availability.pdf", DefaultFilename("a/b:c"))
	assert.Equal(t, "report_availability.pdf", DefaultFilename("  "))
}

func TestHexRGB(t *testing.T) {
	assert.Equal(t, rgb{0, 86, 179}, hexRGB("#0056b3"))
	assert.Equal(t, rgb{221, 221, 221}, hexRGB("#ddd"))
	assert.Equal(t, rgb{}, hexRGB("nope"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
}

func TestIPTextIsTranslated(t *testing.T) {
	tr := fpdf.New("P", "mm", "A4", "").UnicodeTranslatorFromDescriptor("")

	assert.Equal(t, "10.0.0.1", ipText(tr, "10.0.0.1"))
	assert.Equal(t, "N/A", ipText(tr, ""))
	assert.Equal(t, "caf\xe9.lan", ipText(tr, "café.lan"))
}
