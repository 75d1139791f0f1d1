package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/availability"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/models"
)

const (
	chartBarWidth   = 30
	chartBarSpacing = 12
	chartMinWidth   = 800
	chartMaxWidth   = 4000
	chartHeight     = 400
	chartLabelLen   = 14
)

// availabilityChart renders one bar per host, coloured by category, as a
// PNG. ratio is height divided by width.
func availabilityChart(rep *models.Report) (png []byte, ratio float64, err error) {
	if rep.Empty() {
		return nil, 0, fmt.Errorf("no hosts to chart")
	}

	var values []chart.Value
	for _, h := range rep.Hosts {
		colors, _ := availability.Classify(h.Availability).Colors()
		values = append(values, chart.Value{
			Label: truncate(h.Host, chartLabelLen),
			Value: h.Availability,
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex(strings.TrimPrefix(colors.Foreground, "#")),
				StrokeColor: drawing.ColorFromHex(strings.TrimPrefix(colors.Foreground, "#")),
				StrokeWidth: 1,
			},
		})
	}

	width := 120 + len(values)*(chartBarWidth+chartBarSpacing)
	if width < chartMinWidth {
		width = chartMinWidth
	}
	if width > chartMaxWidth {
		width = chartMaxWidth
	}

	graph := chart.BarChart{
		Title: "Availability by Host (%)",
		TitleStyle: chart.Style{
			FontSize: 16,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:      width,
		Height:     chartHeight,
		BarWidth:   chartBarWidth,
		BarSpacing: chartBarSpacing,
		XAxis: chart.Style{
			FontSize: 8,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				StrokeColor: drawing.ColorBlack,
				FontSize:    10,
			},
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: 100,
			},
			GridMajorStyle: chart.Style{
				StrokeColor: drawing.Color{R: 200, G: 200, B: 200, A: 255},
				StrokeWidth: 1.0,
			},
		},
		Bars: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), float64(chartHeight) / float64(width), nil
}
