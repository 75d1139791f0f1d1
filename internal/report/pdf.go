// Package report renders availability reports as PDF and plain text.
package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/sirupsen/logrus"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/availability"
	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/models"
)

// DefaultTitle heads the report
const DefaultTitle = "Asset Availability Report"

// Page layout in millimetres
const (
	margin      = 20.0
	rowHeight   = 8.0
	headerLineW = 0.7 // about 2pt
	fontFamily  = "Arial"
)

var (
	colorPrimary  = hexRGB("#0056b3")
	colorText     = hexRGB("#333333")
	colorMuted    = hexRGB("#888888")
	colorBorder   = hexRGB("#dddddd")
	colorAltRow   = hexRGB("#f2f2f2")
	colorHeaderFg = hexRGB("#ffffff")
)

var tableHeaders = []string{"Host", "IP Address", "Availability", "Total Downtime"}

// Generator renders the PDF report
type Generator struct {
	title  string
	chart  bool
	logger *logrus.Logger
}

// Option configures a Generator
type Option func(*Generator)

// WithTitle overrides the report title
func WithTitle(title string) Option {
	return func(g *Generator) {
		if title != "" {
			g.title = title
		}
	}
}

// WithChart toggles the availability chart after the table
func WithChart(enabled bool) Option {
	return func(g *Generator) {
		g.chart = enabled
	}
}

// WithLogger sets the logger
func WithLogger(logger *logrus.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a new PDF generator
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		title:  DefaultTitle,
		chart:  true,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Render writes the report as a PDF document to w
func (g *Generator) Render(w io.Writer, rep *models.Report) error {
	if rep == nil {
		return fmt.Errorf("nil report")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "", 10)
		pdf.SetTextColor(colorMuted.R, colorMuted.G, colorMuted.B)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	g.writeHeader(pdf, tr, rep)
	g.writeTable(pdf, tr, rep)

	if g.chart && !rep.Empty() {
		if err := g.writeChart(pdf, rep); err != nil {
			g.logger.Warnf("Failed to generate availability chart: %v", err)
		}
	}

	pdf.Ln(6)
	pdf.SetFont(fontFamily, "I", 9)
	pdf.SetTextColor(colorMuted.R, colorMuted.G, colorMuted.B)
	pdf.CellFormat(0, 6, "Report generated automatically.", "", 1, "L", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("pdf build failed: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("pdf output failed: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (g *Generator) writeHeader(pdf *fpdf.Fpdf, tr func(string) string, rep *models.Report) {
	pdf.SetFont(fontFamily, "B", 20)
	pdf.SetTextColor(colorPrimary.R, colorPrimary.G, colorPrimary.B)
	pdf.CellFormat(0, 12, tr(g.title), "", 1, "C", false, 0, "")

	period := "N/A"
	if !rep.Empty() && rep.PeriodDays > 0 {
		period = fmt.Sprintf("last %d days", rep.PeriodDays)
	}

	pdf.SetFont(fontFamily, "", 11)
	pdf.SetTextColor(colorText.R, colorText.G, colorText.B)
	if rep.Group != "" {
		pdf.CellFormat(0, 6, tr("Host group: "+rep.Group), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 6, "Period analysed: "+period, "", 1, "C", false, 0, "")

	generated := rep.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	pdf.SetFont(fontFamily, "", 9)
	pdf.SetTextColor(colorMuted.R, colorMuted.G, colorMuted.B)
	pdf.CellFormat(0, 6, "Generated on: "+generated.Format("02/01/2006 at 15:04:05"), "", 1, "C", false, 0, "")

	pdf.Ln(2)
	pageW, _ := pdf.GetPageSize()
	y := pdf.GetY()
	pdf.SetDrawColor(colorPrimary.R, colorPrimary.G, colorPrimary.B)
	pdf.SetLineWidth(headerLineW)
	pdf.Line(margin, y, pageW-margin, y)
	pdf.SetLineWidth(0.2)
	pdf.Ln(8)
}

// columnWidths gives the host column half the width and splits the rest
func columnWidths(pdf *fpdf.Fpdf) []float64 {
	pageW, _ := pdf.GetPageSize()
	usable := pageW - 2*margin
	rest := usable / 2 / 3
	return []float64{usable / 2, rest, rest, rest}
}

func (g *Generator) writeTableHeader(pdf *fpdf.Fpdf, widths []float64) {
	pdf.SetFont(fontFamily, "B", 10)
	pdf.SetFillColor(colorPrimary.R, colorPrimary.G, colorPrimary.B)
	pdf.SetTextColor(colorHeaderFg.R, colorHeaderFg.G, colorHeaderFg.B)
	pdf.SetDrawColor(colorBorder.R, colorBorder.G, colorBorder.B)
	for i, h := range tableHeaders {
		align := "C"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], rowHeight, h, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
}

// ipText is the address cell text. It may be a DNS name, so it goes
// through the code page translator like the host name.
func ipText(tr func(string) string, ip string) string {
	return tr(truncate(availability.DisplayIP(ip), 40))
}

func (g *Generator) writeTable(pdf *fpdf.Fpdf, tr func(string) string, rep *models.Report) {
	widths := columnWidths(pdf)
	_, pageH := pdf.GetPageSize()

	g.writeTableHeader(pdf, widths)

	for i, h := range rep.Hosts {
		if pdf.GetY()+rowHeight > pageH-margin {
			pdf.AddPage()
			g.writeTableHeader(pdf, widths)
		}

		pdf.SetFont(fontFamily, "", 9)
		pdf.SetDrawColor(colorBorder.R, colorBorder.G, colorBorder.B)
		pdf.SetTextColor(colorText.R, colorText.G, colorText.B)

		fill := i%2 == 1
		if fill {
			pdf.SetFillColor(colorAltRow.R, colorAltRow.G, colorAltRow.B)
		}

		pdf.CellFormat(widths[0], rowHeight, tr(truncate(h.Host, 60)), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[1], rowHeight, ipText(tr, h.IP), "1", 0, "C", fill, 0, "")

		pct := availability.FormatPercentage(h.Availability)
		if colors, ok := availability.ClassifyText(pct).Colors(); ok {
			bg, fg := hexRGB(colors.Background), hexRGB(colors.Foreground)
			pdf.SetFillColor(bg.R, bg.G, bg.B)
			pdf.SetTextColor(fg.R, fg.G, fg.B)
			pdf.SetFont(fontFamily, "B", 9)
			pdf.CellFormat(widths[2], rowHeight, pct, "1", 0, "C", true, 0, "")
			pdf.SetFont(fontFamily, "", 9)
			pdf.SetTextColor(colorText.R, colorText.G, colorText.B)
			pdf.SetFillColor(colorAltRow.R, colorAltRow.G, colorAltRow.B)
		} else {
			pdf.CellFormat(widths[2], rowHeight, pct, "1", 0, "C", fill, 0, "")
		}

		pdf.CellFormat(widths[3], rowHeight, availability.FormatDowntime(h.DowntimeSeconds), "1", 1, "C", fill, 0, "")
	}
}

func (g *Generator) writeChart(pdf *fpdf.Fpdf, rep *models.Report) error {
	png, ratio, err := availabilityChart(rep)
	if err != nil {
		return err
	}

	pageW, pageH := pdf.GetPageSize()
	w := pageW - 2*margin
	h := w * ratio

	pdf.Ln(8)
	if pdf.GetY()+h > pageH-margin {
		pdf.AddPage()
	}

	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("availability", opts, bytes.NewReader(png))
	if err := pdf.Error(); err != nil {
		return err
	}
	pdf.ImageOptions("availability", margin, pdf.GetY(), w, h, true, opts, 0, "")
	return nil
}
