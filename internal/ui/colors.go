// Package ui holds the terminal pieces of zbxreport: the input form, the
// progress view that streams job events, and result tables.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/SchiavonNathan/gerador-relatorio-zabbix/internal/availability"
)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
	ColorMuted   lipgloss.Color = "8" // Gray (bright black)
	ColorAccent  lipgloss.Color = "#0056b3"
)

// Status symbols
const (
	SymbolSuccess = "✓"
	SymbolFail    = "✗"
	SymbolSkipped = "⊘"
)

// DisableColors switches lipgloss to plain ASCII output (--no-color)
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// CategoryStyle colours an availability cell the way the PDF does
func CategoryStyle(cat availability.Category) lipgloss.Style {
	style := lipgloss.NewStyle()
	colors, ok := cat.Colors()
	if !ok {
		return style
	}
	return style.
		Foreground(lipgloss.Color(colors.Foreground)).
		Background(lipgloss.Color(colors.Background)).
		Bold(true)
}
