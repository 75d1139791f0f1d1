package report

import (
	"strconv"
	"strings"
)

// sanitizeFilename replaces dots and special characters for safe filenames
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		".", "_",
		":", "_",
		"/", "_",
		"\\", "_",
		" ", "_",
	)
	return replacer.Replace(strings.TrimSpace(s))
}

// DefaultFilename suggests the PDF name for a host group
func DefaultFilename(group string) string {
	name := sanitizeFilename(group)
	if name == "" {
		name = "report"
	}
	return name + "_availability.pdf"
}

// rgb is a colour as fpdf takes it
type rgb struct {
	R, G, B int
}

// hexRGB parses "#RRGGBB" or "#RGB". Invalid input yields black.
func hexRGB(hex string) rgb {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return rgb{}
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return rgb{}
	}
	return rgb{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}
}

// truncate shortens s to n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
