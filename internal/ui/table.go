package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column defines a table column with title and minimum width.
type Column struct {
	Title string
	Width int
}

// RenderTable renders a non-interactive left-aligned table string for CLI
// output. Column widths grow to fit content.
func RenderTable(columns []Column, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = max(c.Width, len(c.Title))
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	headerStyle := lipgloss.NewStyle()
	if ColorsEnabled() {
		headerStyle = headerStyle.Bold(true).Foreground(ColorPrimary)
	}

	var b strings.Builder
	for i, c := range columns {
		b.WriteString(headerStyle.Render(pad(c.Title, widths[i])))
		if i < len(columns)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i, cell := range row {
			b.WriteString(pad(cell, widths[i]))
			if i < len(row)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// pad right-pads s with spaces to the rendered width w, styling-aware.
func pad(s string, w int) string {
	gap := w - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// FormatSignal renders an optional signal percentage.
func FormatSignal(pct *int) string {
	if pct == nil {
		return "-"
	}
	return fmt.Sprintf("%d%%", *pct)
}
