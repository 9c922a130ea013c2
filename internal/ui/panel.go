package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tripmap/internal/render"
)

// Truncate shortens s to at most width terminal cells, ending with "...".
// Wide runes are never split.
func Truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	limit := width - 3
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if w+rw > limit {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String() + "..."
}

// PageBar renders page-number controls, the current page bracketed.
func PageBar(pages []render.PageControl) string {
	if len(pages) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if p.Current {
			parts = append(parts, C(current.Accent, fmt.Sprintf("[%d]", p.Number)))
			continue
		}
		parts = append(parts, C(current.Muted, fmt.Sprintf(" %d ", p.Number)))
	}
	return strings.Join(parts, "")
}

// PanelString frames lines in a box using the current theme.
func PanelString(lines []string) string {
	t := Current()
	// lines may be multi-line blocks (the map)
	var rows []string
	for _, ln := range lines {
		rows = append(rows, strings.Split(ln, "\n")...)
	}
	maxw := 0
	for _, ln := range rows {
		if w := lipgloss.Width(ln); w > maxw {
			maxw = w
		}
	}
	pad := func(s string) string {
		if vis := lipgloss.Width(s); vis < maxw {
			s += strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	var b strings.Builder
	b.WriteString(t.CornerTL + strings.Repeat(t.H, maxw+2) + t.CornerTR + "\n")
	for _, ln := range rows {
		b.WriteString(t.V + " " + pad(ln) + " " + t.V + "\n")
	}
	b.WriteString(t.CornerBL + strings.Repeat(t.H, maxw+2) + t.CornerBR)
	return b.String()
}

// Panel prints a framed box.
func Panel(lines []string) { fmt.Println(PanelString(lines)) }
