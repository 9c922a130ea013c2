package ui

import "strings"

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending string
	SymItem, SymPicked                            string
	CornerTL, CornerTR, CornerBL, CornerBR        string
	H, V                                          string
	// Marker is the lipgloss color of map markers.
	Marker string
	// NoColor turns escape codes off while the theme is active.
	NoColor bool
}

var current Theme

func init() { SetTheme("classic") }

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Pending: "\033[93m",
			SymItem: "◇", SymPicked: "◆",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			Marker: "13",
		}
	case "mono":
		current = Theme{
			Title: "", Muted: "", Accent: "", Success: "", Error: "", Pending: "",
			SymItem: "-", SymPicked: "*",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			Marker:  "",
			NoColor: true,
		}
	default: // classic
		current = Theme{
			Title: bold, Muted: fgGray, Accent: fgBlue,
			Success: fgGreen, Error: fgRed, Pending: fgYellow,
			SymItem: "•", SymPicked: "●",
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			Marker: "12",
		}
	}
}

// Expose what renderers need
func Current() Theme { return current }
