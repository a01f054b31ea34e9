package ui

import "strings"

// Theme bundles palette + symbols + box borders.
type Theme struct {
	Title, Muted, Accent, Success, Error   string
	DeleteMark                             string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
}

// ThemeNamed returns the theme called name; unknown names get "classic".
// "mono" also turns color off.
func ThemeNamed(name string) Theme {
	switch strings.ToLower(name) {
	case "neon":
		return Theme{
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed,
			DeleteMark: "✖",
			CornerTL:   "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
		}
	case "mono":
		disableColor = true
		return Theme{
			DeleteMark: "x",
			CornerTL:   "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
		}
	default: // classic
		return Theme{
			Title: bold, Muted: fgGray, Accent: fgBlue,
			Success: fgGreen, Error: fgRed,
			DeleteMark: "✖",
			CornerTL:   "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
		}
	}
}
