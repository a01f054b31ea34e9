package ui

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

// visibleWidth is the terminal cell width of s with color codes removed.
func visibleWidth(s string) int { return runewidth.StringWidth(stripANSI(s)) }

// Panel draws lines in a framed box using t's borders.
func Panel(w io.Writer, t Theme, lines []string) {
	maxw := 0
	for _, ln := range lines {
		if vw := visibleWidth(ln); vw > maxw {
			maxw = vw
		}
	}
	pad := func(s string) string {
		if vis := visibleWidth(s); vis < maxw {
			s = s + strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	fmt.Fprintln(w, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for _, ln := range lines {
		fmt.Fprintln(w, t.V+" "+pad(ln)+" "+t.V)
	}
	fmt.Fprintln(w, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}
