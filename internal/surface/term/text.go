package term

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

const ellipsis = "…"

// Truncate shortens s to at most width terminal columns, ending it with an
// ellipsis when anything was cut. Grapheme clusters are never split.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}

	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width-1 {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	b.WriteString(ellipsis)
	return b.String()
}

// Pad truncates or right-pads s to exactly width columns.
func Pad(s string, width int) string {
	s = Truncate(s, width)
	if w := uniseg.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// drawText writes s at (x, y) and returns the number of columns used.
// Clusters that would cross maxWidth are dropped.
func drawText(t *Terminal, x, y, maxWidth int, s string, style tcell.Style) int {
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > maxWidth {
			break
		}
		t.SetCluster(x+used, y, g.Runes(), style)
		used += w
	}
	return used
}
