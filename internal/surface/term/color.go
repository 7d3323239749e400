package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/effectlab/internal/notify"
)

// Palette is the set of colours the renderer draws with.
type Palette struct {
	Background colorful.Color
	Foreground colorful.Color
	Fallback   colorful.Color
	Muted      colorful.Color
	Info       colorful.Color
	Success    colorful.Color
	Warning    colorful.Color
}

// DefaultPalette is a dark theme.
func DefaultPalette() Palette {
	return Palette{
		Background: mustHex("#111827"),
		Foreground: mustHex("#f9fafb"),
		Fallback:   mustHex("#64748b"),
		Muted:      mustHex("#6b7280"),
		Info:       mustHex("#60a5fa"),
		Success:    mustHex("#4ade80"),
		Warning:    mustHex("#fbbf24"),
	}
}

// Severity returns the colour for a notification severity.
func (p Palette) Severity(s notify.Severity) colorful.Color {
	switch s {
	case notify.SeveritySuccess:
		return p.Success
	case notify.SeverityWarning:
		return p.Warning
	case notify.SeverityMuted:
		return p.Muted
	default:
		return p.Info
	}
}

// ParseColor parses a hex colour, returning fallback when s is not valid.
func ParseColor(s string, fallback colorful.Color) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	return c
}

// Blend mixes fg over bg at the given opacity, clamped to [0, 1].
func Blend(fg, bg colorful.Color, opacity float64) colorful.Color {
	switch {
	case opacity <= 0:
		return bg
	case opacity >= 1:
		return fg
	}
	return bg.BlendRgb(fg, opacity).Clamped()
}

// Readable picks black or white text for the given background.
func Readable(bg colorful.Color) colorful.Color {
	_, _, l := bg.Hsl()
	if l > 0.6 {
		return colorful.Color{}
	}
	return colorful.Color{R: 1, G: 1, B: 1}
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
