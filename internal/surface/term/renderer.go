package term

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/effectlab/internal/anim"
	"github.com/dshills/effectlab/internal/notify"
	"github.com/dshills/effectlab/internal/surface"
)

// Scene units per terminal cell.
const (
	PixelsPerColumn = 8
	PixelsPerRow    = 16
)

const (
	sceneMarginX = 2
	sceneMarginY = 2
	minPanelSize = 60
	markerRune   = '◆'
	dividerRune  = '│'
)

// HelpText lists the keyboard controls.
const HelpText = "1/2/3 fade  i/o in/out  u/d/t slide  h/l move  m marker  c chain  g grouped  +/- duration  e easing  s stop  r restore  q quit"

// EngineView is the engine state the renderer reads.
type EngineView interface {
	State() anim.RunState
	Config() *anim.Config
}

// Renderer draws one frame at a time.
type Renderer struct {
	term    *Terminal
	scene   *surface.Scene
	ring    *notify.Ring
	engine  EngineView
	palette Palette
	title   cases.Caser
}

// NewRenderer creates a renderer. ring may be nil to hide the activity panel.
func NewRenderer(t *Terminal, scene *surface.Scene, ring *notify.Ring, engine EngineView) *Renderer {
	return &Renderer{
		term:    t,
		scene:   scene,
		ring:    ring,
		engine:  engine,
		palette: DefaultPalette(),
		title:   cases.Title(language.English),
	}
}

// SetPalette replaces the colour palette.
func (r *Renderer) SetPalette(p Palette) {
	r.palette = p
}

// Layout is the screen split used by a frame.
type Layout struct {
	SceneWidth int
	PanelX     int
	PanelWidth int
	BarY       int
	HelpY      int
}

// ComputeLayout splits a width x height screen.
func ComputeLayout(width, height int) Layout {
	l := Layout{
		SceneWidth: width,
		PanelX:     width,
		BarY:       height - 1,
		HelpY:      -1,
	}
	if width >= minPanelSize {
		l.PanelWidth = min(44, width/3)
		l.PanelX = width - l.PanelWidth
		l.SceneWidth = l.PanelX
	}
	if height >= 8 {
		l.HelpY = height - 2
	}
	return l
}

// Render draws a full frame and shows it.
func (r *Renderer) Render() {
	width, height := r.term.Size()
	if width <= 0 || height <= 0 {
		return
	}
	layout := ComputeLayout(width, height)

	base := tcell.StyleDefault.
		Background(toTcell(r.palette.Background)).
		Foreground(toTcell(r.palette.Foreground))
	r.term.Fill(0, 0, width, height, ' ', base)

	drawText(r.term, sceneMarginX, 0, layout.SceneWidth-sceneMarginX, "effectlab", base.Bold(true))

	sceneBottom := layout.BarY
	if layout.HelpY >= 0 {
		sceneBottom = layout.HelpY
	}
	for _, el := range r.scene.Elements() {
		r.drawElement(el, layout.SceneWidth, sceneBottom)
	}

	if layout.PanelWidth > 0 && r.ring != nil {
		r.drawActivity(layout, sceneBottom)
	}
	if layout.HelpY >= 0 {
		muted := base.Foreground(toTcell(r.palette.Muted))
		drawText(r.term, 1, layout.HelpY, width-1, HelpText, muted)
	}
	r.drawControls(layout, width)

	r.term.Show()
}

// ElementRect converts an element's sampled geometry to cells relative to
// the scene origin. Rows round up so a partly open slide stays visible.
func ElementRect(el surface.ElementView) (x, y, w, h int) {
	x = int(math.Round((el.X + el.Left + el.TranslateX) / PixelsPerColumn))
	y = int(math.Round((el.Y + el.Top) / PixelsPerRow))
	w = int(math.Round(el.Width / PixelsPerColumn))
	h = int(math.Ceil(el.Height / PixelsPerRow))
	return x, y, w, h
}

func (r *Renderer) drawElement(el surface.ElementView, sceneWidth, sceneBottom int) {
	if !el.Visible || el.Opacity <= 0 || el.Height <= 0 {
		return
	}
	x, y, w, h := ElementRect(el)
	x += sceneMarginX
	y += sceneMarginY
	if w <= 0 || h <= 0 {
		return
	}

	// Clip to the scene area.
	if x < 0 {
		w += x
		x = 0
	}
	if x+w > sceneWidth {
		w = sceneWidth - x
	}
	if y+h > sceneBottom {
		h = sceneBottom - y
	}
	if w <= 0 || h <= 0 {
		return
	}

	fill := Blend(ParseColor(el.Color, r.palette.Fallback), r.palette.Background, el.Opacity)
	text := Blend(Readable(fill), fill, el.Opacity)
	style := tcell.StyleDefault.Background(toTcell(fill)).Foreground(toTcell(text))
	r.term.Fill(x, y, w, h, ' ', style)

	label := el.Label
	if label == "" {
		label = el.ID
	}
	label = Truncate(label, w)
	drawText(r.term, x+(w-uniseg.StringWidth(label))/2, y+h/2, w, label, style)

	if el.Marker {
		r.term.SetCell(x, y, markerRune, style.Foreground(toTcell(r.palette.Warning)).Bold(true))
	}
}

func (r *Renderer) drawActivity(layout Layout, bottom int) {
	base := tcell.StyleDefault.Background(toTcell(r.palette.Background))
	divider := base.Foreground(toTcell(r.palette.Muted))
	for y := range bottom {
		r.term.SetCell(layout.PanelX, y, dividerRune, divider)
	}

	x := layout.PanelX + 2
	width := layout.PanelWidth - 3
	drawText(r.term, x, 0, width, "Activity", base.Foreground(toTcell(r.palette.Foreground)).Bold(true))

	entries := r.ring.Entries()
	row := 1
	for i := len(entries) - 1; i >= 0 && row < bottom; i-- {
		n := entries[i]
		line := n.Time.Format(time.TimeOnly) + " " + n.Text
		drawText(r.term, x, row, width, Truncate(line, width), base.Foreground(toTcell(r.palette.Severity(n.Severity))))
		row++
	}
}

// ControlsText formats the controls bar.
func (r *Renderer) ControlsText() string {
	snap := r.engine.Config().Get()
	state := r.engine.State()
	parts := []string{
		fmt.Sprintf("Duration %dms", snap.Duration.Milliseconds()),
		"Easing " + r.title.String(string(snap.Easing)),
		fmt.Sprintf("Running %d", state.RunningCount),
		fmt.Sprintf("Queue %d", state.QueueLen()),
		"Status " + state.Status,
	}
	return strings.Join(parts, "  │  ")
}

func (r *Renderer) drawControls(layout Layout, width int) {
	style := tcell.StyleDefault.
		Background(toTcell(r.palette.Foreground)).
		Foreground(toTcell(r.palette.Background))
	r.term.Fill(0, layout.BarY, width, 1, ' ', style)
	drawText(r.term, 1, layout.BarY, width-1, r.ControlsText(), style)
}
