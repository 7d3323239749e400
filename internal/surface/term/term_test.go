package term

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/effectlab/internal/anim"
	"github.com/dshills/effectlab/internal/notify"
	"github.com/dshills/effectlab/internal/surface"
	"github.com/dshills/effectlab/internal/testutil"
)

type fixture struct {
	term   *Terminal
	clock  *testutil.FakeClock
	scene  *surface.Scene
	ring   *notify.Ring
	engine *anim.Engine
	r      *Renderer
}

func newFixture(t *testing.T, width, height int) *fixture {
	t.Helper()

	tm, _, err := NewSimulationTerminal(width, height)
	if err != nil {
		t.Fatalf("NewSimulationTerminal: %v", err)
	}
	clock := testutil.NewFakeClock()
	scene := surface.NewScene(clock,
		surface.ElementSpec{ID: "box1", Label: "box 1", Color: "#ec4899", Width: 96, Height: 48, Opacity: 1, Visible: true},
		surface.ElementSpec{ID: "panelBox", Label: "panel", Color: "#22c55e", Y: 80, Width: 160, NaturalHeight: 72, Opacity: 1},
	)
	bus := notify.New(notify.WithNow(clock.Now))
	ring := notify.NewRing(50)
	bus.Subscribe(ring.Observe)
	e := anim.New(scene, anim.WithClock(clock), anim.WithNotifier(bus))

	t.Cleanup(func() {
		e.Close()
		bus.Close()
		tm.Shutdown()
	})

	return &fixture{
		term:   tm,
		clock:  clock,
		scene:  scene,
		ring:   ring,
		engine: e,
		r:      NewRenderer(tm, scene, ring, e),
	}
}

func (f *fixture) rowText(x, y, w int) string {
	var b strings.Builder
	for i := range w {
		r, _ := f.term.Cell(x+i, y)
		if r == 0 {
			r = ' '
		}
		b.WriteRune(r)
	}
	return b.String()
}

func background(t *testing.T, tm *Terminal, x, y int) tcell.Color {
	t.Helper()
	_, style := tm.Cell(x, y)
	_, bg, _ := style.Decompose()
	return bg
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 5, "hell…"},
		{"zero width", "hello", 0, ""},
		{"empty", "", 3, ""},
		{"wide runes", "日本語テキスト", 5, "日本…"},
		{"flag cluster", "🇯🇵🇯🇵", 3, "🇯🇵…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.width); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestPad(t *testing.T) {
	if got := Pad("ab", 4); got != "ab  " {
		t.Errorf("Pad short = %q", got)
	}
	if got := Pad("abcdef", 4); got != "abc…" {
		t.Errorf("Pad long = %q", got)
	}
}

func TestBlend(t *testing.T) {
	fg := colorful.Color{R: 1, G: 0, B: 0}
	bg := colorful.Color{R: 0, G: 0, B: 1}

	if got := Blend(fg, bg, 0); got != bg {
		t.Errorf("Blend(0) = %v, want background", got)
	}
	if got := Blend(fg, bg, 1.5); got != fg {
		t.Errorf("Blend(1.5) = %v, want foreground", got)
	}
	mid := Blend(fg, bg, 0.5)
	if mid.R < 0.49 || mid.R > 0.51 || mid.B < 0.49 || mid.B > 0.51 {
		t.Errorf("Blend(0.5) = %v, want midpoint", mid)
	}
}

func TestParseColor(t *testing.T) {
	fallback := colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	if got := ParseColor("not-a-colour", fallback); got != fallback {
		t.Errorf("ParseColor invalid = %v, want fallback", got)
	}
	got := ParseColor("#ff0000", fallback)
	if r, g, b := got.RGB255(); r != 255 || g != 0 || b != 0 {
		t.Errorf("ParseColor(#ff0000) = %d,%d,%d", r, g, b)
	}
}

func TestComputeLayout(t *testing.T) {
	wide := ComputeLayout(120, 30)
	if wide.PanelWidth != 40 || wide.PanelX != 80 || wide.SceneWidth != 80 {
		t.Errorf("wide layout = %+v", wide)
	}
	if wide.BarY != 29 || wide.HelpY != 28 {
		t.Errorf("wide rows = %+v", wide)
	}

	narrow := ComputeLayout(50, 6)
	if narrow.PanelWidth != 0 || narrow.SceneWidth != 50 {
		t.Errorf("narrow layout = %+v", narrow)
	}
	if narrow.HelpY != -1 {
		t.Errorf("narrow HelpY = %d, want -1", narrow.HelpY)
	}
}

func TestElementRect(t *testing.T) {
	el := surface.ElementView{
		ElementSpec: surface.ElementSpec{X: 128, Y: 176, Width: 96, Height: 72},
		TranslateX:  anim.MoveDistance,
	}
	x, y, w, h := ElementRect(el)
	if x != 26 || y != 11 || w != 12 || h != 5 {
		t.Errorf("ElementRect = %d,%d,%d,%d, want 26,11,12,5", x, y, w, h)
	}

	el.Height = 3
	if _, _, _, h := ElementRect(el); h != 1 {
		t.Errorf("partly open height = %d rows, want 1", h)
	}
}

func TestRenderElementOpacity(t *testing.T) {
	f := newFixture(t, 100, 30)
	f.engine.Config().Set(400*time.Millisecond, anim.EaseLinear)
	pal := DefaultPalette()
	color := ParseColor("#ec4899", pal.Fallback)

	f.r.Render()
	if got := background(t, f.term, sceneMarginX, sceneMarginY); got != toTcell(color) {
		t.Errorf("opaque background = %v, want %v", got, toTcell(color))
	}

	if _, err := f.engine.FadeOut(anim.Options{}); err != nil {
		t.Fatalf("FadeOut: %v", err)
	}
	f.clock.Advance(200 * time.Millisecond)
	f.r.Render()

	want := toTcell(Blend(color, pal.Background, f.scene.Value("box1", anim.PropOpacity)))
	if got := background(t, f.term, sceneMarginX, sceneMarginY); got != want {
		t.Errorf("mid-fade background = %v, want %v", got, want)
	}

	f.clock.Advance(300 * time.Millisecond)
	f.r.Render()
	if got := background(t, f.term, sceneMarginX, sceneMarginY); got != toTcell(pal.Background) {
		t.Errorf("faded-out element still drawn: %v", got)
	}
}

func TestRenderSkipsHiddenElements(t *testing.T) {
	f := newFixture(t, 100, 30)
	f.r.Render()

	pal := DefaultPalette()
	// panelBox starts hidden at row 5.
	if got := background(t, f.term, sceneMarginX, sceneMarginY+5); got != toTcell(pal.Background) {
		t.Errorf("hidden panel drawn with %v", got)
	}
}

func TestRenderLabelAndMarker(t *testing.T) {
	f := newFixture(t, 100, 30)
	f.r.Render()

	row := f.rowText(sceneMarginX, sceneMarginY+1, 12)
	if !strings.Contains(row, "box 1") {
		t.Errorf("label row = %q, want it to contain %q", row, "box 1")
	}

	if _, err := f.engine.ToggleMarker(anim.Options{}); err != nil {
		t.Fatalf("ToggleMarker: %v", err)
	}
	f.r.Render()
	if r, _ := f.term.Cell(sceneMarginX, sceneMarginY); r != markerRune {
		t.Errorf("marker cell = %q, want %q", r, markerRune)
	}
}

func TestRenderActivityPanel(t *testing.T) {
	f := newFixture(t, 120, 30)
	if _, err := f.engine.FadeOut(anim.Options{Target: "ghost"}); err != nil {
		t.Fatalf("FadeOut: %v", err)
	}
	f.r.Render()

	layout := ComputeLayout(120, 30)
	header := f.rowText(layout.PanelX+2, 0, 8)
	if header != "Activity" {
		t.Errorf("panel header = %q", header)
	}

	// Newest first.
	first := f.rowText(layout.PanelX+2, 1, layout.PanelWidth-3)
	if !strings.Contains(first, "target ghost not found") {
		t.Errorf("first activity row = %q", first)
	}

	var found bool
	for y := 1; y < layout.HelpY; y++ {
		if strings.Contains(f.rowText(layout.PanelX+2, y, layout.PanelWidth-3), "Animation engine ready") {
			found = true
		}
	}
	if !found {
		t.Error("ready notification not shown")
	}
}

func TestControlsText(t *testing.T) {
	f := newFixture(t, 120, 30)
	f.engine.Config().Set(250*time.Millisecond, anim.EaseInOut)

	got := f.r.ControlsText()
	for _, want := range []string{"Duration 250ms", "Easing Ease-In-Out", "Running 0", "Queue 0", "Status Idle"} {
		if !strings.Contains(got, want) {
			t.Errorf("ControlsText() = %q, missing %q", got, want)
		}
	}

	if _, err := f.engine.MoveRight(anim.Options{}); err != nil {
		t.Fatalf("MoveRight: %v", err)
	}
	if _, err := f.engine.MoveLeft(anim.Options{}); err != nil {
		t.Fatalf("MoveLeft: %v", err)
	}
	got = f.r.ControlsText()
	if !strings.Contains(got, "Running 1") || !strings.Contains(got, "Queue 1") {
		t.Errorf("ControlsText() while busy = %q", got)
	}

	f.r.Render()
	bar := f.rowText(1, 29, len("Duration 250ms"))
	if bar != "Duration 250ms" {
		t.Errorf("controls bar = %q", bar)
	}
}

func TestTerminalEvents(t *testing.T) {
	tm, _, err := NewSimulationTerminal(40, 10)
	if err != nil {
		t.Fatalf("NewSimulationTerminal: %v", err)
	}
	defer tm.Shutdown()

	tm.PostKey(KeyRune, 'q')
	ev, ok := tm.PollEvent()
	for ok && ev.Type == EventResize {
		ev, ok = tm.PollEvent()
	}
	if !ok || ev.Type != EventKey || ev.Key != KeyRune || ev.Rune != 'q' {
		t.Errorf("key event = %+v (ok %v)", ev, ok)
	}

	tm.Interrupt()
	if ev, _ := tm.PollEvent(); ev.Type != EventInterrupt {
		t.Errorf("interrupt event = %+v", ev)
	}
}

func TestTerminalFillClips(t *testing.T) {
	tm, _, err := NewSimulationTerminal(10, 5)
	if err != nil {
		t.Fatalf("NewSimulationTerminal: %v", err)
	}
	defer tm.Shutdown()

	tm.Fill(-2, -2, 100, 100, 'x', tcell.StyleDefault)
	if r, _ := tm.Cell(9, 4); r != 'x' {
		t.Errorf("corner cell = %q, want x", r)
	}
	if w, h := tm.Size(); w != 10 || h != 5 {
		t.Errorf("Size() = %d,%d", w, h)
	}
}
