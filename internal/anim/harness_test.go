package anim_test

import (
	"strings"
	"testing"
	"time"

	"github.com/dshills/effectlab/internal/anim"
	"github.com/dshills/effectlab/internal/notify"
	"github.com/dshills/effectlab/internal/surface"
	"github.com/dshills/effectlab/internal/testutil"
)

// harness wires an engine to a deterministic scene and clock.
type harness struct {
	t      *testing.T
	clock  *testutil.FakeClock
	scene  *surface.Scene
	bus    *notify.Bus
	ring   *notify.Ring
	engine *anim.Engine
}

func testElements() []surface.ElementSpec {
	return []surface.ElementSpec{
		{ID: "box1", Label: "Box 1", Color: "#ec4899", Width: 96, Height: 40, Opacity: 1, Visible: true},
		{ID: "box2", Label: "Box 2", Color: "#8b5cf6", Width: 96, Height: 40, Opacity: 1, Visible: true},
		{ID: "box3", Label: "Box 3", Color: "#06b6d4", Width: 96, Height: 40, Opacity: 1, Visible: true},
		{ID: "panelBox", Label: "Panel", Color: "#22c55e", Width: 240, NaturalHeight: 72, Opacity: 1},
		{ID: "customStage", Label: "Stage", Color: "#f59e0b", Width: 64, Height: 64, Opacity: 1, Visible: true},
	}
}

func newHarness(t *testing.T, opts ...anim.Option) *harness {
	t.Helper()
	return newHarnessWithSurface(t, nil, opts...)
}

// newHarnessWithSurface drives wrap(scene) instead of the scene itself
// when wrap is non-nil.
func newHarnessWithSurface(t *testing.T, wrap func(*surface.Scene) anim.Surface, opts ...anim.Option) *harness {
	t.Helper()

	clock := testutil.NewFakeClock()
	scene := surface.NewScene(clock, testElements()...)
	bus := notify.New(notify.WithNow(clock.Now))
	ring := notify.NewRing(0)
	bus.Subscribe(ring.Observe)

	var s anim.Surface = scene
	if wrap != nil {
		s = wrap(scene)
	}

	all := append([]anim.Option{
		anim.WithClock(clock),
		anim.WithNotifier(bus),
	}, opts...)
	e := anim.New(s, all...)

	t.Cleanup(func() {
		e.Close()
		bus.Close()
	})

	return &harness{t: t, clock: clock, scene: scene, bus: bus, ring: ring, engine: e}
}

// linear switches the live config to linear easing with duration d.
func (h *harness) linear(d time.Duration) {
	h.engine.Config().Set(d, anim.EaseLinear)
}

func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
}

func (h *harness) value(id string, prop anim.Property) float64 {
	return h.scene.Value(id, prop)
}

func (h *harness) count(sev notify.Severity) int {
	return len(h.ring.Filter(sev))
}

func (h *harness) texts(sev notify.Severity) []string {
	var out []string
	for _, n := range h.ring.Filter(sev) {
		out = append(out, n.Text)
	}
	return out
}

func (h *harness) requireIdle() {
	h.t.Helper()
	st := h.engine.State()
	if st.QueueLen() != 0 || st.RunningCount != 0 || st.Running {
		h.t.Fatalf("state = queue %d running %v count %d, want idle", st.QueueLen(), st.Running, st.RunningCount)
	}
}

func (h *harness) mustEnqueue(target string, op anim.Operation, p *anim.Params) int64 {
	h.t.Helper()
	id, err := h.engine.Enqueue(target, op, p)
	if err != nil {
		h.t.Fatalf("Enqueue(%s, %s) error: %v", target, op, err)
	}
	return id
}

func containsText(texts []string, substr string) bool {
	for _, s := range texts {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}
