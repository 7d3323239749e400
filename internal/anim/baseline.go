package anim

import "sync"

// Baseline is the first observed visual state of a target.
type Baseline struct {
	Opacity    float64
	TranslateX float64
	Height     float64
	Left       float64
	Top        float64
	Visible    bool
}

// value returns the baseline value for a property.
func (b Baseline) value(prop Property) float64 {
	switch prop {
	case PropOpacity:
		return b.Opacity
	case PropTranslateX:
		return b.TranslateX
	case PropHeight:
		return b.Height
	case PropLeft:
		return b.Left
	case PropTop:
		return b.Top
	default:
		return 0
	}
}

// BaselineRegistry caches each target's baseline, captured on first reference.
// Captured baselines never change; Restore re-applies them.
type BaselineRegistry struct {
	mu    sync.RWMutex
	snaps map[string]Baseline
	order []string
}

// NewBaselineRegistry creates an empty registry.
func NewBaselineRegistry() *BaselineRegistry {
	return &BaselineRegistry{snaps: make(map[string]Baseline)}
}

// Capture records the target's current state if it has not been seen yet
// and returns the stored baseline.
func (r *BaselineRegistry) Capture(s Surface, id string) Baseline {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.snaps[id]; ok {
		return b
	}
	b := Baseline{
		Opacity:    s.Value(id, PropOpacity),
		TranslateX: s.Value(id, PropTranslateX),
		Height:     s.Value(id, PropHeight),
		Left:       s.Value(id, PropLeft),
		Top:        s.Value(id, PropTop),
		Visible:    s.Visible(id),
	}
	r.snaps[id] = b
	r.order = append(r.order, id)
	return b
}

// Get returns the baseline for a target.
func (r *BaselineRegistry) Get(id string) (Baseline, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.snaps[id]
	return b, ok
}

// Known returns the captured targets in capture order.
func (r *BaselineRegistry) Known() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Restore re-applies a target's baseline to the surface.
// Returns false if no baseline was captured for the target.
func (r *BaselineRegistry) Restore(s Surface, id string) bool {
	b, ok := r.Get(id)
	if !ok {
		return false
	}
	for _, prop := range Properties() {
		s.Set(id, prop, b.value(prop))
	}
	s.SetVisible(id, b.Visible)
	return true
}

// Freeze pins every known target at the value the surface reports now,
// cancelling in-flight transitions without rewinding them.
func (r *BaselineRegistry) Freeze(s Surface) {
	for _, id := range r.Known() {
		if !s.Has(id) {
			continue
		}
		for _, prop := range Properties() {
			s.Set(id, prop, s.Value(id, prop))
		}
	}
}
