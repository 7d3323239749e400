// Package surface provides the scene model effectlab animates.
//
// A Scene is a set of named rectangular elements whose numeric properties
// are interpolated against an injected clock. It implements anim.Surface:
// transitions report completion through a "finished" signal scheduled on the
// same clock, which lets tests drive every timing path deterministically and
// lets the terminal renderer sample values at frame time.
package surface

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/effectlab/internal/anim"
)

// ErrDuplicateElement is returned when adding an element whose id exists.
var ErrDuplicateElement = errors.New("element already exists")

// ElementSpec describes an element when it is added to a scene.
type ElementSpec struct {
	ID    string
	Label string
	// Color is a hex colour such as "#ec4899".
	Color string

	// Layout in scene units (pixels).
	X, Y, Width float64

	// Height is the initial rendered height.
	Height float64
	// NaturalHeight is the measured extent slides expand to.
	// Zero means Height.
	NaturalHeight float64

	Opacity float64
	Visible bool
}

// ElementView is a sampled copy of an element for rendering.
type ElementView struct {
	ElementSpec
	TranslateX float64
	Left       float64
	Top        float64
	Marker     bool
	Animating  bool
}

type element struct {
	spec        ElementSpec
	values      [5]float64
	active      [5]*transition
	visible     bool
	marker      bool
	dropSignals bool
}

// Scene is a deterministic anim.Surface.
type Scene struct {
	mu    sync.Mutex
	clock anim.Clock
	elems map[string]*element
	order []string
}

var _ anim.Surface = (*Scene)(nil)

// NewScene creates a scene with the given elements.
// Duplicate ids after the first are ignored; use Add to see the error.
func NewScene(clock anim.Clock, specs ...ElementSpec) *Scene {
	if clock == nil {
		clock = anim.SystemClock()
	}
	s := &Scene{
		clock: clock,
		elems: make(map[string]*element),
	}
	for _, spec := range specs {
		_ = s.Add(spec)
	}
	return s
}

// Add inserts an element.
func (s *Scene) Add(spec ElementSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.elems[spec.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateElement, spec.ID)
	}
	if spec.NaturalHeight == 0 {
		spec.NaturalHeight = spec.Height
	}
	el := &element{spec: spec, visible: spec.Visible}
	el.values[anim.PropOpacity] = spec.Opacity
	el.values[anim.PropHeight] = spec.Height
	s.elems[spec.ID] = el
	s.order = append(s.order, spec.ID)
	return nil
}

// Remove deletes an element. Transitions in flight on it never signal.
func (s *Scene) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.elems[id]
	if !ok {
		return
	}
	el.dropSignals = true
	delete(s.elems, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// DropSignals makes an element's transitions finish without signalling,
// as when a rendering surface loses the element mid-flight.
func (s *Scene) DropSignals(id string, drop bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.elems[id]; ok {
		el.dropSignals = drop
	}
}

// SetNaturalHeight changes the measured extent of an element.
func (s *Scene) SetNaturalHeight(id string, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.elems[id]; ok {
		el.spec.NaturalHeight = h
	}
}

// IDs returns element ids in insertion order.
func (s *Scene) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// Elements samples every element at the current clock time.
func (s *Scene) Elements() []ElementView {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	views := make([]ElementView, 0, len(s.order))
	for _, id := range s.order {
		el := s.elems[id]
		v := ElementView{
			ElementSpec: el.spec,
			Marker:      el.marker,
		}
		v.Visible = el.visible
		v.Opacity = el.valueAt(anim.PropOpacity, now)
		v.Height = el.valueAt(anim.PropHeight, now)
		v.TranslateX = el.valueAt(anim.PropTranslateX, now)
		v.Left = el.valueAt(anim.PropLeft, now)
		v.Top = el.valueAt(anim.PropTop, now)
		for _, tr := range el.active {
			if tr != nil {
				v.Animating = true
				break
			}
		}
		views = append(views, v)
	}
	return views
}

// Animating reports whether any transition is in flight.
func (s *Scene) Animating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, el := range s.elems {
		for _, tr := range el.active {
			if tr != nil {
				return true
			}
		}
	}
	return false
}

// Has implements anim.Surface.
func (s *Scene) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.elems[id]
	return ok
}

// Value implements anim.Surface.
func (s *Scene) Value(id string, prop anim.Property) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.elems[id]
	if !ok || !validProp(prop) {
		return 0
	}
	return el.valueAt(prop, s.clock.Now())
}

// Set implements anim.Surface.
func (s *Scene) Set(id string, prop anim.Property, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.elems[id]
	if !ok || !validProp(prop) {
		return
	}
	if tr := el.active[prop]; tr != nil {
		tr.detachLocked()
	}
	el.values[prop] = value
}

// Animate implements anim.Surface.
func (s *Scene) Animate(id string, prop anim.Property, from, to float64, d time.Duration, easing anim.Easing) anim.Transition {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.elems[id]
	if !ok || !validProp(prop) {
		return &transition{scene: s, finished: true, silent: true}
	}
	if tr := el.active[prop]; tr != nil {
		tr.detachLocked()
	}

	tr := &transition{
		scene:  s,
		el:     el,
		prop:   prop,
		from:   from,
		to:     to,
		start:  s.clock.Now(),
		dur:    d,
		easing: easing,
	}
	if d <= 0 {
		el.values[prop] = to
		tr.finished = true
		tr.silent = el.dropSignals
		return tr
	}
	el.values[prop] = from
	el.active[prop] = tr
	tr.timer = s.clock.AfterFunc(d, tr.complete)
	return tr
}

// NaturalHeight implements anim.Surface.
func (s *Scene) NaturalHeight(id string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.elems[id]; ok {
		return el.spec.NaturalHeight
	}
	return 0
}

// Visible implements anim.Surface.
func (s *Scene) Visible(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.elems[id]; ok {
		return el.visible
	}
	return false
}

// SetVisible implements anim.Surface.
func (s *Scene) SetVisible(id string, visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.elems[id]; ok {
		el.visible = visible
	}
}

// Marker implements anim.Surface.
func (s *Scene) Marker(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.elems[id]; ok {
		return el.marker
	}
	return false
}

// SetMarker implements anim.Surface.
func (s *Scene) SetMarker(id string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.elems[id]; ok {
		el.marker = on
	}
}

func validProp(p anim.Property) bool {
	return p >= anim.PropOpacity && p <= anim.PropTop
}

// valueAt returns the property value, interpolating an active transition.
func (el *element) valueAt(prop anim.Property, now time.Time) float64 {
	if tr := el.active[prop]; tr != nil {
		return tr.valueAt(now)
	}
	return el.values[prop]
}
