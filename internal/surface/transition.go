package surface

import (
	"time"

	"github.com/dshills/effectlab/internal/anim"
)

// transition is a property animation on a Scene element.
// All fields are guarded by the scene mutex.
type transition struct {
	scene  *Scene
	el     *element
	prop   anim.Property
	from   float64
	to     float64
	start  time.Time
	dur    time.Duration
	easing anim.Easing
	timer  anim.Timer

	finished  bool
	cancelled bool
	// silent transitions never invoke finish callbacks.
	silent    bool
	callbacks []func()
}

// valueAt interpolates the property at now.
func (t *transition) valueAt(now time.Time) float64 {
	if t.dur <= 0 {
		return t.to
	}
	progress := float64(now.Sub(t.start)) / float64(t.dur)
	return t.from + (t.to-t.from)*t.easing.Apply(progress)
}

// OnFinish implements anim.Transition.
func (t *transition) OnFinish(fn func()) {
	t.scene.mu.Lock()
	if t.cancelled || t.silent {
		t.scene.mu.Unlock()
		return
	}
	if !t.finished {
		t.callbacks = append(t.callbacks, fn)
		t.scene.mu.Unlock()
		return
	}
	t.scene.mu.Unlock()
	fn()
}

// Cancel implements anim.Transition. The property keeps its interpolated value.
func (t *transition) Cancel() {
	t.scene.mu.Lock()
	defer t.scene.mu.Unlock()

	if t.finished || t.cancelled || t.el == nil {
		return
	}
	t.el.values[t.prop] = t.valueAt(t.scene.clock.Now())
	t.detachLocked()
}

// detachLocked stops the transition without touching the stored value.
func (t *transition) detachLocked() {
	if t.finished || t.cancelled {
		return
	}
	t.cancelled = true
	t.callbacks = nil
	if t.timer != nil {
		t.timer.Stop()
	}
	if t.el != nil && t.el.active[t.prop] == t {
		t.el.active[t.prop] = nil
	}
}

// complete runs when the transition's duration elapses.
func (t *transition) complete() {
	t.scene.mu.Lock()
	if t.finished || t.cancelled {
		t.scene.mu.Unlock()
		return
	}
	t.finished = true
	t.el.values[t.prop] = t.to
	if t.el.active[t.prop] == t {
		t.el.active[t.prop] = nil
	}
	callbacks := t.callbacks
	t.callbacks = nil
	if t.el.dropSignals {
		t.silent = true
		callbacks = nil
	}
	t.scene.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}
