package anim

import (
	"fmt"
	"time"
)

// Timing constants used by the executor.
const (
	// slideFallbackMargin bounds how long a slide waits past its duration
	// for the surface's finished signal.
	slideFallbackMargin = 80 * time.Millisecond

	// moveMargin is added to the completion timer of move operations.
	moveMargin = 10 * time.Millisecond

	// batchMoveMargin is added to the completion timer of batchMoveTemp.
	batchMoveMargin = 20 * time.Millisecond

	// minMovePhase is the shortest outward or return phase of a move.
	minMovePhase = 60 * time.Millisecond

	// markerDuration is the fixed completion time of toggleMarker.
	markerDuration = 120 * time.Millisecond

	// MoveDistance is the outward offset of move operations.
	MoveDistance = 80.0
)

// executor applies a task's visual mutation to the surface and arranges for
// its completion signal.
type executor struct {
	surface   Surface
	clock     Clock
	baselines *BaselineRegistry
	batch     []string
	post      func(func())
	log       Logger
}

// execution tracks the timers and transitions of one running task.
type execution struct {
	task        Task
	snap        Snapshot
	clock       Clock
	post        func(func())
	timers      []Timer
	transitions []Transition
	done        bool
	onDone      func(reason string)
}

// after schedules fn on the serial context once d elapses.
// fn is skipped if the execution already finished or was cancelled.
func (x *execution) after(d time.Duration, fn func()) {
	t := x.clock.AfterFunc(d, func() {
		x.post(func() {
			if !x.done {
				fn()
			}
		})
	})
	x.timers = append(x.timers, t)
}

// finishAfter completes the execution with reason once d elapses.
func (x *execution) finishAfter(d time.Duration, reason string) {
	x.after(d, func() { x.finish(reason) })
}

// finishNow completes the execution on the next serial turn.
func (x *execution) finishNow(reason string) {
	x.post(func() { x.finish(reason) })
}

// track remembers a transition so cancel can freeze it.
func (x *execution) track(t Transition) Transition {
	if t != nil {
		x.transitions = append(x.transitions, t)
	}
	return t
}

// finish reports completion exactly once.
func (x *execution) finish(reason string) {
	if x.done {
		return
	}
	x.done = true
	x.stopTimers()
	if x.onDone != nil {
		x.onDone(reason)
	}
}

// cancel abandons the execution without reporting completion.
// Tracked transitions are frozen where they are.
func (x *execution) cancel() {
	if x.done {
		return
	}
	x.done = true
	x.stopTimers()
	for _, t := range x.transitions {
		t.Cancel()
	}
}

func (x *execution) stopTimers() {
	for _, t := range x.timers {
		t.Stop()
	}
	x.timers = nil
}

// accepts checks that the task can run against the surface.
func (ex *executor) accepts(t Task) error {
	if !t.Op.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownOperation, int(t.Op))
	}
	if t.Op.Targetless() {
		return nil
	}
	if t.Target == "" || !ex.surface.Has(t.Target) {
		return fmt.Errorf("%w: %q", ErrTargetNotFound, t.Target)
	}
	return nil
}

// run starts the task with the given configuration snapshot.
// onDone is called on the serial context when the task completes.
// A panic while applying the mutation cancels the execution and is
// returned as an error. The caller must have checked accepts.
func (ex *executor) run(t Task, snap Snapshot, onDone func(reason string)) (x *execution, err error) {
	x = &execution{
		task:   t,
		snap:   snap,
		clock:  ex.clock,
		post:   ex.post,
		onDone: onDone,
	}
	defer func() {
		if r := recover(); r != nil {
			x.cancel()
			x, err = nil, panicError(r)
		}
	}()

	if t.Target != "" {
		ex.baselines.Capture(ex.surface, t.Target)
	}

	switch t.Op {
	case OpFadeIn:
		ex.fade(x, t.Target, 1)
		x.finishAfter(snap.Duration, "shown")
	case OpFadeOut:
		ex.fade(x, t.Target, 0)
		x.finishAfter(snap.Duration, "hidden")
	case OpFadeToggle:
		show := ex.surface.Value(t.Target, PropOpacity) < 0.5
		reason := "hidden"
		to := 0.0
		if show {
			reason, to = "shown", 1
		}
		ex.fade(x, t.Target, to)
		x.finishAfter(snap.Duration, reason)
	case OpSlideUp:
		ex.slide(x, t.Target, false)
	case OpSlideDown:
		ex.slide(x, t.Target, true)
	case OpSlideToggle:
		hidden := !ex.surface.Visible(t.Target) || ex.surface.Value(t.Target, PropHeight) < 2
		ex.slide(x, t.Target, hidden)
	case OpMoveRight:
		total := ex.move(x, t.Target, MoveDistance)
		x.finishAfter(total+moveMargin, "moved-right")
	case OpMoveLeft:
		total := ex.move(x, t.Target, -MoveDistance)
		x.finishAfter(total+moveMargin, "moved-left")
	case OpAnimate:
		ex.animate(x, t)
	case OpToggleMarker:
		on := !ex.surface.Marker(t.Target)
		ex.surface.SetMarker(t.Target, on)
		reason := "marker-off"
		if on {
			reason = "marker-on"
		}
		x.finishAfter(markerDuration, reason)
	case OpBatchFadeOut:
		for _, id := range ex.batchTargets() {
			ex.fade(x, id, 0)
		}
		x.finishAfter(snap.Duration, "batch-faded")
	case OpBatchFadeIn:
		for _, id := range ex.batchTargets() {
			ex.fade(x, id, 1)
		}
		x.finishAfter(snap.Duration, "batch-shown")
	case OpBatchMoveTemp:
		total := snap.Duration
		for _, id := range ex.batchTargets() {
			total = ex.move(x, id, MoveDistance)
		}
		x.finishAfter(total+batchMoveMargin, "batch-moved")
	case OpDelay:
		x.finishAfter(snap.Duration, "delay")
	case OpStop:
		for _, prop := range []Property{PropOpacity, PropTranslateX} {
			ex.surface.Set(t.Target, prop, ex.surface.Value(t.Target, prop))
		}
		x.finishNow("stopped")
	default:
		x.finishNow("no-op")
	}

	return x, nil
}

// batchTargets returns the batch group members present on the surface,
// capturing each one's baseline on first touch.
func (ex *executor) batchTargets() []string {
	var ids []string
	for _, id := range ex.batch {
		if !ex.surface.Has(id) {
			ex.log.Debug("batch target %s not present, skipping", id)
			continue
		}
		ex.baselines.Capture(ex.surface, id)
		ids = append(ids, id)
	}
	return ids
}

// fade transitions opacity from its current value to `to`.
func (ex *executor) fade(x *execution, id string, to float64) {
	from := ex.surface.Value(id, PropOpacity)
	x.track(ex.surface.Animate(id, PropOpacity, from, to, x.snap.Duration, x.snap.Easing))
}

// slide animates the height between 0 and the measured natural extent.
// Completion waits for the surface's finished signal, bounded by a
// fallback timer.
func (ex *executor) slide(x *execution, id string, down bool) {
	s := ex.surface
	s.SetVisible(id, true)
	full := s.NaturalHeight(id)

	from, to, reason := full, 0.0, "slid-up"
	if down {
		from, to, reason = 0, full, "slid-down"
	}
	s.Set(id, PropHeight, from)

	complete := func(timedOut bool) {
		if x.done {
			return
		}
		if timedOut {
			ex.log.Debug("%s on %s: finished signal missing, fallback fired", x.task.Op, id)
		}
		if !down {
			s.SetVisible(id, false)
		}
		// Height returns to its natural extent; a hidden target is not drawn
		s.Set(id, PropHeight, full)
		x.finish(reason)
	}

	tr := x.track(s.Animate(id, PropHeight, from, to, x.snap.Duration, x.snap.Easing))
	if tr != nil {
		tr.OnFinish(func() {
			x.post(func() { complete(false) })
		})
	}
	x.after(x.snap.Duration+slideFallbackMargin, func() { complete(true) })
}

// move runs the two-phase offset: out to dx over the first half, back to
// the baseline offset over the second. Returns the time both phases take.
func (ex *executor) move(x *execution, id string, dx float64) time.Duration {
	s := ex.surface
	base, _ := ex.baselines.Get(id)
	half := max(minMovePhase, x.snap.Duration/2)

	from := s.Value(id, PropTranslateX)
	x.track(s.Animate(id, PropTranslateX, from, dx, half, x.snap.Easing))
	x.after(half, func() {
		x.track(s.Animate(id, PropTranslateX, s.Value(id, PropTranslateX), base.TranslateX, half, x.snap.Easing))
	})
	return max(x.snap.Duration, 2*half)
}

// animate applies every property in the task's Props simultaneously.
func (ex *executor) animate(x *execution, t Task) {
	if t.Params == nil || t.Params.Props.Empty() {
		x.finishNow("no-op")
		return
	}
	for _, pt := range t.Params.Props.targets() {
		from := ex.surface.Value(t.Target, pt.prop)
		x.track(ex.surface.Animate(t.Target, pt.prop, from, pt.value, x.snap.Duration, x.snap.Easing))
	}
	x.finishAfter(x.snap.Duration, "animated")
}
