package anim

import "time"

// Options addresses a facade call. Every field is optional: an empty Target
// uses the engine's default target, and zero Duration or Easing use the
// live configuration at the moment the task starts.
type Options struct {
	Target   string
	Duration time.Duration
	Easing   Easing
}

func (o Options) params() *Params {
	if o.Duration <= 0 && o.Easing == "" {
		return nil
	}
	return &Params{Duration: o.Duration, Easing: o.Easing}
}

func (e *Engine) target(o Options) string {
	if o.Target == "" {
		return e.defaultTarget
	}
	return o.Target
}

func (e *Engine) enqueueOpt(op Operation, o Options) (int64, error) {
	return e.Enqueue(e.target(o), op, o.params())
}

// FadeIn raises the target's opacity to 1.
func (e *Engine) FadeIn(o Options) (int64, error) { return e.enqueueOpt(OpFadeIn, o) }

// FadeOut lowers the target's opacity to 0.
func (e *Engine) FadeOut(o Options) (int64, error) { return e.enqueueOpt(OpFadeOut, o) }

// FadeToggle fades the target in when mostly transparent, out otherwise.
func (e *Engine) FadeToggle(o Options) (int64, error) { return e.enqueueOpt(OpFadeToggle, o) }

// SlideUp collapses the target's height to 0 and hides it.
func (e *Engine) SlideUp(o Options) (int64, error) { return e.enqueueOpt(OpSlideUp, o) }

// SlideDown shows the target and expands it to its natural height.
func (e *Engine) SlideDown(o Options) (int64, error) { return e.enqueueOpt(OpSlideDown, o) }

// SlideToggle slides the target down when hidden, up otherwise.
func (e *Engine) SlideToggle(o Options) (int64, error) { return e.enqueueOpt(OpSlideToggle, o) }

// MoveRight nudges the target right and back.
func (e *Engine) MoveRight(o Options) (int64, error) { return e.enqueueOpt(OpMoveRight, o) }

// MoveLeft nudges the target left and back.
func (e *Engine) MoveLeft(o Options) (int64, error) { return e.enqueueOpt(OpMoveLeft, o) }

// ToggleMarker flips the target's visual marker.
func (e *Engine) ToggleMarker(o Options) (int64, error) { return e.enqueueOpt(OpToggleMarker, o) }

// Stop freezes the target's opacity and offset where they are.
func (e *Engine) Stop(o Options) (int64, error) { return e.enqueueOpt(OpStop, o) }

// Animate transitions every property set in props at once.
func (e *Engine) Animate(o Options, props Props) (int64, error) {
	p := o.params()
	if p == nil {
		p = &Params{}
	}
	p.Props = props
	return e.Enqueue(e.target(o), OpAnimate, p)
}

// Delay inserts a gap of the configured (or overridden) duration.
func (e *Engine) Delay(o Options) (int64, error) {
	return e.Enqueue("", OpDelay, o.params())
}

// BatchFadeOut fades the whole batch group out as one task.
func (e *Engine) BatchFadeOut(o Options) (int64, error) {
	return e.Enqueue("", OpBatchFadeOut, o.params())
}

// BatchFadeIn fades the whole batch group in as one task.
func (e *Engine) BatchFadeIn(o Options) (int64, error) {
	return e.Enqueue("", OpBatchFadeIn, o.params())
}

// BatchMoveTemp nudges the whole batch group right and back as one task.
func (e *Engine) BatchMoveTemp(o Options) (int64, error) {
	return e.Enqueue("", OpBatchMoveTemp, o.params())
}

// Chain enqueues fade out, delay, fade in, delay, move right on one target.
func (e *Engine) Chain(o Options) ([]int64, error) {
	target := e.target(o)
	p := o.params()
	steps := []step{
		{target, OpFadeOut},
		{"", OpDelay},
		{target, OpFadeIn},
		{"", OpDelay},
		{target, OpMoveRight},
	}
	return e.enqueueSteps(steps, p)
}

// ChainGrouped enqueues batch fade out, delay, batch fade in, delay and a
// batch move.
func (e *Engine) ChainGrouped(o Options) ([]int64, error) {
	steps := []step{
		{"", OpBatchFadeOut},
		{"", OpDelay},
		{"", OpBatchFadeIn},
		{"", OpDelay},
		{"", OpBatchMoveTemp},
	}
	return e.enqueueSteps(steps, o.params())
}

// step is one entry of a canned chain.
type step struct {
	target string
	op     Operation
}

func (e *Engine) enqueueSteps(steps []step, p *Params) ([]int64, error) {
	ids := make([]int64, 0, len(steps))
	for _, s := range steps {
		id, err := e.Enqueue(s.target, s.op, p)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
