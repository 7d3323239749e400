package anim

import (
	"errors"
	"fmt"

	"github.com/dshills/effectlab/internal/notify"
)

// notifySource tags notifications published by the engine.
const notifySource = "engine"

// Status labels reported in RunState.
const (
	StatusIdle    = "Idle"
	StatusQueued  = "Queued"
	StatusStopped = "Stopped"
)

// RunState is a point-in-time copy of the dispatcher's state.
type RunState struct {
	Queue        []Task
	Running      bool
	RunningCount int
	ActiveTarget string
	ActiveOp     Operation
	Status       string
}

// QueueLen returns the number of pending tasks.
func (s RunState) QueueLen() int {
	return len(s.Queue)
}

// dispatcher is the single worker that pulls one task at a time from the
// queue, runs it and advances once it completes. Every method runs on the
// serial context.
type dispatcher struct {
	queue     *TaskQueue
	exec      *executor
	config    *Config
	baselines *BaselineRegistry
	surface   Surface
	bus       *notify.Bus
	log       Logger

	running      bool
	runningCount int
	activeTarget string
	activeOp     Operation
	status       string
	current      *execution
}

// state copies the dispatcher state.
func (d *dispatcher) state() RunState {
	return RunState{
		Queue:        d.queue.Tasks(),
		Running:      d.running,
		RunningCount: d.runningCount,
		ActiveTarget: d.activeTarget,
		ActiveOp:     d.activeOp,
		Status:       d.status,
	}
}

// enqueue appends a task and starts the worker if it is idle.
func (d *dispatcher) enqueue(t Task) {
	d.queue.Push(t)
	d.status = StatusQueued
	d.bus.Muted(notifySource, fmt.Sprintf("queued %s -> %s", t.Op, t.label()), t.ID)
	if !d.running {
		d.advance()
	}
}

// advance starts the next runnable task, skipping tasks that cannot run.
// It returns once a task is in flight or the queue is empty.
func (d *dispatcher) advance() {
	if d.current != nil {
		return
	}

	for {
		t, ok := d.queue.Pop()
		if !ok {
			d.idle()
			return
		}

		d.running = true
		d.status = "Running: " + t.Op.String()
		d.bus.Info(notifySource, fmt.Sprintf("running %s -> %s", t.Op, t.label()), t.ID)

		if err := d.exec.accepts(t); err != nil {
			d.skip(t, err)
			continue
		}

		d.activeTarget = t.Target
		d.activeOp = t.Op
		d.runningCount++

		// The configuration is read once, here, and frozen for the task
		snap := d.config.Get().resolve(t.Params)

		var x *execution
		x, err := d.exec.run(t, snap, func(reason string) {
			d.complete(x, reason)
		})
		if err != nil {
			d.runningCount = max(0, d.runningCount-1)
			d.skip(t, err)
			continue
		}
		d.current = x
		return
	}
}

// complete finishes the in-flight task and moves on.
func (d *dispatcher) complete(x *execution, reason string) {
	if x == nil || d.current != x {
		return
	}
	d.current = nil
	d.runningCount = max(0, d.runningCount-1)

	t := x.task
	d.bus.Success(notifySource, fmt.Sprintf("%s finished -> %s (%s)", t.Op, t.label(), reason), t.ID)
	d.status = fmt.Sprintf("Callback: %s %s", t.Op, reason)
	d.log.Debug("task %d %s -> %s finished (%s)", t.ID, t.Op, t.label(), reason)

	d.advance()
}

// skip reports a task that could not run. The queue always advances.
func (d *dispatcher) skip(t Task, err error) {
	text := fmt.Sprintf("%s failed -> %s: %v", t.Op, t.label(), err)
	if errors.Is(err, ErrTargetNotFound) {
		text = fmt.Sprintf("target %s not found", t.Target)
	}
	d.bus.Warning(notifySource, text, t.ID)
	d.log.Warn("task %d skipped: %v", t.ID, err)
}

// idle resets the worker once the queue drains.
func (d *dispatcher) idle() {
	d.running = false
	d.activeTarget = ""
	d.activeOp = OpNone
	if d.status != StatusStopped {
		d.status = StatusIdle
	}
}

// stopAll empties the queue, abandons the in-flight task and freezes every
// known target at its current rendered value.
func (d *dispatcher) stopAll() {
	d.queue.Clear()
	if d.current != nil {
		d.current.cancel()
		d.current = nil
	}
	d.running = false
	d.runningCount = 0
	d.activeTarget = ""
	d.activeOp = OpNone

	d.baselines.Freeze(d.surface)

	d.status = StatusStopped
	d.bus.Warning(notifySource, "Stopped all animations", 0)
}

// restore reverts one target to its first captured baseline.
func (d *dispatcher) restore(id string) {
	if id == "" || !d.surface.Has(id) {
		d.bus.Warning(notifySource, fmt.Sprintf("restore: target %s not found", id), 0)
		return
	}
	d.baselines.Capture(d.surface, id)
	d.baselines.Restore(d.surface, id)
	d.bus.Info(notifySource, fmt.Sprintf("restored %s", id), 0)
}

// unstick restarts the worker after a panic escaped a serial closure.
func (d *dispatcher) unstick() {
	if d.current == nil && d.running {
		d.advance()
	}
}
