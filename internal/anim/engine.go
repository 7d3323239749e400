package anim

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/effectlab/internal/notify"
)

// DefaultTarget is the target used when a facade call names none.
const DefaultTarget = "box1"

// DefaultBatchTargets is the group mutated by batch operations.
var DefaultBatchTargets = []string{"box1", "box2", "box3"}

// Engine is the handle callers use to drive the animation queue.
// Create one with New; there is no package-level instance.
type Engine struct {
	id string

	serial     serial
	config     *Config
	surface    Surface
	baselines  *BaselineRegistry
	dispatcher *dispatcher
	bus        *notify.Bus
	ownsBus    bool
	log        Logger

	defaultTarget string

	stateMu sync.RWMutex
	state   RunState

	closed atomic.Bool
}

type options struct {
	clock         Clock
	config        *Config
	bus           *notify.Bus
	log           Logger
	defaultTarget string
	batch         []string
	tracked       []string
}

// Option configures an Engine.
type Option func(*options)

// WithClock sets the clock used for completion timers.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithConfig shares an existing Config with the engine.
func WithConfig(c *Config) Option {
	return func(o *options) {
		if c != nil {
			o.config = c
		}
	}
}

// WithNotifier publishes lifecycle notifications on an existing bus.
// The engine does not close a bus it did not create.
func WithNotifier(b *notify.Bus) Option {
	return func(o *options) {
		if b != nil {
			o.bus = b
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithDefaultTarget sets the target used when a facade call names none.
func WithDefaultTarget(id string) Option {
	return func(o *options) {
		if id != "" {
			o.defaultTarget = id
		}
	}
}

// WithBatchTargets sets the group mutated by batch operations.
func WithBatchTargets(ids ...string) Option {
	return func(o *options) {
		o.batch = append([]string(nil), ids...)
	}
}

// WithTrackedTargets captures baselines for these targets when the engine
// is created, so StopAll freezes them even before they are first animated.
func WithTrackedTargets(ids ...string) Option {
	return func(o *options) {
		o.tracked = append([]string(nil), ids...)
	}
}

// New creates an engine driving the given surface.
func New(s Surface, opts ...Option) *Engine {
	o := options{
		clock:         SystemClock(),
		log:           nopLogger{},
		defaultTarget: DefaultTarget,
		batch:         DefaultBatchTargets,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.config == nil {
		o.config = NewConfig()
	}

	e := &Engine{
		id:            uuid.NewString(),
		config:        o.config,
		surface:       s,
		baselines:     NewBaselineRegistry(),
		bus:           o.bus,
		log:           o.log,
		defaultTarget: o.defaultTarget,
	}
	if e.bus == nil {
		e.bus = notify.New()
		e.ownsBus = true
	}

	e.dispatcher = &dispatcher{
		queue:     NewTaskQueue(),
		config:    e.config,
		baselines: e.baselines,
		surface:   s,
		bus:       e.bus,
		log:       e.log,
		status:    StatusIdle,
		exec: &executor{
			surface:   s,
			clock:     o.clock,
			baselines: e.baselines,
			batch:     o.batch,
			post:      e.serial.post,
			log:       e.log,
		},
	}
	e.serial.after = e.publish
	e.serial.onPanic = e.handlePanic

	for _, id := range o.tracked {
		if s.Has(id) {
			e.baselines.Capture(s, id)
		}
	}
	e.publish()

	e.bus.Muted(notifySource, "Animation engine ready", 0)
	return e
}

// ID returns the engine's unique handle id.
func (e *Engine) ID() string {
	return e.id
}

// Config returns the live configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// Notifications returns the bus lifecycle notifications are published on.
func (e *Engine) Notifications() *notify.Bus {
	return e.bus
}

// Baselines returns the baseline registry.
func (e *Engine) Baselines() *BaselineRegistry {
	return e.baselines
}

// Surface returns the surface the engine drives.
func (e *Engine) Surface() Surface {
	return e.surface
}

// DefaultTarget returns the target used when a facade call names none.
func (e *Engine) DefaultTarget() string {
	return e.defaultTarget
}

// Enqueue appends a task to the queue and starts the dispatcher if idle.
// It never blocks on running animations. Returns the task id.
func (e *Engine) Enqueue(target string, op Operation, params *Params) (int64, error) {
	if e.closed.Load() {
		return 0, ErrEngineClosed
	}
	if !op.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownOperation, int(op))
	}
	if op.Targetless() {
		target = ""
	}

	id := e.serial.postSeq(func(seq int64) {
		e.dispatcher.enqueue(Task{ID: seq, Target: target, Op: op, Params: params})
	})
	return id, nil
}

// StopAll empties the queue, abandons the running task and freezes every
// known target where it currently is.
func (e *Engine) StopAll() {
	e.serial.post(e.dispatcher.stopAll)
}

// Restore reverts a target to the values first observed for it.
func (e *Engine) Restore(target string) {
	e.serial.post(func() { e.dispatcher.restore(target) })
}

// RestoreAll restores every target with a captured baseline.
func (e *Engine) RestoreAll() {
	e.serial.post(func() {
		for _, id := range e.baselines.Known() {
			e.dispatcher.restore(id)
		}
	})
}

// State returns a copy of the run state as of the last completed turn.
func (e *Engine) State() RunState {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	s := e.state
	s.Queue = append([]Task(nil), e.state.Queue...)
	return s
}

// Close stops all animations and rejects further tasks.
// It is safe to call Close multiple times.
func (e *Engine) Close() {
	if e.closed.Swap(true) {
		return
	}
	e.StopAll()
	if e.ownsBus {
		e.bus.Close()
	}
}

// publish copies the dispatcher state for readers.
func (e *Engine) publish() {
	s := e.dispatcher.state()
	e.stateMu.Lock()
	e.state = s
	e.stateMu.Unlock()
}

// handlePanic reports a panic that escaped a serial closure and makes sure
// the queue keeps moving.
func (e *Engine) handlePanic(r any) {
	err := panicError(r)
	e.log.Error("engine: %v", err)
	e.bus.Warning(notifySource, fmt.Sprintf("internal error: %v", err), 0)
	e.serial.post(e.dispatcher.unstick)
}
