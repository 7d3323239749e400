package anim

import (
	"fmt"
	"time"
)

// Operation identifies the visual mutation a task performs.
type Operation int

// Operations understood by the executor.
const (
	OpNone Operation = iota
	OpFadeIn
	OpFadeOut
	OpFadeToggle
	OpSlideUp
	OpSlideDown
	OpSlideToggle
	OpMoveRight
	OpMoveLeft
	OpAnimate
	OpToggleMarker
	OpBatchFadeOut
	OpBatchFadeIn
	OpBatchMoveTemp
	OpDelay
	OpStop
)

var operationNames = map[Operation]string{
	OpFadeIn:        "fadeIn",
	OpFadeOut:       "fadeOut",
	OpFadeToggle:    "fadeToggle",
	OpSlideUp:       "slideUp",
	OpSlideDown:     "slideDown",
	OpSlideToggle:   "slideToggle",
	OpMoveRight:     "moveRight",
	OpMoveLeft:      "moveLeft",
	OpAnimate:       "animate",
	OpToggleMarker:  "toggleMarker",
	OpBatchFadeOut:  "batchFadeOut",
	OpBatchFadeIn:   "batchFadeIn",
	OpBatchMoveTemp: "batchMoveTemp",
	OpDelay:         "delay",
	OpStop:          "stop",
}

// String returns the operation name.
func (op Operation) String() string {
	if name, ok := operationNames[op]; ok {
		return name
	}
	return "unknown"
}

// operationAliases are the page-level names for the move operations.
var operationAliases = map[string]Operation{
	"animateLeft":      OpMoveLeft,
	"animateRight":     OpMoveRight,
	"animateMoveRight": OpMoveRight,
}

// ParseOperation converts an operation name or alias into an Operation.
func ParseOperation(name string) (Operation, error) {
	for op, n := range operationNames {
		if n == name {
			return op, nil
		}
	}
	if op, ok := operationAliases[name]; ok {
		return op, nil
	}
	return OpNone, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}

// Valid reports whether op is a known operation.
func (op Operation) Valid() bool {
	_, ok := operationNames[op]
	return ok
}

// Targetless reports whether the operation runs without a target.
func (op Operation) Targetless() bool {
	switch op {
	case OpDelay, OpBatchFadeOut, OpBatchFadeIn, OpBatchMoveTemp:
		return true
	default:
		return false
	}
}

// Props is the property map of a generic animate task.
// Nil fields are left untouched.
type Props struct {
	Opacity    *float64
	TranslateX *float64
	Left       *float64
	Top        *float64
	Height     *float64
}

// Empty reports whether no property is set.
func (p Props) Empty() bool {
	return p.Opacity == nil && p.TranslateX == nil && p.Left == nil && p.Top == nil && p.Height == nil
}

// targets returns the set properties paired with their surface property.
func (p Props) targets() []propTarget {
	var out []propTarget
	add := func(prop Property, v *float64) {
		if v != nil {
			out = append(out, propTarget{prop: prop, value: *v})
		}
	}
	add(PropOpacity, p.Opacity)
	add(PropTranslateX, p.TranslateX)
	add(PropLeft, p.Left)
	add(PropTop, p.Top)
	add(PropHeight, p.Height)
	return out
}

type propTarget struct {
	prop  Property
	value float64
}

// Float returns a pointer to v, for building Props literals.
func Float(v float64) *float64 {
	return &v
}

// Params is the optional payload of a task.
type Params struct {
	// Props is used by OpAnimate.
	Props Props

	// Duration overrides the configured duration for this task only.
	Duration time.Duration

	// Easing overrides the configured easing for this task only.
	Easing Easing
}

// Task is one queued unit of work.
type Task struct {
	ID     int64
	Target string
	Op     Operation
	Params *Params
}

// label returns the target name used in notifications.
func (t Task) label() string {
	switch {
	case t.Target != "":
		return t.Target
	case t.Op == OpDelay:
		return "(none)"
	default:
		return "batch"
	}
}
