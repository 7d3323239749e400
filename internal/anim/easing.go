package anim

import (
	"fmt"
	"math"
)

// Easing names a timing curve from the supported set.
type Easing string

// Supported easing curves.
const (
	EaseLinear Easing = "linear"
	EaseEase   Easing = "ease"
	EaseIn     Easing = "ease-in"
	EaseOut    Easing = "ease-out"
	EaseInOut  Easing = "ease-in-out"
	EaseSwing  Easing = "swing"
)

// DefaultEasing is the easing a new Config starts with.
const DefaultEasing = EaseSwing

// bezier holds the two control points of a cubic-bezier timing curve.
type bezier struct {
	x1, y1, x2, y2 float64
}

var curves = map[Easing]bezier{
	EaseLinear: {0, 0, 1, 1},
	EaseEase:   {0.25, 0.1, 0.25, 1},
	EaseIn:     {0.42, 0, 1, 1},
	EaseOut:    {0, 0, 0.58, 1},
	EaseInOut:  {0.42, 0, 0.58, 1},
	EaseSwing:  {0.42, 0, 0.58, 1},
}

// Easings returns the supported easing names in display order.
func Easings() []Easing {
	return []Easing{EaseLinear, EaseEase, EaseIn, EaseOut, EaseInOut, EaseSwing}
}

// ParseEasing validates an easing name.
func ParseEasing(s string) (Easing, error) {
	e := Easing(s)
	if !e.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEasing, s)
	}
	return e, nil
}

// Valid reports whether e is in the supported set.
func (e Easing) Valid() bool {
	_, ok := curves[e]
	return ok
}

// Next returns the easing that follows e in display order, wrapping around.
func (e Easing) Next() Easing {
	all := Easings()
	for i, candidate := range all {
		if candidate == e {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// Apply maps linear progress t in [0,1] to eased progress.
// Unknown easings behave as linear.
func (e Easing) Apply(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	c, ok := curves[e]
	if !ok || (c.x1 == c.y1 && c.x2 == c.y2) {
		return t
	}
	return c.sampleY(c.solveX(t))
}

func (c bezier) sampleX(u float64) float64 {
	return ((1-3*c.x2+3*c.x1)*u+(3*c.x2-6*c.x1))*u*u + 3*c.x1*u
}

func (c bezier) sampleY(u float64) float64 {
	return ((1-3*c.y2+3*c.y1)*u+(3*c.y2-6*c.y1))*u*u + 3*c.y1*u
}

func (c bezier) slopeX(u float64) float64 {
	return 3*(1-3*c.x2+3*c.x1)*u*u + 2*(3*c.x2-6*c.x1)*u + 3*c.x1
}

// solveX finds the curve parameter u whose x equals x.
// Newton iterations first, bisection when the slope is too flat.
func (c bezier) solveX(x float64) float64 {
	const epsilon = 1e-6

	u := x
	for i := 0; i < 8; i++ {
		dx := c.sampleX(u) - x
		if math.Abs(dx) < epsilon {
			return u
		}
		slope := c.slopeX(u)
		if math.Abs(slope) < epsilon {
			break
		}
		u -= dx / slope
	}

	lo, hi := 0.0, 1.0
	u = x
	for i := 0; i < 32; i++ {
		v := c.sampleX(u)
		if math.Abs(v-x) < epsilon {
			return u
		}
		if v < x {
			lo = u
		} else {
			hi = u
		}
		u = (lo + hi) / 2
	}
	return u
}
