package anim

import "time"

// Property is a numeric visual property a surface can read and animate.
type Property int

// Animatable properties.
const (
	PropOpacity Property = iota
	PropTranslateX
	PropHeight
	PropLeft
	PropTop
	propCount
)

// Properties returns every animatable property.
func Properties() []Property {
	return []Property{PropOpacity, PropTranslateX, PropHeight, PropLeft, PropTop}
}

// String returns the property name.
func (p Property) String() string {
	switch p {
	case PropOpacity:
		return "opacity"
	case PropTranslateX:
		return "translateX"
	case PropHeight:
		return "height"
	case PropLeft:
		return "left"
	case PropTop:
		return "top"
	default:
		return "unknown"
	}
}

// Surface is the rendering capability the engine drives.
// Implementations may be a terminal scene, a GUI toolkit or a test harness.
type Surface interface {
	// Has reports whether a target exists.
	Has(id string) bool

	// Value returns the currently rendered value of a property,
	// including any in-flight interpolation.
	Value(id string, prop Property) float64

	// Set applies a value immediately, cancelling any running transition
	// on the same property.
	Set(id string, prop Property, value float64)

	// Animate starts a transition from one value to another.
	Animate(id string, prop Property, from, to float64, d time.Duration, easing Easing) Transition

	// NaturalHeight returns the measured natural extent of the target.
	NaturalHeight(id string) float64

	// Visible reports whether the target is shown.
	Visible(id string) bool

	// SetVisible shows or hides the target.
	SetVisible(id string, visible bool)

	// Marker reports whether the target's visual marker is on.
	Marker(id string) bool

	// SetMarker turns the target's visual marker on or off.
	SetMarker(id string, on bool)
}

// Transition is a running property animation on a surface.
type Transition interface {
	// OnFinish registers fn to run once the transition reaches its end value.
	// fn may be invoked synchronously if the transition already finished.
	OnFinish(fn func())

	// Cancel stops the transition at its current interpolated value.
	Cancel()
}
