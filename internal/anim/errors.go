package anim

import "errors"

// Errors returned by engine operations.
var (
	// ErrTargetNotFound indicates the task addressed a target the surface does not know.
	ErrTargetNotFound = errors.New("target not found")

	// ErrUnknownOperation indicates an operation name or value is not recognized.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrUnknownEasing indicates an easing name is not in the supported set.
	ErrUnknownEasing = errors.New("unknown easing")

	// ErrEngineClosed indicates the engine no longer accepts tasks.
	ErrEngineClosed = errors.New("engine is closed")
)
