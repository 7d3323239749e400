package script

import "errors"

// Errors for script execution.
var (
	// ErrHostClosed is returned when running code on a closed host.
	ErrHostClosed = errors.New("script host is closed")

	// ErrExecutionTimeout is returned when a chunk runs past its deadline.
	ErrExecutionTimeout = errors.New("script execution timeout")
)
