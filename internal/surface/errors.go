package surface

import "errors"

// Lifecycle conditions. They are logged, never returned to page code.
var (
	// ErrNoContainer indicates Attach found nothing to attach to.
	ErrNoContainer = errors.New("surface: no container, engine disabled")

	// ErrStopped indicates an operation on a manager after Stop.
	ErrStopped = errors.New("surface: manager stopped")

	// ErrNotAttached indicates Start was called before a successful Attach.
	ErrNotAttached = errors.New("surface: not attached")
)
