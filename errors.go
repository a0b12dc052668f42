package scrollfx

import (
	"errors"
	"fmt"
)

var (
	// ErrClockConflict is returned when a second FrameClock is started while
	// another one is still running in the process, or when an Engine is
	// started on a clock another engine is driving.
	ErrClockConflict = errors.New("scrollfx: frame clock already in use")

	// ErrAlreadyStarted is returned by Engine.Start on a running engine.
	ErrAlreadyStarted = errors.New("scrollfx: engine already started")

	// ErrMediaOwned is wrapped by the ConfigurationError returned when a
	// media resource is already driven by another scrub binding.
	ErrMediaOwned = errors.New("scrollfx: media already owned by a scrub binding")
)

// ConfigurationError reports an invalid config value or registration spec.
// It is always returned synchronously, never raised during a tick.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scrollfx: invalid %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("scrollfx: invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// staleReferenceError describes a registration whose element left the
// document. It is logged in debug mode and never returned to callers.
type staleReferenceError struct {
	kind handleKind
	id   uint32
}

func (e staleReferenceError) Error() string {
	return fmt.Sprintf("stale %s #%d: element unmounted, pruned", e.kind, e.id)
}
