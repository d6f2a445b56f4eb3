package scheduler

import "errors"

var (
	// ErrStaleToken is returned by Fire for a token that is no longer armed.
	ErrStaleToken     = errors.New("stale trigger token")
	ErrNoTrigger      = errors.New("trigger is required")
	ErrTriggerStopped = errors.New("trigger is stopped")
)
