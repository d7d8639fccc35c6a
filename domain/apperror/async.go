package apperror

import "errors"

// ErrTimeout is reported when background work outlives its timeout.
var ErrTimeout = errors.New("async task timed out")

// AsyncError wraps a failure that happened on a background worker.
// Delivered is set when the failure was already converted into a response
// envelope and handed to a deferred response handle.
type AsyncError struct {
	Cause     error
	Path      string
	Delivered bool
}

// Error implements error.
func (e *AsyncError) Error() string {
	if e.Cause == nil {
		return "async task failed"
	}
	return "async task failed: " + e.Cause.Error()
}

// Unwrap returns the background failure.
func (e *AsyncError) Unwrap() error { return e.Cause }
