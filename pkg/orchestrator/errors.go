package orchestrator

import "fmt"

// ErrTransport wraps a failed model call. Transport failures are fatal
// for the turn: nothing is persisted and the caller decides whether to
// retry.
type ErrTransport struct {
	Err error
}

func (e ErrTransport) Error() string {
	return fmt.Sprintf("model call failed: %v", e.Err)
}

func (e ErrTransport) Unwrap() error {
	return e.Err
}

// ErrConfiguration reports an unusable orchestrator setup. Configuration
// failures are fatal and surface before any model call is made.
type ErrConfiguration struct {
	Reason string
}

func (e ErrConfiguration) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}
