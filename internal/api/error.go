package api

import "fmt"

// Error is the single failure shape callers see. Status is the HTTP
// status code, or 0 for transport-level failures where no response was
// obtained.
type Error struct {
	Message string
	Details string
	Status  int
	err     error // underlying transport/decode error, if any
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("api: %s", e.Message)
}

func (e *Error) Unwrap() error { return e.err }

// Detail returns the most specific human-readable text available,
// mirroring the err.details || err.message fallback the UI layers use.
func (e *Error) Detail() string {
	if e.Details != "" {
		return e.Details
	}
	if e.Message != "" {
		return e.Message
	}
	return "Unknown error"
}

// IsAuthFailure reports whether the error is an HTTP 401. By the time a
// caller sees it, the session has already been torn down.
func IsAuthFailure(err error) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Status == 401
}
