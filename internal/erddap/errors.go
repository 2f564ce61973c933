package erddap

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned before any network call when a required
	// identifier is missing or empty.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrRemoteRequest matches every failed call to the ERDDAP server:
	// transport errors, non-2xx statuses and malformed response bodies.
	ErrRemoteRequest = errors.New("erddap request failed")

	// ErrRemoteTimeout matches remote failures caused by the client timeout.
	// A timeout is also an ErrRemoteRequest.
	ErrRemoteTimeout = errors.New("erddap request timed out")
)

// RequestError describes a failed ERDDAP call.
type RequestError struct {
	URL        string
	StatusCode int // zero when no response was received
	Timeout    bool
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("erddap request to %s timed out: %v", e.URL, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("erddap error (%d) from %s: %v", e.StatusCode, e.URL, e.Err)
	default:
		return fmt.Sprintf("erddap request to %s failed: %v", e.URL, e.Err)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// Is reports whether target is one of the remote error kinds this error belongs to.
func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrRemoteRequest:
		return true
	case ErrRemoteTimeout:
		return e.Timeout
	}
	return false
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
