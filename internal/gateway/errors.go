package gateway

import (
	"errors"
	"fmt"
)

// TransportError means the server could not be reached at all: dial failure,
// DNS, TLS, or timeout. Mutating calls that fail this way are safe to queue
// locally for retry.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerRejection means the server understood the request and refused it.
// It is never retried automatically and never queued offline.
type ServerRejection struct {
	StatusCode int
	Message    string
}

func (e *ServerRejection) Error() string {
	return fmt.Sprintf("server rejected request (%d): %s", e.StatusCode, e.Message)
}

// IsTransport reports whether err is (or wraps) a transport-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// AsRejection extracts a server rejection from err if present.
func AsRejection(err error) (*ServerRejection, bool) {
	var sr *ServerRejection
	if errors.As(err, &sr) {
		return sr, true
	}
	return nil, false
}
