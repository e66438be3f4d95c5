package stream

import (
	"errors"
	"fmt"
)

// ErrStopped is returned when a session or supervisor ends because the Stop
// handle was signaled. It marks a clean, requested termination — callers
// should not treat it as a failure.
var ErrStopped = errors.New("streaming stopped by request")

// ProtocolError is a non-success HTTP status from the stream endpoint. It is
// terminal for the streaming run: the supervisor never retries it.
type ProtocolError struct {
	Status int
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("stream endpoint returned status %d", e.Status)
}

// TransportError is a connection-level failure: dial errors, resets,
// timeouts, or the server closing an indefinite stream. The supervisor
// retries these after its back-off interval.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "stream transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
