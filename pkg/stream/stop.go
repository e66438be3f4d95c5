// Package stream implements the live feed consumer: a connection session
// that decodes one physical SSE connection into readings, and a supervisor
// that keeps a session alive across transient network failures until asked
// to stop.
package stream

import "sync"

// Stop is the cooperative cancellation handle shared between a caller and
// the streaming machinery. The caller is the only writer; the session and
// supervisor only ever observe it. Create one per logical streaming run,
// signal it at most once, and discard it after the run unwinds.
type Stop struct {
	once sync.Once
	done chan struct{}
}

// NewStop returns an unsignaled handle.
func NewStop() *Stop {
	return &Stop{done: make(chan struct{})}
}

// Signal requests shutdown. Safe to call from any goroutine and idempotent:
// repeated calls are no-ops.
func (s *Stop) Signal() {
	s.once.Do(func() {
		close(s.done)
	})
}

// Signaled reports whether shutdown has been requested. Lock-free and safe
// to call concurrently with Signal.
func (s *Stop) Signaled() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed once shutdown has been requested, for use
// in select loops.
func (s *Stop) Done() <-chan struct{} {
	return s.done
}
