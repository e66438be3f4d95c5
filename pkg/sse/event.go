// Package sse provides a minimal, purpose-built SSE (Server-Sent Events)
// decoder for consuming the sensor feed. It is designed to be fed raw byte
// chunks as they arrive off the wire — at any granularity, down to a single
// byte per chunk — and to yield complete events as soon as their terminating
// blank line has been seen.
//
// This package intentionally does NOT provide SSE writer or server
// capabilities.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// Event represents a single parsed SSE event, delimited by a blank line
// in the upstream byte stream.
type Event struct {
	// Type is the SSE event type from the "event:" field.
	// An empty string means the default "message" type per the SSE spec.
	Type string

	// Data holds the contents of each "data:" line for this event, one
	// entry per line. The sensor feed emits one record per data line, so
	// lines are kept separate rather than joined; callers that want the
	// spec's joined form can strings.Join(ev.Data, "\n").
	Data []string

	// ID is the last event ID from the "id:" field, if present.
	ID string
}
