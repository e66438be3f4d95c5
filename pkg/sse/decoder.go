package sse

import (
	"bytes"
	"strings"
)

// Decoder incrementally parses an SSE byte stream into events. Feed it
// chunks as they arrive; it buffers partial lines internally and never
// assumes chunk boundaries align with line or event boundaries.
//
// A Decoder belongs to exactly one physical connection. When a connection
// drops, any partially buffered event must die with its Decoder — start the
// next connection with a fresh one.
type Decoder struct {
	// buf accumulates bytes since the last completed line. pos marks the
	// start of the first unconsumed byte; the consumed prefix is compacted
	// away after every Feed so the buffer never grows past one event.
	buf []byte
	pos int

	current   Event
	hasFields bool
}

// NewDecoder returns a Decoder with an empty buffer.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends a chunk of received bytes and returns every event completed
// by it, in stream order. A chunk may complete zero, one, or many events.
//
// An event is completed by a blank line (two consecutive line terminators).
// Events that accumulated no fields — leading blank lines, keep-alive
// newlines — are skipped without being yielded. A trailing unterminated
// event is never yielded: if the stream ends mid-event the partial data is
// simply abandoned with the Decoder.
func (d *Decoder) Feed(chunk []byte) []Event {
	d.buf = append(d.buf, chunk...)

	var events []Event
	for {
		i := bytes.IndexByte(d.buf[d.pos:], '\n')
		if i < 0 {
			break
		}

		line := d.buf[d.pos : d.pos+i]
		d.pos += i + 1

		// Tolerate CRLF line terminators.
		line = bytes.TrimSuffix(line, []byte("\r"))

		if ev, ok := d.consumeLine(string(line)); ok {
			events = append(events, ev)
		}
	}

	// Compact the consumed prefix so repeated single-byte feeds stay
	// linear instead of reallocating quadratically.
	if d.pos > 0 {
		d.buf = d.buf[:copy(d.buf, d.buf[d.pos:])]
		d.pos = 0
	}

	return events
}

// Buffered reports the number of bytes held for the in-progress line.
func (d *Decoder) Buffered() int {
	return len(d.buf) - d.pos
}

// consumeLine processes one complete line. It returns the finished event
// and true when the line is the blank terminator of a non-empty event.
func (d *Decoder) consumeLine(line string) (Event, bool) {
	// A blank line signals the end of the current event.
	if line == "" {
		if !d.hasFields {
			return Event{}, false
		}
		ev := d.current
		d.reset()
		return ev, true
	}

	// Lines starting with ':' are comments, commonly used as keep-alives.
	if strings.HasPrefix(line, ":") {
		return Event{}, false
	}

	d.parseField(line)
	return Event{}, false
}

// parseField accumulates a single non-empty, non-comment SSE line into the
// current event.
//
// Per the SSE spec, a line has the form "field:value" where a single space
// after the colon is optional and stripped if present.
func (d *Decoder) parseField(line string) {
	var field, value string

	if before, after, ok := strings.Cut(line, ":"); ok {
		field = before
		value = strings.TrimPrefix(after, " ")
	} else {
		// Line with no colon: the entire line is the field name with
		// an empty value.
		field = line
	}

	switch field {
	case "data":
		d.current.Data = append(d.current.Data, value)
		d.hasFields = true
	case "event":
		d.current.Type = value
		d.hasFields = true
	case "id":
		d.current.ID = value
		d.hasFields = true
	default:
		// "retry" and unknown fields are ignored per the SSE spec.
	}
}

// reset clears the accumulated event state for the next event.
func (d *Decoder) reset() {
	d.current = Event{}
	d.hasFields = false
}
