// Package sensor defines the temperature reading model shared across the
// monitor, the streaming consumer, and the simulated feed, plus the HTTP
// client for the sensor service's batch history endpoint.
package sensor

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMissingTemperature indicates a payload without a temperature field.
	ErrMissingTemperature = errors.New("payload missing temperature field")

	// ErrMissingTimestamp indicates a payload without a timestamp field.
	ErrMissingTimestamp = errors.New("payload missing timestamp field")
)

// Reading is one temperature sample from the feed. The timestamp is an
// opaque server-supplied string: ordering and timezone semantics belong to
// the server and are never parsed here.
type Reading struct {
	Temperature float64 `json:"temperature"`
	Timestamp   string  `json:"timestamp"`
}

// ParseReading deserializes an event payload into a Reading.
//
// The returned error is the whole contract: callers on the streaming path
// discard failed payloads and keep going, so a corrupt event can never take
// the stream down. Failure modes are malformed JSON, a missing field, and a
// non-numeric temperature.
func ParseReading(payload string) (Reading, error) {
	var raw struct {
		Temperature *float64 `json:"temperature"`
		Timestamp   *string  `json:"timestamp"`
	}

	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return Reading{}, fmt.Errorf("parsing reading payload: %w", err)
	}
	if raw.Temperature == nil {
		return Reading{}, ErrMissingTemperature
	}
	if raw.Timestamp == nil {
		return Reading{}, ErrMissingTimestamp
	}

	return Reading{Temperature: *raw.Temperature, Timestamp: *raw.Timestamp}, nil
}
