// Package monitor accumulates delivered readings and computes aggregate
// safety statistics over them. A Monitor is safe for concurrent use: the
// streaming supervisor appends from its own goroutine while a UI or report
// reads.
package monitor

import (
	"sync"

	"github.com/thermolineco/thermoline/pkg/sensor"
)

// Default safe operating interval in °C.
const (
	DefaultSafeMin = 20.0
	DefaultSafeMax = 80.0
)

// Classification buckets a temperature against the safe interval. A value
// exactly equal to the configured minimum or maximum is a boundary case,
// not a violation.
type Classification int

const (
	InRange Classification = iota
	Boundary
	TooCold
	TooHot
)

func (c Classification) String() string {
	switch c {
	case InRange:
		return "in range"
	case Boundary:
		return "boundary"
	case TooCold:
		return "too cold"
	case TooHot:
		return "too hot"
	default:
		return "unknown"
	}
}

// Stats are the aggregate statistics over all accumulated readings. Min,
// Max, and Mean are only meaningful when Count > 0.
type Stats struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}

// Monitor stores temperature readings and answers statistics and safety
// queries against a configured safe interval.
type Monitor struct {
	mu       sync.RWMutex
	safeMin  float64
	safeMax  float64
	readings []sensor.Reading
}

// New creates a Monitor with the given safe interval.
func New(safeMin, safeMax float64) *Monitor {
	return &Monitor{
		safeMin: safeMin,
		safeMax: safeMax,
	}
}

// SafeMin returns the lower bound of the safe interval.
func (m *Monitor) SafeMin() float64 { return m.safeMin }

// SafeMax returns the upper bound of the safe interval.
func (m *Monitor) SafeMax() float64 { return m.safeMax }

// Add appends a single reading. Values arrive unmodified from the feed;
// the monitor never filters or clamps.
func (m *Monitor) Add(r sensor.Reading) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readings = append(m.readings, r)
}

// AddBatch appends multiple readings, preserving order.
func (m *Monitor) AddBatch(readings []sensor.Reading) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readings = append(m.readings, readings...)
}

// Len returns the number of accumulated readings.
func (m *Monitor) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.readings)
}

// Readings returns a copy of all accumulated readings in arrival order.
func (m *Monitor) Readings() []sensor.Reading {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]sensor.Reading(nil), m.readings...)
}

// Stats computes count, min, max, and mean over all readings.
func (m *Monitor) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Stats{Count: len(m.readings)}
	if s.Count == 0 {
		return s
	}

	s.Min = m.readings[0].Temperature
	s.Max = m.readings[0].Temperature

	var sum float64
	for _, r := range m.readings {
		t := r.Temperature
		sum += t
		if t < s.Min {
			s.Min = t
		}
		if t > s.Max {
			s.Max = t
		}
	}
	s.Mean = sum / float64(s.Count)

	return s
}

// Classify buckets a single temperature against the safe interval.
func (m *Monitor) Classify(t float64) Classification {
	switch {
	case t == m.safeMin || t == m.safeMax:
		return Boundary
	case t < m.safeMin:
		return TooCold
	case t > m.safeMax:
		return TooHot
	default:
		return InRange
	}
}

// Violations returns the readings strictly outside the safe interval, in
// arrival order. Boundary values are not violations.
func (m *Monitor) Violations() []sensor.Reading {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []sensor.Reading
	for _, r := range m.readings {
		if r.Temperature < m.safeMin || r.Temperature > m.safeMax {
			out = append(out, r)
		}
	}
	return out
}

// Cold returns the readings at or below the safe minimum.
func (m *Monitor) Cold() []sensor.Reading {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []sensor.Reading
	for _, r := range m.readings {
		if r.Temperature <= m.safeMin {
			out = append(out, r)
		}
	}
	return out
}

// Hot returns the readings at or above the safe maximum.
func (m *Monitor) Hot() []sensor.Reading {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []sensor.Reading
	for _, r := range m.readings {
		if r.Temperature >= m.safeMax {
			out = append(out, r)
		}
	}
	return out
}
