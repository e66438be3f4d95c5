package sensord

import (
	"math/rand/v2"
	"sync"
)

const (
	// maxStep bounds how far the temperature may move between readings.
	maxStep = 1.5

	// floorTemp and ceilTemp clamp the random walk so the simulated sensor
	// stays in a physically plausible band.
	floorTemp = 0.0
	ceilTemp  = 100.0
)

// Generator produces a bounded random walk of temperatures.
type Generator struct {
	mu      sync.Mutex
	current float64
}

// NewGenerator creates a Generator starting at the given temperature.
func NewGenerator(start float64) *Generator {
	return &Generator{current: start}
}

// Next advances the walk one step and returns the new temperature.
func (g *Generator) Next() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.current += (rand.Float64()*2 - 1) * maxStep
	if g.current < floorTemp {
		g.current = floorTemp
	}
	if g.current > ceilTemp {
		g.current = ceilTemp
	}

	return g.current
}

// Current returns the walk's present temperature without advancing it.
func (g *Generator) Current() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}
