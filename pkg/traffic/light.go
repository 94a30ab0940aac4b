package traffic

import (
	"math/rand"

	"github.com/ardalan-sia/smartcab/pkg/grid"
)

// Light is a two-phase signal. Exactly one axis is green at any time.
type Light struct {
	northSouthGreen bool
	period          int
	lastChange      int
}

// NewLight returns a light with a random initial phase and a period drawn
// uniformly from [minPeriod, maxPeriod].
func NewLight(rng *rand.Rand, minPeriod, maxPeriod int) *Light {
	return &Light{
		northSouthGreen: rng.Intn(2) == 0,
		period:          minPeriod + rng.Intn(maxPeriod-minPeriod+1),
	}
}

// NorthSouthGreen reports the current phase.
func (l *Light) NorthSouthGreen() bool { return l.northSouthGreen }

// Period is the number of steps between toggles.
func (l *Light) Period() int { return l.period }

// Green reports whether traffic travelling along h has the green light.
func (l *Light) Green(h grid.Heading) bool {
	return l.northSouthGreen == h.NorthSouth()
}

// Tick toggles the phase once a full period has elapsed since the last change.
func (l *Light) Tick(t int) {
	if t-l.lastChange >= l.period {
		l.northSouthGreen = !l.northSouthGreen
		l.lastChange = t
	}
}

// Set forces the phase and restarts the period at t.
func (l *Light) Set(northSouthGreen bool, t int) {
	l.northSouthGreen = northSouthGreen
	l.lastChange = t
}
