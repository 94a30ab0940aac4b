// Package traffic owns the per-intersection traffic lights.
package traffic

import (
	"math/rand"

	"github.com/ardalan-sia/smartcab/pkg/grid"
)

// LightMap holds one light per intersection. The set is fixed for the life
// of a world.
type LightMap struct {
	Lights map[grid.Position]*Light
}

// NewMap places a light on every intersection of g.
func NewMap(g grid.Grid, rng *rand.Rand, minPeriod, maxPeriod int) *LightMap {
	lm := &LightMap{Lights: make(map[grid.Position]*Light, g.Size())}
	// Positions is ordered, so the same seed yields the same lights.
	for _, p := range g.Positions() {
		lm.Lights[p] = NewLight(rng, minPeriod, maxPeriod)
	}
	return lm
}

// At returns the light at p.
func (lm *LightMap) At(p grid.Position) *Light { return lm.Lights[p] }

// Green reports whether a participant at p heading h faces a green light.
func (lm *LightMap) Green(p grid.Position, h grid.Heading) bool {
	return lm.Lights[p].Green(h)
}

// Tick advances every light to global time t.
func (lm *LightMap) Tick(t int) {
	for _, l := range lm.Lights {
		l.Tick(t)
	}
}

// SetAll forces every light to the same phase.
func (lm *LightMap) SetAll(northSouthGreen bool, t int) {
	for _, l := range lm.Lights {
		l.Set(northSouthGreen, t)
	}
}
