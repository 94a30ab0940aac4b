package agent

import (
	"math/rand"

	"github.com/ardalan-sia/smartcab/pkg/grid"
	"github.com/ardalan-sia/smartcab/pkg/world"
)

// RandomDriver picks uniformly among the four actions and never learns.
// It is the baseline the learner is compared against.
type RandomDriver struct {
	tally
	rng *rand.Rand
}

func NewRandomDriver(rng *rand.Rand) *RandomDriver { return &RandomDriver{rng: rng} }

// Explored is always zero: the baseline keeps no table.
func (r *RandomDriver) Explored() int { return 0 }

func (r *RandomDriver) Reset(w *world.World, p *world.Participant) { r.tally.reset(w, p) }

func (r *RandomDriver) Intent(w *world.World, p *world.Participant) grid.Action { return r.plan(p) }

func (r *RandomDriver) Drive(w *world.World, p *world.Participant, in world.Sensed) {
	r.record(w.Act(p, grid.Actions[r.rng.Intn(len(grid.Actions))]))
}
