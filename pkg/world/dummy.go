package world

import "github.com/ardalan-sia/smartcab/pkg/grid"

// Dummy is background traffic: it keeps trying a random waypoint, waits when
// the rules block it, and draws a new waypoint after each move.
type Dummy struct {
	next grid.Action
}

func (d *Dummy) Reset(w *World, p *Participant) { d.next = randomAction(w) }

func (d *Dummy) Intent(w *World, p *Participant) grid.Action { return d.next }

func (d *Dummy) Drive(w *World, p *Participant, in Sensed) {
	if !Legal(d.next, in) {
		w.Act(p, grid.None)
		return
	}
	w.Act(p, d.next)
	d.next = randomAction(w)
}

func randomAction(w *World) grid.Action {
	return grid.Actions[w.rng.Intn(len(grid.Actions))]
}
