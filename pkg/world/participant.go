package world

import "github.com/ardalan-sia/smartcab/pkg/grid"

// Kind tags the two participant variants.
type Kind int

const (
	KindDummy Kind = iota
	KindLearner
)

func (k Kind) String() string {
	if k == KindLearner {
		return "learner"
	}
	return "dummy"
}

// Driver decides what a participant attempts each step. Dummy traffic and
// the learning agent are both drivers; the world does not care which.
type Driver interface {
	// Intent is the action the participant is about to attempt. It is what
	// other participants see when they sense this one.
	Intent(w *World, p *Participant) grid.Action
	// Drive picks an action from the pre-step sensing and submits it with w.Act.
	Drive(w *World, p *Participant, in Sensed)
	// Reset prepares the driver for a new trial.
	Reset(w *World, p *Participant)
}

// Participant is anything occupying an intersection with a heading.
type Participant struct {
	ID       string
	Kind     Kind
	Position grid.Position
	Heading  grid.Heading

	// Destination and Deadline are only meaningful for the learner.
	Destination grid.Position
	Deadline    int

	intent grid.Action
	driver Driver
}

// Intent returns the action announced for the current step.
func (p *Participant) Intent() grid.Action { return p.intent }

// Driver returns the participant's driver.
func (p *Participant) Driver() Driver { return p.driver }
