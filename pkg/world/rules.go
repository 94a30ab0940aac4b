package world

import (
	"fmt"

	"github.com/ardalan-sia/smartcab/pkg/grid"
)

// Light is the signal as seen along a participant's heading.
type Light int

const (
	Red Light = iota
	Green
)

func (l Light) String() string {
	if l == Green {
		return "green"
	}
	return "red"
}

// Sensed is what a participant perceives at its intersection. Oncoming,
// Left and Right carry the action announced by the nearest participant
// approaching from that side, or None.
type Sensed struct {
	Light    Light
	Oncoming grid.Action
	Left     grid.Action
	Right    grid.Action
}

func (s Sensed) String() string {
	return fmt.Sprintf("light=%s oncoming=%s left=%s right=%s", s.Light, s.Oncoming, s.Left, s.Right)
}

// Legal applies the right-of-way table to an attempted action.
func Legal(a grid.Action, in Sensed) bool {
	switch a {
	case grid.Forward:
		return in.Light == Green
	case grid.Right:
		return in.Light == Green || in.Left != grid.Forward
	case grid.Left:
		return in.Light == Green && in.Oncoming != grid.Forward && in.Oncoming != grid.Right
	}
	return true
}
