package agent

import (
	"fmt"

	"github.com/ardalan-sia/smartcab/pkg/grid"
	"github.com/ardalan-sia/smartcab/pkg/world"
)

// State is the learning key: the sensed inputs plus the planner's waypoint.
// It is a comparable value built fresh each step and never mutated.
type State struct {
	Light    world.Light `msgpack:"light"`
	Oncoming grid.Action `msgpack:"oncoming"`
	Left     grid.Action `msgpack:"left"`
	Right    grid.Action `msgpack:"right"`
	Waypoint grid.Action `msgpack:"waypoint"`
}

// NewState builds a key. Right is only kept when includeRight is set.
func NewState(in world.Sensed, waypoint grid.Action, includeRight bool) State {
	s := State{
		Light:    in.Light,
		Oncoming: in.Oncoming,
		Left:     in.Left,
		Right:    grid.None,
		Waypoint: waypoint,
	}
	if includeRight {
		s.Right = in.Right
	}
	return s
}

func (s State) String() string {
	return fmt.Sprintf("{light:%s oncoming:%s left:%s right:%s waypoint:%s}",
		s.Light, s.Oncoming, s.Left, s.Right, s.Waypoint)
}
