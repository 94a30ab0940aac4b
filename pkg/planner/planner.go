// Package planner suggests the next turn towards a destination, ignoring
// traffic rules.
package planner

import "github.com/ardalan-sia/smartcab/pkg/grid"

// NextWaypoint returns the action that reduces the remaining distance along
// the axis with more distance left. Ties go to the east-west axis. It returns
// None at the destination.
func NextWaypoint(g grid.Grid, pos grid.Position, h grid.Heading, dest grid.Position) grid.Action {
	dx, dy := g.Delta(pos, dest)
	switch {
	case dx == 0 && dy == 0:
		return grid.None
	case abs(dx) >= abs(dy):
		return steer(dx, h.DX, h.DY, grid.Left, grid.Right)
	default:
		return steer(dy, h.DY, h.DX, grid.Right, grid.Left)
	}
}

// steer picks the action for a signed offset d along one axis, where along
// and across are the heading components parallel and perpendicular to it.
func steer(d, along, across int, whenAcrossPositive, whenAcrossNegative grid.Action) grid.Action {
	switch {
	case d*along > 0:
		return grid.Forward
	case d*along < 0:
		// Facing away: start turning around.
		return grid.Right
	case d*across > 0:
		return whenAcrossPositive
	default:
		return whenAcrossNegative
	}
}

// RoutePlanner remembers the destination for one participant.
type RoutePlanner struct {
	grid        grid.Grid
	destination grid.Position
}

// New returns a planner over g.
func New(g grid.Grid) *RoutePlanner { return &RoutePlanner{grid: g} }

// RouteTo sets the destination.
func (p *RoutePlanner) RouteTo(dest grid.Position) { p.destination = dest }

// Destination returns the current destination.
func (p *RoutePlanner) Destination() grid.Position { return p.destination }

// Next returns the waypoint from pos facing h.
func (p *RoutePlanner) Next(pos grid.Position, h grid.Heading) grid.Action {
	return NextWaypoint(p.grid, pos, h, p.destination)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
