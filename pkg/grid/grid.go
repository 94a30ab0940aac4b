// Package grid describes the toroidal street grid: intersections, headings
// and the four driving actions.
package grid

import "fmt"

// Position is an intersection addressed by column and row.
type Position struct {
	Col int
	Row int
}

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.Col, p.Row) }

// Heading is a unit vector on the grid. Row grows southwards.
type Heading struct {
	DX int
	DY int
}

var (
	North = Heading{0, -1}
	East  = Heading{1, 0}
	South = Heading{0, 1}
	West  = Heading{-1, 0}
)

// Headings lists the four headings clockwise from north.
var Headings = []Heading{North, East, South, West}

// Left rotates the heading by -90 degrees.
func (h Heading) Left() Heading { return Heading{h.DY, -h.DX} }

// Right rotates the heading by +90 degrees.
func (h Heading) Right() Heading { return Heading{-h.DY, h.DX} }

// NorthSouth reports whether the heading lies on the north-south axis.
func (h Heading) NorthSouth() bool { return h.DY != 0 }

func (h Heading) String() string {
	switch h {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return fmt.Sprintf("heading(%d,%d)", h.DX, h.DY)
}

// Action is what a participant attempts at an intersection.
type Action int

const (
	None Action = iota
	Forward
	Left
	Right
)

// Actions is the fixed action set in table order.
var Actions = []Action{None, Forward, Left, Right}

func (a Action) String() string {
	switch a {
	case None:
		return "none"
	case Forward:
		return "forward"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Turn returns the heading after taking the action. None keeps the heading.
func (a Action) Turn(h Heading) Heading {
	switch a {
	case Left:
		return h.Left()
	case Right:
		return h.Right()
	}
	return h
}

// Grid is a fixed cols x rows torus.
type Grid struct {
	cols int
	rows int
}

// New returns a grid. Sizes are validated by the world configuration.
func New(cols, rows int) Grid { return Grid{cols: cols, rows: rows} }

func (g Grid) Cols() int { return g.cols }
func (g Grid) Rows() int { return g.rows }

// Size is the number of intersections.
func (g Grid) Size() int { return g.cols * g.rows }

// Contains reports whether p lies on the grid.
func (g Grid) Contains(p Position) bool {
	return p.Col >= 0 && p.Col < g.cols && p.Row >= 0 && p.Row < g.rows
}

// Move steps one intersection along h, re-entering at the opposite edge.
func (g Grid) Move(p Position, h Heading) Position {
	return Position{
		Col: mod(p.Col+h.DX, g.cols),
		Row: mod(p.Row+h.DY, g.rows),
	}
}

// Delta is the shortest signed offset from `from` to `to` on each axis.
func (g Grid) Delta(from, to Position) (dx, dy int) {
	return wrapDelta(to.Col-from.Col, g.cols), wrapDelta(to.Row-from.Row, g.rows)
}

// Distance is the Manhattan distance with wraparound.
func (g Grid) Distance(a, b Position) int {
	dx, dy := g.Delta(a, b)
	return abs(dx) + abs(dy)
}

// MaxDistance is the largest Distance between any two intersections.
func (g Grid) MaxDistance() int { return g.cols/2 + g.rows/2 }

// Positions enumerates every intersection row by row.
func (g Grid) Positions() []Position {
	out := make([]Position, 0, g.Size())
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			out = append(out, Position{Col: c, Row: r})
		}
	}
	return out
}

func wrapDelta(d, n int) int {
	d = mod(d, n)
	if d > n/2 {
		d -= n
	}
	return d
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
