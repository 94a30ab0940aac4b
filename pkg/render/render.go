// Package render draws a world as a colored text grid for debug display.
//
// Each intersection is two characters: the light phase ('|' north-south
// green, '-' east-west green) followed by its occupant. The primary is an
// arrow along its heading, dummies are 'o', the destination is '*' and an
// empty intersection is '.'.
package render

import (
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora"

	"github.com/ardalan-sia/smartcab/pkg/grid"
	"github.com/ardalan-sia/smartcab/pkg/world"
)

type Renderer struct {
	au aurora.Aurora
}

// New returns a renderer; colors switches ANSI escapes on or off.
func New(colors bool) *Renderer {
	return &Renderer{au: aurora.NewAurora(colors)}
}

// Grid renders w with colors.
func Grid(w *world.World) string { return New(true).Grid(w) }

func (r *Renderer) Grid(w *world.World) string {
	g := w.Grid()
	occupants := make(map[grid.Position]aurora.Value)
	var status string
	if p := w.Primary(); p != nil {
		occupants[p.Destination] = r.au.Red("*")
		for _, d := range w.Dummies() {
			occupants[d.Position] = r.au.Yellow("o")
		}
		occupants[p.Position] = r.au.Green(arrow(p.Heading))
		st := w.Status()
		status = fmt.Sprintf(" trial=%d steps=%d deadline=%d", st.Trial, st.Steps, p.Deadline)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "t=%d%s\n", w.Time(), status)
	for row := 0; row < g.Rows(); row++ {
		cells := make([]string, 0, g.Cols())
		for col := 0; col < g.Cols(); col++ {
			pos := grid.Position{Col: col, Row: row}
			light := r.au.Blue("-")
			if w.Lights().At(pos).NorthSouthGreen() {
				light = r.au.Blue("|")
			}
			occ, ok := occupants[pos]
			if !ok {
				occ = r.au.White(".")
			}
			cells = append(cells, light.String()+occ.String())
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteByte('\n')
	}
	return b.String()
}

func arrow(h grid.Heading) string {
	switch h {
	case grid.North:
		return "^"
	case grid.East:
		return ">"
	case grid.South:
		return "v"
	default:
		return "<"
	}
}
