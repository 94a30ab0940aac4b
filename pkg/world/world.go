// Package world is the smartcab environment: it owns the grid, the lights
// and every participant, advances time, and scores each attempted action
// against the right-of-way rules.
package world

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/ardalan-sia/smartcab/pkg/config"
	"github.com/ardalan-sia/smartcab/pkg/grid"
	"github.com/ardalan-sia/smartcab/pkg/traffic"
)

var (
	// ErrNoPrimary is returned by Reset before a learner has been added.
	ErrNoPrimary = errors.New("world has no primary participant")
	// ErrTrialOver is returned by Step once the current trial has ended.
	ErrTrialOver = errors.New("trial is over")
)

// Outcome is the result of one attempted action. A violation is an outcome,
// not an error.
type Outcome struct {
	Action    grid.Action
	Reward    float64
	Violation bool
	Moved     bool
	Done      bool
	Success   bool
}

// TrialStatus tracks the primary participant's current trial.
type TrialStatus struct {
	Trial       int
	Start       grid.Position
	Destination grid.Position
	Deadline    int
	Steps       int
	Violations  int
	Done        bool
	Success     bool
}

// ResetOptions pins parts of the next trial. Zero values are randomized.
type ResetOptions struct {
	Start       *grid.Position
	Heading     *grid.Heading
	Destination *grid.Position
	// Deadline overrides distance x factor when positive.
	Deadline int
}

// World is the single source of truth for topology, time and rules.
type World struct {
	cfg    config.World
	grid   grid.Grid
	lights *traffic.LightMap
	rng    *rand.Rand
	logger *log.Logger

	t            int
	participants []*Participant
	primary      *Participant
	snapshot     map[*Participant]Sensed
	status       TrialStatus
}

// New builds a world. All randomness, including the light periods drawn
// here, comes from rng.
func New(cfg config.World, rng *rand.Rand, logger *log.Logger) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new world: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	g := grid.New(cfg.Cols, cfg.Rows)
	return &World{
		cfg:    cfg,
		grid:   g,
		lights: traffic.NewMap(g, rng, cfg.LightPeriodMin, cfg.LightPeriodMax),
		rng:    rng,
		logger: logger,
	}, nil
}

func (w *World) Grid() grid.Grid              { return w.grid }
func (w *World) Lights() *traffic.LightMap    { return w.lights }
func (w *World) Rand() *rand.Rand             { return w.rng }
func (w *World) Time() int                    { return w.t }
func (w *World) Config() config.World         { return w.cfg }
func (w *World) Primary() *Participant        { return w.primary }
func (w *World) Status() TrialStatus          { return w.status }
func (w *World) Participants() []*Participant { return w.participants }

// Dummies returns the dummy participants of the current trial.
func (w *World) Dummies() []*Participant {
	return lo.Filter(w.participants, func(p *Participant, _ int) bool { return p.Kind == KindDummy })
}

// AddPrimary registers the learning participant. It survives resets.
func (w *World) AddPrimary(d Driver) *Participant {
	p := &Participant{ID: uuid.New().String(), Kind: KindLearner, driver: d}
	if w.primary != nil {
		w.participants = lo.Without(w.participants, w.primary)
	}
	w.primary = p
	w.participants = append([]*Participant{p}, w.participants...)
	return p
}

// Reset starts a new trial: fresh dummy traffic, a new start, destination and
// deadline for the primary, and cleared counters. Lights keep their periods.
func (w *World) Reset(opts ResetOptions) error {
	if w.grid.Cols() < 2 || w.grid.Rows() < 2 {
		return config.NewConfigurationError("world", "grid is smaller than 2x2")
	}
	if w.primary == nil {
		return ErrNoPrimary
	}

	start, dest, err := w.placePrimary(opts)
	if err != nil {
		return err
	}
	heading := w.randomHeading()
	if opts.Heading != nil {
		heading = *opts.Heading
	}
	deadline := w.grid.Distance(start, dest) * w.cfg.DeadlineFactor
	if opts.Deadline > 0 {
		deadline = opts.Deadline
	}

	// Nothing is mutated before this point, so a failed Reset leaves the
	// current trial intact.
	w.participants = []*Participant{w.primary}
	for i := 0; i < w.cfg.Dummies; i++ {
		d := &Participant{
			ID:       uuid.New().String(),
			Kind:     KindDummy,
			Position: w.randomPosition(),
			Heading:  w.randomHeading(),
			driver:   &Dummy{},
		}
		d.driver.Reset(w, d)
		w.participants = append(w.participants, d)
	}

	p := w.primary
	p.Position, p.Heading, p.Destination, p.Deadline = start, heading, dest, deadline
	p.intent = grid.None
	w.status = TrialStatus{
		Trial:       w.status.Trial + 1,
		Start:       start,
		Destination: dest,
		Deadline:    deadline,
	}
	p.driver.Reset(w, p)

	if w.cfg.Debug {
		w.logger.Printf("[World] 🚦 trial %d: start=%v heading=%v destination=%v deadline=%d",
			w.status.Trial, start, heading, dest, deadline)
	}
	return nil
}

func (w *World) placePrimary(opts ResetOptions) (grid.Position, grid.Position, error) {
	for _, p := range []*grid.Position{opts.Start, opts.Destination} {
		if p != nil && !w.grid.Contains(*p) {
			return grid.Position{}, grid.Position{}, fmt.Errorf("reset: %v is off the %dx%d grid", *p, w.grid.Cols(), w.grid.Rows())
		}
	}
	if opts.Start != nil && opts.Destination != nil {
		if *opts.Start == *opts.Destination {
			return grid.Position{}, grid.Position{}, fmt.Errorf("reset: start and destination are both %v", *opts.Start)
		}
		return *opts.Start, *opts.Destination, nil
	}

	minDist := lo.Clamp(w.cfg.MinStartDistance, 1, w.grid.MaxDistance())
	var candidates []grid.Position
	switch {
	case opts.Destination != nil:
		candidates = w.within(*opts.Destination, minDist)
		return candidates[w.rng.Intn(len(candidates))], *opts.Destination, nil
	case opts.Start != nil:
		candidates = w.within(*opts.Start, minDist)
		return *opts.Start, candidates[w.rng.Intn(len(candidates))], nil
	}
	dest := w.randomPosition()
	candidates = w.within(dest, minDist)
	return candidates[w.rng.Intn(len(candidates))], dest, nil
}

// within lists intersections at least minDist from anchor. minDist is
// clamped to the grid so the list is never empty.
func (w *World) within(anchor grid.Position, minDist int) []grid.Position {
	return lo.Filter(w.grid.Positions(), func(p grid.Position, _ int) bool {
		return w.grid.Distance(anchor, p) >= minDist
	})
}

func (w *World) randomPosition() grid.Position {
	return grid.Position{Col: w.rng.Intn(w.grid.Cols()), Row: w.rng.Intn(w.grid.Rows())}
}

func (w *World) randomHeading() grid.Heading {
	return grid.Headings[w.rng.Intn(len(grid.Headings))]
}

// Step advances global time by one: lights tick, every participant announces
// its intent, everyone senses the same pre-move snapshot, then everyone acts.
func (w *World) Step() error {
	if w.primary == nil {
		return ErrNoPrimary
	}
	if w.status.Done {
		return ErrTrialOver
	}
	w.t++
	w.lights.Tick(w.t)

	for _, p := range w.participants {
		p.intent = p.driver.Intent(w, p)
	}
	w.snapshot = make(map[*Participant]Sensed, len(w.participants))
	for _, p := range w.participants {
		w.snapshot[p] = w.Sense(p)
	}
	// Drive may not remove participants, so the slice is stable here.
	for _, p := range w.participants {
		p.driver.Drive(w, p, w.snapshot[p])
	}
	w.snapshot = nil
	return nil
}

// Sense reports the light along p's heading and the intents of participants
// approaching p's intersection. It has no side effects.
func (w *World) Sense(p *Participant) Sensed {
	in := Sensed{Light: Red, Oncoming: grid.None, Left: grid.None, Right: grid.None}
	if w.lights.Green(p.Position, p.Heading) {
		in.Light = Green
	}
	h := p.Heading
	for _, other := range w.participants {
		if other == p || other.Position != p.Position || other.Heading == h {
			continue
		}
		o := other.Heading
		switch {
		case h.DX*o.DX+h.DY*o.DY == -1:
			// Left turns yield, so a second oncoming car that is not turning left wins.
			if in.Oncoming != grid.Left {
				in.Oncoming = other.intent
			}
		case h.DY == o.DX && -h.DX == o.DY:
			if in.Right != grid.Forward && in.Right != grid.Left {
				in.Right = other.intent
			}
		default:
			if in.Left != grid.Forward {
				in.Left = other.intent
			}
		}
	}
	return in
}

// sensed returns the step snapshot for p, or a fresh reading outside Step.
func (w *World) sensed(p *Participant) Sensed {
	if in, ok := w.snapshot[p]; ok {
		return in
	}
	return w.Sense(p)
}

// Act validates and executes an attempted action and returns its outcome.
// Illegal actions leave the participant in place and score a violation.
func (w *World) Act(p *Participant, a grid.Action) Outcome {
	isPrimary := p == w.primary
	if isPrimary && w.status.Done {
		return Outcome{Action: a, Done: true, Success: w.status.Success}
	}

	in := w.sensed(p)
	r := w.cfg.Rewards
	out := Outcome{Action: a}
	switch {
	case !Legal(a, in):
		out.Violation = true
		out.Reward = r.Violation
	case a == grid.None:
		out.Reward = r.Null
	default:
		p.Heading = a.Turn(p.Heading)
		p.Position = w.grid.Move(p.Position, p.Heading)
		out.Moved = true
		out.Reward = r.Detour
		if a == p.intent {
			out.Reward = r.Progress
		}
	}

	if !isPrimary {
		return out
	}

	w.status.Steps++
	if out.Violation {
		w.status.Violations++
	}
	switch {
	case p.Position == p.Destination:
		out.Reward += r.Destination
		out.Done, out.Success = true, true
	case w.cfg.EnforceDeadline:
		p.Deadline--
		if p.Deadline <= 0 {
			out.Reward += r.DeadlineMissed
			out.Done = true
		}
	}
	w.status.Deadline = p.Deadline
	w.status.Done, w.status.Success = out.Done, out.Success

	if w.cfg.Debug {
		w.logger.Printf("[World] t=%d deadline=%d inputs={%v} action=%s reward=%.2f",
			w.t, p.Deadline, in, a, out.Reward)
	}
	if w.cfg.Debug && out.Success {
		w.logger.Printf("[World] ✅ reached destination %v in %d steps", p.Destination, w.status.Steps)
	} else if w.cfg.Debug && out.Done {
		w.logger.Printf("[World] ❌ deadline exhausted %d away from %v",
			w.grid.Distance(p.Position, p.Destination), p.Destination)
	}
	return out
}

// Finish ends the current trial as a failure. The driver uses it for its
// hard step cap.
func (w *World) Finish() {
	w.status.Done = true
	w.status.Success = false
}
