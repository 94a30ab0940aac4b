// Package agent holds the drivers of the primary participant: the tabular
// Q-learning agent and a random baseline.
package agent

import (
	"fmt"
	"io"
	"log"
	"math/rand"

	"github.com/ardalan-sia/smartcab/pkg/config"
	"github.com/ardalan-sia/smartcab/pkg/grid"
	"github.com/ardalan-sia/smartcab/pkg/planner"
	"github.com/ardalan-sia/smartcab/pkg/world"
)

// Phase is where the learner is within a step.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSensing
	PhaseSelecting
	PhaseActing
	PhaseLearning
	PhaseTerminal
)

func (p Phase) String() string {
	return [...]string{"idle", "sensing", "action-selection", "acting", "learning", "terminal"}[p]
}

// tally is the per-trial bookkeeping shared by every primary driver.
type tally struct {
	planner    *planner.RoutePlanner
	waypoint   grid.Action
	cumReward  float64
	actions    int
	violations int
}

func (t *tally) reset(w *world.World, p *world.Participant) {
	if t.planner == nil {
		t.planner = planner.New(w.Grid())
	}
	t.planner.RouteTo(p.Destination)
	t.waypoint = grid.None
	t.cumReward, t.actions, t.violations = 0, 0, 0
}

func (t *tally) plan(p *world.Participant) grid.Action {
	t.waypoint = t.planner.Next(p.Position, p.Heading)
	return t.waypoint
}

func (t *tally) record(out world.Outcome) {
	t.cumReward += out.Reward
	t.actions++
	if out.Violation {
		t.violations++
	}
}

// Waypoint is the planner's suggestion for the current step.
func (t *tally) Waypoint() grid.Action { return t.waypoint }

// CumulativeReward is the reward summed over the current trial.
func (t *tally) CumulativeReward() float64 { return t.cumReward }

// Actions is the number of actions submitted in the current trial.
func (t *tally) Actions() int { return t.actions }

// Violations is the number of illegal actions in the current trial.
func (t *tally) Violations() int { return t.violations }

// QLearner is an epsilon-greedy tabular Q-learning driver. Its table
// outlives trials; everything else is reset per trial.
type QLearner struct {
	tally

	cfg    config.Agent
	rng    *rand.Rand
	logger *log.Logger
	table  *QTable
	phase  Phase

	state      State
	prevState  State
	prevAction grid.Action
	hasPrev    bool
}

// NewQLearner validates cfg and returns a learner with an empty table.
func NewQLearner(cfg config.Agent, rng *rand.Rand, logger *log.Logger) (*QLearner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new q-learner: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &QLearner{
		cfg:    cfg,
		rng:    rng,
		logger: logger,
		table:  NewQTable(cfg.InitialQ),
	}, nil
}

func (l *QLearner) Table() *QTable       { return l.table }
func (l *QLearner) Phase() Phase         { return l.phase }
func (l *QLearner) Config() config.Agent { return l.cfg }

// Explored is the number of (state, action) pairs learned so far.
func (l *QLearner) Explored() int { return l.table.Len() }

// State returns the key built at the current step.
func (l *QLearner) State() State { return l.state }

// Previous returns the last recorded transition, if any.
func (l *QLearner) Previous() (State, grid.Action, bool) {
	return l.prevState, l.prevAction, l.hasPrev
}

// QValue returns Q(s, a), or the initial value for unseen pairs.
func (l *QLearner) QValue(s State, a grid.Action) float64 { return l.table.Get(s, a) }

// ChooseAction explores uniformly with probability epsilon, otherwise picks
// uniformly among the actions with the highest value.
func (l *QLearner) ChooseAction(s State) grid.Action {
	if l.rng.Float64() < l.cfg.Epsilon {
		return grid.Actions[l.rng.Intn(len(grid.Actions))]
	}
	best := l.table.Best(s)
	return best[l.rng.Intn(len(best))]
}

// Learn applies the one-step Q-update to (prev, action).
func (l *QLearner) Learn(prev State, action grid.Action, reward float64, next State) {
	old := l.table.Get(prev, action)
	target := reward + l.cfg.Gamma*l.table.Max(next)
	l.table.Set(prev, action, old+l.cfg.Alpha*(target-old))
}

// Reset routes to the new destination and forgets the previous transition.
func (l *QLearner) Reset(w *world.World, p *world.Participant) {
	l.tally.reset(w, p)
	l.state, l.prevState = State{}, State{}
	l.prevAction, l.hasPrev = grid.None, false
	l.phase = PhaseIdle
}

// Intent asks the planner for the waypoint; the world shows it to others.
func (l *QLearner) Intent(w *world.World, p *world.Participant) grid.Action {
	l.phase = PhaseSensing
	return l.plan(p)
}

// Drive runs sense, select, act and learn for one step. The update lags by
// one step: this step's reward is credited to the previous state and action.
func (l *QLearner) Drive(w *world.World, p *world.Participant, in world.Sensed) {
	l.state = NewState(in, l.waypoint, l.cfg.IncludeRight)

	l.phase = PhaseSelecting
	action := l.ChooseAction(l.state)

	l.phase = PhaseActing
	deadline := p.Deadline
	out := w.Act(p, action)
	l.record(out)

	l.phase = PhaseLearning
	if l.hasPrev {
		l.Learn(l.prevState, l.prevAction, out.Reward, l.state)
	}
	l.prevState, l.prevAction, l.hasPrev = l.state, action, true

	if l.cfg.Debug {
		l.logger.Printf("[QLearner] deadline=%d inputs={%v} waypoint=%s action=%s reward=%.2f q_size=%d",
			deadline, in, l.waypoint, action, out.Reward, l.table.Len())
	}
	if out.Done {
		l.phase = PhaseTerminal
	}
}
