// Package simulation drives repeated trials of a world and its primary
// participant and aggregates per-trial statistics.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/ardalan-sia/smartcab/pkg/config"
	"github.com/ardalan-sia/smartcab/pkg/world"
)

// Primary is a driver that also reports its per-trial bookkeeping.
type Primary interface {
	world.Driver
	CumulativeReward() float64
	Actions() int
	Violations() int
	// Explored is the number of learned (state, action) pairs.
	Explored() int
}

// TrialStats is one row of results.
type TrialStats struct {
	Trial            int
	Success          bool
	CumulativeReward float64
	Explored         int
	Violations       int
	Actions          int
	Steps            int
	DeadlineLeft     int
}

// Simulator runs trials on one world with one primary participant. The
// world and the primary's table persist across trials.
type Simulator struct {
	RunID   string
	World   *world.World
	Primary Primary
	// OnStep, when set, is called after every world step.
	OnStep func(w *world.World)

	participant *world.Participant
	cfg         config.Sim
	logger      *log.Logger
	trials      []TrialStats
}

// New registers primary with w and returns a simulator.
func New(w *world.World, primary Primary, cfg config.Sim, logger *log.Logger) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new simulator: %w", err)
	}
	if w == nil || primary == nil {
		return nil, errors.New("new simulator: world and primary are required")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Simulator{
		RunID:       uuid.New().String(),
		World:       w,
		Primary:     primary,
		participant: w.AddPrimary(primary),
		cfg:         cfg,
		logger:      logger,
	}, nil
}

// Trials returns every trial run so far.
func (s *Simulator) Trials() []TrialStats { return s.trials }

// Run plays n trials. Each ends on arrival, deadline exhaustion, or the
// MaxSteps cap. The context is checked between trials.
func (s *Simulator) Run(ctx context.Context, n int) ([]TrialStats, error) {
	out := make([]TrialStats, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		st, err := s.runTrial()
		if err != nil {
			return out, fmt.Errorf("trial %d: %w", len(s.trials)+1, err)
		}
		s.trials = append(s.trials, st)
		out = append(out, st)
	}
	return out, nil
}

func (s *Simulator) runTrial() (TrialStats, error) {
	if err := s.World.Reset(world.ResetOptions{}); err != nil {
		return TrialStats{}, err
	}
	for !s.World.Status().Done {
		if s.World.Status().Steps >= s.cfg.MaxSteps {
			s.World.Finish()
			break
		}
		if err := s.World.Step(); err != nil {
			return TrialStats{}, err
		}
		if s.OnStep != nil {
			s.OnStep(s.World)
		}
	}

	status := s.World.Status()
	st := TrialStats{
		Trial:            len(s.trials) + 1,
		Success:          status.Success,
		CumulativeReward: s.Primary.CumulativeReward(),
		Explored:         s.Primary.Explored(),
		Violations:       s.Primary.Violations(),
		Actions:          s.Primary.Actions(),
		Steps:            status.Steps,
		DeadlineLeft:     s.participant.Deadline,
	}
	if st.Success {
		s.logger.Printf("[Trial %d] ✅ reached %v in %d steps | reward=%.2f violations=%d explored=%d",
			st.Trial, status.Destination, st.Steps, st.CumulativeReward, st.Violations, st.Explored)
	} else {
		s.logger.Printf("[Trial %d] ❌ missed %v after %d steps | reward=%.2f violations=%d explored=%d",
			st.Trial, status.Destination, st.Steps, st.CumulativeReward, st.Violations, st.Explored)
	}
	return st, nil
}
