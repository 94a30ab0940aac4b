package simulation

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"

	"github.com/ardalan-sia/smartcab/pkg/agent"
	"github.com/ardalan-sia/smartcab/pkg/config"
	"github.com/ardalan-sia/smartcab/pkg/world"
)

// SweepGrid lists the values tried for each learning parameter.
type SweepGrid struct {
	InitialQ []float64
	Alpha    []float64
	Epsilon  []float64
	Gamma    []float64
}

// Points expands the grid into agent configurations, keeping the other
// fields of base.
func (g SweepGrid) Points(base config.Agent) []config.Agent {
	var out []config.Agent
	for _, q := range g.InitialQ {
		for _, a := range g.Alpha {
			for _, e := range g.Epsilon {
				for _, gm := range g.Gamma {
					p := base
					p.InitialQ, p.Alpha, p.Epsilon, p.Gamma = q, a, e, gm
					out = append(out, p)
				}
			}
		}
	}
	return out
}

// SweepRow is the summary of one configuration.
type SweepRow struct {
	Agent   config.Agent
	Summary Summary
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

// Sweep runs base.Sim.Trials trials for every grid point, each on a fresh
// world and learner seeded with base.Sim.Seed, on up to workers goroutines.
// Rows come back in grid order.
func Sweep(ctx context.Context, base config.Config, grid SweepGrid, workers int, logger *log.Logger) ([]SweepRow, error) {
	points := grid.Points(base.Agent)
	rows := make([]SweepRow, len(points))
	if workers < 1 {
		workers = 1
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	sem := make(chan struct{}, workers)
	for i, p := range points {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, p config.Agent) {
			defer wg.Done()
			defer func() { <-sem }()

			cfg := base
			cfg.Agent = p
			summary, err := runPoint(ctx, cfg)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("sweep point q0=%.2f alpha=%.2f epsilon=%.2f gamma=%.2f: %w",
						p.InitialQ, p.Alpha, p.Epsilon, p.Gamma, err)
				}
				return
			}
			rows[i] = SweepRow{Agent: p, Summary: summary}
			if logger != nil {
				logger.Printf("[Sweep] 📊 q0=%.2f alpha=%.2f epsilon=%.2f gamma=%.2f | success=%.1f%% reward=%.2f",
					p.InitialQ, p.Alpha, p.Epsilon, p.Gamma, summary.SuccessPct, summary.AvgReward)
			}
		}(i, p)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return rows, nil
}

func runPoint(ctx context.Context, cfg config.Config) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}
	rng := rand.New(rand.NewSource(cfg.Sim.Seed))
	w, err := world.New(cfg.World, rng, nil)
	if err != nil {
		return Summary{}, err
	}
	learner, err := agent.NewQLearner(cfg.Agent, rng, nil)
	if err != nil {
		return Summary{}, err
	}
	sim, err := New(w, learner, cfg.Sim, nil)
	if err != nil {
		return Summary{}, err
	}
	trials, err := sim.Run(ctx, cfg.Sim.Trials)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(trials, cfg.Sim.LastK), nil
}
