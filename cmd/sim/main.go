package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"

	"github.com/ardalan-sia/smartcab/pkg/agent"
	"github.com/ardalan-sia/smartcab/pkg/config"
	"github.com/ardalan-sia/smartcab/pkg/render"
	"github.com/ardalan-sia/smartcab/pkg/report"
	"github.com/ardalan-sia/smartcab/pkg/simulation"
	"github.com/ardalan-sia/smartcab/pkg/world"
)

type options struct {
	configPath string
	trials     int
	seed       int64
	debug      bool
	display    bool
	baseline   bool
	checkpoint string
	xlsxPath   string
	chartPath  string

	// set holds the flags given on the command line.
	set map[string]bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("sim", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "YAML config file; defaults are used when empty")
	fs.IntVar(&o.trials, "trials", 0, "number of trials (overrides config)")
	fs.Int64Var(&o.seed, "seed", 0, "random seed (overrides config)")
	fs.BoolVar(&o.debug, "debug", false, "print per-step traces")
	fs.BoolVar(&o.display, "display", false, "draw the grid after every step")
	fs.BoolVar(&o.baseline, "baseline", false, "drive with the random baseline instead of the learner")
	fs.StringVar(&o.checkpoint, "checkpoint", "", "Q-table checkpoint to load if present and save after the run")
	fs.StringVar(&o.xlsxPath, "xlsx", "", "write per-trial results to this xlsx file")
	fs.StringVar(&o.chartPath, "chart", "", "write per-trial charts to this HTML file")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

// apply overrides cfg with the flags that were given.
func (o options) apply(cfg config.Config) config.Config {
	if o.set["trials"] {
		cfg.Sim.Trials = o.trials
	}
	if o.set["seed"] {
		cfg.Sim.Seed = o.seed
	}
	if o.debug {
		cfg.World.Debug, cfg.Agent.Debug = true, true
	}
	return cfg
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	cfg := config.Default()
	if o.configPath != "" {
		if cfg, err = config.Load(o.configPath); err != nil {
			log.Fatalf("❌ %v", err)
		}
	}
	cfg = o.apply(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ %v", err)
	}

	logger := log.New(os.Stdout, "", log.Ltime)
	rng := rand.New(rand.NewSource(cfg.Sim.Seed))
	w, err := world.New(cfg.World, rng, logger)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	var (
		primary simulation.Primary
		learner *agent.QLearner
	)
	if o.baseline {
		primary = agent.NewRandomDriver(rng)
	} else {
		if learner, err = agent.NewQLearner(cfg.Agent, rng, logger); err != nil {
			log.Fatalf("❌ %v", err)
		}
		if o.checkpoint != "" {
			switch err := agent.LoadCheckpoint(o.checkpoint, learner); {
			case err == nil:
				logger.Printf("📂 loaded %d Q-values from %s", learner.Table().Len(), o.checkpoint)
			case !errors.Is(err, os.ErrNotExist):
				log.Fatalf("❌ %v", err)
			}
		}
		primary = learner
	}

	sim, err := simulation.New(w, primary, cfg.Sim, logger)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if o.display {
		sim.OnStep = func(w *world.World) { fmt.Print(render.Grid(w)) }
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Printf("🚕 run %s: %d trials on a %dx%d grid", sim.RunID, cfg.Sim.Trials, cfg.World.Cols, cfg.World.Rows)
	results, err := sim.Run(ctx, cfg.Sim.Trials)
	if err != nil {
		logger.Printf("⚠️ run stopped after %d trials: %v", len(results), err)
	}

	s := simulation.Summarize(results, cfg.Sim.LastK)
	logger.Printf("📊 last %d trials: success=%.1f%% violations=%.2f explored=%.1f reward=%.2f±%.2f actions=%.1f",
		s.Trials, s.SuccessPct, s.AvgViolations, s.AvgExplored, s.AvgReward, s.StdReward, s.AvgActions)

	if learner != nil && o.checkpoint != "" {
		if err := agent.SaveCheckpoint(o.checkpoint, learner); err != nil {
			log.Fatalf("❌ %v", err)
		}
		logger.Printf("💾 saved %d Q-values to %s", learner.Table().Len(), o.checkpoint)
	}
	if o.xlsxPath != "" {
		if err := report.WriteTrials(o.xlsxPath, results); err != nil {
			log.Fatalf("❌ %v", err)
		}
		logger.Printf("📄 trials written to %s", o.xlsxPath)
	}
	if o.chartPath != "" {
		if err := report.PlotTrialsFile(o.chartPath, results); err != nil {
			log.Fatalf("❌ %v", err)
		}
		logger.Printf("📈 charts written to %s", o.chartPath)
	}
}
