package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"
	"sort"

	"github.com/ardalan-sia/smartcab/pkg/config"
	"github.com/ardalan-sia/smartcab/pkg/report"
	"github.com/ardalan-sia/smartcab/pkg/simulation"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file; defaults are used when empty")
		steps      = flag.Int("steps", 5, "values per parameter")
		maxQ       = flag.Float64("max-q", 10, "largest initial Q value tried")
		workers    = flag.Int("workers", runtime.NumCPU(), "configurations run in parallel")
		xlsxPath   = flag.String("xlsx", "report/sweep.xlsx", "write the sweep results to this xlsx file")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("❌ %v", err)
		}
	}

	grid := simulation.SweepGrid{
		InitialQ: simulation.Linspace(0, *maxQ, *steps),
		Alpha:    simulation.Linspace(0, 1, *steps),
		Epsilon:  simulation.Linspace(0, 1, *steps),
		Gamma:    simulation.Linspace(0, 1, *steps),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := log.New(os.Stdout, "", log.Ltime)
	rows, err := simulation.Sweep(ctx, cfg, grid, *workers, logger)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if err := report.WriteSweep(*xlsxPath, rows); err != nil {
		log.Fatalf("❌ %v", err)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Summary.AvgReward > rows[j].Summary.AvgReward })
	for _, r := range rows[:min(5, len(rows))] {
		logger.Printf("🏆 q0=%.2f alpha=%.2f epsilon=%.2f gamma=%.2f | success=%.1f%% reward=%.2f violations=%.2f",
			r.Agent.InitialQ, r.Agent.Alpha, r.Agent.Epsilon, r.Agent.Gamma,
			r.Summary.SuccessPct, r.Summary.AvgReward, r.Summary.AvgViolations)
	}
	logger.Printf("📄 %d configurations written to %s", len(rows), *xlsxPath)
}
