package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/samber/lo"

	"github.com/ardalan-sia/smartcab/pkg/simulation"
)

// PlotTrials renders an HTML page with the per-trial reward, violation and
// exploration curves.
func PlotTrials(w io.Writer, trials []simulation.TrialStats) error {
	xs := lo.Map(trials, func(t simulation.TrialStats, _ int) string { return fmt.Sprintf("%d", t.Trial) })

	reward := newLine("Cumulative reward per trial", xs)
	reward.AddSeries("reward", series(trials, func(t simulation.TrialStats) interface{} { return t.CumulativeReward }))

	violations := newLine("Traffic violations per trial", xs)
	violations.AddSeries("violations", series(trials, func(t simulation.TrialStats) interface{} { return t.Violations }))
	violations.AddSeries("actions", series(trials, func(t simulation.TrialStats) interface{} { return t.Actions }))

	explored := newLine("Explored state-action pairs", xs)
	explored.AddSeries("q-table size", series(trials, func(t simulation.TrialStats) interface{} { return t.Explored }))

	page := components.NewPage()
	page.PageTitle = "smartcab trials"
	page.AddCharts(reward, violations, explored)
	return page.Render(w)
}

// PlotTrialsFile is PlotTrials into a file, creating parent directories.
func PlotTrialsFile(path string, trials []simulation.TrialStats) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return PlotTrials(f, trials)
}

func newLine(title string, xs []string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
	)
	line.SetXAxis(xs)
	return line
}

func series(trials []simulation.TrialStats, value func(simulation.TrialStats) interface{}) []opts.LineData {
	return lo.Map(trials, func(t simulation.TrialStats, _ int) opts.LineData {
		return opts.LineData{Value: value(t)}
	})
}
