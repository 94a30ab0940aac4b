package simulation

import (
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a window of trials.
type Summary struct {
	Trials        int
	Successes     int
	SuccessPct    float64
	AvgViolations float64
	AvgExplored   float64
	AvgReward     float64
	StdReward     float64
	AvgActions    float64
}

// Summarize aggregates the last lastK trials, or all of them when lastK is
// zero or exceeds the count.
func Summarize(trials []TrialStats, lastK int) Summary {
	if lastK > 0 && lastK < len(trials) {
		trials = trials[len(trials)-lastK:]
	}
	if len(trials) == 0 {
		return Summary{}
	}
	floats := func(f func(TrialStats) float64) []float64 {
		return lo.Map(trials, func(t TrialStats, _ int) float64 { return f(t) })
	}
	rewards := floats(func(t TrialStats) float64 { return t.CumulativeReward })
	successes := lo.CountBy(trials, func(t TrialStats) bool { return t.Success })

	s := Summary{
		Trials:        len(trials),
		Successes:     successes,
		SuccessPct:    100 * float64(successes) / float64(len(trials)),
		AvgViolations: stat.Mean(floats(func(t TrialStats) float64 { return float64(t.Violations) }), nil),
		AvgExplored:   stat.Mean(floats(func(t TrialStats) float64 { return float64(t.Explored) }), nil),
		AvgReward:     stat.Mean(rewards, nil),
		AvgActions:    stat.Mean(floats(func(t TrialStats) float64 { return float64(t.Actions) }), nil),
	}
	if len(rewards) > 1 {
		s.StdReward = stat.StdDev(rewards, nil)
	}
	return s
}
