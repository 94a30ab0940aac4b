// Package report exports trial results as spreadsheets and HTML charts.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ardalan-sia/smartcab/pkg/simulation"
)

const (
	trialsSheet = "Trials"
	sweepSheet  = "Sweep"
)

var (
	trialHeaders = []string{"Trial", "Success", "Cumulative Reward", "Explored States", "Violations", "Actions", "Steps", "Deadline Left"}
	sweepHeaders = []string{"Initial Q", "Alpha", "Epsilon", "Gamma", "Trials", "Success (%)", "Avg Violations", "Avg Explored", "Avg Reward", "Std Reward", "Avg Actions"}
)

// WriteTrials writes one row per trial to an xlsx workbook at path.
func WriteTrials(path string, trials []simulation.TrialStats) error {
	rows := make([][]interface{}, 0, len(trials))
	for _, t := range trials {
		rows = append(rows, []interface{}{
			t.Trial, t.Success, t.CumulativeReward, t.Explored, t.Violations, t.Actions, t.Steps, t.DeadlineLeft,
		})
	}
	return writeSheet(path, trialsSheet, trialHeaders, rows)
}

// WriteSweep writes one row per sweep point to an xlsx workbook at path.
func WriteSweep(path string, results []simulation.SweepRow) error {
	rows := make([][]interface{}, 0, len(results))
	for _, r := range results {
		s := r.Summary
		rows = append(rows, []interface{}{
			r.Agent.InitialQ, r.Agent.Alpha, r.Agent.Epsilon, r.Agent.Gamma,
			s.Trials, s.SuccessPct, s.AvgViolations, s.AvgExplored, s.AvgReward, s.StdReward, s.AvgActions,
		})
	}
	return writeSheet(path, sweepSheet, sweepHeaders, rows)
}

func writeSheet(path, sheet string, headers []string, rows [][]interface{}) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("report %s: %w", path, err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("report %s: %w", path, err)
	}

	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("report %s: %w", path, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("report %s row %d: %w", path, i+2, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report %s: %w", path, err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("report %s: %w", path, err)
	}
	return nil
}
