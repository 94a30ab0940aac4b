package agent

import (
	"fmt"
	"os"
	"path/filepath"
)

// SaveCheckpoint writes the learner's table to path, creating parent directories.
func SaveCheckpoint(path string, l *QLearner) error {
	data, err := l.table.MarshalBinary()
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint replaces the learner's table with the one stored at path.
// Unseen pairs keep reading the learner's configured initial value.
func LoadCheckpoint(path string, l *QLearner) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load checkpoint: %w", err)
	}
	table := NewQTable(l.cfg.InitialQ)
	if err := table.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("load checkpoint %s: %w", path, err)
	}
	l.table = table
	return nil
}
