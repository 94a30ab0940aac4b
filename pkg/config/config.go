// Package config holds the tunables of the smartcab world, the learning
// agent and the trial driver.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rewards is the reward schedule applied by the world on every act.
type Rewards struct {
	Violation      float64 `yaml:"violation"`
	Null           float64 `yaml:"null"`
	Progress       float64 `yaml:"progress"`
	Detour         float64 `yaml:"detour"`
	Destination    float64 `yaml:"destination"`
	DeadlineMissed float64 `yaml:"deadline_missed"`
}

// World configures the grid, the lights and the dummy traffic.
type World struct {
	Cols             int     `yaml:"cols"`
	Rows             int     `yaml:"rows"`
	Dummies          int     `yaml:"dummies"`
	LightPeriodMin   int     `yaml:"light_period_min"`
	LightPeriodMax   int     `yaml:"light_period_max"`
	DeadlineFactor   int     `yaml:"deadline_factor"`
	MinStartDistance int     `yaml:"min_start_distance"`
	EnforceDeadline  bool    `yaml:"enforce_deadline"`
	Rewards          Rewards `yaml:"rewards"`
	Debug            bool    `yaml:"debug"`
}

// Agent configures the Q-learning agent.
type Agent struct {
	Alpha        float64 `yaml:"alpha"`
	Epsilon      float64 `yaml:"epsilon"`
	Gamma        float64 `yaml:"gamma"`
	InitialQ     float64 `yaml:"initial_q"`
	IncludeRight bool    `yaml:"include_right"`
	Debug        bool    `yaml:"debug"`
}

// Sim configures the trial driver.
type Sim struct {
	Trials   int   `yaml:"trials"`
	MaxSteps int   `yaml:"max_steps"`
	Seed     int64 `yaml:"seed"`
	// LastK is the window of final trials used for summaries.
	LastK int `yaml:"last_k"`
}

// Config is the full experiment configuration.
type Config struct {
	World World `yaml:"world"`
	Agent Agent `yaml:"agent"`
	Sim   Sim   `yaml:"sim"`
}

// Default returns the configuration the smartcab project was tuned with.
func Default() Config {
	return Config{
		World: World{
			Cols:             8,
			Rows:             6,
			Dummies:          3,
			LightPeriodMin:   3,
			LightPeriodMax:   5,
			DeadlineFactor:   5,
			MinStartDistance: 4,
			EnforceDeadline:  true,
			Rewards: Rewards{
				Violation:      -1.0,
				Null:           0.0,
				Progress:       2.0,
				Detour:         -0.5,
				Destination:    10.0,
				DeadlineMissed: -1.0,
			},
		},
		Agent: Agent{
			Alpha:    0.5,
			Epsilon:  0.0,
			Gamma:    0.5,
			InitialQ: 0.0,
		},
		Sim: Sim{
			Trials:   100,
			MaxSteps: 100,
			Seed:     1,
			LastK:    10,
		},
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.World.Validate(); err != nil {
		return err
	}
	if err := c.Agent.Validate(); err != nil {
		return err
	}
	return c.Sim.Validate()
}

// Validate checks grid size, light periods, deadline factor and the reward ordering.
func (w World) Validate() error {
	switch {
	case w.Cols < 2 || w.Rows < 2:
		return NewConfigurationError("world", fmt.Sprintf("grid %dx%d is smaller than 2x2", w.Cols, w.Rows))
	case w.Dummies < 0:
		return NewConfigurationError("world", fmt.Sprintf("negative dummy count %d", w.Dummies))
	case w.LightPeriodMin < 1 || w.LightPeriodMax < w.LightPeriodMin:
		return NewConfigurationError("world", fmt.Sprintf("light period range [%d,%d] is invalid", w.LightPeriodMin, w.LightPeriodMax))
	case w.DeadlineFactor <= 0:
		return NewConfigurationError("world", fmt.Sprintf("deadline factor must be positive, got %d", w.DeadlineFactor))
	case w.MinStartDistance < 0:
		return NewConfigurationError("world", fmt.Sprintf("negative minimum start distance %d", w.MinStartDistance))
	}
	return w.Rewards.Validate()
}

// Validate enforces violation < null <= progress < destination, violation <
// detour and a negative deadline penalty.
func (r Rewards) Validate() error {
	if !(r.Violation < r.Null && r.Null <= r.Progress && r.Progress < r.Destination) {
		return NewConfigurationError("rewards", fmt.Sprintf(
			"want violation < null <= progress < destination, got %.2f, %.2f, %.2f, %.2f",
			r.Violation, r.Null, r.Progress, r.Destination))
	}
	if r.Detour <= r.Violation {
		return NewConfigurationError("rewards", fmt.Sprintf(
			"detour must score above a violation, got %.2f <= %.2f", r.Detour, r.Violation))
	}
	if r.DeadlineMissed >= 0 {
		return NewConfigurationError("rewards", fmt.Sprintf("deadline penalty must be negative, got %.2f", r.DeadlineMissed))
	}
	return nil
}

// Validate checks that the learning rates are probabilities.
func (a Agent) Validate() error {
	for name, v := range map[string]float64{"alpha": a.Alpha, "epsilon": a.Epsilon, "gamma": a.Gamma} {
		if v < 0 || v > 1 {
			return NewConfigurationError("agent", fmt.Sprintf("%s must be in [0,1], got %v", name, v))
		}
	}
	return nil
}

func (s Sim) Validate() error {
	if s.Trials < 0 {
		return NewConfigurationError("sim", fmt.Sprintf("negative trial count %d", s.Trials))
	}
	if s.MaxSteps <= 0 {
		return NewConfigurationError("sim", fmt.Sprintf("max steps must be positive, got %d", s.MaxSteps))
	}
	if s.LastK < 0 {
		return NewConfigurationError("sim", fmt.Sprintf("negative summary window %d", s.LastK))
	}
	return nil
}
