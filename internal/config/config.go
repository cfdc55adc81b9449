// Package config provides YAML-based configuration loading for the move
// agent and the autoplay driver.
package config

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Config is the top-level configuration document.
type Config struct {
	Agent    AgentConfig    `yaml:"agent"`
	Autoplay AutoplayConfig `yaml:"autoplay"`
}

// AgentConfig contains all tunables of the expectimax agent.
type AgentConfig struct {
	Depth     int             `yaml:"depth"`    // Search depth limit in plies
	Parallel  bool            `yaml:"parallel"` // Evaluate top-level moves concurrently
	Spawn     SpawnConfig     `yaml:"spawn"`
	Evaluator EvaluatorConfig `yaml:"evaluator"`
}

// SpawnConfig describes the environment's random tile spawn.
type SpawnConfig struct {
	TwoValue  int     `yaml:"two_value"`
	TwoProb   float64 `yaml:"two_prob"`
	FourValue int     `yaml:"four_value"`
	FourProb  float64 `yaml:"four_prob"`
}

// EvaluatorConfig defines the static evaluator's weighting.
type EvaluatorConfig struct {
	SmoothnessWeight float64 `yaml:"smoothness_weight"`
	// Weights is indexed [y][x]; the largest weight marks the anchor corner.
	Weights [][]float64 `yaml:"weights"`
}

// AutoplayConfig controls the headless batch driver.
type AutoplayConfig struct {
	Games          int           `yaml:"games"`
	Mode           string        `yaml:"mode"` // "endless" or "campaign"
	TimeBudget     time.Duration `yaml:"time_budget"`
	RestartDelay   time.Duration `yaml:"restart_delay"`
	MaxMoves       int           `yaml:"max_moves"` // 0 = unlimited
	Milestones     []int         `yaml:"milestones"`
	AutopilotEvery int           `yaml:"autopilot_every"` // Ticks between autopilot moves in the TUI
}

// Game modes accepted by AutoplayConfig.Mode.
const (
	ModeEndless  = "endless"
	ModeCampaign = "campaign"
)

// ErrInvalidConfig is returned by Validate for unusable configurations.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Validate checks the configuration for values the agent cannot work with.
func (c Config) Validate() error {
	if err := c.Agent.Validate(); err != nil {
		return err
	}
	return c.Autoplay.Validate()
}

// Validate checks the agent tunables.
func (a AgentConfig) Validate() error {
	if a.Depth < 0 {
		return fmt.Errorf("%w: depth must be >= 0, got %d", ErrInvalidConfig, a.Depth)
	}

	s := a.Spawn
	if s.TwoValue < 2 || s.FourValue < 2 {
		return fmt.Errorf("%w: spawn values must be >= 2", ErrInvalidConfig)
	}
	if s.TwoProb < 0 || s.FourProb < 0 {
		return fmt.Errorf("%w: spawn probabilities must be non-negative", ErrInvalidConfig)
	}
	if math.Abs(s.TwoProb+s.FourProb-1) > 1e-9 {
		return fmt.Errorf("%w: spawn probabilities must sum to 1, got %g", ErrInvalidConfig, s.TwoProb+s.FourProb)
	}

	w := a.Evaluator.Weights
	if len(w) == 0 {
		return fmt.Errorf("%w: evaluator weights are empty", ErrInvalidConfig)
	}
	for i, row := range w {
		if len(row) != len(w) {
			return fmt.Errorf("%w: weights row %d has %d entries, want %d", ErrInvalidConfig, i, len(row), len(w))
		}
	}
	return nil
}

// Validate checks the autoplay settings.
func (a AutoplayConfig) Validate() error {
	switch a.Mode {
	case ModeEndless, ModeCampaign:
	default:
		return fmt.Errorf("%w: unknown autoplay mode %q", ErrInvalidConfig, a.Mode)
	}
	if a.Games < 0 {
		return fmt.Errorf("%w: games must be >= 0", ErrInvalidConfig)
	}
	if a.MaxMoves < 0 {
		return fmt.Errorf("%w: max_moves must be >= 0", ErrInvalidConfig)
	}
	if a.TimeBudget < 0 || a.RestartDelay < 0 {
		return fmt.Errorf("%w: durations must be non-negative", ErrInvalidConfig)
	}
	return nil
}

// GridSize returns the board dimension the weight table was built for.
func (a AgentConfig) GridSize() int {
	return len(a.Evaluator.Weights)
}

// Clone returns a deep copy so callers can tweak a config without aliasing
// the weight table.
func (a AgentConfig) Clone() AgentConfig {
	out := a
	out.Evaluator.Weights = make([][]float64, len(a.Evaluator.Weights))
	for i, row := range a.Evaluator.Weights {
		out.Evaluator.Weights[i] = append([]float64(nil), row...)
	}
	return out
}
