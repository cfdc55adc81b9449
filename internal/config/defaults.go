package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/agent.yaml
var defaultAgentYAML []byte

// defaultWeights is anchored at the top-left corner and decays along both axes.
var defaultWeights = [][]float64{
	{0.135759, 0.0997992, 0.060654, 0.0125498},
	{0.121925, 0.08884805, 0.0562579, 0.00992495},
	{0.102812, 0.076711, 0.037116, 0.00575871},
	{0.099937, 0.0724143, 0.0161889, 0.00335193},
}

// DefaultConfig returns the hardcoded configuration.
func DefaultConfig() Config {
	return Config{
		Agent:    DefaultAgentConfig(),
		Autoplay: DefaultAutoplayConfig(),
	}
}

// DefaultAgentConfig returns the default agent tunables.
func DefaultAgentConfig() AgentConfig {
	cfg := AgentConfig{
		Depth:    4,
		Parallel: false,
		Spawn: SpawnConfig{
			TwoValue:  2,
			TwoProb:   0.9,
			FourValue: 4,
			FourProb:  0.1,
		},
		Evaluator: EvaluatorConfig{
			SmoothnessWeight: 0.1,
			Weights:          defaultWeights,
		},
	}
	return cfg.Clone()
}

// DefaultAutoplayConfig returns the default batch driver settings.
func DefaultAutoplayConfig() AutoplayConfig {
	return AutoplayConfig{
		Games:          20,
		Mode:           ModeEndless,
		TimeBudget:     15 * time.Minute,
		RestartDelay:   time.Second,
		MaxMoves:       0,
		Milestones:     []int{2048, 4096, 8192},
		AutopilotEvery: 6, // 10 moves per second at 60fps
	}
}

// GetDefaultYAML returns the embedded default YAML document.
func GetDefaultYAML() []byte {
	return defaultAgentYAML
}
