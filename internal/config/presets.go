package config

import "fmt"

// StrengthPreset represents a named search strength.
type StrengthPreset string

const (
	StrengthQuick  StrengthPreset = "quick"
	StrengthNormal StrengthPreset = "normal"
	StrengthDeep   StrengthPreset = "deep"
)

// DepthForPreset returns the search depth for a strength preset.
// Unknown presets fall back to the normal depth.
func DepthForPreset(preset StrengthPreset) int {
	switch preset {
	case StrengthQuick:
		return 2
	case StrengthDeep:
		return 6
	default:
		return 4
	}
}

// ParseStrength validates a preset name coming from the command line.
func ParseStrength(name string) (StrengthPreset, error) {
	switch p := StrengthPreset(name); p {
	case StrengthQuick, StrengthNormal, StrengthDeep:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown strength %q (want quick, normal or deep)", ErrInvalidConfig, name)
	}
}

// ApplyStrengthPreset modifies the agent config based on a strength preset.
// Deep searches also turn on top-level parallelism.
func ApplyStrengthPreset(cfg *AgentConfig, preset StrengthPreset) {
	cfg.Depth = DepthForPreset(preset)
	if preset == StrengthDeep {
		cfg.Parallel = true
	}
}
