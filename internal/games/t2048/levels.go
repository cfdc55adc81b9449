// Package t2048 implements the 2048 puzzle game with campaign and endless
// modes. It is the live engine the move agent plays against, both in the
// terminal and headless.
package t2048

import "github.com/vovakirdan/arcade2048/internal/config"

// Level defines a campaign level with a target tile.
type Level struct {
	ID     int
	Name   string
	Target int     // Target tile value to reach
	Spawn4 float64 // Probability of spawning 4 instead of 2 (0.0-1.0)
}

// Spawn returns the level's tile spawn in the agent's terms.
func (l Level) Spawn() config.SpawnConfig {
	return config.SpawnConfig{
		TwoValue:  2,
		TwoProb:   1 - l.Spawn4,
		FourValue: 4,
		FourProb:  l.Spawn4,
	}
}

// endlessSpawn is the spawn used outside the campaign: the classic 90/10
// split the agent assumes by default.
func endlessSpawn() config.SpawnConfig {
	return config.DefaultAgentConfig().Spawn
}

// Levels defines the 10 campaign levels. Targets climb to 8192, the most a
// strong player reaches on a 4x4 board with any regularity, and later
// levels spawn more 4s.
var Levels = []Level{
	{ID: 1, Name: "Warm-up", Target: 128, Spawn4: 0.10},
	{ID: 2, Name: "Getting Started", Target: 256, Spawn4: 0.10},
	{ID: 3, Name: "Building Momentum", Target: 512, Spawn4: 0.10},
	{ID: 4, Name: "The Climb", Target: 1024, Spawn4: 0.10},
	{ID: 5, Name: "Classic 2048", Target: 2048, Spawn4: 0.10},
	{ID: 6, Name: "Beyond Limits", Target: 4096, Spawn4: 0.12},
	{ID: 7, Name: "Master Class", Target: 8192, Spawn4: 0.15},
	{ID: 8, Name: "Expert Challenge", Target: 8192, Spawn4: 0.18},
	{ID: 9, Name: "Grandmaster", Target: 8192, Spawn4: 0.20},
	{ID: 10, Name: "Ultimate Champion", Target: 8192, Spawn4: 0.25},
}

// LevelCount returns the number of campaign levels.
func LevelCount() int {
	return len(Levels)
}

// GetLevel returns the level at the given index (0-based).
// Returns nil if index is out of range.
func GetLevel(index int) *Level {
	if index < 0 || index >= len(Levels) {
		return nil
	}
	return &Levels[index]
}

// LevelNames returns the names of all levels.
func LevelNames() []string {
	names := make([]string, len(Levels))
	for i, lvl := range Levels {
		names[i] = lvl.Name
	}
	return names
}

// LevelTargets returns the targets of all levels.
func LevelTargets() []int {
	targets := make([]int, len(Levels))
	for i, lvl := range Levels {
		targets[i] = lvl.Target
	}
	return targets
}
