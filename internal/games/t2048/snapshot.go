package t2048

// Phase names where a game stands.
type Phase string

const (
	PhasePlaying      Phase = "playing"
	PhaseLevelCleared Phase = "level_cleared"
	PhaseGameOver     Phase = "game_over"
	PhaseWon          Phase = "won"
	PhaseTooSmall     Phase = "too_small"
)

// Snapshot is the full engine state, used to check that a seed replays
// the same game. The agent only ever sees AgentSnapshot.
type Snapshot struct {
	Tick    uint64
	Mode    Mode
	Level   int // 1-based; 0 in endless mode
	Target  int
	Spawn4  float64
	Score   int
	Moves   int
	Board   Board
	MaxTile int
	Phase   Phase
}

// Snapshot returns the current engine state.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:    g.tick,
		Mode:    g.mode,
		Target:  g.currentTarget,
		Spawn4:  g.spawn.FourProb,
		Score:   g.score,
		Moves:   g.moves,
		Board:   g.board,
		MaxTile: MaxTile(g.board),
		Phase:   g.phase(),
	}
	if g.mode == ModeCampaign {
		snap.Level = g.levelIndex + 1
	}
	return snap
}

func (g *Game) phase() Phase {
	switch {
	case g.tooSmall:
		return PhaseTooSmall
	case g.won:
		return PhaseWon
	case g.gameOver:
		return PhaseGameOver
	case g.levelCleared:
		return PhaseLevelCleared
	default:
		return PhasePlaying
	}
}
