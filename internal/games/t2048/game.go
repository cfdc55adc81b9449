package t2048

import (
	"math/rand"

	"github.com/vovakirdan/arcade2048/internal/agent"
	"github.com/vovakirdan/arcade2048/internal/config"
	"github.com/vovakirdan/arcade2048/internal/core"
	"github.com/vovakirdan/arcade2048/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeEndless  Mode = "endless"
)

// levelClearDelay is how long the level-cleared banner stays up (2s at 60fps).
const levelClearDelay = 120

// Game implements the 2048 puzzle game.
type Game struct {
	mode Mode
	rng  *rand.Rand
	tick uint64

	score         int
	moves         int
	board         Board
	levelIndex    int // Current level (0-indexed)
	currentTarget int // Current tile target
	spawn         config.SpawnConfig

	// Screen dimensions
	screenW int
	screenH int

	// Game state flags
	gameOver        bool
	levelCleared    bool
	won             bool
	paused          bool
	tooSmall        bool
	levelClearTicks int
}

// Package-level variables for config
var (
	selectedStartLevel int
)

// SetStartLevel sets the starting level (1-10). 0 means start from beginning.
func SetStartLevel(level int) {
	selectedStartLevel = level
}

// GetStartLevel returns the currently selected start level.
func GetStartLevel() int {
	return selectedStartLevel
}

// New creates a new campaign mode 2048 game.
func New() *Game {
	return &Game{
		mode: ModeCampaign,
	}
}

// NewEndless creates a new endless mode 2048 game.
func NewEndless() *Game {
	return &Game{
		mode: ModeEndless,
	}
}

// NewMode creates a game for a mode name as used in configuration files.
func NewMode(mode string) *Game {
	if Mode(mode) == ModeCampaign {
		return New()
	}
	return NewEndless()
}

// GameID returns the registry ID for a mode name.
func GameID(mode string) string {
	return NewMode(mode).ID()
}

func init() {
	registry.Register("2048", func() registry.Game {
		return New()
	})
	registry.Register("2048_endless", func() registry.Game {
		return NewEndless()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return "2048_endless"
	}
	return "2048"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "2048 (Endless)"
	}
	return "2048"
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.score = 0
	g.moves = 0
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.gameOver = false
	g.levelCleared = false
	g.won = false
	g.paused = false
	g.levelClearTicks = 0
	g.board = Board{}

	// Apply selected start level (campaign only)
	if g.mode == ModeCampaign && selectedStartLevel > 0 && selectedStartLevel <= LevelCount() {
		g.levelIndex = selectedStartLevel - 1
		selectedStartLevel = 0 // Reset after use
	} else {
		g.levelIndex = 0
	}

	g.loadLevel()

	g.spawnTile()
	g.spawnTile()

	g.checkScreenSize()
}

// loadLevel sets up the current level parameters.
func (g *Game) loadLevel() {
	if g.mode == ModeEndless {
		g.currentTarget = 0 // No target in endless
		g.spawn = endlessSpawn()
		return
	}

	level := GetLevel(g.levelIndex)
	if level == nil {
		level = GetLevel(LevelCount() - 1)
	}

	g.currentTarget = level.Target
	g.spawn = level.Spawn()
}

// spawnTile spawns a new tile in a random empty cell.
func (g *Game) spawnTile() {
	emptyCells := EmptyCells(g.board)
	if len(emptyCells) == 0 {
		return
	}

	cell := emptyCells[g.rng.Intn(len(emptyCells))]

	value := g.spawn.TwoValue
	if g.rng.Float64() < g.spawn.FourProb {
		value = g.spawn.FourValue
	}

	g.board[cell.Y][cell.X] = value
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	// Minimum size: board (21 wide, 9 tall) + HUD (3 lines)
	minW := 25
	minH := 13
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	// Restart is handled by the platform
	if in.Has(core.ActionRestart) && g.Over() {
		return core.StepResult{State: g.State()}
	}

	if g.levelCleared {
		g.levelClearTicks++
		if g.levelClearTicks >= levelClearDelay {
			g.advanceLevel()
		}
		return core.StepResult{State: g.State()}
	}

	if g.Over() {
		return core.StepResult{State: g.State()}
	}

	dir := DirNone
	switch {
	case in.Has(core.ActionUp):
		dir = DirUp
	case in.Has(core.ActionDown):
		dir = DirDown
	case in.Has(core.ActionLeft):
		dir = DirLeft
	case in.Has(core.ActionRight):
		dir = DirRight
	}

	moved := false
	if dir != DirNone {
		moved = g.processMove(dir)
	}

	return core.StepResult{State: g.State(), Moved: moved}
}

// Apply performs a move outside the tick loop, as the autoplay driver does.
// A cleared campaign level advances at once instead of waiting for the
// banner. It reports whether the board changed.
func (g *Game) Apply(dir agent.Direction) bool {
	if g.Over() {
		return false
	}
	if g.levelCleared {
		g.advanceLevel()
	}

	moved := g.processMove(FromAgent(dir))
	if g.levelCleared {
		g.advanceLevel()
	}
	return moved
}

// processMove handles a move in the given direction and reports whether
// the board changed.
func (g *Game) processMove(dir Direction) bool {
	newBoard, scoreGained, changed := Slide(g.board, dir)
	if !changed {
		// Board didn't change - don't spawn new tile
		return false
	}

	g.board = newBoard
	g.score += scoreGained
	g.moves++

	// Check for level target (campaign only)
	if g.mode == ModeCampaign && g.currentTarget > 0 {
		if MaxTile(g.board) >= g.currentTarget {
			g.levelCleared = true
			g.levelClearTicks = 0
			return true
		}
	}

	g.spawnTile()

	if IsGameOver(g.board) {
		g.gameOver = true
	}
	return true
}

// advanceLevel moves to the next level.
func (g *Game) advanceLevel() {
	g.levelCleared = false
	g.levelClearTicks = 0

	if g.levelIndex >= LevelCount()-1 {
		// Completed all levels
		g.won = true
		return
	}

	g.levelIndex++
	g.loadLevel()
	// Keep current board and score - just update target
}

// Over reports whether the game accepts no more moves.
func (g *Game) Over() bool {
	return g.gameOver || g.won
}

// Won reports whether the whole campaign was completed.
func (g *Game) Won() bool {
	return g.won
}

// Board returns a copy of the current board.
func (g *Game) Board() Board {
	return g.board
}

// MaxTile returns the highest tile on the board.
func (g *Game) MaxTile() int {
	return MaxTile(g.board)
}

// Moves returns the number of moves that changed the board.
func (g *Game) Moves() int {
	return g.moves
}

// SpawnModel returns the tile spawn currently in effect.
func (g *Game) SpawnModel() config.SpawnConfig {
	return g.spawn
}

// AgentSnapshot returns the board in the agent's exchange format.
func (g *Game) AgentSnapshot() agent.Snapshot {
	return ToAgent(g.board)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.Over(),
		Paused:   g.paused || g.tooSmall || g.levelCleared,
	}
}
