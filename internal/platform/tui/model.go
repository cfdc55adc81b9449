package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcade2048/internal/agent"
	"github.com/vovakirdan/arcade2048/internal/config"
	"github.com/vovakirdan/arcade2048/internal/core"
	"github.com/vovakirdan/arcade2048/internal/registry"
	"github.com/vovakirdan/arcade2048/internal/storage"
)

// Options configures the agent side of a game session.
type Options struct {
	Agent     *agent.Agent // nil disables hints and autopilot
	Autoplay  config.AutoplayConfig
	Autopilot bool // Start with the agent playing
	Logger    *log.Logger
}

// agentMoveMsg carries a decision computed off the UI goroutine.
type agentMoveMsg struct {
	seq      int // Board version the decision was made for
	hint     bool
	decision agent.Decision
	err      error
}

// Model is the Bubble Tea model for running a 2048 game.
type Model struct {
	game       registry.Autoplayable
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether score has been saved for current game over

	agent     *agent.Agent
	logger    *log.Logger
	every     int // Ticks between autopilot moves
	restartIn int // Ticks before the autopilot restarts a finished game
	autopilot bool
	thinking  bool // A decision is in flight
	seq       int  // Bumped whenever the board changes
	waited    int
	status    string
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Autoplayable, store *storage.Store, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		agent:      opts.Agent,
		logger:     logger,
		every:      max(opts.Autoplay.AutopilotEvery, 1),
		restartIn:  int(opts.Autoplay.RestartDelay * time.Duration(cfg.TickRate) / time.Second),
		autopilot:  opts.Autopilot && opts.Agent != nil,
	}
	// Reset here rather than in Init so the first frames see a live board.
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()

	case agentMoveMsg:
		return m.handleAgentMove(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionHint:
		return m.requestHint()
	case core.ActionAutopilot:
		return m.toggleAutopilot(), nil
	case core.ActionBack:
		// Back leaves a finished or paused game, otherwise it pauses.
		if m.gameState.GameOver || m.gameState.Paused {
			m.backToMenu = true
			return m, tea.Quit
		}
		m.inputFrame.Set(core.ActionPause)
	case core.ActionRestart:
		if m.gameState.GameOver {
			m.inputFrame.Set(core.ActionRestart)
		}
	case core.ActionNone, core.ActionConfirm:
	default:
		m.inputFrame.Set(action)
	}

	return m, nil
}

func (m Model) requestHint() (tea.Model, tea.Cmd) {
	switch {
	case m.agent == nil:
		m.status = "Hints unavailable"
		return m, nil
	case m.thinking || m.gameState.GameOver:
		return m, nil
	}
	m.thinking = true
	m.status = "Thinking..."
	return m, m.think(true)
}

func (m Model) toggleAutopilot() Model {
	if m.agent == nil {
		m.status = "Autopilot unavailable"
		return m
	}
	m.autopilot = !m.autopilot
	m.waited = 0
	m.status = ""
	return m
}

// think asks the agent for a move on the current board in the background.
func (m Model) think(hint bool) tea.Cmd {
	a, snap, seq := m.agent, m.game.AgentSnapshot(), m.seq
	return func() tea.Msg {
		d, err := a.Decide(snap)
		return agentMoveMsg{seq: seq, hint: hint, decision: d, err: err}
	}
}

func (m Model) handleAgentMove(msg agentMoveMsg) (tea.Model, tea.Cmd) {
	m.thinking = false

	if msg.err != nil {
		m.logger.Error("agent failed", "err", msg.err)
		m.status = "Agent error"
		m.autopilot = false
		return m, nil
	}

	// The board moved on while the agent was busy.
	if msg.seq != m.seq {
		return m, nil
	}

	d := msg.decision
	if msg.hint {
		if d.Dir == agent.None {
			m.status = "Hint: no move left"
		} else {
			m.status = fmt.Sprintf("Hint: %s", d.Dir)
		}
		return m, nil
	}

	if m.autopilot && d.Dir != agent.None {
		m.inputFrame.Set(ActionForDirection(d.Dir))
	}
	m.logger.Debug("autopilot move", "dir", d.Dir, "nodes", d.Nodes, "elapsed", d.Elapsed)
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	// 2048 only checks the window size on reset, so only a fresh game is
	// reset; a game in progress keeps its board.
	if m.game.State().Score == 0 && m.seq == 0 {
		m.game.Reset(m.config)
		m.gameState = m.game.State()
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// The autopilot restarts a finished game on its own.
	if m.autopilot && m.gameState.GameOver {
		m.waited++
		if m.waited >= m.restartIn {
			m.inputFrame.Set(core.ActionRestart)
		}
	}

	// Check for restart
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.seq++
		m.waited = 0
		m.status = ""
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	if result.Moved {
		m.seq++
		m.status = ""
	}

	// Save score on game over (once)
	if m.gameState.GameOver && !m.scoreSaved && m.gameState.Score > 0 {
		if m.store != nil {
			if _, err := m.store.SaveScore(m.game.ID(), m.gameState.Score); err != nil {
				m.logger.Warn("cannot save score", "game", m.game.ID(), "err", err)
			}
		}
		m.scoreSaved = true
	}

	m.inputFrame.Clear()

	cmds := []tea.Cmd{tickCmd(m.config.TickRate)}
	if m.autopilot && !m.thinking && !m.gameState.GameOver && !m.gameState.Paused {
		m.waited++
		if m.waited >= m.every {
			m.waited = 0
			m.thinking = true
			cmds = append(cmds, m.think(false))
		}
	}

	return m, tea.Batch(cmds...)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)
	m.drawStatus()

	dir := filepath.Join(os.Getenv("HOME"), ".arcade2048", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot directory", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
	}
}

// statusLine returns the text under the board.
func (m Model) statusLine() string {
	line := m.status
	if m.autopilot {
		mode := fmt.Sprintf("Autopilot ON (depth %d)", m.agent.Config().Depth)
		if line != "" {
			mode += "  " + line
		}
		line = mode
	}
	if line != "" {
		return line
	}
	if c, ok := m.game.(interface{ Controls() string }); ok {
		return c.Controls()
	}
	return ""
}

func (m *Model) drawStatus() {
	line := m.statusLine()
	if line == "" || m.screen.Height() == 0 {
		return
	}
	m.screen.DrawTextColor(0, m.screen.Height()-1, line, core.ColorGray)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.game.Render(m.screen)
	m.drawStatus()

	return RenderScreen(m.screen)
}

// Autopilot reports whether the agent is playing.
func (m Model) Autopilot() bool {
	return m.autopilot
}

// BackToMenu reports whether the player left the game for the mode selector.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Status returns the current status line message.
func (m Model) Status() string {
	return m.status
}

// Run starts the Bubble Tea program with the given model.
// It returns true if the player asked to go back to the mode selector.
func Run(game registry.Autoplayable, store *storage.Store, cfg core.RuntimeConfig, opts Options) (back bool, err error) {
	model := NewModel(game, store, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(Model)
	return ok && m.BackToMenu(), nil
}
