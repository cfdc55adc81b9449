package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arcade2048/internal/agent"
	"github.com/vovakirdan/arcade2048/internal/config"
	"github.com/vovakirdan/arcade2048/internal/core"
	"github.com/vovakirdan/arcade2048/internal/games/t2048"
)

func newTestModel(t *testing.T, withAgent, autopilot bool) (Model, *t2048.Game) {
	t.Helper()

	opts := Options{Autoplay: config.DefaultAutoplayConfig(), Autopilot: autopilot}
	opts.Autoplay.AutopilotEvery = 1
	if withAgent {
		cfg := config.DefaultAgentConfig()
		cfg.Depth = 1
		a, err := agent.New(cfg)
		if err != nil {
			t.Fatalf("agent.New() failed: %v", err)
		}
		opts.Agent = a
	}

	g := t2048.NewEndless()
	return NewModel(g, nil, core.Headless(7), opts), g
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestModelHint(t *testing.T) {
	m, g := newTestModel(t, true, false)

	m, cmd := update(t, m, keyMsg("h"))
	if cmd == nil {
		t.Fatal("hint key did not start the agent")
	}
	if m.Status() != "Thinking..." {
		t.Errorf("Status() = %q while thinking", m.Status())
	}

	msg, ok := cmd().(agentMoveMsg)
	if !ok {
		t.Fatal("hint command did not return an agent move")
	}
	m, _ = update(t, m, msg)

	if !strings.HasPrefix(m.Status(), "Hint: ") {
		t.Errorf("Status() = %q, want a hint", m.Status())
	}
	if g.Moves() != 0 {
		t.Error("a hint must not move the board")
	}
}

func TestModelAutopilotPlays(t *testing.T) {
	m, g := newTestModel(t, true, false)

	m, _ = update(t, m, keyMsg("tab"))
	if !m.Autopilot() {
		t.Fatal("tab did not turn the autopilot on")
	}

	for range 5 {
		// Tick until the model asks the agent, then deliver the answer.
		m, _ = update(t, m, TickMsg{})
		if !m.thinking {
			t.Fatal("autopilot did not start thinking")
		}
		msg := m.think(false)().(agentMoveMsg)
		m, _ = update(t, m, msg)
	}
	m, _ = update(t, m, TickMsg{})

	if g.Moves() == 0 {
		t.Error("autopilot never moved")
	}
	if !strings.HasPrefix(m.statusLine(), "Autopilot ON") {
		t.Errorf("statusLine() = %q", m.statusLine())
	}

	m, _ = update(t, m, keyMsg("tab"))
	if m.Autopilot() {
		t.Error("tab did not turn the autopilot off")
	}
}

func TestModelDropsStaleDecision(t *testing.T) {
	m, g := newTestModel(t, true, true)

	stale := m.think(false)().(agentMoveMsg)
	m.seq++
	m, _ = update(t, m, stale)

	if !m.inputFrame.Empty() {
		t.Error("a decision for an old board was queued")
	}
	m, _ = update(t, m, TickMsg{})
	if g.Moves() != 0 {
		t.Error("stale decision moved the board")
	}
}

func TestModelWithoutAgent(t *testing.T) {
	m, _ := newTestModel(t, false, true)
	if m.Autopilot() {
		t.Error("autopilot enabled without an agent")
	}

	m, cmd := update(t, m, keyMsg("h"))
	if cmd != nil || m.Status() != "Hints unavailable" {
		t.Errorf("hint without agent: cmd=%v status=%q", cmd != nil, m.Status())
	}

	m, _ = update(t, m, keyMsg("tab"))
	if m.Autopilot() || m.Status() != "Autopilot unavailable" {
		t.Errorf("toggle without agent: autopilot=%v status=%q", m.Autopilot(), m.Status())
	}
}

func TestModelManualMove(t *testing.T) {
	m, g := newTestModel(t, false, false)

	// A fresh board with two tiles can always move in some direction.
	for _, k := range []string{"left", "w", "d", "s"} {
		m, _ = update(t, m, keyMsg(k))
		m, _ = update(t, m, TickMsg{})
		if g.Moves() > 0 {
			break
		}
	}
	if g.Moves() == 0 {
		t.Fatal("no key moved the board")
	}
	if m.seq == 0 {
		t.Error("board version not bumped after a move")
	}
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel(t, false, false)

	m, cmd := update(t, m, keyMsg("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
	if m.View() != "" {
		t.Error("View() after quit should be empty")
	}
}

func TestModelViewShowsBoard(t *testing.T) {
	m, _ := newTestModel(t, false, false)
	m.config.ScreenW, m.config.ScreenH = 80, 24
	m.screen.Resize(80, 24)

	m.game.Render(m.screen)
	m.drawStatus()

	if !strings.Contains(m.screen.String(), "2048") {
		t.Error("board title missing")
	}
	if !strings.Contains(m.screen.Row(23), "H: Hint") {
		t.Errorf("status row = %q, want the controls", m.screen.Row(23))
	}
}

func TestKeyMapper(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		key  tea.KeyMsg
		want core.Action
		quit bool
	}{
		{keyMsg("w"), core.ActionUp, false},
		{keyMsg("a"), core.ActionLeft, false},
		{keyMsg("left"), core.ActionLeft, false},
		{keyMsg("d"), core.ActionRight, false},
		{keyMsg("h"), core.ActionHint, false},
		{keyMsg("tab"), core.ActionAutopilot, false},
		{keyMsg("p"), core.ActionPause, false},
		{keyMsg("q"), core.ActionQuit, true},
		{keyMsg("x"), core.ActionNone, false},
	}

	for _, tt := range tests {
		got, quit := km.MapKey(tt.key)
		if got != tt.want || quit != tt.quit {
			t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tt.key.String(), got, quit, tt.want, tt.quit)
		}
	}
}

func TestActionForDirection(t *testing.T) {
	want := map[agent.Direction]core.Action{
		agent.Up:    core.ActionUp,
		agent.Right: core.ActionRight,
		agent.Down:  core.ActionDown,
		agent.Left:  core.ActionLeft,
		agent.None:  core.ActionNone,
	}
	for d, a := range want {
		if got := ActionForDirection(d); got != a {
			t.Errorf("ActionForDirection(%v) = %v, want %v", d, got, a)
		}
	}
}

func TestTickInterval(t *testing.T) {
	tests := []struct {
		rate int
		want time.Duration
	}{
		{60, time.Second / 60},
		{1, time.Second},
		{0, time.Second},
		{-5, time.Second},
	}
	for _, tt := range tests {
		if got := tickInterval(tt.rate); got != tt.want {
			t.Errorf("tickInterval(%d) = %v, want %v", tt.rate, got, tt.want)
		}
	}
}
