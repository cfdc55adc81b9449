package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arcade2048/internal/games/t2048"
)

// T2048Mode represents the selected game mode.
type T2048Mode int

const (
	T2048ModeCampaign T2048Mode = iota
	T2048ModeEndless
)

// T2048Selection holds the user's selection from the 2048 menu.
type T2048Selection struct {
	Mode      T2048Mode
	Level     int  // 0 = start from beginning, 1-10 = specific level
	Autopilot bool // Start with the agent playing
}

// Game creates the selected game. A chosen level is applied on its first
// Reset.
func (s T2048Selection) Game() *t2048.Game {
	if s.Mode == T2048ModeEndless {
		return t2048.NewEndless()
	}
	t2048.SetStartLevel(s.Level)
	return t2048.New()
}

// modeEntry is one line of the mode list. An entry without a selection
// opens the level list.
type modeEntry struct {
	label     string
	selection *T2048Selection
}

var modeEntries = []modeEntry{
	{"Campaign (10 levels)", &T2048Selection{Mode: T2048ModeCampaign}},
	{"Endless Mode", &T2048Selection{Mode: T2048ModeEndless}},
	{"Watch the Agent (Endless)", &T2048Selection{Mode: T2048ModeEndless, Autopilot: true}},
	{"Select Level...", nil},
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// T2048ModeModel lets users choose game mode and starting level for 2048.
type T2048ModeModel struct {
	cursor        int
	levelCursor   int
	inLevelSelect bool
	width         int
	height        int
	keyMapper     *KeyMapper
	selection     *T2048Selection
	quitting      bool
	back          bool
}

// NewT2048ModeModel creates a new 2048 mode selection model.
func NewT2048ModeModel(width, height int) T2048ModeModel {
	return T2048ModeModel{
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the model.
func (m T2048ModeModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m T2048ModeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		action := m.keyMapper.MapKeyToMenuAction(msg)
		if action == MenuActionQuit {
			m.quitting = true
			return m, tea.Quit
		}
		if m.inLevelSelect {
			return m.levelSelectKey(action)
		}
		return m.modeSelectKey(action)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m T2048ModeModel) modeSelectKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionUp:
		m.cursor = max(m.cursor-1, 0)
	case MenuActionDown:
		m.cursor = min(m.cursor+1, len(modeEntries)-1)
	case MenuActionSelect:
		entry := modeEntries[m.cursor]
		if entry.selection == nil {
			m.inLevelSelect = true
			m.levelCursor = 0
			return m, nil
		}
		sel := *entry.selection
		m.selection = &sel
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}
	return m, nil
}

func (m T2048ModeModel) levelSelectKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionUp:
		m.levelCursor = max(m.levelCursor-1, 0)
	case MenuActionDown:
		m.levelCursor = min(m.levelCursor+1, t2048.LevelCount()-1)
	case MenuActionSelect:
		m.selection = &T2048Selection{Mode: T2048ModeCampaign, Level: m.levelCursor + 1}
		return m, tea.Quit
	case MenuActionBack:
		m.inLevelSelect = false
	}
	return m, nil
}

// View renders the mode/level selection.
func (m T2048ModeModel) View() string {
	if m.quitting || m.back || m.selection != nil {
		return ""
	}

	var title string
	var lines []string
	cursor := m.cursor
	if m.inLevelSelect {
		title = "SELECT LEVEL"
		targets := t2048.LevelTargets()
		for i, name := range t2048.LevelNames() {
			lines = append(lines, fmt.Sprintf("%2d. %s (Target: %d)", i+1, name, targets[i]))
		}
		cursor = m.levelCursor
	} else {
		title = "2 0 4 8"
		for _, e := range modeEntries {
			lines = append(lines, e.label)
		}
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render(title), m.width))
	b.WriteString("\n\n")
	if !m.inLevelSelect {
		b.WriteString(centerText("Select game mode:", m.width))
		b.WriteString("\n\n")
	}
	for i, line := range lines {
		if i == cursor {
			line = menuCursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(centerText(menuHelpStyle.Render("Enter: Select  |  Esc: Back  |  Q: Quit"), m.width))

	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m T2048ModeModel) Selected() *T2048Selection {
	return m.selection
}

// IsQuitting returns true if user wants to quit.
func (m T2048ModeModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m T2048ModeModel) WantsBack() bool {
	return m.back
}

// RunT2048ModeSelector runs the 2048 mode selection and returns the
// selection, or nil if the user backed out.
func RunT2048ModeSelector(width, height int) (*T2048Selection, error) {
	p := tea.NewProgram(
		NewT2048ModeModel(width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(T2048ModeModel)
	if !ok || m.IsQuitting() || m.WantsBack() {
		return nil, nil
	}

	return m.Selected(), nil
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}
