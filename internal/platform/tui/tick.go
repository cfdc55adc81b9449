// Package tui runs 2048 in the terminal with Bubble Tea: the game loop,
// key mapping, the agent's hints and autopilot, the mode selector, the
// scoreboard and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// tickInterval converts a tick rate to the delay between ticks. Rates
// below one tick per second are clamped.
func tickInterval(tickRate int) time.Duration {
	return time.Second / time.Duration(max(tickRate, 1))
}

// tickCmd schedules the next simulation tick.
func tickCmd(tickRate int) tea.Cmd {
	return tea.Tick(tickInterval(tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
