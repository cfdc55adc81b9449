// Package agent implements the expectimax move agent for 2048.
//
// The agent works on a private simulation of the board built from a
// read-only Snapshot of the live game. It never touches the live board: it
// only returns the Direction it would play, or None when the board is stuck.
package agent

// Direction is one of the four moves. The numeric values are part of the
// external interface: Up=0, Right=1, Down=2, Left=3.
type Direction int

// None signals that no direction changes the board.
const None Direction = -1

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Directions lists every move in the order the agent evaluates them.
var Directions = [...]Direction{Up, Right, Down, Left}

// Valid reports whether d is one of the four moves.
func (d Direction) Valid() bool {
	return d >= Up && d <= Left
}

// Vector returns the unit step of the direction.
func (d Direction) Vector() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	default:
		return 0, 0
	}
}

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Right:
		return "Right"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case None:
		return "None"
	default:
		return "Unknown"
	}
}
