package agent

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidSnapshot is returned when a board snapshot cannot be simulated.
	ErrInvalidSnapshot = errors.New("agent: invalid snapshot")

	// ErrInvariant is carried by panics raised when the simulator breaks its
	// own grid invariants. It indicates a bug, never bad input.
	ErrInvariant = errors.New("agent: invariant violation")
)

// Snapshot is the plain board representation exchanged with the live game.
// Cells is row-major (Cells[y][x]); 0 marks an empty cell.
type Snapshot struct {
	Size  int     `json:"size"`
	Cells [][]int `json:"cells"`
}

// Validate checks dimensions and tile values.
func (s Snapshot) Validate() error {
	if s.Size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidSnapshot, s.Size)
	}
	if len(s.Cells) != s.Size {
		return fmt.Errorf("%w: %d rows for size %d", ErrInvalidSnapshot, len(s.Cells), s.Size)
	}
	for y, row := range s.Cells {
		if len(row) != s.Size {
			return fmt.Errorf("%w: row %d has %d cells for size %d", ErrInvalidSnapshot, y, len(row), s.Size)
		}
		for x, v := range row {
			if v != 0 && !isPowerOfTwo(v) {
				return fmt.Errorf("%w: cell (%d,%d) holds %d, not a power of two", ErrInvalidSnapshot, x, y, v)
			}
		}
	}
	return nil
}

// String renders the snapshot in the form accepted by ParseSnapshot.
func (s Snapshot) String() string {
	rows := make([]string, len(s.Cells))
	for y, row := range s.Cells {
		vals := make([]string, len(row))
		for x, v := range row {
			vals[x] = strconv.Itoa(v)
		}
		rows[y] = strings.Join(vals, ",")
	}
	return strings.Join(rows, "/")
}

// ParseSnapshot reads a board written as comma-separated rows joined by
// slashes, e.g. "2,2,0,0/0,0,0,0/0,0,0,0/0,0,0,0". Dots are accepted as
// empty cells.
func ParseSnapshot(text string) (Snapshot, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Snapshot{}, fmt.Errorf("%w: empty board", ErrInvalidSnapshot)
	}

	rows := strings.Split(text, "/")
	snap := Snapshot{Size: len(rows), Cells: make([][]int, len(rows))}
	for y, row := range rows {
		fields := strings.Split(row, ",")
		snap.Cells[y] = make([]int, len(fields))
		for x, f := range fields {
			f = strings.TrimSpace(f)
			if f == "." || f == "" {
				continue
			}
			v, err := strconv.Atoi(f)
			if err != nil {
				return Snapshot{}, fmt.Errorf("%w: cell (%d,%d): %v", ErrInvalidSnapshot, x, y, err)
			}
			snap.Cells[y][x] = v
		}
	}

	if err := snap.Validate(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func isPowerOfTwo(v int) bool {
	return v >= 2 && v&(v-1) == 0
}
