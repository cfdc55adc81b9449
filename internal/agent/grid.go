package agent

import "fmt"

// Position is a cell coordinate. X grows to the right, Y grows downward.
type Position struct {
	X, Y int
}

// Add returns the position one step along (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Tile is a numbered tile on the simulated board.
// A zero Value marks an empty slot.
type Tile struct {
	Pos   Position
	Value int

	// merged is set on tiles produced by a merge during the current move.
	merged bool
}

// Grid is the N×N simulated board owned by a Brain.
type Grid struct {
	size  int
	cells []Tile // indexed y*size + x
}

// NewEmptyGrid creates a grid with every cell empty.
func NewEmptyGrid(size int) *Grid {
	return &Grid{size: size, cells: make([]Tile, size*size)}
}

// NewGrid builds a grid from a snapshot.
func NewGrid(s Snapshot) (*Grid, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	g := NewEmptyGrid(s.Size)
	for y, row := range s.Cells {
		for x, v := range row {
			if v != 0 {
				g.InsertTile(Tile{Pos: Position{X: x, Y: y}, Value: v})
			}
		}
	}
	return g, nil
}

// Size returns the board dimension.
func (g *Grid) Size() int {
	return g.size
}

// WithinBounds reports whether p lies on the board.
func (g *Grid) WithinBounds(p Position) bool {
	return p.X >= 0 && p.X < g.size && p.Y >= 0 && p.Y < g.size
}

// CellContent returns the tile at p. ok is false for empty or
// out-of-bounds cells.
func (g *Grid) CellContent(p Position) (Tile, bool) {
	if !g.WithinBounds(p) {
		return Tile{}, false
	}
	t := g.cells[g.index(p)]
	return t, t.Value != 0
}

// CellAvailable reports whether p is on the board and empty.
func (g *Grid) CellAvailable(p Position) bool {
	if !g.WithinBounds(p) {
		return false
	}
	return g.cells[g.index(p)].Value == 0
}

// AvailableCells lists every empty cell, column by column.
func (g *Grid) AvailableCells() []Position {
	var out []Position
	for x := 0; x < g.size; x++ {
		for y := 0; y < g.size; y++ {
			if g.cells[y*g.size+x].Value == 0 {
				out = append(out, Position{X: x, Y: y})
			}
		}
	}
	return out
}

// CellsAvailable reports whether at least one cell is empty.
func (g *Grid) CellsAvailable() bool {
	for _, t := range g.cells {
		if t.Value == 0 {
			return true
		}
	}
	return false
}

// InsertTile places t at t.Pos. The target slot must be on the board and
// empty; anything else is a simulator bug and panics with ErrInvariant.
func (g *Grid) InsertTile(t Tile) {
	if !g.WithinBounds(t.Pos) {
		panic(fmt.Errorf("%w: insert at %v outside %dx%d board", ErrInvariant, t.Pos, g.size, g.size))
	}
	if !isPowerOfTwo(t.Value) {
		panic(fmt.Errorf("%w: insert of value %d", ErrInvariant, t.Value))
	}
	i := g.index(t.Pos)
	if g.cells[i].Value != 0 {
		panic(fmt.Errorf("%w: insert at occupied cell %v", ErrInvariant, t.Pos))
	}
	g.cells[i] = t
}

// RemoveTile empties the slot at t.Pos.
func (g *Grid) RemoveTile(t Tile) {
	if !g.WithinBounds(t.Pos) {
		panic(fmt.Errorf("%w: remove at %v outside %dx%d board", ErrInvariant, t.Pos, g.size, g.size))
	}
	g.cells[g.index(t.Pos)] = Tile{}
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	out := &Grid{size: g.size, cells: make([]Tile, len(g.cells))}
	copy(out.cells, g.cells)
	return out
}

// Serialize converts the grid back into the exchange format.
func (g *Grid) Serialize() Snapshot {
	s := Snapshot{Size: g.size, Cells: make([][]int, g.size)}
	for y := 0; y < g.size; y++ {
		s.Cells[y] = make([]int, g.size)
		for x := 0; x < g.size; x++ {
			s.Cells[y][x] = g.cells[y*g.size+x].Value
		}
	}
	return s
}

// MaxValue returns the largest tile value, or 0 on an empty board.
func (g *Grid) MaxValue() int {
	best := 0
	for _, t := range g.cells {
		best = max(best, t.Value)
	}
	return best
}

// farthestPosition walks from cell along (dx, dy) while the next cell is on
// the board and empty. It returns the last empty cell reached (cell itself
// when the first step is blocked) and the first cell past it.
func (g *Grid) farthestPosition(cell Position, dx, dy int) (farthest, next Position) {
	next = cell
	for {
		farthest = next
		next = farthest.Add(dx, dy)
		if !g.CellAvailable(next) {
			return farthest, next
		}
	}
}

// clearMerged drops the per-move merge marks.
func (g *Grid) clearMerged() {
	for i := range g.cells {
		g.cells[i].merged = false
	}
}

func (g *Grid) index(p Position) int {
	return p.Y*g.size + p.X
}
