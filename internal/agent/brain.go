package agent

import (
	"fmt"
	"slices"
)

// Brain is a private copy of the game state that can be moved without
// affecting the live board. It holds no spawn logic: tiles appear only when
// the search inserts them.
type Brain struct {
	grid  *Grid
	score int
}

// NewBrain builds a brain from a snapshot.
func NewBrain(s Snapshot) (*Brain, error) {
	g, err := NewGrid(s)
	if err != nil {
		return nil, err
	}
	return &Brain{grid: g}, nil
}

// Clone returns an independent brain for exploring a branch.
func (b *Brain) Clone() *Brain {
	return &Brain{grid: b.grid.Clone(), score: b.score}
}

// Grid exposes the simulated board.
func (b *Brain) Grid() *Grid {
	return b.grid
}

// Score returns the merge points accumulated by moves on this brain.
func (b *Brain) Score() int {
	return b.score
}

// AddTile places a new tile, as the environment would after a move.
func (b *Brain) AddTile(pos Position, value int) {
	b.grid.InsertTile(Tile{Pos: pos, Value: value})
}

// Move slides every tile in dir and merges equal neighbours, each tile at
// most once per move. It reports whether the board changed.
func (b *Brain) Move(dir Direction) bool {
	if !dir.Valid() {
		return false
	}

	dx, dy := dir.Vector()
	xs, ys := b.traversals(dx, dy)
	moved := false

	b.grid.clearMerged()
	defer b.grid.clearMerged()

	for _, x := range xs {
		for _, y := range ys {
			cell := Position{X: x, Y: y}
			tile, ok := b.grid.CellContent(cell)
			if !ok {
				continue
			}

			farthest, next := b.grid.farthestPosition(cell, dx, dy)
			if other, ok := b.grid.CellContent(next); ok && other.Value == tile.Value && !other.merged {
				merged := Tile{Pos: next, Value: tile.Value * 2, merged: true}
				b.grid.RemoveTile(other)
				b.grid.InsertTile(merged)
				b.grid.RemoveTile(tile)
				b.score += merged.Value
				moved = true
				continue
			}

			if farthest != cell {
				b.moveTile(tile, farthest)
				moved = true
			}
		}
	}
	return moved
}

func (b *Brain) moveTile(t Tile, to Position) {
	if !b.grid.WithinBounds(to) {
		panic(fmt.Errorf("%w: move of %v to %v outside the board", ErrInvariant, t.Pos, to))
	}
	b.grid.RemoveTile(t)
	t.Pos = to
	b.grid.InsertTile(t)
}

// traversals returns the coordinate orders for a move so that tiles nearest
// the destination edge are processed first.
func (b *Brain) traversals(dx, dy int) (xs, ys []int) {
	n := b.grid.size
	xs = make([]int, n)
	ys = make([]int, n)
	for i := 0; i < n; i++ {
		xs[i] = i
		ys[i] = i
	}
	if dx == 1 {
		slices.Reverse(xs)
	}
	if dy == 1 {
		slices.Reverse(ys)
	}
	return xs, ys
}
