package agent

import (
	"math"

	"github.com/vovakirdan/arcade2048/internal/config"
)

// Evaluator is the static heuristic used at the search horizon.
// It is a pure function of the grid and safe for concurrent use.
type Evaluator struct {
	weights    [][]float64
	smoothness float64
}

// Breakdown holds the individual terms of one evaluation.
type Breakdown struct {
	Positional float64
	Smoothness float64 // already negative; not yet multiplied by the weight
	Free       int
	Score      float64
}

// NewEvaluator creates an evaluator from the configured weight table.
func NewEvaluator(cfg config.EvaluatorConfig) *Evaluator {
	return &Evaluator{
		weights:    config.AgentConfig{Evaluator: cfg}.Clone().Evaluator.Weights,
		smoothness: cfg.SmoothnessWeight,
	}
}

// Size returns the board dimension the weight table covers.
func (e *Evaluator) Size() int {
	return len(e.weights)
}

// Evaluate scores a grid. Higher is better.
func (e *Evaluator) Evaluate(g *Grid) float64 {
	return e.Breakdown(g).Score
}

// Breakdown scores a grid and reports each term.
func (e *Evaluator) Breakdown(g *Grid) Breakdown {
	var b Breakdown
	n := g.Size()

	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			cell := Position{X: x, Y: y}
			tile, ok := g.CellContent(cell)

			value := 0.0
			if ok {
				b.Positional += float64(tile.Value) * e.weight(x, y)
				value = math.Log2(float64(tile.Value))
			} else {
				b.Free++
			}

			for _, dir := range [...]Direction{Right, Down} {
				dx, dy := dir.Vector()
				_, next := g.farthestPosition(cell, dx, dy)
				if other, ok := g.CellContent(next); ok {
					b.Smoothness -= math.Abs(value - math.Log2(float64(other.Value)))
				}
			}
		}
	}

	score := b.Positional + e.smoothness*b.Smoothness
	cells := float64(n * n)
	free := float64(b.Free)
	if free < cells/2 {
		score -= score * free / cells
	} else {
		score += score * free / cells
	}
	b.Score = score
	return b
}

func (e *Evaluator) weight(x, y int) float64 {
	if y >= len(e.weights) || x >= len(e.weights[y]) {
		return 0
	}
	return e.weights[y][x]
}
