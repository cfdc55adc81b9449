package agent

import (
	"math"
	"testing"

	"github.com/vovakirdan/arcade2048/internal/config"
)

func uniformEvaluator(n int) *Evaluator {
	weights := make([][]float64, n)
	for y := range weights {
		weights[y] = make([]float64, n)
		for x := range weights[y] {
			weights[y][x] = 1
		}
	}
	return NewEvaluator(config.EvaluatorConfig{SmoothnessWeight: 0.1, Weights: weights})
}

func mustGrid(t testing.TB, text string) *Grid {
	t.Helper()
	g, err := NewGrid(mustSnapshot(t, text))
	if err != nil {
		t.Fatalf("NewGrid(%q) failed: %v", text, err)
	}
	return g
}

func TestEvaluateHandComputed(t *testing.T) {
	tests := []struct {
		name       string
		board      string
		smoothness float64
		free       int
		want       float64
	}{
		{
			// No right/down scan can reach the top-left corner.
			name:       "single tile at origin",
			board:      "2,0,0,0/0,0,0,0/0,0,0,0/0,0,0,0",
			smoothness: 0,
			free:       15,
			want:       3.875,
		},
		{
			// Six empty cells see the tile: three in its row, three in its column.
			name:       "single tile at far corner",
			board:      "0,0,0,0/0,0,0,0/0,0,0,0/0,0,0,2",
			smoothness: -6,
			free:       15,
			want:       2.7125,
		},
		{
			name:       "empty board",
			board:      "0,0,0,0/0,0,0,0/0,0,0,0/0,0,0,0",
			smoothness: 0,
			free:       16,
			want:       0,
		},
	}

	e := uniformEvaluator(4)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := e.Breakdown(mustGrid(t, tt.board))
			if b.Smoothness != tt.smoothness {
				t.Errorf("Smoothness = %g, want %g", b.Smoothness, tt.smoothness)
			}
			if b.Free != tt.free {
				t.Errorf("Free = %d, want %d", b.Free, tt.free)
			}
			if math.Abs(b.Score-tt.want) > 1e-9 {
				t.Errorf("Score = %g, want %g", b.Score, tt.want)
			}
		})
	}
}

func TestEvaluateCrowdedBoardPenalty(t *testing.T) {
	// 2x2 board, three tiles, one free cell: free < N²/2 shrinks the score.
	e := uniformEvaluator(2)
	b := e.Breakdown(mustGrid(t, "2,2/2,0"))

	// (0,0)->(1,0) and (0,0)->(0,1) are equal; (1,0) and (0,1) see nothing.
	if b.Smoothness != 0 {
		t.Fatalf("Smoothness = %g, want 0", b.Smoothness)
	}
	want := 6.0 - 6.0*1/4
	if math.Abs(b.Score-want) > 1e-9 {
		t.Errorf("Score = %g, want %g", b.Score, want)
	}
}

func TestEvaluateAnchorCorner(t *testing.T) {
	e := NewEvaluator(config.DefaultAgentConfig().Evaluator)

	anchor := e.Evaluate(mustGrid(t, "2048,0,0,0/0,0,0,0/0,0,0,0/0,0,0,0"))
	opposite := e.Evaluate(mustGrid(t, "0,0,0,0/0,0,0,0/0,0,0,0/0,0,0,2048"))
	if anchor < opposite {
		t.Errorf("anchor corner scores %g, opposite corner %g; want anchor >= opposite", anchor, opposite)
	}
}

func TestEvaluatePure(t *testing.T) {
	e := NewEvaluator(config.DefaultAgentConfig().Evaluator)
	g := mustGrid(t, "2,4,8,16/0,2,0,4/0,0,2,0/0,0,0,2")
	before := g.Serialize().String()

	first := e.Evaluate(g)
	second := e.Evaluate(g)
	if first != second {
		t.Errorf("Evaluate not deterministic: %g vs %g", first, second)
	}
	if g.Serialize().String() != before {
		t.Error("Evaluate modified the grid")
	}
}

func TestNewEvaluatorCopiesWeights(t *testing.T) {
	cfg := config.DefaultAgentConfig().Evaluator
	e := NewEvaluator(cfg)
	cfg.Weights[0][0] = 1000

	if e.weight(0, 0) == 1000 {
		t.Error("evaluator shares the caller's weight table")
	}
}
