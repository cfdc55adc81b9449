package agent

import (
	"sync/atomic"

	"github.com/vovakirdan/arcade2048/internal/config"
)

// Searcher runs depth-limited expectimax over simulated boards.
//
// Decision layers take the best legal move; chance layers average over every
// empty cell and both spawn values, weighted by their probabilities.
type Searcher struct {
	eval  *Evaluator
	spawn config.SpawnConfig
	nodes atomic.Int64
}

// NewSearcher creates a searcher for the given agent configuration.
func NewSearcher(cfg config.AgentConfig) *Searcher {
	return &Searcher{
		eval:  NewEvaluator(cfg.Evaluator),
		spawn: cfg.Spawn,
	}
}

// Evaluator returns the static evaluator used at the horizon.
func (s *Searcher) Evaluator() *Evaluator {
	return s.eval
}

// Nodes returns the number of positions visited since the last ResetNodes.
func (s *Searcher) Nodes() int64 {
	return s.nodes.Load()
}

// ResetNodes zeroes the visit counter.
func (s *Searcher) ResetNodes() {
	s.nodes.Store(0)
}

// Expectimax returns the value of b. chance selects a spawn layer instead of
// a move layer. The brain passed in is never modified.
func (s *Searcher) Expectimax(b *Brain, chance bool, depth int) float64 {
	s.nodes.Add(1)

	if depth == 0 {
		return s.eval.Evaluate(b.grid)
	}
	if chance {
		return s.chanceValue(b, depth)
	}
	return s.decisionValue(b, depth)
}

func (s *Searcher) decisionValue(b *Brain, depth int) float64 {
	best, found := 0.0, false
	for _, dir := range Directions {
		clone := b.Clone()
		if !clone.Move(dir) {
			continue
		}
		v := s.Expectimax(clone, true, depth-1)
		if !found || v > best {
			best, found = v, true
		}
	}
	return best
}

func (s *Searcher) chanceValue(b *Brain, depth int) float64 {
	cells := b.grid.AvailableCells()
	if len(cells) == 0 {
		return s.eval.Evaluate(b.grid)
	}

	total := 0.0
	for _, pos := range cells {
		two := b.Clone()
		two.AddTile(pos, s.spawn.TwoValue)
		total += s.spawn.TwoProb * s.Expectimax(two, false, depth-1)

		four := b.Clone()
		four.AddTile(pos, s.spawn.FourValue)
		total += s.spawn.FourProb * s.Expectimax(four, false, depth-1)
	}
	return total / float64(len(cells))
}
