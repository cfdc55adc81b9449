package agent

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/arcade2048/internal/config"
)

// Candidate is the outcome of evaluating one top-level move.
type Candidate struct {
	Dir    Direction
	Legal  bool
	Score  float64 // expectimax value; zero for illegal moves
	Reward int     // merge points earned by the move itself
}

// Decision is a selected move together with the evaluation behind it.
type Decision struct {
	Dir        Direction
	Candidates [len(Directions)]Candidate
	Nodes      int64
	Elapsed    time.Duration
}

// Agent picks moves for a 2048 board. An Agent holds no per-call state and
// may be reused across calls; concurrent calls are safe but share the
// node counter used for logging.
type Agent struct {
	cfg    config.AgentConfig
	search *Searcher
	logger *log.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithLogger sets the logger used for per-decision debug output.
func WithLogger(l *log.Logger) Option {
	return func(a *Agent) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an agent from a validated configuration.
func New(cfg config.AgentConfig, opts ...Option) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()
	a := &Agent{
		cfg:    cfg,
		search: NewSearcher(cfg),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Config returns a copy of the agent's configuration.
func (a *Agent) Config() config.AgentConfig {
	return a.cfg.Clone()
}

// SelectMove returns the best direction for the board, or None when no
// direction changes it.
func (a *Agent) SelectMove(s Snapshot) (Direction, error) {
	d, err := a.Decide(s)
	if err != nil {
		return None, err
	}
	return d.Dir, nil
}

// Decide evaluates every direction and returns the chosen one with the
// per-direction scores.
func (a *Agent) Decide(s Snapshot) (Decision, error) {
	root, err := NewBrain(s)
	if err != nil {
		return Decision{}, err
	}
	if s.Size != a.search.Evaluator().Size() {
		return Decision{}, fmt.Errorf("%w: board size %d does not match %dx%d weight table",
			ErrInvalidSnapshot, s.Size, a.search.Evaluator().Size(), a.search.Evaluator().Size())
	}

	start := time.Now()
	before := a.search.Nodes()

	var d Decision
	if a.cfg.Parallel {
		d.Candidates = a.scoreParallel(root)
	} else {
		for i, dir := range Directions {
			d.Candidates[i] = a.score(root, dir)
		}
	}
	d.Dir = pick(d.Candidates)
	d.Nodes = a.search.Nodes() - before
	d.Elapsed = time.Since(start)

	a.logger.Debug("move selected",
		"dir", d.Dir,
		"up", d.Candidates[Up].Score,
		"right", d.Candidates[Right].Score,
		"down", d.Candidates[Down].Score,
		"left", d.Candidates[Left].Score,
		"nodes", d.Nodes,
		"elapsed", d.Elapsed,
	)
	return d, nil
}

func (a *Agent) score(root *Brain, dir Direction) Candidate {
	c := Candidate{Dir: dir}
	clone := root.Clone()
	if !clone.Move(dir) {
		return c
	}
	c.Legal = true
	c.Reward = clone.Score() - root.Score()
	c.Score = a.search.Expectimax(clone, true, a.cfg.Depth)
	return c
}

// scoreParallel evaluates the top-level moves concurrently. Each goroutine
// writes only its own slot, so the result matches the sequential order.
func (a *Agent) scoreParallel(root *Brain) [len(Directions)]Candidate {
	var out [len(Directions)]Candidate
	var g errgroup.Group
	for i, dir := range Directions {
		g.Go(func() error {
			out[i] = a.score(root, dir)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// pick returns the strictly best legal candidate, scanning in direction
// order. When every legal candidate has the same score the last legal one
// wins.
func pick(cands [len(Directions)]Candidate) Direction {
	best, last := None, None
	var bestScore, first float64
	tied := true

	for _, c := range cands {
		if !c.Legal {
			continue
		}
		if last == None {
			first = c.Score
		} else if c.Score != first {
			tied = false
		}
		if best == None || c.Score > bestScore {
			best, bestScore = c.Dir, c.Score
		}
		last = c.Dir
	}

	if tied {
		return last
	}
	return best
}
