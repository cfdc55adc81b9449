// Package autoplay drives the move agent against the live 2048 engine
// without a terminal, game after game, and records how far it got.
package autoplay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/arcade2048/internal/agent"
	"github.com/vovakirdan/arcade2048/internal/config"
	"github.com/vovakirdan/arcade2048/internal/core"
	"github.com/vovakirdan/arcade2048/internal/games/t2048"
	"github.com/vovakirdan/arcade2048/internal/registry"
	"github.com/vovakirdan/arcade2048/internal/storage"
)

// Store is the part of storage.Store the runner writes to.
type Store interface {
	SaveScore(gameID string, score int) (int64, error)
	SaveAgentRun(run storage.AgentRun) (int64, error)
}

// GameResult describes one finished game.
type GameResult struct {
	Index    int
	Seed     int64
	Score    int
	Moves    int
	MaxTile  int
	Duration time.Duration
	Stalled  bool // The engine rejected the agent's move
	Won      bool // Campaign completed
}

// Summary aggregates a batch.
type Summary struct {
	BatchID    string
	GameID     string
	Played     int
	TotalScore int
	AvgScore   float64
	MaxScore   int
	BestTile   int
	Reached    map[int]int // milestone tile -> games that reached it
	Elapsed    time.Duration
	Results    []GameResult
}

// Runner plays batches of games with one agent.
type Runner struct {
	agent  *agent.Agent
	cfg    config.AutoplayConfig
	gameID string
	store  Store
	logger *log.Logger
	seed   int64
	now    func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithStore persists every finished game.
func WithStore(s Store) Option {
	return func(r *Runner) { r.store = s }
}

// WithLogger sets the logger for per-game and summary lines.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithSeed fixes the seed of the first game; game i uses seed+i.
// Zero picks a seed from the clock.
func WithSeed(seed int64) Option {
	return func(r *Runner) { r.seed = seed }
}

// errInterrupted marks a game cut short by the context.
var errInterrupted = errors.New("autoplay: game interrupted")

// NewRunner creates a runner for the given agent and batch settings.
func NewRunner(a *agent.Agent, cfg config.AutoplayConfig, opts ...Option) (*Runner, error) {
	if a == nil {
		return nil, errors.New("autoplay: nil agent")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		agent:  a,
		cfg:    cfg,
		gameID: t2048.GameID(cfg.Mode),
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.seed == 0 {
		r.seed = r.now().UnixNano()
	}
	return r, nil
}

// Run plays until the configured number of games is reached, the time
// budget runs out, or ctx is cancelled. With both games and time_budget
// set to zero it only stops on cancellation. A game cut short by the
// deadline is not counted.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if r.cfg.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.TimeBudget)
		defer cancel()
	}

	sum := Summary{
		BatchID: uuid.NewString(),
		GameID:  r.gameID,
		Reached: make(map[int]int, len(r.cfg.Milestones)),
	}
	for _, m := range r.cfg.Milestones {
		sum.Reached[m] = 0
	}
	start := r.now()

	r.logger.Info("autoplay started",
		"batch", sum.BatchID,
		"game", r.gameID,
		"games", r.cfg.Games,
		"depth", r.agent.Config().Depth,
		"budget", r.cfg.TimeBudget,
	)

	for i := 0; r.cfg.Games == 0 || i < r.cfg.Games; i++ {
		if i > 0 && !r.wait(ctx) {
			break
		}
		if ctx.Err() != nil {
			break
		}

		res, err := r.playGame(ctx, i)
		if errors.Is(err, errInterrupted) {
			r.logger.Info("game interrupted", "game", i+1, "moves", res.Moves)
			break
		}
		if err != nil {
			sum.Elapsed = r.now().Sub(start)
			return sum, err
		}

		sum.add(res)
		r.record(sum.BatchID, res)
	}

	sum.Elapsed = r.now().Sub(start)
	r.logger.Info("autoplay finished",
		"batch", sum.BatchID,
		"played", sum.Played,
		"avg", fmt.Sprintf("%.0f", sum.AvgScore),
		"max", sum.MaxScore,
		"best_tile", sum.BestTile,
		"elapsed", sum.Elapsed.Round(time.Millisecond),
	)
	return sum, nil
}

// wait sleeps for the restart delay. It returns false if ctx ends first.
func (r *Runner) wait(ctx context.Context) bool {
	if r.cfg.RestartDelay <= 0 {
		return true
	}
	t := time.NewTimer(r.cfg.RestartDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (r *Runner) playGame(ctx context.Context, index int) (GameResult, error) {
	g, err := registry.CreateAutoplayable(r.gameID)
	if err != nil {
		return GameResult{}, err
	}

	res := GameResult{Index: index, Seed: r.seed + int64(index)}
	g.Reset(core.Headless(res.Seed))
	start := r.now()

	for !g.Over() {
		if ctx.Err() != nil {
			return res, errInterrupted
		}
		if r.cfg.MaxMoves > 0 && res.Moves >= r.cfg.MaxMoves {
			break
		}

		dir, err := r.agent.SelectMove(g.AgentSnapshot())
		if err != nil {
			return res, fmt.Errorf("autoplay: game %d: %w", index+1, err)
		}
		if dir == agent.None {
			break
		}
		if !g.Apply(dir) {
			r.logger.Warn("bad move", "game", index+1, "dir", dir, "board", g.AgentSnapshot())
			res.Stalled = true
			break
		}
		res.Moves++
	}

	res.Score = g.State().Score
	res.MaxTile = g.MaxTile()
	res.Duration = r.now().Sub(start)
	if w, ok := g.(interface{ Won() bool }); ok {
		res.Won = w.Won()
	}

	r.logger.Info("game finished",
		"game", index+1,
		"score", res.Score,
		"moves", res.Moves,
		"max_tile", res.MaxTile,
		"duration", res.Duration.Round(time.Millisecond),
	)
	return res, nil
}

// record persists a result. Storage failures are logged, not fatal.
func (r *Runner) record(batchID string, res GameResult) {
	if r.store == nil {
		return
	}
	if _, err := r.store.SaveScore(r.gameID, res.Score); err != nil {
		r.logger.Warn("cannot save score", "err", err)
	}
	run := storage.AgentRun{
		BatchID:  batchID,
		GameID:   r.gameID,
		Seed:     res.Seed,
		Score:    res.Score,
		Moves:    res.Moves,
		MaxTile:  res.MaxTile,
		Depth:    r.agent.Config().Depth,
		Duration: res.Duration,
		Stalled:  res.Stalled,
	}
	if _, err := r.store.SaveAgentRun(run); err != nil {
		r.logger.Warn("cannot save agent run", "err", err)
	}
}

func (s *Summary) add(res GameResult) {
	s.Results = append(s.Results, res)
	s.Played++
	s.TotalScore += res.Score
	s.AvgScore = float64(s.TotalScore) / float64(s.Played)
	s.MaxScore = max(s.MaxScore, res.Score)
	s.BestTile = max(s.BestTile, res.MaxTile)
	for m := range s.Reached {
		if res.MaxTile >= m {
			s.Reached[m]++
		}
	}
}
