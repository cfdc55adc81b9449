package autoplay

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/arcade2048/internal/agent"
	"github.com/vovakirdan/arcade2048/internal/config"
	"github.com/vovakirdan/arcade2048/internal/storage"
)

type fakeStore struct {
	mu     sync.Mutex
	scores []int
	runs   []storage.AgentRun
	fail   bool
}

func (f *fakeStore) SaveScore(gameID string, score int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return 0, errors.New("disk full")
	}
	f.scores = append(f.scores, score)
	return int64(len(f.scores)), nil
}

func (f *fakeStore) SaveAgentRun(run storage.AgentRun) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return 0, errors.New("disk full")
	}
	f.runs = append(f.runs, run)
	return int64(len(f.runs)), nil
}

func testAgent(t *testing.T, depth int) *agent.Agent {
	t.Helper()
	cfg := config.DefaultAgentConfig()
	cfg.Depth = depth
	a, err := agent.New(cfg)
	if err != nil {
		t.Fatalf("agent.New() failed: %v", err)
	}
	return a
}

func testConfig(games, maxMoves int) config.AutoplayConfig {
	cfg := config.DefaultAutoplayConfig()
	cfg.Games = games
	cfg.MaxMoves = maxMoves
	cfg.RestartDelay = 0
	cfg.TimeBudget = 0
	cfg.Milestones = []int{16, 64}
	return cfg
}

func TestRunPlaysAndRecords(t *testing.T) {
	store := &fakeStore{}
	r, err := NewRunner(testAgent(t, 1), testConfig(3, 25), WithStore(store), WithSeed(42))
	if err != nil {
		t.Fatalf("NewRunner() failed: %v", err)
	}

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if sum.Played != 3 || len(sum.Results) != 3 {
		t.Fatalf("Played = %d, results = %d; want 3", sum.Played, len(sum.Results))
	}
	if _, err := uuid.Parse(sum.BatchID); err != nil {
		t.Errorf("BatchID %q is not a UUID: %v", sum.BatchID, err)
	}
	if sum.GameID != "2048_endless" {
		t.Errorf("GameID = %q, want 2048_endless", sum.GameID)
	}

	total, best := 0, 0
	for i, res := range sum.Results {
		if res.Moves == 0 || res.Moves > 25 {
			t.Errorf("game %d: Moves = %d, want 1..25", i, res.Moves)
		}
		if res.Seed != 42+int64(i) {
			t.Errorf("game %d: Seed = %d, want %d", i, res.Seed, 42+i)
		}
		if res.Stalled {
			t.Errorf("game %d stalled", i)
		}
		total += res.Score
		best = max(best, res.MaxTile)
	}
	if sum.TotalScore != total || sum.BestTile != best {
		t.Errorf("summary totals = %d/%d, want %d/%d", sum.TotalScore, sum.BestTile, total, best)
	}
	if sum.AvgScore != float64(total)/3 {
		t.Errorf("AvgScore = %g, want %g", sum.AvgScore, float64(total)/3)
	}
	if _, ok := sum.Reached[16]; !ok {
		t.Error("Reached is missing a configured milestone")
	}

	if len(store.scores) != 3 || len(store.runs) != 3 {
		t.Fatalf("store got %d scores and %d runs, want 3 each", len(store.scores), len(store.runs))
	}
	for _, run := range store.runs {
		if run.BatchID != sum.BatchID || run.Depth != 1 || run.GameID != "2048_endless" {
			t.Errorf("stored run = %+v", run)
		}
	}
}

func TestRunDeterministicWithSeed(t *testing.T) {
	play := func() Summary {
		r, err := NewRunner(testAgent(t, 1), testConfig(2, 30), WithSeed(7))
		if err != nil {
			t.Fatal(err)
		}
		sum, err := r.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return sum
	}

	a, b := play(), play()
	for i := range a.Results {
		ra, rb := a.Results[i], b.Results[i]
		if ra.Score != rb.Score || ra.Moves != rb.Moves || ra.MaxTile != rb.MaxTile {
			t.Errorf("game %d differs between runs: %+v vs %+v", i, ra, rb)
		}
	}
}

func TestRunUntilGameOver(t *testing.T) {
	r, err := NewRunner(testAgent(t, 0), testConfig(1, 0), WithSeed(3))
	if err != nil {
		t.Fatal(err)
	}

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	res := sum.Results[0]
	if res.Moves < 20 {
		t.Errorf("game ended after %d moves", res.Moves)
	}
	if res.Stalled {
		t.Error("game ended on a rejected move")
	}
	if res.MaxTile < 16 {
		t.Errorf("MaxTile = %d", res.MaxTile)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := NewRunner(testAgent(t, 1), testConfig(5, 10))
	if err != nil {
		t.Fatal(err)
	}
	sum, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if sum.Played != 0 {
		t.Errorf("Played = %d with a cancelled context, want 0", sum.Played)
	}
}

func TestRunTimeBudget(t *testing.T) {
	cfg := testConfig(0, 10)
	cfg.TimeBudget = time.Nanosecond

	r, err := NewRunner(testAgent(t, 1), cfg)
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan Summary, 1)
	go func() {
		sum, _ := r.Run(context.Background())
		done <- sum
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Run() ignored the time budget")
	}
}

func TestRunRestartDelayHonoursCancel(t *testing.T) {
	cfg := testConfig(0, 5)
	cfg.RestartDelay = time.Hour

	r, err := NewRunner(testAgent(t, 0), cfg)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	sum, err := r.Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Played != 1 {
		t.Errorf("Played = %d, want 1 before the long restart delay", sum.Played)
	}
}

func TestRunStoreFailuresAreLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})

	r, err := NewRunner(testAgent(t, 0), testConfig(2, 5), WithStore(&fakeStore{fail: true}), WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if sum.Played != 2 {
		t.Errorf("Played = %d, storage errors should not stop the batch", sum.Played)
	}
	out := buf.String()
	if !strings.Contains(out, "cannot save agent run") || !strings.Contains(out, "game finished") {
		t.Errorf("log output missing expected lines:\n%s", out)
	}
}

func TestNewRunnerValidates(t *testing.T) {
	if _, err := NewRunner(nil, testConfig(1, 1)); err == nil {
		t.Error("NewRunner(nil agent) should fail")
	}

	cfg := testConfig(1, 1)
	cfg.Mode = "arcade"
	if _, err := NewRunner(testAgent(t, 1), cfg); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("NewRunner(bad mode) error = %v, want ErrInvalidConfig", err)
	}
}

func TestSummaryAdd(t *testing.T) {
	s := Summary{Reached: map[int]int{2048: 0, 4096: 0}}
	s.add(GameResult{Score: 100, MaxTile: 2048})
	s.add(GameResult{Score: 300, MaxTile: 4096})
	s.add(GameResult{Score: 50, MaxTile: 512})

	if s.Played != 3 || s.TotalScore != 450 || s.MaxScore != 300 || s.BestTile != 4096 {
		t.Errorf("summary = %+v", s)
	}
	if s.AvgScore != 150 {
		t.Errorf("AvgScore = %g, want 150", s.AvgScore)
	}
	if s.Reached[2048] != 2 || s.Reached[4096] != 1 {
		t.Errorf("Reached = %v", s.Reached)
	}
}
