package agent

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcade2048/internal/config"
)

func newTestAgent(t testing.TB, depth int, parallel bool) *Agent {
	t.Helper()
	cfg := config.DefaultAgentConfig()
	cfg.Depth = depth
	cfg.Parallel = parallel
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return a
}

func TestSelectMoveStuckBoard(t *testing.T) {
	a := newTestAgent(t, 2, false)
	dir, err := a.SelectMove(mustSnapshot(t, "2,4,2,4/4,2,4,2/2,4,2,4/4,2,4,2"))
	if err != nil {
		t.Fatalf("SelectMove() failed: %v", err)
	}
	if dir != None {
		t.Errorf("SelectMove() = %v, want None", dir)
	}
}

func TestSelectMoveReturnsLegalMove(t *testing.T) {
	boards := []string{
		"2,2,0,0/0,0,0,0/0,0,0,0/0,0,0,0",
		"0,0,0,0/0,0,0,0/0,0,0,0/0,0,0,2",
		"2,4,8,16/4,8,16,32/8,16,32,64/16,32,64,0",
		"128,64,32,16/8,4,2,0/0,0,0,0/2,0,0,0",
	}

	a := newTestAgent(t, 2, false)
	for _, text := range boards {
		snap := mustSnapshot(t, text)
		dir, err := a.SelectMove(snap)
		if err != nil {
			t.Fatalf("SelectMove(%s) failed: %v", text, err)
		}
		if !dir.Valid() {
			t.Fatalf("SelectMove(%s) = %v, want a direction", text, dir)
		}
		b, _ := NewBrain(snap)
		if !b.Move(dir) {
			t.Errorf("SelectMove(%s) = %v, which does not change the board", text, dir)
		}
	}
}

func TestSelectMoveDoesNotTouchSnapshot(t *testing.T) {
	a := newTestAgent(t, 2, false)
	snap := mustSnapshot(t, "2,2,0,0/0,4,0,0/0,0,0,0/0,0,0,8")
	before := snap.String()

	if _, err := a.SelectMove(snap); err != nil {
		t.Fatal(err)
	}
	if snap.String() != before {
		t.Errorf("snapshot changed to %q", snap.String())
	}
}

func TestSelectMoveParallelMatchesSequential(t *testing.T) {
	seq := newTestAgent(t, 2, false)
	par := newTestAgent(t, 2, true)

	for _, text := range []string{
		"2,2,0,0/0,4,0,0/0,0,0,0/0,0,0,8",
		"128,64,32,16/8,4,2,0/0,0,0,0/2,0,0,0",
		"2,0,0,2/0,0,0,0/0,0,0,0/4,0,0,4",
	} {
		snap := mustSnapshot(t, text)
		ds, err := seq.Decide(snap)
		if err != nil {
			t.Fatal(err)
		}
		dp, err := par.Decide(snap)
		if err != nil {
			t.Fatal(err)
		}
		if ds.Dir != dp.Dir || ds.Candidates != dp.Candidates {
			t.Errorf("%s: sequential %v %+v, parallel %v %+v", text, ds.Dir, ds.Candidates, dp.Dir, dp.Candidates)
		}
	}
}

func TestDecideDepthZeroUsesEvaluator(t *testing.T) {
	a := newTestAgent(t, 0, false)
	snap := mustSnapshot(t, "2,2,0,0/0,0,0,0/0,0,0,0/0,0,0,0")

	d, err := a.Decide(snap)
	if err != nil {
		t.Fatal(err)
	}

	eval := NewEvaluator(config.DefaultAgentConfig().Evaluator)
	for _, dir := range Directions {
		b, _ := NewBrain(snap)
		legal := b.Move(dir)
		c := d.Candidates[dir]
		if c.Legal != legal {
			t.Errorf("%v: Legal = %v, want %v", dir, c.Legal, legal)
			continue
		}
		if legal && c.Score != eval.Evaluate(b.Grid()) {
			t.Errorf("%v: Score = %g, want %g", dir, c.Score, eval.Evaluate(b.Grid()))
		}
	}
	if d.Candidates[Left].Reward != 4 {
		t.Errorf("Left reward = %d, want 4", d.Candidates[Left].Reward)
	}
}

func TestSelectMoveInvalidSnapshot(t *testing.T) {
	a := newTestAgent(t, 1, false)

	tests := []struct {
		name string
		snap Snapshot
	}{
		{"empty", Snapshot{}},
		{"bad value", Snapshot{Size: 1, Cells: [][]int{{5}}}},
		{"size differs from weights", Snapshot{Size: 2, Cells: [][]int{{2, 0}, {0, 0}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, err := a.SelectMove(tt.snap)
			if !errors.Is(err, ErrInvalidSnapshot) {
				t.Errorf("SelectMove() error = %v, want ErrInvalidSnapshot", err)
			}
			if dir != None {
				t.Errorf("SelectMove() = %v on error, want None", dir)
			}
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultAgentConfig()
	cfg.Depth = -1
	if _, err := New(cfg); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("New() error = %v, want ErrInvalidConfig", err)
	}
}

func TestPick(t *testing.T) {
	legal := func(d Direction, s float64) Candidate { return Candidate{Dir: d, Legal: true, Score: s} }
	illegal := func(d Direction) Candidate { return Candidate{Dir: d} }

	tests := []struct {
		name  string
		cands [len(Directions)]Candidate
		want  Direction
	}{
		{
			name:  "nothing legal",
			cands: [4]Candidate{illegal(Up), illegal(Right), illegal(Down), illegal(Left)},
			want:  None,
		},
		{
			name:  "strictly best",
			cands: [4]Candidate{legal(Up, 1), legal(Right, 5), legal(Down, 3), illegal(Left)},
			want:  Right,
		},
		{
			name:  "first of the tied best",
			cands: [4]Candidate{legal(Up, 5), legal(Right, 5), legal(Down, 3), illegal(Left)},
			want:  Up,
		},
		{
			name:  "all tied picks last legal",
			cands: [4]Candidate{legal(Up, 0), illegal(Right), legal(Down, 0), illegal(Left)},
			want:  Down,
		},
		{
			name:  "negative scores",
			cands: [4]Candidate{legal(Up, -3), legal(Right, -1), illegal(Down), legal(Left, -2)},
			want:  Right,
		},
		{
			name:  "single legal",
			cands: [4]Candidate{illegal(Up), illegal(Right), illegal(Down), legal(Left, 7)},
			want:  Left,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pick(tt.cands); got != tt.want {
				t.Errorf("pick() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecideLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	cfg := config.DefaultAgentConfig()
	cfg.Depth = 1
	a, err := New(cfg, WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.SelectMove(mustSnapshot(t, "2,2,0,0/0,0,0,0/0,0,0,0/0,0,0,0")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "move selected") {
		t.Errorf("log output %q missing decision line", buf.String())
	}
}

func TestDirectionString(t *testing.T) {
	want := map[Direction]string{Up: "Up", Right: "Right", Down: "Down", Left: "Left", None: "None"}
	for d, s := range want {
		if d.String() != s {
			t.Errorf("Direction(%d).String() = %q, want %q", int(d), d.String(), s)
		}
	}
	if int(Up) != 0 || int(Right) != 1 || int(Down) != 2 || int(Left) != 3 {
		t.Error("direction values changed")
	}
}

func BenchmarkSelectMove(b *testing.B) {
	snap := mustSnapshot(b, "128,64,32,16/8,4,2,0/0,0,0,0/2,0,0,0")
	for _, depth := range []int{2, 4} {
		a := newTestAgent(b, depth, false)
		b.Run(fmt.Sprintf("depth%d", depth), func(b *testing.B) {
			for b.Loop() {
				if _, err := a.SelectMove(snap); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
