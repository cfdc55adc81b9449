package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// AgentRun is one game played by the move agent.
type AgentRun struct {
	ID        int64
	BatchID   string
	GameID    string
	Seed      int64
	Score     int
	Moves     int
	MaxTile   int
	Depth     int
	Duration  time.Duration
	Stalled   bool // The engine rejected a move the agent chose
	CreatedAt time.Time
}

// AgentStats aggregates agent runs.
type AgentStats struct {
	Runs      int
	AvgScore  float64
	BestScore int
	BestTile  int
	// Reached maps a milestone tile to the number of runs whose max tile
	// was at least that value.
	Reached map[int]int
}

const agentRunColumns = `id, batch_id, game_id, seed, score, moves, max_tile, depth, duration_ms, stalled, created_at`

// SaveAgentRun records a finished agent game.
// Returns the ID of the inserted record.
func (s *Store) SaveAgentRun(run AgentRun) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO agent_runs
		 (batch_id, game_id, seed, score, moves, max_tile, depth, duration_ms, stalled)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.BatchID,
		run.GameID,
		run.Seed,
		run.Score,
		run.Moves,
		run.MaxTile,
		run.Depth,
		run.Duration.Milliseconds(),
		run.Stalled,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save agent run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentAgentRuns returns the latest runs, newest first.
func (s *Store) RecentAgentRuns(limit int) ([]AgentRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT `+agentRunColumns+`
		 FROM agent_runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query agent runs: %w", err)
	}
	return scanAgentRuns(rows)
}

// AgentRunsByBatch returns every run of one autoplay batch in play order.
func (s *Store) AgentRunsByBatch(batchID string) ([]AgentRun, error) {
	rows, err := s.db.Query(
		`SELECT `+agentRunColumns+`
		 FROM agent_runs
		 WHERE batch_id = ?
		 ORDER BY id ASC`,
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query agent batch: %w", err)
	}
	return scanAgentRuns(rows)
}

// AgentStats aggregates runs, optionally restricted to one batch (empty
// batchID means all runs), and counts how many reached each milestone.
func (s *Store) AgentStats(batchID string, milestones []int) (*AgentStats, error) {
	where, args := "", []any{}
	if batchID != "" {
		where, args = "WHERE batch_id = ?", []any{batchID}
	}

	stats := &AgentStats{Reached: make(map[int]int, len(milestones))}
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(AVG(score), 0), COALESCE(MAX(score), 0), COALESCE(MAX(max_tile), 0)
		 FROM agent_runs `+where,
		args...,
	).Scan(&stats.Runs, &stats.AvgScore, &stats.BestScore, &stats.BestTile)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get agent stats: %w", err)
	}

	cond := "WHERE max_tile >= ?"
	if batchID != "" {
		cond += " AND batch_id = ?"
	}
	for _, m := range milestones {
		var n int
		err := s.db.QueryRow(
			`SELECT COUNT(*) FROM agent_runs `+cond,
			append([]any{m}, args...)...,
		).Scan(&n)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot count milestone %d: %w", m, err)
		}
		stats.Reached[m] = n
	}

	return stats, nil
}

func scanAgentRuns(rows *sql.Rows) ([]AgentRun, error) {
	defer rows.Close()

	var runs []AgentRun
	for rows.Next() {
		var r AgentRun
		var durationMS int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.BatchID, &r.GameID, &r.Seed, &r.Score, &r.Moves,
			&r.MaxTile, &r.Depth, &durationMS, &r.Stalled, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan agent run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}
