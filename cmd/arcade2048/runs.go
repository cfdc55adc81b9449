package main

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade2048/internal/storage"
)

var (
	flagRunsLimit int
	flagRunsBatch string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recorded agent runs",
	Long: `List games played by the agent, newest first, with aggregate
statistics and how many runs reached each milestone tile.

Examples:
  arcade2048 runs
  arcade2048 runs --limit 50
  arcade2048 runs --batch 1b4e28ba-2fa1-11d2-883f-0016d3cca427`,
	Args: cobra.NoArgs,
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Number of runs to show")
	runsCmd.Flags().StringVar(&flagRunsBatch, "batch", "", "Only show one autoplay batch")
}

func runRuns(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var runs []storage.AgentRun
	if flagRunsBatch != "" {
		runs, err = store.AgentRunsByBatch(flagRunsBatch)
	} else {
		runs, err = store.RecentAgentRuns(flagRunsLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	if len(runs) == 0 {
		fmt.Println("No agent runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'arcade2048 autoplay' to let the agent play.")
		return
	}

	fmt.Printf("  %-5s  %-8s  %-13s  %-8s  %-6s  %-6s  %-5s  %-8s  %s\n",
		"ID", "Batch", "Game", "Score", "Max", "Moves", "Depth", "Time", "Date")
	fmt.Printf("  %-5s  %-8s  %-13s  %-8s  %-6s  %-6s  %-5s  %-8s  %s\n",
		"--", "-----", "----", "-----", "---", "-----", "-----", "----", "----")
	for _, r := range runs {
		batch := r.BatchID
		if len(batch) > 8 {
			batch = batch[:8]
		}
		stalled := ""
		if r.Stalled {
			stalled = "  stalled"
		}
		fmt.Printf("  %-5d  %-8s  %-13s  %-8d  %-6d  %-6d  %-5d  %-8s  %s%s\n",
			r.ID, batch, r.GameID, r.Score, r.MaxTile, r.Moves, r.Depth,
			r.Duration.Round(time.Second), r.CreatedAt.Format("2006-01-02 15:04"), stalled)
	}

	stats, err := store.AgentStats(flagRunsBatch, cfg.Autoplay.Milestones)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing stats: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("Runs: %d  Average: %.0f  Best: %d  Best tile: %d\n",
		stats.Runs, stats.AvgScore, stats.BestScore, stats.BestTile)
	for _, m := range slices.Sorted(maps.Keys(stats.Reached)) {
		fmt.Printf("Reached %-5d %d/%d\n", m, stats.Reached[m], stats.Runs)
	}
}
