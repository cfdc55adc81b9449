package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade2048/internal/agent"
	"github.com/vovakirdan/arcade2048/internal/autoplay"
	"github.com/vovakirdan/arcade2048/internal/config"
	"github.com/vovakirdan/arcade2048/internal/storage"
)

var (
	flagGames    int
	flagDepth    int
	flagStrength string
	flagParallel bool
	flagMode     string
	flagMaxMoves int
	flagBudget   time.Duration
	flagNoSave   bool
)

var autoplayCmd = &cobra.Command{
	Use:   "autoplay",
	Short: "Let the agent play headless games",
	Long: `Run the move agent against the game engine without a terminal UI.

Games are played one after another until --games are done, the time
budget runs out, or Ctrl+C is pressed. Every finished game is logged,
its score goes to the high score table and the run is recorded for
'arcade2048 runs'. Flags override the values from the config file.

Strength presets:
  quick   - depth 2
  normal  - depth 4
  deep    - depth 6, top-level moves searched in parallel

Examples:
  arcade2048 autoplay
  arcade2048 autoplay --games 50 --strength quick
  arcade2048 autoplay --depth 5 --parallel --budget 30m
  arcade2048 autoplay --mode campaign --games 3 --seed 42
  arcade2048 autoplay --games 0 --budget 0   # until Ctrl+C`,
	Args: cobra.NoArgs,
	Run:  runAutoplay,
}

func init() {
	autoplayCmd.Flags().IntVar(&flagGames, "games", 0, "Number of games (0 = no limit)")
	autoplayCmd.Flags().IntVar(&flagDepth, "depth", 0, "Search depth in plies")
	autoplayCmd.Flags().StringVar(&flagStrength, "strength", "", "Strength preset: quick, normal, deep")
	autoplayCmd.Flags().BoolVar(&flagParallel, "parallel", false, "Search top-level moves concurrently")
	autoplayCmd.Flags().StringVar(&flagMode, "mode", "", "Game mode: endless or campaign")
	autoplayCmd.Flags().IntVar(&flagMaxMoves, "max-moves", 0, "Stop a game after this many moves (0 = no limit)")
	autoplayCmd.Flags().DurationVar(&flagBudget, "budget", 0, "Total time budget (0 = no limit)")
	autoplayCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record results")
}

func runAutoplay(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()
	flags := cmd.Flags()

	if flagStrength != "" {
		preset, err := config.ParseStrength(flagStrength)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		config.ApplyStrengthPreset(&cfg.Agent, preset)
	}
	if flags.Changed("depth") {
		cfg.Agent.Depth = flagDepth
	}
	if flags.Changed("parallel") {
		cfg.Agent.Parallel = flagParallel
	}
	if flags.Changed("games") {
		cfg.Autoplay.Games = flagGames
	}
	if flags.Changed("mode") {
		cfg.Autoplay.Mode = flagMode
	}
	if flags.Changed("max-moves") {
		cfg.Autoplay.MaxMoves = flagMaxMoves
	}
	if flags.Changed("budget") {
		cfg.Autoplay.TimeBudget = flagBudget
	}

	logger := newLogger("autoplay")

	a, err := agent.New(cfg.Agent, agent.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := []autoplay.Option{autoplay.WithLogger(logger), autoplay.WithSeed(flagSeed)}
	if !flagNoSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("could not open scores database, results will not be saved", "error", err)
		} else {
			defer store.Close()
			opts = append(opts, autoplay.WithStore(store))
		}
	}

	runner, err := autoplay.NewRunner(a, cfg.Autoplay, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := runner.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printSummary(sum)
}

func printSummary(sum autoplay.Summary) {
	fmt.Println()
	fmt.Printf("Batch %s - %s\n", sum.BatchID, sum.GameID)
	fmt.Println()

	if sum.Played == 0 {
		fmt.Println("No games finished.")
		return
	}

	fmt.Printf("  %-4s  %-10s  %-8s  %-6s  %s\n", "Game", "Score", "Max", "Moves", "Time")
	fmt.Printf("  %-4s  %-10s  %-8s  %-6s  %s\n", "----", "-----", "---", "-----", "----")
	for _, r := range sum.Results {
		note := ""
		switch {
		case r.Stalled:
			note = "  (stalled)"
		case r.Won:
			note = "  (campaign complete)"
		}
		fmt.Printf("  %-4d  %-10d  %-8d  %-6d  %s%s\n",
			r.Index+1, r.Score, r.MaxTile, r.Moves, r.Duration.Round(time.Millisecond), note)
	}

	fmt.Println()
	fmt.Printf("Played:    %d\n", sum.Played)
	fmt.Printf("Average:   %.0f\n", sum.AvgScore)
	fmt.Printf("Best:      %d\n", sum.MaxScore)
	fmt.Printf("Best tile: %d\n", sum.BestTile)
	for _, m := range slices.Sorted(maps.Keys(sum.Reached)) {
		n := sum.Reached[m]
		fmt.Printf("Reached %-5d %d/%d (%.0f%%)\n", m, n, sum.Played, 100*float64(n)/float64(sum.Played))
	}
	fmt.Printf("Elapsed:   %s\n", sum.Elapsed.Round(time.Second))
}
