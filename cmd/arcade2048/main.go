// arcade2048 is the terminal 2048 game with an expectimax move agent that
// can hint, play alongside you, or run unattended batches.
//
// Usage:
//
//	arcade2048 list              - List available game modes
//	arcade2048 play              - Play 2048 (mode selector first)
//	arcade2048 autoplay          - Let the agent play headless games
//	arcade2048 suggest <board>   - Ask the agent for one move
//	arcade2048 scores <game>     - Show high scores for a mode
//	arcade2048 runs              - Show recorded agent runs
//	arcade2048 board             - Browse scores and agent runs
//	arcade2048 serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.arcade2048/scores.db)
//	--config <path>      - Agent/autoplay YAML config
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade2048/internal/config"
	// Import the game to register its modes
	_ "github.com/vovakirdan/arcade2048/internal/games/t2048"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade2048",
	Short: "2048 in your terminal, with an expectimax agent",
	Long: `arcade2048 is the 2048 puzzle in your terminal together with an
expectimax move agent. The agent can suggest moves, take over the game
(autopilot), or play whole batches headless and record how far it got.

Available commands:
  list      - Show the available game modes
  play      - Play 2048 (H for a hint, Tab for autopilot)
  autoplay  - Let the agent play headless games
  suggest   - Ask the agent for a single move
  scores    - View high scores
  runs      - View agent runs
  board     - Interactive scoreboard
  serve     - Start SSH server for remote play

Examples:
  arcade2048 play
  arcade2048 play --autopilot --mode endless
  arcade2048 autoplay --games 10 --strength deep
  arcade2048 suggest "2,2,0,0/0,4,0,0/0,0,0,0/0,0,0,2"
  arcade2048 serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade2048/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to agent config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(autoplayCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the stderr logger for a command.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// loadConfig loads the agent configuration or exits.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
