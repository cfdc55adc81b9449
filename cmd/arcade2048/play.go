package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/arcade2048/internal/agent"
	"github.com/vovakirdan/arcade2048/internal/config"
	"github.com/vovakirdan/arcade2048/internal/core"
	"github.com/vovakirdan/arcade2048/internal/games/t2048"
	"github.com/vovakirdan/arcade2048/internal/platform/tui"
	"github.com/vovakirdan/arcade2048/internal/storage"
)

var (
	flagAutopilot    bool
	flagPlayMode     string
	flagPlayStrength string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play 2048",
	Long: `Start a game of 2048. Without --mode a selector offers the campaign,
endless mode, or a campaign level to start from.

Controls:
  Arrows/WASD  - Move tiles
  H            - Ask the agent for a hint
  Tab          - Toggle autopilot
  P/Esc        - Pause (Esc again returns to the mode selector)
  R            - Restart (after game over)
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Examples:
  arcade2048 play
  arcade2048 play --mode endless
  arcade2048 play --autopilot --strength deep
  arcade2048 play --config ./agent.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagAutopilot, "autopilot", false, "Start with the agent playing")
	playCmd.Flags().StringVar(&flagPlayMode, "mode", "", "Game mode: campaign or endless (skips the selector)")
	playCmd.Flags().StringVar(&flagPlayStrength, "strength", "", "Agent strength preset: quick, normal, deep")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	if flagPlayStrength != "" {
		preset, err := config.ParseStrength(flagPlayStrength)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		config.ApplyStrengthPreset(&cfg.Agent, preset)
	}
	if flagPlayMode != "" && flagPlayMode != config.ModeCampaign && flagPlayMode != config.ModeEndless {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q (want campaign or endless)\n", flagPlayMode)
		os.Exit(1)
	}

	// Decisions are logged at debug level, below the default.
	logger := newLogger("arcade2048")
	a, err := agent.New(cfg.Agent, agent.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Get terminal size early for mode selector
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rcfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	opts := tui.Options{
		Agent:    a,
		Autoplay: cfg.Autoplay,
		Logger:   logger,
	}

	for {
		var game *t2048.Game
		opts.Autopilot = flagAutopilot
		if flagPlayMode != "" {
			game = t2048.NewMode(flagPlayMode)
		} else {
			selection, selErr := tui.RunT2048ModeSelector(rcfg.ScreenW, rcfg.ScreenH)
			if selErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", selErr)
				os.Exit(1)
			}
			// User pressed back or quit
			if selection == nil {
				return
			}
			game = selection.Game()
			opts.Autopilot = opts.Autopilot || selection.Autopilot
		}

		back, runErr := tui.Run(game, store, rcfg, opts)
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
			os.Exit(1)
		}
		// Only a selector can be returned to.
		if !back || flagPlayMode != "" {
			return
		}
		rcfg.Seed = time.Now().UnixNano()
	}
}
