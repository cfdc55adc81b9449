package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/arcade2048/internal/platform/tui"
	"github.com/vovakirdan/arcade2048/internal/storage"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Browse high scores and agent runs",
	Long: `Open the interactive scoreboard with a tab per game mode and one
for agent runs.

Controls:
  Tab/Right    - Next tab
  S-Tab/Left   - Previous tab
  Up/Down      - Scroll
  Esc/Q        - Leave`,
	Args: cobra.NoArgs,
	Run:  runBoard,
}

func runBoard(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}

	if _, err := tui.RunScoreboard(store, width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
