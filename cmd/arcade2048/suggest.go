package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade2048/internal/agent"
	"github.com/vovakirdan/arcade2048/internal/config"
)

var (
	flagSuggestDepth    int
	flagSuggestStrength string
	flagSuggestJSON     bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <board>",
	Short: "Ask the agent for a single move",
	Long: `Evaluate a board and print the agent's move with the score of every
direction.

The board is written row by row, top row first: cells separated by
commas, rows by slashes. 0 or . marks an empty cell. Pass - to read the
board from stdin.

Examples:
  arcade2048 suggest "2,2,0,0/0,4,0,0/0,0,0,0/0,0,0,2"
  arcade2048 suggest "2,.,.,./.,.,.,./.,.,.,./.,.,.,4" --depth 2
  echo "2,4,8,16/0,0,0,0/0,0,0,0/0,0,0,0" | arcade2048 suggest - --json`,
	Args: cobra.ExactArgs(1),
	Run:  runSuggest,
}

func init() {
	suggestCmd.Flags().IntVar(&flagSuggestDepth, "depth", 0, "Search depth in plies")
	suggestCmd.Flags().StringVar(&flagSuggestStrength, "strength", "", "Strength preset: quick, normal, deep")
	suggestCmd.Flags().BoolVar(&flagSuggestJSON, "json", false, "Print the decision as JSON")
}

// suggestion is the JSON form of a decision.
type suggestion struct {
	Board      agent.Snapshot  `json:"board"`
	Move       string          `json:"move"`
	Candidates []suggestedMove `json:"candidates"`
	Evaluation agent.Breakdown `json:"evaluation"`
	Nodes      int64           `json:"nodes"`
	ElapsedMS  float64         `json:"elapsed_ms"`
}

type suggestedMove struct {
	Dir    string  `json:"dir"`
	Legal  bool    `json:"legal"`
	Score  float64 `json:"score"`
	Reward int     `json:"reward"`
}

func runSuggest(cmd *cobra.Command, args []string) {
	text := args[0]
	if text == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading board: %v\n", err)
			os.Exit(1)
		}
		text = string(data)
	}

	snap, err := agent.ParseSnapshot(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := loadConfig()
	if flagSuggestStrength != "" {
		preset, err := config.ParseStrength(flagSuggestStrength)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		config.ApplyStrengthPreset(&cfg.Agent, preset)
	}
	if cmd.Flags().Changed("depth") {
		cfg.Agent.Depth = flagSuggestDepth
	}

	a, err := agent.New(cfg.Agent, agent.WithLogger(newLogger("suggest")))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	d, err := a.Decide(snap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	grid, err := agent.NewGrid(snap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	eval := agent.NewEvaluator(cfg.Agent.Evaluator).Breakdown(grid)

	if flagSuggestJSON {
		out := suggestion{
			Board:      snap,
			Move:       d.Dir.String(),
			Evaluation: eval,
			Nodes:      d.Nodes,
			ElapsedMS:  float64(d.Elapsed.Microseconds()) / 1000,
		}
		for _, c := range d.Candidates {
			out.Candidates = append(out.Candidates, suggestedMove{
				Dir:    c.Dir.String(),
				Legal:  c.Legal,
				Score:  c.Score,
				Reward: c.Reward,
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printBoard(snap)
	fmt.Println()
	fmt.Printf("Board value: %.4f (positional %.4f, smoothness %.4f, free %d)\n",
		eval.Score, eval.Positional, eval.Smoothness, eval.Free)
	fmt.Println()

	fmt.Printf("  %-6s  %-12s  %s\n", "Move", "Score", "Reward")
	fmt.Printf("  %-6s  %-12s  %s\n", "----", "-----", "------")
	for _, c := range d.Candidates {
		if !c.Legal {
			fmt.Printf("  %-6s  %-12s  %s\n", c.Dir, "illegal", "-")
			continue
		}
		marker := ""
		if c.Dir == d.Dir {
			marker = "  <"
		}
		fmt.Printf("  %-6s  %-12.6f  %d%s\n", c.Dir, c.Score, c.Reward, marker)
	}

	fmt.Println()
	fmt.Printf("Move: %s  (depth %d, %d nodes, %s)\n", d.Dir, a.Config().Depth, d.Nodes, d.Elapsed)
}

func printBoard(s agent.Snapshot) {
	for _, row := range s.Cells {
		fmt.Print("  ")
		for _, v := range row {
			if v == 0 {
				fmt.Printf("%6s", ".")
				continue
			}
			fmt.Printf("%6d", v)
		}
		fmt.Println()
	}
}
