package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/cwagner/boxpack/internal/search"
	"github.com/cwagner/boxpack/internal/tui"
)

var (
	tuiProblem    problemFlags
	tuiAlgo       string
	tuiModeName   string
	tuiMoveBudget int
	tuiDelay      time.Duration
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Watch a search interactively in the terminal",
	Long: `Opens a terminal view of the packing state. The search can be
stepped tick by tick, auto-run, paused and switched between modes.`,
	RunE: runTUI,
}

func init() {
	tuiProblem.register(tuiCmd)
	tuiCmd.Flags().StringVar(&tuiAlgo, "algo", search.AlgoLocal, "Algorithm: greedy, localsearch, annealing")
	tuiCmd.Flags().StringVar(&tuiModeName, "mode", search.ModeGeometric, "Initial mode")
	tuiCmd.Flags().IntVar(&tuiMoveBudget, "move-budget", 0, "Candidate moves per tick (0 = default)")
	tuiCmd.Flags().DurationVar(&tuiDelay, "delay", 100*time.Millisecond, "Pause between ticks while auto-running")

	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	problemCfg, err := tuiProblem.config()
	if err != nil {
		return err
	}
	return tui.Run(tui.Config{
		Algorithm:  tuiAlgo,
		Mode:       tuiModeName,
		Problem:    problemCfg,
		MoveBudget: tuiMoveBudget,
		StepDelay:  tuiDelay,
	})
}
