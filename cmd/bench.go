package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cwagner/boxpack/internal/bench"
	"github.com/cwagner/boxpack/internal/search"
)

var (
	benchProblem    problemFlags
	benchTicks      int
	benchMoveBudget int
	benchAlgos      []string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark all algorithm/mode combinations",
	Long: `Runs every compatible algorithm/mode pairing against the same
generated problem and prints a comparison table.`,
	RunE: runBench,
}

func init() {
	benchProblem.register(benchCmd)
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 1000, "Max ticks per combination (0 = unbounded)")
	benchCmd.Flags().IntVar(&benchMoveBudget, "move-budget", 0, "Candidate moves per tick (0 = default)")
	benchCmd.Flags().StringSliceVar(&benchAlgos, "algos", nil, "Restrict to these algorithms (default: all)")

	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	problemCfg, err := benchProblem.config()
	if err != nil {
		return err
	}
	for _, name := range benchAlgos {
		if len(search.ModesFor(name)) == 0 {
			return fmt.Errorf("unknown algorithm %q", name)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := bench.Run(ctx, bench.Config{
		Problem:    problemCfg,
		MaxTicks:   benchTicks,
		MoveBudget: benchMoveBudget,
		Algorithms: benchAlgos,
	})
	if err != nil && ctx.Err() == nil {
		return err
	}

	fmt.Println(bench.Report(results))
	return nil
}
