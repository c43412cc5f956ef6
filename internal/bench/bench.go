// Package bench runs every algorithm/mode combination against identically
// generated problems and renders the comparison as a fixed-width table.
package bench

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cwagner/boxpack/internal/pack"
	"github.com/cwagner/boxpack/internal/search"
)

// Config describes one benchmark campaign. Every combination runs against a
// problem generated from the same seeded config, so all rows compare the
// same rectangle set.
type Config struct {
	Problem    pack.ProblemConfig
	MaxTicks   int
	MoveBudget int

	// Algorithms restricts the campaign; empty means all.
	Algorithms []string
}

// Result is one row of the benchmark report.
type Result struct {
	Algorithm string
	Mode      string
	Elapsed   time.Duration
	Ticks     int
	Outcome   search.Outcome
	Score     pack.Score
}

// Run executes the full algorithm/mode grid sequentially. Each run gets its
// own freshly generated problem and seeded random source, so results are
// reproducible run-to-run. A context cancellation stops the campaign after
// the current combination.
func Run(ctx context.Context, cfg Config) ([]Result, error) {
	algorithms := cfg.Algorithms
	if len(algorithms) == 0 {
		algorithms = search.Algorithms()
	}

	var results []Result
	for _, algoName := range algorithms {
		for _, modeName := range search.ModesFor(algoName) {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			r, err := runOne(ctx, cfg, algoName, modeName)
			if err != nil {
				return results, fmt.Errorf("%s/%s: %w", algoName, modeName, err)
			}
			results = append(results, r)
			slog.Info("Benchmark combination finished",
				"algorithm", r.Algorithm,
				"mode", r.Mode,
				"elapsed", r.Elapsed,
				"ticks", r.Ticks,
				"outcome", r.Outcome.String(),
				"score", r.Score.String(),
			)
		}
	}
	return results, nil
}

func runOne(ctx context.Context, cfg Config, algoName, modeName string) (Result, error) {
	problem, err := pack.NewProblem(cfg.Problem)
	if err != nil {
		return Result{}, err
	}
	mode, err := search.NewMode(modeName)
	if err != nil {
		return Result{}, err
	}
	rng := rand.New(rand.NewSource(cfg.Problem.Seed))
	algo, err := search.NewAlgorithm(algoName, problem, mode, rng, search.Options{
		MoveBudget: cfg.MoveBudget,
	})
	if err != nil {
		return Result{}, err
	}

	runner := search.NewRunner(algo, cfg.MaxTicks)
	start := time.Now()
	outcome, err := runner.Run(ctx, nil)
	if err != nil && ctx.Err() == nil {
		return Result{}, err
	}
	return Result{
		Algorithm: algoName,
		Mode:      modeName,
		Elapsed:   time.Since(start),
		Ticks:     runner.Ticks(),
		Outcome:   outcome,
		Score:     algo.Score(),
	}, nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Report renders the results as a bordered fixed-width table. Runs that
// never reached an overlap-free packing show "no valid score" instead of a
// box count.
func Report(results []Result) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("ALGORITHM", "MODE", "ELAPSED (S)", "TICKS", "BOXES", "OUTCOME")
	for _, r := range results {
		t.Row(
			r.Algorithm,
			r.Mode,
			fmt.Sprintf("%.2f", r.Elapsed.Seconds()),
			fmt.Sprintf("%d", r.Ticks),
			r.Score.BoxCountString(),
			r.Outcome.String(),
		)
	}
	return t.Render()
}
