package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwagner/boxpack/internal/pack"
	"github.com/cwagner/boxpack/internal/search"
	"github.com/cwagner/boxpack/internal/store"
)

var (
	resumeDataDir    string
	resumeTicks      int
	resumeModeName   string
	resumeMoveBudget int
	resumeOut        string
)

var resumeCmd = &cobra.Command{
	Use:   "resume [job-id]",
	Short: "Resume a search from a saved checkpoint",
	Long: `Restores the packing state from a checkpoint and continues the
search. The problem and algorithm are fixed by the checkpoint; the mode may
be changed with --mode. New trace entries are appended to the existing
trace.`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func init() {
	resumeCmd.Flags().StringVar(&resumeDataDir, "data-dir", "./data", "Directory holding the checkpoint")
	resumeCmd.Flags().IntVar(&resumeTicks, "ticks", 0, "Max additional ticks (0 = run until convergence or stagnation)")
	resumeCmd.Flags().StringVar(&resumeModeName, "mode", "", "Override the checkpointed mode")
	resumeCmd.Flags().IntVar(&resumeMoveBudget, "move-budget", 0, "Override candidate moves per tick (0 = keep checkpointed)")
	resumeCmd.Flags().StringVar(&resumeOut, "out", "", "Output image path (empty = no image)")

	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	jobID := args[0]

	checkpointStore, err := store.NewFSStore(resumeDataDir)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint store: %w", err)
	}
	checkpoint, err := checkpointStore.LoadCheckpoint(jobID)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}

	config := checkpoint.Config
	if resumeModeName != "" {
		config.Mode = resumeModeName
	}
	if resumeMoveBudget > 0 {
		config.MoveBudget = resumeMoveBudget
	}
	config.MaxTicks = resumeTicks
	if err := checkpoint.IsCompatible(config); err != nil {
		return err
	}

	solution, err := checkpoint.RestoreSolution()
	if err != nil {
		return fmt.Errorf("failed to restore solution: %w", err)
	}

	slog.Info("Resuming search",
		"job_id", jobID,
		"algorithm", config.Algorithm,
		"mode", config.Mode,
		"tick", checkpoint.Tick,
		"score", checkpoint.Score.String(),
	)

	problem, err := pack.NewProblem(config.Problem)
	if err != nil {
		return err
	}
	mode, err := search.NewMode(config.Mode)
	if err != nil {
		return err
	}
	// Seed the generator past the checkpointed tick count so the resumed
	// run does not replay the original move sequence.
	rng := rand.New(rand.NewSource(config.Problem.Seed + int64(checkpoint.Tick)))
	algo, err := search.NewAlgorithm(config.Algorithm, problem, mode, rng, search.Options{
		MoveBudget: config.MoveBudget,
		Seed:       solution,
	})
	if err != nil {
		return err
	}
	runner := search.NewRunner(algo, resumeTicks)

	trace, err := store.NewTraceWriter(resumeDataDir, jobID, true)
	if err != nil {
		return fmt.Errorf("failed to open trace: %w", err)
	}
	defer trace.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	outcome, err := runner.Run(ctx, func(tick int, score pack.Score) {
		trace.Write(store.TraceEntry{
			Tick:        checkpoint.Tick + tick,
			Score:       score,
			Permissible: algo.Solution().PermissibleOverlap,
			Timestamp:   time.Now(),
		})
	})
	if err != nil && ctx.Err() == nil {
		return err
	}
	elapsed := time.Since(start)

	totalTicks := checkpoint.Tick + runner.Ticks()
	finalScore := algo.Score()
	slog.Info("Resumed search finished",
		"job_id", jobID,
		"elapsed", elapsed,
		"ticks", runner.Ticks(),
		"total_ticks", totalTicks,
		"outcome", outcome.String(),
		"score", finalScore.String(),
	)

	updated := store.NewCheckpoint(jobID, config, totalTicks, algo.Solution())
	if err := checkpointStore.SaveCheckpoint(jobID, updated); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	if resumeOut != "" {
		if err := writeSolutionImage(resumeOut, algo.Solution()); err != nil {
			return err
		}
	}

	fmt.Printf("%s/%s: %s boxes after %d total ticks (%s)\n",
		config.Algorithm, config.Mode, finalScore.BoxCountString(), totalTicks,
		outcome.String())

	return nil
}
