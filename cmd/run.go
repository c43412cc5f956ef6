package main

import (
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cwagner/boxpack/internal/pack"
	"github.com/cwagner/boxpack/internal/render"
	"github.com/cwagner/boxpack/internal/search"
	"github.com/cwagner/boxpack/internal/store"
)

var (
	runProblem    problemFlags
	runAlgo       string
	runModeName   string
	runTicks      int
	runMoveBudget int
	runOut        string
	runDataDir    string
	runJobID      string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single packing search",
	Long: `Runs one algorithm/mode combination against a generated problem and
writes the resulting packing as an image. With --data-dir the run also
records a score trace and saves a checkpoint that can be resumed later.`,
	RunE: runSearch,
}

func init() {
	runProblem.register(runCmd)
	runCmd.Flags().StringVar(&runAlgo, "algo", search.AlgoGreedy, "Algorithm: greedy, localsearch, annealing")
	runCmd.Flags().StringVar(&runModeName, "mode", search.ModeByArea, "Mode: byarea, byspace, permutation, geometric, geometric-overlap")
	runCmd.Flags().IntVar(&runTicks, "ticks", 0, "Max ticks (0 = run until convergence or stagnation)")
	runCmd.Flags().IntVar(&runMoveBudget, "move-budget", 0, "Candidate moves per tick (0 = default)")
	runCmd.Flags().StringVar(&runOut, "out", "solution.png", "Output image path (empty = no image)")
	runCmd.Flags().StringVar(&runDataDir, "data-dir", "", "Directory for trace and checkpoint (empty = disabled)")
	runCmd.Flags().StringVar(&runJobID, "job-id", "", "Job ID for persisted artifacts (default: random)")

	rootCmd.AddCommand(runCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	problemCfg, err := runProblem.config()
	if err != nil {
		return err
	}

	slog.Info("Starting search",
		"algorithm", runAlgo,
		"mode", runModeName,
		"rects", problemCfg.RectCount,
		"box_side", problemCfg.BoxSide,
	)

	problem, err := pack.NewProblem(problemCfg)
	if err != nil {
		return err
	}
	mode, err := search.NewMode(runModeName)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(problemCfg.Seed))
	algo, err := search.NewAlgorithm(runAlgo, problem, mode, rng, search.Options{
		MoveBudget: runMoveBudget,
	})
	if err != nil {
		return err
	}
	runner := search.NewRunner(algo, runTicks)

	jobID := runJobID
	if jobID == "" {
		jobID = uuid.New().String()
	}

	// Persist trace entries when a data directory is given.
	var trace *store.TraceWriter
	if runDataDir != "" {
		trace, err = store.NewTraceWriter(runDataDir, jobID, false)
		if err != nil {
			return fmt.Errorf("failed to create trace writer: %w", err)
		}
		defer trace.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	outcome, err := runner.Run(ctx, func(tick int, score pack.Score) {
		if trace != nil {
			trace.Write(store.TraceEntry{
				Tick:        tick,
				Score:       score,
				Permissible: algo.Solution().PermissibleOverlap,
				Timestamp:   time.Now(),
			})
		}
		slog.Debug("Tick", "tick", tick, "score", score.String())
	})
	if err != nil && ctx.Err() == nil {
		return err
	}
	elapsed := time.Since(start)

	finalScore := algo.Score()
	slog.Info("Search finished",
		"elapsed", elapsed,
		"ticks", runner.Ticks(),
		"outcome", outcome.String(),
		"score", finalScore.String(),
	)

	if runDataDir != "" {
		checkpointStore, err := store.NewFSStore(runDataDir)
		if err != nil {
			return fmt.Errorf("failed to create checkpoint store: %w", err)
		}
		checkpoint := store.NewCheckpoint(jobID, store.JobConfig{
			Algorithm:  runAlgo,
			Mode:       runModeName,
			Problem:    problemCfg,
			MaxTicks:   runTicks,
			MoveBudget: runMoveBudget,
		}, runner.Ticks(), algo.Solution())
		if err := checkpointStore.SaveCheckpoint(jobID, checkpoint); err != nil {
			return fmt.Errorf("failed to save checkpoint: %w", err)
		}
		slog.Info("Checkpoint saved", "job_id", jobID)
	}

	if runOut != "" {
		if err := writeSolutionImage(runOut, algo.Solution()); err != nil {
			return err
		}
	}

	fmt.Printf("%s/%s: %s boxes after %d ticks (%s, %.2fs)\n",
		runAlgo, runModeName, finalScore.BoxCountString(), runner.Ticks(),
		outcome.String(), elapsed.Seconds())

	return nil
}

func writeSolutionImage(path string, s *pack.Solution) error {
	img := render.Solution(s.Snapshot())

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
