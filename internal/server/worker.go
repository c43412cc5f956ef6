package server

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/cwagner/boxpack/internal/pack"
	"github.com/cwagner/boxpack/internal/search"
	"github.com/cwagner/boxpack/internal/store"
)

// runJob executes a packing job in the background.
// If checkpointStore is not nil and the job has checkpointInterval > 0,
// periodic checkpoints are saved.
func runJob(ctx context.Context, jm *JobManager, checkpointStore store.Store, dataDir, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateRunning
	}); err != nil {
		return err
	}

	slog.Info("Starting job",
		"job_id", jobID,
		"algorithm", job.Config.Algorithm,
		"mode", job.Config.Mode,
		"rects", job.Config.Problem.RectCount,
	)

	runner, err := buildRunner(job.Config)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	// Trace every tick to trace.jsonl when persistence is available.
	var trace *store.TraceWriter
	if checkpointStore != nil {
		trace, err = store.NewTraceWriter(dataDir, jobID, false)
		if err != nil {
			slog.Warn("Trace disabled", "job_id", jobID, "error", err)
		} else {
			defer trace.Close()
		}
	}

	start := time.Now()

	// Start progress monitoring goroutine
	progressDone := make(chan struct{})
	go monitorProgress(ctx, jm, jobID, start, progressDone)

	// Start checkpoint monitoring goroutine if enabled
	checkpointDone := make(chan struct{})
	checkpointing := checkpointStore != nil && job.Config.CheckpointInterval > 0
	if checkpointing {
		go monitorCheckpoints(ctx, jm, checkpointStore, jobID, checkpointDone)
	}

	outcome, runErr := runner.Run(ctx, func(tick int, score pack.Score) {
		snapshot := runner.Algorithm().Solution().Snapshot()
		jm.UpdateJob(jobID, func(j *Job) {
			j.Tick = tick
			j.Score = score
			j.snapshot = snapshot
		})
		if trace != nil {
			trace.Write(store.TraceEntry{
				Tick:        tick,
				Score:       score,
				Permissible: snapshot.PermissibleOverlap,
				Timestamp:   time.Now(),
			})
		}
	})

	close(progressDone)
	if checkpointing {
		close(checkpointDone)
	}
	elapsed := time.Since(start)

	if runErr != nil && ctx.Err() != nil {
		markJobCancelled(jm, jobID)
		return runErr
	}
	if runErr != nil {
		markJobFailed(jm, jobID, runErr)
		return runErr
	}

	endTime := time.Now()
	finalScore := runner.Algorithm().Score()
	if err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.Tick = runner.Ticks()
		j.Score = finalScore
		j.Outcome = outcome.String()
		j.EndTime = &endTime
	}); err != nil {
		return err
	}

	if trace != nil {
		trace.Flush()
	}

	tps := float64(runner.Ticks()) / elapsed.Seconds()
	slog.Info("Job completed",
		"job_id", jobID,
		"elapsed", elapsed,
		"ticks", runner.Ticks(),
		"outcome", outcome.String(),
		"score", finalScore.String(),
		"ticks_per_second", tps,
	)

	// Broadcast final completion event
	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:     jobID,
		State:     StateCompleted,
		Tick:      runner.Ticks(),
		Score:     finalScore,
		Outcome:   outcome.String(),
		TPS:       tps,
		Timestamp: time.Now(),
	})

	return nil
}

// buildRunner assembles problem, mode, algorithm and runner from a job
// configuration.
func buildRunner(cfg JobConfig) (*search.Runner, error) {
	problem, err := pack.NewProblem(cfg.Problem)
	if err != nil {
		return nil, err
	}
	mode, err := search.NewMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Problem.Seed))
	algo, err := search.NewAlgorithm(cfg.Algorithm, problem, mode, rng, search.Options{
		MoveBudget: cfg.MoveBudget,
	})
	if err != nil {
		return nil, err
	}
	return search.NewRunner(algo, cfg.MaxTicks), nil
}

// monitorProgress periodically broadcasts progress events during the run
func monitorProgress(ctx context.Context, jm *JobManager, jobID string, startTime time.Time, done chan struct{}) {
	ticker := time.NewTicker(500 * time.Millisecond) // Throttle to 2 updates per second
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, exists := jm.GetJob(jobID)
			if !exists {
				return
			}

			elapsed := time.Since(startTime).Seconds()
			var tps float64
			if elapsed > 0 {
				tps = float64(job.Tick) / elapsed
			}

			jm.broadcaster.Broadcast(ProgressEvent{
				JobID:     jobID,
				State:     job.State,
				Tick:      job.Tick,
				Score:     job.Score,
				TPS:       tps,
				Timestamp: time.Now(),
			})
		}
	}
}

// markJobFailed marks a job as failed with an error message
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("Job failed", "job_id", jobID, "error", err)
}

// markJobCancelled marks a job as cancelled
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("Job cancelled", "job_id", jobID)
}

// monitorCheckpoints periodically saves checkpoints during the run
func monitorCheckpoints(ctx context.Context, jm *JobManager, checkpointStore store.Store, jobID string, done chan struct{}) {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return
	}

	interval := time.Duration(job.Config.CheckpointInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := saveCheckpoint(jm, checkpointStore, jobID); err != nil {
				slog.Error("Failed to save checkpoint", "job_id", jobID, "error", err)
			}
		}
	}
}

// saveCheckpoint saves a checkpoint for the given job
func saveCheckpoint(jm *JobManager, checkpointStore store.Store, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	snapshot := jm.Snapshot(jobID)
	if snapshot == nil {
		slog.Debug("Skipping checkpoint, no solution yet", "job_id", jobID)
		return nil
	}

	checkpoint := store.NewCheckpoint(jobID, job.Config, job.Tick, snapshot)
	if err := checkpointStore.SaveCheckpoint(jobID, checkpoint); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	slog.Info("Checkpoint saved",
		"job_id", jobID,
		"tick", job.Tick,
		"score", job.Score.String(),
	)
	return nil
}
