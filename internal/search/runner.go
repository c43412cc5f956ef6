package search

import (
	"context"

	"github.com/cwagner/boxpack/internal/pack"
)

// Outcome summarizes how a finished run ended.
type Outcome int

const (
	// OutcomeRunning means the run has not finished yet.
	OutcomeRunning Outcome = iota
	// OutcomeConverged means the algorithm found no further improvement.
	OutcomeConverged
	// OutcomeExhausted means the tick budget or stagnation window ended
	// the run.
	OutcomeExhausted
	// OutcomeNoValidScore means the run ended on a solution that never
	// became overlap-free.
	OutcomeNoValidScore
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRunning:
		return "running"
	case OutcomeConverged:
		return "converged"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeNoValidScore:
		return "no valid score"
	default:
		return "unknown"
	}
}

// TickFunc observes a run after each tick. Tick numbers start at 1.
type TickFunc func(tick int, score pack.Score)

// Runner drives one algorithm until it converges, its score stagnates or a
// tick budget runs out.
type Runner struct {
	algo     Algorithm
	maxTicks int
	tracker  *StagnationTracker
	ticks    int
	done     bool
}

// NewRunner wraps an algorithm with a tick budget (zero means unbounded)
// and the default stagnation window.
func NewRunner(algo Algorithm, maxTicks int) *Runner {
	return &Runner{
		algo:     algo,
		maxTicks: maxTicks,
		tracker:  NewStagnationTracker(DefaultStagnationWindow),
	}
}

// Algorithm returns the wrapped algorithm.
func (r *Runner) Algorithm() Algorithm { return r.algo }

// Ticks returns the number of ticks executed so far.
func (r *Runner) Ticks() int { return r.ticks }

// SwitchMode swaps the algorithm's mode mid-run and clears the stagnation
// history, since the new mode may move a previously stuck score.
func (r *Runner) SwitchMode(m Mode) error {
	if err := r.algo.SetMode(m); err != nil {
		return err
	}
	r.tracker.Reset()
	r.done = r.algo.State().Done()
	return nil
}

// Step executes one tick and reports whether the run is finished.
func (r *Runner) Step() (done bool, err error) {
	if r.done {
		return true, nil
	}
	if err := r.algo.Tick(); err != nil {
		r.done = true
		return true, err
	}
	r.ticks++

	stagnant := r.tracker.Update(r.algo.Score())
	switch {
	case r.algo.State().Done():
		r.done = true
	case stagnant:
		r.algo.Exhaust()
		r.done = true
	case r.maxTicks > 0 && r.ticks >= r.maxTicks:
		r.algo.Exhaust()
		r.done = true
	}
	return r.done, nil
}

// Run drives the algorithm to completion, calling onTick after every tick.
// Cancelling the context stops the run and marks it exhausted.
func (r *Runner) Run(ctx context.Context, onTick TickFunc) (Outcome, error) {
	for !r.done {
		select {
		case <-ctx.Done():
			r.algo.Exhaust()
			r.done = true
			return r.Outcome(), ctx.Err()
		default:
		}
		done, err := r.Step()
		if err != nil {
			return r.Outcome(), err
		}
		if onTick != nil {
			onTick(r.ticks, r.algo.Score())
		}
		if done {
			break
		}
	}
	return r.Outcome(), nil
}

// Outcome reports how the run ended, OutcomeRunning while it has not.
func (r *Runner) Outcome() Outcome {
	if !r.done {
		return OutcomeRunning
	}
	if !r.algo.Score().Valid {
		return OutcomeNoValidScore
	}
	if r.algo.State() == StateConverged {
		return OutcomeConverged
	}
	return OutcomeExhausted
}
