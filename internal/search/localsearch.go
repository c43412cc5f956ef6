package search

import (
	"fmt"
	"math/rand"

	"github.com/cwagner/boxpack/internal/pack"
)

// LocalSearch evaluates the full candidate neighborhood each tick and
// commits the best strictly improving move, converging at the first tick
// without one. With a deterministic seed its trajectory is reproducible.
type LocalSearch struct {
	solution *pack.Solution
	nb       Neighborhood
	rng      *rand.Rand
	budget   int
	state    State
}

func NewLocalSearch(seed *pack.Solution, nb Neighborhood, rng *rand.Rand, budget int) *LocalSearch {
	nb.Prepare(seed)
	return &LocalSearch{
		solution: seed,
		nb:       nb,
		rng:      rng,
		budget:   budget,
		state:    StateSearching,
	}
}

func (l *LocalSearch) Name() string { return AlgoLocal }

func (l *LocalSearch) Mode() Mode { return l.nb }

func (l *LocalSearch) SetMode(m Mode) error {
	nb, ok := m.(Neighborhood)
	if !ok {
		return fmt.Errorf("mode %q is not a neighborhood", m.Name())
	}
	l.nb = nb
	nb.Prepare(l.solution)
	if l.state.Done() {
		// A different neighborhood may open moves the previous one
		// could not see.
		l.state = StateSearching
	}
	return nil
}

func (l *LocalSearch) State() State { return l.state }

func (l *LocalSearch) Solution() *pack.Solution { return l.solution }

func (l *LocalSearch) Score() pack.Score { return l.solution.Score() }

func (l *LocalSearch) Exhaust() { exhaust(&l.state) }

func (l *LocalSearch) Tick() error {
	if l.state.Done() {
		return nil
	}
	moves := l.nb.Neighbors(l.solution, l.rng, l.budget)
	if len(moves) == 0 {
		l.state = StateConverged
		return nil
	}

	current := l.solution.Score()
	var best []Move
	var bestScore pack.Score
	for _, m := range moves {
		score, err := EvaluateMove(l.solution, m)
		if err != nil {
			return err
		}
		if !score.Less(current) {
			continue
		}
		if len(best) == 0 || score.Less(bestScore) {
			best = best[:0]
			best = append(best, m)
			bestScore = score
		} else if score.Equal(bestScore) {
			best = append(best, m)
		}
	}
	if len(best) == 0 {
		l.state = StateConverged
		return nil
	}
	return commit(l.solution, best[l.rng.Intn(len(best))])
}
