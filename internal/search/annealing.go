package search

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwagner/boxpack/internal/pack"
)

// Annealing schedule: the temperature starts high enough that almost any
// candidate is accepted and cools geometrically every few ticks.
const (
	initialTemperature = 100.0
	coolingRate        = 0.95
	coolingInterval    = 10
)

// SimulatedAnnealing samples one random candidate per tick and accepts
// worsening moves with a probability that falls as the temperature cools.
// It does not converge on its own below a minimum temperature; the run ends
// through the caller's tick budget or score stagnation.
type SimulatedAnnealing struct {
	solution *pack.Solution
	nb       Neighborhood
	rng      *rand.Rand
	budget   int
	state    State

	temperature float64
	ticks       int
}

func NewSimulatedAnnealing(seed *pack.Solution, nb Neighborhood, rng *rand.Rand, budget int) *SimulatedAnnealing {
	nb.Prepare(seed)
	return &SimulatedAnnealing{
		solution:    seed,
		nb:          nb,
		rng:         rng,
		budget:      budget,
		state:       StateSearching,
		temperature: initialTemperature,
	}
}

func (a *SimulatedAnnealing) Name() string { return AlgoAnnealing }

func (a *SimulatedAnnealing) Mode() Mode { return a.nb }

func (a *SimulatedAnnealing) SetMode(m Mode) error {
	nb, ok := m.(Neighborhood)
	if !ok {
		return fmt.Errorf("mode %q is not a neighborhood", m.Name())
	}
	a.nb = nb
	nb.Prepare(a.solution)
	if a.state.Done() {
		a.state = StateSearching
	}
	return nil
}

func (a *SimulatedAnnealing) State() State { return a.state }

func (a *SimulatedAnnealing) Solution() *pack.Solution { return a.solution }

func (a *SimulatedAnnealing) Score() pack.Score { return a.solution.Score() }

func (a *SimulatedAnnealing) Exhaust() { exhaust(&a.state) }

// Temperature exposes the current acceptance temperature for reporting.
func (a *SimulatedAnnealing) Temperature() float64 { return a.temperature }

func (a *SimulatedAnnealing) Tick() error {
	if a.state.Done() {
		return nil
	}
	defer a.cool()

	moves := a.nb.Neighbors(a.solution, a.rng, a.budget)
	if len(moves) == 0 {
		a.state = StateConverged
		return nil
	}
	move := moves[a.rng.Intn(len(moves))]

	current := a.solution.Score()
	candidate, err := EvaluateMove(a.solution, move)
	if err != nil {
		return err
	}
	if candidate.Equal(pack.InvalidScore()) {
		// The sampled move does not fit; the tick is spent.
		return nil
	}
	if candidate.Less(current) {
		return commit(a.solution, move)
	}
	penalty := current.PenaltyTo(candidate)
	if a.rng.Float64() < math.Exp(-penalty/a.temperature) {
		return commit(a.solution, move)
	}
	return nil
}

// cool advances the geometric cooling schedule.
func (a *SimulatedAnnealing) cool() {
	a.ticks++
	if a.ticks%coolingInterval == 0 {
		a.temperature *= coolingRate
	}
}
