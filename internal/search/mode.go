package search

import (
	"fmt"
	"math/rand"

	"github.com/cwagner/boxpack/internal/pack"
)

// Mode is a placement strategy an algorithm runs with. Every mode is either
// a SelectionSchema (consumed by greedy construction) or a Neighborhood
// (consumed by the search algorithms); the registry enforces the pairing.
type Mode interface {
	Name() string
}

// SelectionSchema proposes the next construction move for a partial
// solution. It is called with the ascending IDs of the still unplaced
// rectangles and must return a move that places exactly one of them.
type SelectionSchema interface {
	Mode
	Select(s *pack.Solution, unplaced []int) (Move, error)
}

// Neighborhood enumerates candidate moves around a complete solution.
// Implementations may keep per-run state (relaxation schedules, tabu-style
// recency lists); Prepare resets that state for a fresh solution. The
// budget caps how many candidates a single call may produce.
type Neighborhood interface {
	Mode
	Prepare(s *pack.Solution)
	Neighbors(s *pack.Solution, rng *rand.Rand, budget int) []Move
}

// DefaultMoveBudget bounds the number of candidate moves a neighborhood
// generates per tick, keeping individual ticks short-running.
const DefaultMoveBudget = 2000

// Mode and algorithm names accepted by the registry and the CLI.
const (
	ModeByArea           = "byarea"
	ModeBySpace          = "byspace"
	ModePermutation      = "permutation"
	ModeGeometric        = "geometric"
	ModeGeometricOverlap = "geometric-overlap"

	AlgoGreedy    = "greedy"
	AlgoLocal     = "localsearch"
	AlgoAnnealing = "annealing"
)

// NewMode constructs a mode by name.
func NewMode(name string) (Mode, error) {
	switch name {
	case ModeByArea:
		return &ByAreaSchema{}, nil
	case ModeBySpace:
		return &BySpaceSchema{}, nil
	case ModePermutation:
		return &PermutationNeighborhood{}, nil
	case ModeGeometric:
		return &GeometricNeighborhood{}, nil
	case ModeGeometricOverlap:
		return NewGeometricOverlapNeighborhood(), nil
	default:
		return nil, fmt.Errorf("unknown mode %q", name)
	}
}

// Algorithms lists the algorithm names the registry can construct.
func Algorithms() []string {
	return []string{AlgoGreedy, AlgoLocal, AlgoAnnealing}
}

// ModesFor lists the mode names compatible with an algorithm.
func ModesFor(algo string) []string {
	switch algo {
	case AlgoGreedy:
		return []string{ModeByArea, ModeBySpace}
	case AlgoLocal, AlgoAnnealing:
		return []string{ModePermutation, ModeGeometric, ModeGeometricOverlap}
	default:
		return nil
	}
}

// Options tunes algorithm construction.
type Options struct {
	// MoveBudget caps candidate generation per tick; zero means
	// DefaultMoveBudget.
	MoveBudget int
	// Seed solution to start from instead of the problem's default
	// (empty for greedy, trivial for the search algorithms).
	Seed *pack.Solution
}

func (o Options) moveBudget() int {
	if o.MoveBudget > 0 {
		return o.MoveBudget
	}
	return DefaultMoveBudget
}

// NewAlgorithm wires an algorithm to a compatible mode for the given
// problem. Greedy requires a selection schema and starts from an empty
// solution; local search and annealing require a neighborhood and start
// from the trivial one-rectangle-per-box solution.
func NewAlgorithm(name string, p *pack.Problem, mode Mode, rng *rand.Rand, opts Options) (Algorithm, error) {
	switch name {
	case AlgoGreedy:
		schema, ok := mode.(SelectionSchema)
		if !ok {
			return nil, fmt.Errorf("mode %q is not a selection schema", mode.Name())
		}
		seed := opts.Seed
		if seed == nil {
			seed = p.EmptySolution()
		}
		return NewGreedy(seed, schema), nil
	case AlgoLocal:
		nb, ok := mode.(Neighborhood)
		if !ok {
			return nil, fmt.Errorf("mode %q is not a neighborhood", mode.Name())
		}
		seed := opts.Seed
		if seed == nil {
			seed = p.TrivialSolution()
		}
		return NewLocalSearch(seed, nb, rng, opts.moveBudget()), nil
	case AlgoAnnealing:
		nb, ok := mode.(Neighborhood)
		if !ok {
			return nil, fmt.Errorf("mode %q is not a neighborhood", mode.Name())
		}
		seed := opts.Seed
		if seed == nil {
			seed = p.TrivialSolution()
		}
		return NewSimulatedAnnealing(seed, nb, rng, opts.moveBudget()), nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q", name)
	}
}
