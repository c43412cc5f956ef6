package search

import (
	"github.com/cwagner/boxpack/internal/pack"
)

// State is the phase an algorithm is in. Ticking a finished algorithm is a
// no-op.
type State int

const (
	// StateConstructing means the algorithm is still placing rectangles.
	StateConstructing State = iota
	// StateSearching means a complete solution is being improved.
	StateSearching
	// StateConverged means no further improvement is reachable.
	StateConverged
	// StateExhausted means the tick budget ran out before convergence.
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateConstructing:
		return "constructing"
	case StateSearching:
		return "searching"
	case StateConverged:
		return "converged"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Done reports whether the algorithm has reached a terminal state.
func (s State) Done() bool {
	return s == StateConverged || s == StateExhausted
}

// Algorithm advances one solution in bounded steps. Tick performs a bounded
// amount of work; callers drive it in a loop and may inspect the solution
// between ticks. Implementations are not safe for concurrent use.
type Algorithm interface {
	Name() string
	Mode() Mode
	// SetMode swaps the placement strategy mid-run. The solution state is
	// kept; only the candidate generation changes.
	SetMode(Mode) error
	State() State
	Tick() error
	Solution() *pack.Solution
	Score() pack.Score
	// Exhaust marks the algorithm terminal when the caller's tick budget
	// runs out.
	Exhaust()
}

// exhaust is shared terminal-state handling: converged algorithms stay
// converged.
func exhaust(state *State) {
	if *state != StateConverged {
		*state = StateExhausted
	}
}

var (
	_ Algorithm = (*Greedy)(nil)
	_ Algorithm = (*LocalSearch)(nil)
	_ Algorithm = (*SimulatedAnnealing)(nil)
)

// commit re-applies a move that was evaluated and undone. The solution has
// not changed in between, so a failure is a stale move.
func commit(s *pack.Solution, m Move) error {
	if err := m.Apply(s); err != nil {
		return stale(err)
	}
	return nil
}
