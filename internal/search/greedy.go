package search

import (
	"fmt"

	"github.com/cwagner/boxpack/internal/pack"
)

// Greedy builds a solution one placement per tick, following a selection
// schema. It never revisits a placement and converges exactly when the last
// rectangle is placed, so a run takes as many ticks as there are
// rectangles.
type Greedy struct {
	solution *pack.Solution
	schema   SelectionSchema
	state    State
}

func NewGreedy(seed *pack.Solution, schema SelectionSchema) *Greedy {
	g := &Greedy{solution: seed, schema: schema, state: StateConstructing}
	if len(seed.Unplaced()) == 0 {
		g.state = StateConverged
	}
	return g
}

func (g *Greedy) Name() string { return AlgoGreedy }

func (g *Greedy) Mode() Mode { return g.schema }

func (g *Greedy) SetMode(m Mode) error {
	schema, ok := m.(SelectionSchema)
	if !ok {
		return fmt.Errorf("mode %q is not a selection schema", m.Name())
	}
	g.schema = schema
	return nil
}

func (g *Greedy) State() State { return g.state }

func (g *Greedy) Solution() *pack.Solution { return g.solution }

func (g *Greedy) Score() pack.Score { return g.solution.Score() }

func (g *Greedy) Exhaust() { exhaust(&g.state) }

func (g *Greedy) Tick() error {
	if g.state.Done() {
		return nil
	}
	unplaced := g.solution.Unplaced()
	if len(unplaced) == 0 {
		g.state = StateConverged
		return nil
	}
	move, err := g.schema.Select(g.solution, unplaced)
	if err != nil {
		return err
	}
	// Selection schemas only propose placements they verified, so a
	// failure here is a schema bug.
	if err := move.Apply(g.solution); err != nil {
		return stale(err)
	}
	if len(g.solution.Unplaced()) == 0 {
		g.state = StateConverged
	}
	return nil
}
