package pack

import (
	"math/rand"
)

// Problem is the immutable description of one packing instance: the
// rectangles to place and the square box side length. The box supply is
// unbounded.
type Problem struct {
	Config ProblemConfig
	Side   int
	Rects  []Rect
}

// NewProblem validates the configuration and generates the rectangle set
// with a seeded generator, so identical configs produce identical problems.
func NewProblem(cfg ProblemConfig) (*Problem, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	rects := make([]Rect, cfg.RectCount)
	for i := range rects {
		rects[i] = Rect{
			ID: i,
			W:  cfg.WidthMin + rng.Intn(cfg.WidthMax-cfg.WidthMin+1),
			H:  cfg.HeightMin + rng.Intn(cfg.HeightMax-cfg.HeightMin+1),
		}
	}
	return &Problem{Config: cfg, Side: cfg.BoxSide, Rects: rects}, nil
}

// EmptySolution returns a solution with every rectangle unplaced, the
// starting point for greedy construction.
func (p *Problem) EmptySolution() *Solution {
	return NewSolution(p.Side, p.Rects)
}

// TrivialSolution places each rectangle at the origin of its own box. It is
// always valid and serves as the seed for the search algorithms.
func (p *Problem) TrivialSolution() *Solution {
	s := NewSolution(p.Side, p.Rects)
	for _, r := range p.Rects {
		b := s.AppendBox()
		// Generated rects always fit an empty box, so this cannot fail.
		if err := s.Place(r.ID, b.ID, 0, 0, false); err != nil {
			panic(err)
		}
	}
	return s
}
