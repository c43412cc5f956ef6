package search

import (
	"math/rand"
	"sort"

	"github.com/cwagner/boxpack/internal/pack"
)

// Relaxation schedule of the overlap neighborhood: fully permissive at the
// start, tightened by a fixed step after each completed pass over the
// rectangle set until only legal placements remain.
const (
	initialPermissibleOverlap = 1.0
	permissibleOverlapStep    = 0.05
)

// GeometricOverlapNeighborhood explores relocations through temporarily
// illegal, overlapping intermediate states. The tolerated overlap fraction
// shrinks over the run, forcing the solution back toward a legal packing;
// if overlaps survive the full schedule the run ends without a valid score.
//
// Unlike the other neighborhoods it considers every coordinate of a box as
// a target position, so the per-tick budget is what keeps ticks bounded.
type GeometricOverlapNeighborhood struct {
	permissible float64
}

func NewGeometricOverlapNeighborhood() *GeometricOverlapNeighborhood {
	return &GeometricOverlapNeighborhood{permissible: initialPermissibleOverlap}
}

func (n *GeometricOverlapNeighborhood) Name() string { return ModeGeometricOverlap }

func (n *GeometricOverlapNeighborhood) Prepare(s *pack.Solution) {
	n.permissible = initialPermissibleOverlap
	s.PermissibleOverlap = n.permissible
}

// Permissible exposes the currently tolerated overlap fraction.
func (n *GeometricOverlapNeighborhood) Permissible() float64 {
	return n.permissible
}

func (n *GeometricOverlapNeighborhood) Neighbors(s *pack.Solution, rng *rand.Rand, budget int) []Move {
	s.PermissibleOverlap = n.permissible

	var moves []Move
	spent := 0
	targets := boxesByLen(s, false)

	for _, id := range n.rectOrder(s) {
		curBox, p, ok := s.Location(id)
		if !ok {
			continue
		}
		for _, dst := range targets {
			for _, flip := range []bool{false, true} {
				if flip && p.Width() == p.Height() {
					continue
				}
				w, h := p.Width(), p.Height()
				if flip {
					w, h = h, w
				}
				for y := 0; y+h <= dst.Side; y++ {
					for x := 0; x+w <= dst.Side; x++ {
						if spent >= budget {
							return moves
						}
						spent++
						if curBox == dst.ID && p.X == x && p.Y == y && !flip {
							continue
						}
						moves = append(moves, &RelocateMove{
							RectID: id, ToBoxID: dst.ID,
							X: x, Y: y, Flip: flip,
						})
					}
				}
			}
		}
		// Escape hatch: a fresh box is always overlap-free.
		if spent < budget {
			spent++
			moves = append(moves, &RelocateMove{RectID: id, ToNewBox: true})
		}
	}

	// The whole rectangle set was covered within budget, so one relaxation
	// pass is complete and the tolerated overlap shrinks.
	n.permissible = max(0, n.permissible-permissibleOverlapStep)
	return moves
}

// rectOrder lists placed rectangle IDs with the ones involved in overlaps
// first, so resolution work is spent where the violations are.
func (n *GeometricOverlapNeighborhood) rectOrder(s *pack.Solution) []int {
	overlapping := make(map[int]bool)
	for _, b := range s.Boxes {
		items := make([]pack.Placed, 0, b.Len())
		for _, p := range b.Items {
			items = append(items, p)
		}
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				if items[i].OverlapArea(items[j]) > 0 {
					overlapping[items[i].ID] = true
					overlapping[items[j].ID] = true
				}
			}
		}
	}
	var first, rest []int
	for _, r := range s.Rects {
		if _, _, ok := s.Location(r.ID); !ok {
			continue
		}
		if overlapping[r.ID] {
			first = append(first, r.ID)
		} else {
			rest = append(rest, r.ID)
		}
	}
	sort.Ints(first)
	sort.Ints(rest)
	return append(first, rest...)
}
