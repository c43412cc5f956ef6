package search

import (
	"math/rand"
	"sort"

	"github.com/cwagner/boxpack/internal/pack"
)

// GeometricNeighborhood relocates single rectangles into free regions of
// other boxes or into a newly opened box. Sources are scanned
// emptiest-box-first so that moves which dissolve a box are found early;
// when such a move exists it is returned alone, since no other candidate
// can beat a box-count reduction.
type GeometricNeighborhood struct{}

func (GeometricNeighborhood) Name() string { return ModeGeometric }

func (GeometricNeighborhood) Prepare(s *pack.Solution) {
	s.PermissibleOverlap = 0
}

func (GeometricNeighborhood) Neighbors(s *pack.Solution, rng *rand.Rand, budget int) []Move {
	sources := boxesByLen(s, true)
	targets := boxesByLen(s, false)

	var moves []Move
	for _, src := range sources {
		for _, id := range sortedRectIDs(src) {
			p := src.Items[id]
			for _, dst := range targets {
				if dst.ID == src.ID {
					continue
				}
				for _, f := range dst.FreeRects() {
					for _, flip := range orientations(p, f) {
						moves = append(moves, &RelocateMove{
							RectID: id, ToBoxID: dst.ID,
							X: f.X, Y: f.Y, Flip: flip,
						})
						// Emptying a box beats any other move outright.
						if src.Len() == 1 {
							return moves[len(moves)-1:]
						}
						if len(moves) >= budget {
							return moves
						}
					}
				}
			}
			// A fresh box is always a legal target. Skipped for a box's
			// sole rectangle, where it would only relabel the box.
			if src.Len() > 1 && len(moves) < budget {
				moves = append(moves, &RelocateMove{RectID: id, ToNewBox: true})
			}
		}
	}
	return moves
}

// orientations lists the flip toggles that let placement p fit region f.
func orientations(p pack.Placed, f pack.FreeRect) []bool {
	var flips []bool
	if p.Width() <= f.W && p.Height() <= f.H {
		flips = append(flips, false)
	}
	if p.Width() != p.Height() && p.Height() <= f.W && p.Width() <= f.H {
		flips = append(flips, true)
	}
	return flips
}

// boxesByLen returns the solution's boxes ordered by occupancy, ascending
// or descending, with the box ID breaking ties for determinism.
func boxesByLen(s *pack.Solution, ascending bool) []*pack.Box {
	boxes := append([]*pack.Box(nil), s.Boxes...)
	sort.Slice(boxes, func(i, j int) bool {
		if boxes[i].Len() != boxes[j].Len() {
			if ascending {
				return boxes[i].Len() < boxes[j].Len()
			}
			return boxes[i].Len() > boxes[j].Len()
		}
		return boxes[i].ID < boxes[j].ID
	})
	return boxes
}

// sortedRectIDs returns the IDs of the rectangles in a box, ascending.
func sortedRectIDs(b *pack.Box) []int {
	ids := make([]int, 0, b.Len())
	for id := range b.Items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
