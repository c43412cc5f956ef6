package search

import (
	"math/rand"

	"github.com/cwagner/boxpack/internal/pack"
)

// PermutationNeighborhood rearranges the assignment of rectangles to boxes
// without consulting fine-grained geometry: it compacts rectangles into free
// space of earlier boxes and exchanges the slots of rectangle pairs. Only
// exchanges that provably stay overlap-free are emitted, so every candidate
// is a legal packing.
type PermutationNeighborhood struct{}

func (PermutationNeighborhood) Name() string { return ModePermutation }

func (PermutationNeighborhood) Prepare(s *pack.Solution) {
	s.PermissibleOverlap = 0
}

func (PermutationNeighborhood) Neighbors(s *pack.Solution, rng *rand.Rand, budget int) []Move {
	var moves []Move

	// Compaction: pull rectangles from later boxes into free space of
	// earlier ones. Draining the last rectangle of a box drops the box.
	for ti, target := range s.Boxes {
		for _, src := range s.Boxes[ti+1:] {
			for _, id := range sortedRectIDs(src) {
				p := src.Items[id]
				x, y, flipped, ok := target.FindFit(p.W, p.H)
				if !ok {
					continue
				}
				moves = append(moves, &RelocateMove{
					RectID: id, ToBoxID: target.ID,
					X: x, Y: y, Flip: flipped != p.Flipped,
				})
				if src.Len() == 1 {
					return moves[len(moves)-1:]
				}
				if len(moves) >= budget {
					return moves
				}
			}
		}
	}

	// Slot exchanges between boxes. A pair qualifies when each rectangle
	// fits inside the footprint the other vacates, which keeps the
	// remaining placements untouched and overlap-free.
	for bi, boxA := range s.Boxes {
		for _, boxB := range s.Boxes[bi+1:] {
			for _, idA := range sortedRectIDs(boxA) {
				pa := boxA.Items[idA]
				for _, idB := range sortedRectIDs(boxB) {
					pb := boxB.Items[idB]
					flipA, okA := fitsWithin(pa, pb.Width(), pb.Height())
					flipB, okB := fitsWithin(pb, pa.Width(), pa.Height())
					if !okA || !okB {
						continue
					}
					if pa.Width() == pb.Width() && pa.Height() == pb.Height() {
						// Exchanging identical footprints changes nothing.
						continue
					}
					moves = append(moves, &SwapMove{
						RectA: idA, RectB: idB,
						FlipA: flipA, FlipB: flipB,
					})
					if len(moves) >= budget {
						return moves
					}
				}
			}
		}
	}
	return moves
}

// fitsWithin reports whether the rectangle of placement p fits a w x h
// footprint, and the absolute orientation to use.
func fitsWithin(p pack.Placed, w, h int) (flipped bool, ok bool) {
	if p.W <= w && p.H <= h {
		return false, true
	}
	if p.W != p.H && p.H <= w && p.W <= h {
		return true, true
	}
	return false, false
}
