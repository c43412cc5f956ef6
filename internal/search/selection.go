package search

import (
	"errors"
	"sort"

	"github.com/cwagner/boxpack/internal/pack"
)

// ErrNothingToPlace is returned by a selection schema when called without
// unplaced rectangles.
var ErrNothingToPlace = errors.New("no unplaced rectangles")

// ByAreaSchema places rectangles largest-first into the first box with room,
// opening a new box when none of the existing ones fit.
type ByAreaSchema struct{}

func (ByAreaSchema) Name() string { return ModeByArea }

func (ByAreaSchema) Select(s *pack.Solution, unplaced []int) (Move, error) {
	if len(unplaced) == 0 {
		return nil, ErrNothingToPlace
	}
	id := unplaced[0]
	for _, cand := range unplaced[1:] {
		if s.Rects[cand].Area() > s.Rects[id].Area() {
			id = cand
		}
	}
	r := s.Rects[id]
	for _, b := range s.Boxes {
		if x, y, flipped, ok := b.FindFit(r.W, r.H); ok {
			return &PlaceMove{RectID: id, BoxID: b.ID, X: x, Y: y, Flip: flipped}, nil
		}
	}
	return &PlaceMove{RectID: id, NewBox: true}, nil
}

// BySpaceSchema fills the largest free region across all boxes with the
// biggest rectangle that fits, preferring tight matches between rectangle
// and region. Regions that fit no rectangle are skipped in favor of the
// next largest; a new box is opened for the largest remaining rectangle
// only once every free region has been tried.
type BySpaceSchema struct{}

func (BySpaceSchema) Name() string { return ModeBySpace }

func (BySpaceSchema) Select(s *pack.Solution, unplaced []int) (Move, error) {
	if len(unplaced) == 0 {
		return nil, ErrNothingToPlace
	}

	for _, fr := range freeRegionsByArea(s) {
		if id, flipped, found := bestFitFor(s, unplaced, fr.region); found {
			return &PlaceMove{RectID: id, BoxID: fr.boxID, X: fr.region.X, Y: fr.region.Y, Flip: flipped}, nil
		}
	}

	largest := unplaced[0]
	for _, cand := range unplaced[1:] {
		if s.Rects[cand].Area() > s.Rects[largest].Area() {
			largest = cand
		}
	}
	return &PlaceMove{RectID: largest, NewBox: true}, nil
}

type boxRegion struct {
	boxID  int
	region pack.FreeRect
}

// freeRegionsByArea lists every free region of every box, largest first,
// with the box ID and position breaking ties for determinism.
func freeRegionsByArea(s *pack.Solution) []boxRegion {
	var regions []boxRegion
	for _, b := range s.Boxes {
		for _, f := range b.FreeRects() {
			regions = append(regions, boxRegion{boxID: b.ID, region: f})
		}
	}
	sort.Slice(regions, func(i, j int) bool {
		a, b := regions[i], regions[j]
		if a.region.Area() != b.region.Area() {
			return a.region.Area() > b.region.Area()
		}
		if a.boxID != b.boxID {
			return a.boxID < b.boxID
		}
		if a.region.Y != b.region.Y {
			return a.region.Y < b.region.Y
		}
		return a.region.X < b.region.X
	})
	return regions
}

// bestFitFor picks the unplaced rectangle whose area comes closest to the
// region's without exceeding it, in an orientation that fits the region's
// dimensions. Ties go to the lower rectangle ID.
func bestFitFor(s *pack.Solution, unplaced []int, region pack.FreeRect) (id int, flipped bool, found bool) {
	ids := append([]int(nil), unplaced...)
	sort.Ints(ids)
	bestArea := -1
	for _, cand := range ids {
		r := s.Rects[cand]
		if r.Area() <= bestArea || r.Area() > region.Area() {
			continue
		}
		if r.W <= region.W && r.H <= region.H {
			id, flipped, found = cand, false, true
			bestArea = r.Area()
		} else if r.W != r.H && r.H <= region.W && r.W <= region.H {
			id, flipped, found = cand, true, true
			bestArea = r.Area()
		}
	}
	return id, flipped, found
}
