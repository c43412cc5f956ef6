package pack

import (
	"errors"
	"math"
	"testing"
)

func seededSolution(t *testing.T) *Solution {
	t.Helper()
	rects := []Rect{
		{ID: 0, W: 2, H: 2},
		{ID: 1, W: 1, H: 2},
		{ID: 2, W: 2, H: 1},
	}
	s := NewSolution(4, rects)
	b := s.AppendBox()
	if err := s.Place(0, b.ID, 0, 0, false); err != nil {
		t.Fatalf("place: %v", err)
	}
	if err := s.Place(1, b.ID, 2, 0, false); err != nil {
		t.Fatalf("place: %v", err)
	}
	return s
}

func TestPlaceAndRemove(t *testing.T) {
	s := seededSolution(t)
	if got := s.PlacedCount(); got != 2 {
		t.Fatalf("placed count = %d, want 2", got)
	}
	if got := s.Unplaced(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("unplaced = %v, want [2]", got)
	}

	p, boxID, err := s.Remove(1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if p.X != 2 || p.Y != 0 || boxID != s.Boxes[0].ID {
		t.Fatalf("removed placement = %+v in box %d", p, boxID)
	}
	if _, _, err := s.Remove(1); !errors.Is(err, ErrNotPlaced) {
		t.Fatalf("second remove error = %v, want ErrNotPlaced", err)
	}
}

func TestPlaceRejectsDoublePlacement(t *testing.T) {
	s := seededSolution(t)
	if err := s.Place(0, s.Boxes[0].ID, 0, 2, false); err == nil {
		t.Fatalf("expected error placing an already placed rectangle")
	}
}

func TestPlaceUnknownBox(t *testing.T) {
	s := seededSolution(t)
	if err := s.Place(2, 99, 0, 0, false); !errors.Is(err, ErrNoSuchBox) {
		t.Fatalf("error = %v, want ErrNoSuchBox", err)
	}
}

func TestRemoveBoxKeepsOrderOnInsert(t *testing.T) {
	s := NewSolution(4, nil)
	a := s.AppendBox()
	b := s.AppendBox()
	c := s.AppendBox()

	idx, err := s.RemoveBox(b.ID)
	if err != nil {
		t.Fatalf("remove box: %v", err)
	}
	if idx != 1 {
		t.Fatalf("removed index = %d, want 1", idx)
	}
	s.InsertBox(b, idx)
	want := []int{a.ID, b.ID, c.ID}
	for i, box := range s.Boxes {
		if box.ID != want[i] {
			t.Fatalf("box order = %v at %d, want %v", box.ID, i, want)
		}
	}
}

func TestRemoveBoxRejectsNonEmpty(t *testing.T) {
	s := seededSolution(t)
	if _, err := s.RemoveBox(s.Boxes[0].ID); err == nil {
		t.Fatalf("expected error removing a non-empty box")
	}
}

func TestUndoAppendBoxReleasesID(t *testing.T) {
	s := NewSolution(4, nil)
	first := s.AppendBox()
	if err := s.UndoAppendBox(first.ID); err != nil {
		t.Fatalf("undo append: %v", err)
	}
	second := s.AppendBox()
	if second.ID != first.ID {
		t.Fatalf("box ID after undo = %d, want %d reused", second.ID, first.ID)
	}
}

func TestBoxEntropy(t *testing.T) {
	rects := []Rect{
		{ID: 0, W: 1, H: 1},
		{ID: 1, W: 1, H: 1},
	}
	s := NewSolution(4, rects)
	a := s.AppendBox()
	b := s.AppendBox()
	if err := s.Place(0, a.ID, 0, 0, false); err != nil {
		t.Fatalf("place: %v", err)
	}
	if err := s.Place(1, b.ID, 0, 0, false); err != nil {
		t.Fatalf("place: %v", err)
	}
	// Two boxes with one rectangle each: two times -0.5*log2(0.5).
	if got := s.BoxEntropy(); math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("entropy = %v, want 1.0", got)
	}

	// Everything in one box has zero entropy.
	if _, _, err := s.Remove(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.RemoveBox(b.ID); err != nil {
		t.Fatalf("remove box: %v", err)
	}
	if err := s.Place(1, a.ID, 1, 0, false); err != nil {
		t.Fatalf("place: %v", err)
	}
	if got := s.BoxEntropy(); got != 0 {
		t.Fatalf("entropy = %v, want 0", got)
	}
}

func TestScoreValidity(t *testing.T) {
	s := seededSolution(t)
	score := s.Score()
	if !score.Valid || score.BoxCount != 1 || score.Overlaps != 0 {
		t.Fatalf("score = %+v, want valid single box", score)
	}

	s.PermissibleOverlap = 1.0
	if err := s.Place(2, s.Boxes[0].ID, 0, 0, false); err != nil {
		t.Fatalf("overlapping place: %v", err)
	}
	score = s.Score()
	if score.Valid || score.Overlaps != 1 {
		t.Fatalf("score = %+v, want invalid with one overlap", score)
	}
	if s.IsValid() {
		t.Fatalf("solution with overlap reported valid")
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := seededSolution(t)
	snap := s.Snapshot()

	if _, _, err := s.Remove(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if snap.PlacedCount() != 2 {
		t.Fatalf("snapshot changed with the original")
	}
	if _, p, ok := snap.Location(0); !ok || p.X != 0 {
		t.Fatalf("snapshot lost placement of rect 0")
	}
	if !snap.IsValid() {
		t.Fatalf("snapshot invalid")
	}
}
