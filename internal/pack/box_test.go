package pack

import (
	"errors"
	"testing"
)

func TestPlacedDimensions(t *testing.T) {
	p := Placed{Rect: Rect{ID: 0, W: 3, H: 2}}
	if p.Width() != 3 || p.Height() != 2 {
		t.Fatalf("upright dimensions = %dx%d, want 3x2", p.Width(), p.Height())
	}
	p.Flipped = true
	if p.Width() != 2 || p.Height() != 3 {
		t.Fatalf("flipped dimensions = %dx%d, want 2x3", p.Width(), p.Height())
	}
}

func TestOverlapArea(t *testing.T) {
	a := Placed{Rect: Rect{ID: 0, W: 4, H: 4}}
	tests := []struct {
		name string
		b    Placed
		want int
	}{
		{"disjoint", Placed{Rect: Rect{ID: 1, W: 2, H: 2}, X: 5, Y: 5}, 0},
		{"touching", Placed{Rect: Rect{ID: 1, W: 2, H: 2}, X: 4, Y: 0}, 0},
		{"partial", Placed{Rect: Rect{ID: 1, W: 4, H: 4}, X: 2, Y: 2}, 4},
		{"contained", Placed{Rect: Rect{ID: 1, W: 2, H: 2}, X: 1, Y: 1}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.OverlapArea(tt.b); got != tt.want {
				t.Fatalf("overlap area = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOverlapsPermissible(t *testing.T) {
	a := Placed{Rect: Rect{ID: 0, W: 2, H: 2}}
	b := Placed{Rect: Rect{ID: 1, W: 2, H: 2}, X: 1, Y: 0}
	// Shared area 2 against combined area 8.
	if !a.Overlaps(b, 0) {
		t.Fatalf("strict check should report overlap")
	}
	if a.Overlaps(b, 0.5) {
		t.Fatalf("overlap fraction 0.25 should pass at permissible 0.5")
	}
	if !a.Overlaps(b, 0.2) {
		t.Fatalf("overlap fraction 0.25 should fail at permissible 0.2")
	}
}

func TestContactLength(t *testing.T) {
	a := Placed{Rect: Rect{ID: 0, W: 2, H: 3}}
	side := Placed{Rect: Rect{ID: 1, W: 2, H: 2}, X: 2, Y: 1}
	if got := a.ContactLength(side); got != 2 {
		t.Fatalf("vertical contact = %d, want 2", got)
	}
	below := Placed{Rect: Rect{ID: 2, W: 4, H: 1}, X: 0, Y: 3}
	if got := a.ContactLength(below); got != 2 {
		t.Fatalf("horizontal contact = %d, want 2", got)
	}
	apart := Placed{Rect: Rect{ID: 3, W: 1, H: 1}, X: 5, Y: 5}
	if got := a.ContactLength(apart); got != 0 {
		t.Fatalf("disjoint contact = %d, want 0", got)
	}
}

func TestBoxAddRejectsOutOfBounds(t *testing.T) {
	b := NewBox(0, 4)
	p := Placed{Rect: Rect{ID: 0, W: 3, H: 3}, X: 2, Y: 0}
	if err := b.Add(p, 0); !errors.Is(err, ErrDoesNotFit) {
		t.Fatalf("add error = %v, want ErrDoesNotFit", err)
	}
	if b.Len() != 0 {
		t.Fatalf("failed add left the rectangle in the box")
	}
}

func TestBoxAddRejectsOverlap(t *testing.T) {
	b := NewBox(0, 4)
	if err := b.Add(Placed{Rect: Rect{ID: 0, W: 3, H: 3}}, 0); err != nil {
		t.Fatalf("first add: %v", err)
	}
	err := b.Add(Placed{Rect: Rect{ID: 1, W: 2, H: 2}, X: 2, Y: 2}, 0)
	if !errors.Is(err, ErrDoesNotFit) {
		t.Fatalf("add error = %v, want ErrDoesNotFit", err)
	}
}

func TestFreeRectsOfEmptyBox(t *testing.T) {
	b := NewBox(0, 5)
	free := b.FreeRects()
	if len(free) != 1 || free[0] != (FreeRect{0, 0, 5, 5}) {
		t.Fatalf("free rects = %v, want the whole box", free)
	}
}

func TestFreeRectsAfterPlacement(t *testing.T) {
	b := NewBox(0, 4)
	if err := b.Add(Placed{Rect: Rect{ID: 0, W: 2, H: 2}}, 0); err != nil {
		t.Fatalf("add: %v", err)
	}
	free := b.FreeRects()
	want := []FreeRect{{2, 0, 2, 4}, {0, 2, 4, 2}}
	if len(free) != len(want) {
		t.Fatalf("free rects = %v, want %v", free, want)
	}
	for i := range want {
		if free[i] != want[i] {
			t.Fatalf("free rects = %v, want %v", free, want)
		}
	}
}

func TestFindFit(t *testing.T) {
	b := NewBox(0, 4)
	if err := b.Add(Placed{Rect: Rect{ID: 0, W: 4, H: 2}}, 0); err != nil {
		t.Fatalf("add: %v", err)
	}
	x, y, flipped, ok := b.FindFit(2, 2)
	if !ok || x != 0 || y != 2 || flipped {
		t.Fatalf("fit = (%d,%d,%v,%v), want (0,2,false,true)", x, y, flipped, ok)
	}
	// Only fits rotated: 1x3 into the remaining 4x2 band.
	x, y, flipped, ok = b.FindFit(1, 3)
	if !ok || !flipped {
		t.Fatalf("rotated fit = (%d,%d,%v,%v), want flipped placement", x, y, flipped, ok)
	}
	if _, _, _, ok = b.FindFit(3, 3); ok {
		t.Fatalf("3x3 should not fit")
	}
}

func TestLargestFree(t *testing.T) {
	b := NewBox(0, 4)
	if err := b.Add(Placed{Rect: Rect{ID: 0, W: 4, H: 3}}, 0); err != nil {
		t.Fatalf("add: %v", err)
	}
	f, ok := b.LargestFree()
	if !ok || f != (FreeRect{0, 3, 4, 1}) {
		t.Fatalf("largest free = %v/%v, want the bottom band", f, ok)
	}

	full := NewBox(1, 2)
	if err := full.Add(Placed{Rect: Rect{ID: 1, W: 2, H: 2}}, 0); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, ok := full.LargestFree(); ok {
		t.Fatalf("full box reported free space")
	}
}

func TestIncidentEdges(t *testing.T) {
	b := NewBox(0, 4)
	// Two 2x2 rects side by side along the top border.
	if err := b.Add(Placed{Rect: Rect{ID: 0, W: 2, H: 2}}, 0); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := b.Add(Placed{Rect: Rect{ID: 1, W: 2, H: 2}, X: 2, Y: 0}, 0); err != nil {
		t.Fatalf("add: %v", err)
	}
	// Rect 0: left border 2 + top border 2; rect 1: right border 2 +
	// top border 2; shared edge 2.
	if got := b.IncidentEdges(); got != 10 {
		t.Fatalf("incident edges = %d, want 10", got)
	}
}

func TestOverlapPairs(t *testing.T) {
	b := NewBox(0, 4)
	if err := b.Add(Placed{Rect: Rect{ID: 0, W: 3, H: 3}}, 1.0); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := b.Add(Placed{Rect: Rect{ID: 1, W: 3, H: 3}, X: 1, Y: 1}, 1.0); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := b.OverlapPairs(); got != 1 {
		t.Fatalf("overlap pairs = %d, want 1", got)
	}
}
