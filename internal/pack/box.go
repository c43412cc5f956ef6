package pack

import (
	"errors"
	"sort"
)

// ErrDoesNotFit is returned when a placement would leave the box bounds or
// overlap another rectangle beyond the permissible fraction.
var ErrDoesNotFit = errors.New("rectangle does not fit")

// ErrNotPlaced is returned when an operation references a rectangle that is
// not present where the caller expects it.
var ErrNotPlaced = errors.New("rectangle not placed here")

// FreeRect is a maximal free rectangle inside a box.
type FreeRect struct {
	X, Y, W, H int
}

// Area returns the area of the free region.
func (f FreeRect) Area() int {
	return f.W * f.H
}

// Box is one fixed-size square container holding placed rectangles.
type Box struct {
	ID    int
	Side  int
	Items map[int]Placed

	free      []FreeRect
	freeDirty bool
}

// NewBox creates an empty box with the given identity and side length.
func NewBox(id, side int) *Box {
	return &Box{
		ID:        id,
		Side:      side,
		Items:     make(map[int]Placed),
		freeDirty: true,
	}
}

// Len returns the number of rectangles in the box.
func (b *Box) Len() int {
	return len(b.Items)
}

// InBounds reports whether a placement lies fully within the box.
func (b *Box) InBounds(p Placed) bool {
	return p.X >= 0 && p.Y >= 0 && p.X+p.Width() <= b.Side && p.Y+p.Height() <= b.Side
}

// Add places a rectangle into the box. It fails with ErrDoesNotFit if the
// placement leaves the box bounds or overlaps an existing rectangle beyond
// the permissible fraction.
func (b *Box) Add(p Placed, permissible float64) error {
	if !b.InBounds(p) {
		return ErrDoesNotFit
	}
	for _, other := range b.Items {
		if p.Overlaps(other, permissible) {
			return ErrDoesNotFit
		}
	}
	b.Items[p.ID] = p
	b.freeDirty = true
	return nil
}

// Remove takes a rectangle out of the box and returns its placement.
func (b *Box) Remove(rectID int) (Placed, error) {
	p, ok := b.Items[rectID]
	if !ok {
		return Placed{}, ErrNotPlaced
	}
	delete(b.Items, rectID)
	b.freeDirty = true
	return p, nil
}

// FreeRects returns the maximal free rectangles of the box, recomputing them
// only when the contents changed since the last call. The result is sorted
// by (y, x) so callers scanning for the "first" fit get a stable order.
func (b *Box) FreeRects() []FreeRect {
	if b.freeDirty {
		b.recomputeFree()
		b.freeDirty = false
	}
	return b.free
}

// recomputeFree rebuilds the maximal free rectangle list by carving every
// placed rectangle out of the full box area.
func (b *Box) recomputeFree() {
	free := []FreeRect{{0, 0, b.Side, b.Side}}
	for _, p := range b.Items {
		free = splitAroundPlacement(free, p)
	}
	sort.Slice(free, func(i, j int) bool {
		if free[i].Y != free[j].Y {
			return free[i].Y < free[j].Y
		}
		return free[i].X < free[j].X
	})
	b.free = free
}

// splitAroundPlacement removes the placed area from every overlapping free
// rectangle, generating up to four maximal strips per overlap, then prunes
// rectangles contained in others.
func splitAroundPlacement(free []FreeRect, p Placed) []FreeRect {
	px, py, pw, ph := p.X, p.Y, p.Width(), p.Height()
	var next []FreeRect
	for _, f := range free {
		if px >= f.X+f.W || px+pw <= f.X || py >= f.Y+f.H || py+ph <= f.Y {
			next = append(next, f)
			continue
		}
		if px > f.X {
			next = append(next, FreeRect{f.X, f.Y, px - f.X, f.H})
		}
		if px+pw < f.X+f.W {
			next = append(next, FreeRect{px + pw, f.Y, f.X + f.W - (px + pw), f.H})
		}
		if py > f.Y {
			next = append(next, FreeRect{f.X, f.Y, f.W, py - f.Y})
		}
		if py+ph < f.Y+f.H {
			next = append(next, FreeRect{f.X, py + ph, f.W, f.Y + f.H - (py + ph)})
		}
	}
	return pruneContained(next)
}

// pruneContained drops free rectangles fully contained within another.
// Exact duplicates keep their first occurrence.
func pruneContained(rects []FreeRect) []FreeRect {
	kept := make([]FreeRect, 0, len(rects))
	for i, a := range rects {
		contained := false
		for j, b := range rects {
			if i == j {
				continue
			}
			if b.X <= a.X && b.Y <= a.Y && b.X+b.W >= a.X+a.W && b.Y+b.H >= a.Y+a.H && (b != a || j < i) {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}

// FindFit returns the first position where a rectangle of the given size
// fits, scanning free regions top-to-bottom, left-to-right and trying the
// rotated orientation when the upright one fails. Returns ok=false when
// nothing fits anywhere in the box.
func (b *Box) FindFit(w, h int) (x, y int, flipped bool, ok bool) {
	for _, f := range b.FreeRects() {
		if w <= f.W && h <= f.H {
			return f.X, f.Y, false, true
		}
		if w != h && h <= f.W && w <= f.H {
			return f.X, f.Y, true, true
		}
	}
	return 0, 0, false, false
}

// LargestFree returns the biggest free rectangle of the box and whether the
// box has any free space at all.
func (b *Box) LargestFree() (FreeRect, bool) {
	var best FreeRect
	found := false
	for _, f := range b.FreeRects() {
		if !found || f.Area() > best.Area() {
			best = f
			found = true
		}
	}
	return best, found
}

// OverlapPairs counts rectangle pairs in the box that share area, ignoring
// the currently permissible fraction. A strictly valid box has zero.
func (b *Box) OverlapPairs() int {
	items := b.sortedItems()
	pairs := 0
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if items[i].OverlapArea(items[j]) > 0 {
				pairs++
			}
		}
	}
	return pairs
}

// IncidentEdges measures packing tightness: the summed contact length
// between touching rectangle pairs plus the lengths of rectangle edges
// lying on the box border.
func (b *Box) IncidentEdges() int {
	items := b.sortedItems()
	edges := 0
	for _, p := range items {
		if p.X == 0 || p.X+p.Width() == b.Side {
			edges += p.Height()
		}
		if p.Y == 0 || p.Y+p.Height() == b.Side {
			edges += p.Width()
		}
	}
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			edges += items[i].ContactLength(items[j])
		}
	}
	return edges
}

// Clone returns a deep copy of the box.
func (b *Box) Clone() *Box {
	c := NewBox(b.ID, b.Side)
	for id, p := range b.Items {
		c.Items[id] = p
	}
	return c
}

// sortedItems returns the placements ordered by rectangle ID for
// deterministic iteration.
func (b *Box) sortedItems() []Placed {
	items := make([]Placed, 0, len(b.Items))
	for _, p := range b.Items {
		items = append(items, p)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}
