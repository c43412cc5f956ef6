package pack

// Rect describes one rectangle of the packing problem.
// It is immutable once the problem has been generated.
type Rect struct {
	ID int `json:"id"`
	W  int `json:"w"`
	H  int `json:"h"`
}

// Area returns the number of unit cells the rectangle covers.
func (r Rect) Area() int {
	return r.W * r.H
}

// Placed is a rectangle with a concrete position inside a box.
// Flipped means the rectangle is rotated by 90 degrees, swapping
// its effective width and height.
type Placed struct {
	Rect
	X       int  `json:"x"`
	Y       int  `json:"y"`
	Flipped bool `json:"flipped,omitempty"`
}

// Width returns the effective width, accounting for rotation.
func (p Placed) Width() int {
	if p.Flipped {
		return p.H
	}
	return p.W
}

// Height returns the effective height, accounting for rotation.
func (p Placed) Height() int {
	if p.Flipped {
		return p.W
	}
	return p.H
}

// OverlapArea returns the area shared by two placements, 0 if they
// merely touch or are disjoint.
func (p Placed) OverlapArea(o Placed) int {
	dx := min(p.X+p.Width(), o.X+o.Width()) - max(p.X, o.X)
	dy := min(p.Y+p.Height(), o.Y+o.Height()) - max(p.Y, o.Y)
	if dx <= 0 || dy <= 0 {
		return 0
	}
	return dx * dy
}

// Overlaps reports whether two placements overlap beyond the permissible
// fraction. With permissible == 0 any shared area counts; otherwise the
// shared area is compared against the combined area of both rectangles.
func (p Placed) Overlaps(o Placed, permissible float64) bool {
	if p.ID == o.ID {
		return false
	}
	area := p.OverlapArea(o)
	if permissible == 0 {
		return area > 0
	}
	return float64(area)/float64(p.Area()+o.Area()) > permissible
}

// ContactLength returns the length of the shared border between two
// placements that touch edge-to-edge without overlapping.
func (p Placed) ContactLength(o Placed) int {
	// Vertical contact: p's right edge against o's left edge or vice versa.
	if p.X+p.Width() == o.X || o.X+o.Width() == p.X {
		return max(0, min(p.Y+p.Height(), o.Y+o.Height())-max(p.Y, o.Y))
	}
	// Horizontal contact: bottom edge against top edge.
	if p.Y+p.Height() == o.Y || o.Y+o.Height() == p.Y {
		return max(0, min(p.X+p.Width(), o.X+o.Width())-max(p.X, o.X))
	}
	return 0
}
