package pack

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNoSuchBox is returned when an operation references a box that is not
// part of the solution.
var ErrNoSuchBox = errors.New("no such box")

// Solution is the mutable packing state: the boxes in use (in creation
// order) and the placement of every rectangle. Rectangles without a
// placement are "unplaced", which only occurs during greedy construction.
//
// A Solution is exclusively owned by the algorithm driving it. Rendering
// collaborators must work on a Snapshot.
type Solution struct {
	Side  int
	Rects []Rect
	Boxes []*Box

	// PermissibleOverlap is the fraction of overlap currently tolerated
	// between two rectangles. Zero outside the overlap neighborhood.
	PermissibleOverlap float64

	loc       map[int]int // rect ID -> box ID
	nextBoxID int
}

// NewSolution creates a solution with no boxes and every rectangle
// unplaced.
func NewSolution(side int, rects []Rect) *Solution {
	return &Solution{
		Side:  side,
		Rects: rects,
		loc:   make(map[int]int, len(rects)),
	}
}

// BoxIndex returns the position of a box in the box sequence, -1 if absent.
func (s *Solution) BoxIndex(boxID int) int {
	for i, b := range s.Boxes {
		if b.ID == boxID {
			return i
		}
	}
	return -1
}

// BoxByID returns the box with the given identity, nil if absent.
func (s *Solution) BoxByID(boxID int) *Box {
	if i := s.BoxIndex(boxID); i >= 0 {
		return s.Boxes[i]
	}
	return nil
}

// AppendBox opens a new empty box at the end of the box sequence.
func (s *Solution) AppendBox() *Box {
	b := NewBox(s.nextBoxID, s.Side)
	s.nextBoxID++
	s.Boxes = append(s.Boxes, b)
	return b
}

// RemoveBox takes an empty box out of the sequence and returns its former
// index so the caller can restore ordering on undo.
func (s *Solution) RemoveBox(boxID int) (int, error) {
	i := s.BoxIndex(boxID)
	if i < 0 {
		return 0, ErrNoSuchBox
	}
	if s.Boxes[i].Len() != 0 {
		return 0, fmt.Errorf("box %d not empty", boxID)
	}
	s.Boxes = append(s.Boxes[:i], s.Boxes[i+1:]...)
	return i, nil
}

// InsertBox puts a box back at a given index, used to undo RemoveBox.
func (s *Solution) InsertBox(b *Box, index int) {
	if index < 0 || index > len(s.Boxes) {
		index = len(s.Boxes)
	}
	s.Boxes = append(s.Boxes, nil)
	copy(s.Boxes[index+1:], s.Boxes[index:])
	s.Boxes[index] = b
}

// UndoAppendBox reverts an AppendBox of a still-empty box, releasing its
// identity so a later append reuses the same ID.
func (s *Solution) UndoAppendBox(boxID int) error {
	if _, err := s.RemoveBox(boxID); err != nil {
		return err
	}
	if boxID == s.nextBoxID-1 {
		s.nextBoxID--
	}
	return nil
}

// Place assigns an unplaced rectangle to a position in an existing box.
func (s *Solution) Place(rectID, boxID, x, y int, flipped bool) error {
	if _, placed := s.loc[rectID]; placed {
		return fmt.Errorf("rectangle %d already placed", rectID)
	}
	if rectID < 0 || rectID >= len(s.Rects) {
		return fmt.Errorf("unknown rectangle %d", rectID)
	}
	b := s.BoxByID(boxID)
	if b == nil {
		return ErrNoSuchBox
	}
	p := Placed{Rect: s.Rects[rectID], X: x, Y: y, Flipped: flipped}
	if err := b.Add(p, s.PermissibleOverlap); err != nil {
		return err
	}
	s.loc[rectID] = boxID
	return nil
}

// Remove takes a rectangle out of its box and returns the placement it had.
func (s *Solution) Remove(rectID int) (Placed, int, error) {
	boxID, ok := s.loc[rectID]
	if !ok {
		return Placed{}, 0, ErrNotPlaced
	}
	b := s.BoxByID(boxID)
	if b == nil {
		return Placed{}, 0, ErrNoSuchBox
	}
	p, err := b.Remove(rectID)
	if err != nil {
		return Placed{}, 0, err
	}
	delete(s.loc, rectID)
	return p, boxID, nil
}

// Location returns the box and placement of a rectangle.
func (s *Solution) Location(rectID int) (boxID int, p Placed, ok bool) {
	boxID, ok = s.loc[rectID]
	if !ok {
		return 0, Placed{}, false
	}
	b := s.BoxByID(boxID)
	if b == nil {
		return 0, Placed{}, false
	}
	p, ok = b.Items[rectID]
	return boxID, p, ok
}

// Unplaced returns the IDs of rectangles without a placement, ascending.
func (s *Solution) Unplaced() []int {
	var ids []int
	for _, r := range s.Rects {
		if _, ok := s.loc[r.ID]; !ok {
			ids = append(ids, r.ID)
		}
	}
	sort.Ints(ids)
	return ids
}

// PlacedCount returns the number of placed rectangles.
func (s *Solution) PlacedCount() int {
	return len(s.loc)
}

// OverlapPairs counts rectangle pairs sharing area across all boxes,
// regardless of the currently permissible overlap.
func (s *Solution) OverlapPairs() int {
	pairs := 0
	for _, b := range s.Boxes {
		pairs += b.OverlapPairs()
	}
	return pairs
}

// BoxEntropy is the Shannon entropy of the per-box rectangle-count
// distribution. Lower values indicate more uniformly filled boxes.
func (s *Solution) BoxEntropy() float64 {
	total := 0
	for _, b := range s.Boxes {
		total += b.Len()
	}
	if total == 0 {
		return 0
	}
	entropy := 0.0
	for _, b := range s.Boxes {
		if b.Len() == 0 {
			continue
		}
		p := float64(b.Len()) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// IncidentEdges sums the adjacency contacts of all boxes.
func (s *Solution) IncidentEdges() int {
	edges := 0
	for _, b := range s.Boxes {
		edges += b.IncidentEdges()
	}
	return edges
}

// IsValid reports strict packing validity: every placement within bounds
// and no two rectangles in the same box sharing any area.
func (s *Solution) IsValid() bool {
	for _, b := range s.Boxes {
		for _, p := range b.Items {
			if !b.InBounds(p) {
				return false
			}
		}
		if b.OverlapPairs() > 0 {
			return false
		}
	}
	return true
}

// Score computes the current heuristic score from scratch. Solutions that
// still contain illegal overlaps yield an invalid (non-numeric) score that
// carries the overlap count for comparisons.
func (s *Solution) Score() Score {
	overlaps := s.OverlapPairs()
	return Score{
		Valid:         overlaps == 0,
		BoxCount:      len(s.Boxes),
		Overlaps:      overlaps,
		BoxEntropy:    s.BoxEntropy(),
		IncidentEdges: s.IncidentEdges(),
	}
}

// Snapshot returns a deep copy of the solution for read-only consumers
// such as renderers. The copy shares nothing with the original.
func (s *Solution) Snapshot() *Solution {
	c := &Solution{
		Side:               s.Side,
		Rects:              append([]Rect(nil), s.Rects...),
		Boxes:              make([]*Box, len(s.Boxes)),
		PermissibleOverlap: s.PermissibleOverlap,
		loc:                make(map[int]int, len(s.loc)),
		nextBoxID:          s.nextBoxID,
	}
	for i, b := range s.Boxes {
		c.Boxes[i] = b.Clone()
	}
	for id, boxID := range s.loc {
		c.loc[id] = boxID
	}
	return c
}
