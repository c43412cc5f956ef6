package search

import (
	"errors"
	"fmt"

	"github.com/cwagner/boxpack/internal/pack"
)

// ErrStaleMove indicates a move no longer matches the solution it was
// generated for. This is a mode/solution desynchronization bug and must be
// treated as fatal by callers, never swallowed.
var ErrStaleMove = errors.New("stale move")

// Move is a reversible, minimal delta between two solution states. Applying
// a move and then undoing it must reproduce the prior solution exactly,
// including the box sequence. A move that cannot be applied because the
// target position is occupied fails with pack.ErrDoesNotFit and leaves the
// solution untouched; any other failure wraps ErrStaleMove.
type Move interface {
	Apply(s *pack.Solution) error
	Undo(s *pack.Solution) error
}

// ScoredMove pairs a candidate move with the score the solution would have
// after applying it.
type ScoredMove struct {
	Move  Move
	Score pack.Score
}

// EvaluateMove applies a move, scores the resulting solution and undoes the
// move again. A move that does not fit yields an invalid score and a nil
// error; stale moves and undo failures are returned as errors.
func EvaluateMove(s *pack.Solution, m Move) (pack.Score, error) {
	if err := m.Apply(s); err != nil {
		if errors.Is(err, pack.ErrDoesNotFit) {
			return pack.InvalidScore(), nil
		}
		return pack.InvalidScore(), err
	}
	score := s.Score()
	if err := m.Undo(s); err != nil {
		return pack.InvalidScore(), fmt.Errorf("undo after scoring: %w", err)
	}
	return score, nil
}

func stale(err error) error {
	return fmt.Errorf("%w: %v", ErrStaleMove, err)
}

// PlaceMove puts an unplaced rectangle into a box during greedy
// construction. With NewBox set, a fresh box is opened for it.
type PlaceMove struct {
	RectID int
	BoxID  int
	X, Y   int
	Flip   bool
	NewBox bool

	createdBoxID int
	applied      bool
}

func (m *PlaceMove) Apply(s *pack.Solution) error {
	boxID := m.BoxID
	if m.NewBox {
		b := s.AppendBox()
		m.createdBoxID = b.ID
		boxID = b.ID
	}
	if err := s.Place(m.RectID, boxID, m.X, m.Y, m.Flip); err != nil {
		if m.NewBox {
			// Roll the box creation back so a failed placement has no trace.
			if uerr := s.UndoAppendBox(m.createdBoxID); uerr != nil {
				return stale(uerr)
			}
		}
		if errors.Is(err, pack.ErrDoesNotFit) {
			return err
		}
		return stale(err)
	}
	m.applied = true
	return nil
}

func (m *PlaceMove) Undo(s *pack.Solution) error {
	if !m.applied {
		return stale(errors.New("undo before apply"))
	}
	if _, _, err := s.Remove(m.RectID); err != nil {
		return stale(err)
	}
	if m.NewBox {
		if err := s.UndoAppendBox(m.createdBoxID); err != nil {
			return stale(err)
		}
	}
	m.applied = false
	return nil
}

// RelocateMove moves one placed rectangle to a different position, possibly
// into another or a newly opened box. Flip toggles the rectangle's rotation
// relative to its current orientation. Emptied source boxes are removed
// from the sequence; undo restores them at their former index.
type RelocateMove struct {
	RectID   int
	ToBoxID  int
	X, Y     int
	Flip     bool
	ToNewBox bool

	prev         pack.Placed
	fromBoxID    int
	createdBoxID int
	removedBox   *pack.Box
	removedIdx   int
	applied      bool
}

func (m *RelocateMove) Apply(s *pack.Solution) error {
	prev, fromBoxID, err := s.Remove(m.RectID)
	if err != nil {
		return stale(err)
	}
	m.prev = prev
	m.fromBoxID = fromBoxID
	m.removedBox = nil

	toBoxID := m.ToBoxID
	if m.ToNewBox {
		b := s.AppendBox()
		m.createdBoxID = b.ID
		toBoxID = b.ID
	}

	flipped := prev.Flipped != m.Flip
	if err := s.Place(m.RectID, toBoxID, m.X, m.Y, flipped); err != nil {
		// Put everything back before reporting.
		if m.ToNewBox {
			if uerr := s.UndoAppendBox(m.createdBoxID); uerr != nil {
				return stale(uerr)
			}
		}
		if uerr := s.Place(m.RectID, fromBoxID, prev.X, prev.Y, prev.Flipped); uerr != nil {
			return stale(uerr)
		}
		if errors.Is(err, pack.ErrDoesNotFit) {
			return err
		}
		return stale(err)
	}

	// Drop the source box if the move emptied it.
	if fromBoxID != toBoxID {
		if from := s.BoxByID(fromBoxID); from != nil && from.Len() == 0 {
			idx, err := s.RemoveBox(fromBoxID)
			if err != nil {
				return stale(err)
			}
			m.removedBox = from
			m.removedIdx = idx
		}
	}
	m.applied = true
	return nil
}

func (m *RelocateMove) Undo(s *pack.Solution) error {
	if !m.applied {
		return stale(errors.New("undo before apply"))
	}
	if _, _, err := s.Remove(m.RectID); err != nil {
		return stale(err)
	}
	if m.ToNewBox {
		if err := s.UndoAppendBox(m.createdBoxID); err != nil {
			return stale(err)
		}
	}
	if m.removedBox != nil {
		s.InsertBox(m.removedBox, m.removedIdx)
	}
	if err := s.Place(m.RectID, m.fromBoxID, m.prev.X, m.prev.Y, m.prev.Flipped); err != nil {
		return stale(err)
	}
	m.applied = false
	return nil
}

// SwapMove exchanges the box and position assignments of two rectangles.
// FlipA and FlipB give the absolute orientation each rectangle takes at its
// new position. The swap is only a valid candidate if both placements stay
// overlap-free.
type SwapMove struct {
	RectA, RectB int
	FlipA, FlipB bool

	prevA, prevB pack.Placed
	boxA, boxB   int
	applied      bool
}

func (m *SwapMove) Apply(s *pack.Solution) error {
	if m.RectA == m.RectB {
		return stale(errors.New("swap of a rectangle with itself"))
	}
	prevA, boxA, err := s.Remove(m.RectA)
	if err != nil {
		return stale(err)
	}
	prevB, boxB, err := s.Remove(m.RectB)
	if err != nil {
		// First removal must be restored to keep the solution intact.
		if uerr := s.Place(m.RectA, boxA, prevA.X, prevA.Y, prevA.Flipped); uerr != nil {
			return stale(uerr)
		}
		return stale(err)
	}
	m.prevA, m.boxA = prevA, boxA
	m.prevB, m.boxB = prevB, boxB

	if err := s.Place(m.RectA, boxB, prevB.X, prevB.Y, m.FlipA); err != nil {
		m.restore(s)
		if errors.Is(err, pack.ErrDoesNotFit) {
			return err
		}
		return stale(err)
	}
	if err := s.Place(m.RectB, boxA, prevA.X, prevA.Y, m.FlipB); err != nil {
		if _, _, uerr := s.Remove(m.RectA); uerr != nil {
			return stale(uerr)
		}
		m.restore(s)
		if errors.Is(err, pack.ErrDoesNotFit) {
			return err
		}
		return stale(err)
	}
	m.applied = true
	return nil
}

// restore puts both rectangles back at their recorded placements. Only
// valid while neither is currently placed.
func (m *SwapMove) restore(s *pack.Solution) {
	// These placements were legal before, so failures here are unreachable
	// short of memory corruption.
	if err := s.Place(m.RectA, m.boxA, m.prevA.X, m.prevA.Y, m.prevA.Flipped); err != nil {
		panic(err)
	}
	if err := s.Place(m.RectB, m.boxB, m.prevB.X, m.prevB.Y, m.prevB.Flipped); err != nil {
		panic(err)
	}
}

func (m *SwapMove) Undo(s *pack.Solution) error {
	if !m.applied {
		return stale(errors.New("undo before apply"))
	}
	if _, _, err := s.Remove(m.RectA); err != nil {
		return stale(err)
	}
	if _, _, err := s.Remove(m.RectB); err != nil {
		return stale(err)
	}
	m.restore(s)
	m.applied = false
	return nil
}
