package pack

import (
	"fmt"
	"math"
)

// Weight of a box-count difference relative to entropy and edge differences
// when collapsing a score comparison into a scalar annealing penalty.
const boxCountPenaltyWeight = 1000.0

// Score is the multi-component heuristic value of a solution.
//
// Scores compare lexicographically: overlap violations first (fewer is
// better), then box count ascending, then box entropy ascending, then
// incident edges descending. Valid is false while the solution still
// contains illegal overlaps; such scores are reported as "no valid score"
// rather than a number.
type Score struct {
	Valid         bool    `json:"valid"`
	BoxCount      int     `json:"boxCount"`
	Overlaps      int     `json:"overlaps,omitempty"`
	BoxEntropy    float64 `json:"boxEntropy"`
	IncidentEdges int     `json:"incidentEdges"`
}

// InvalidScore returns the score of a solution state that cannot be rated,
// e.g. after a candidate move failed to apply.
func InvalidScore() Score {
	return Score{Valid: false, Overlaps: -1}
}

// Less reports whether s is strictly better than o.
func (s Score) Less(o Score) bool {
	// An unratable score loses against everything.
	if s.Overlaps < 0 || o.Overlaps < 0 {
		return o.Overlaps < 0 && s.Overlaps >= 0
	}
	if s.Overlaps != o.Overlaps {
		return s.Overlaps < o.Overlaps
	}
	if s.BoxCount != o.BoxCount {
		return s.BoxCount < o.BoxCount
	}
	if s.BoxEntropy != o.BoxEntropy {
		return s.BoxEntropy < o.BoxEntropy
	}
	return s.IncidentEdges > o.IncidentEdges
}

// Equal reports whether two scores are component-wise identical.
func (s Score) Equal(o Score) bool {
	return s.Valid == o.Valid &&
		s.BoxCount == o.BoxCount &&
		s.Overlaps == o.Overlaps &&
		s.BoxEntropy == o.BoxEntropy &&
		s.IncidentEdges == o.IncidentEdges
}

// PenaltyTo collapses the difference between s and a candidate score into a
// scalar for the Metropolis acceptance rule. Positive values mean the
// candidate is worse. Box-count and overlap differences dominate entropy and
// edge differences by a fixed weight.
func (s Score) PenaltyTo(candidate Score) float64 {
	if candidate.Overlaps < 0 {
		return math.Inf(1)
	}
	penalty := boxCountPenaltyWeight * float64(candidate.BoxCount-s.BoxCount)
	penalty += boxCountPenaltyWeight * float64(candidate.Overlaps-s.Overlaps)
	penalty += candidate.BoxEntropy - s.BoxEntropy
	penalty += float64(s.IncidentEdges - candidate.IncidentEdges)
	return penalty
}

// BoxCountString renders the primary objective for report tables, using
// "no valid score" for solutions that never became overlap-free.
func (s Score) BoxCountString() string {
	if !s.Valid {
		return "no valid score"
	}
	return fmt.Sprintf("%d", s.BoxCount)
}

func (s Score) String() string {
	if !s.Valid {
		if s.Overlaps > 0 {
			return fmt.Sprintf("no valid score (%d overlapping pairs)", s.Overlaps)
		}
		return "no valid score"
	}
	return fmt.Sprintf("%d boxes (entropy %.3f, edges %d)", s.BoxCount, s.BoxEntropy, s.IncidentEdges)
}
