package store

import (
	"fmt"
	"time"

	"github.com/cwagner/boxpack/internal/pack"
)

// JobConfig holds the configuration of one packing job (checkpoint copy).
// Keeping a copy here avoids an import cycle with the server package.
type JobConfig struct {
	Algorithm string `json:"algorithm"`
	Mode      string `json:"mode"`

	Problem pack.ProblemConfig `json:"problem"`

	// MaxTicks bounds the run; 0 means run until convergence/stagnation.
	MaxTicks int `json:"maxTicks"`

	// MoveBudget caps candidate generation per tick (0 = default).
	MoveBudget int `json:"moveBudget,omitempty"`

	// CheckpointInterval saves a checkpoint every N seconds (0 = disabled).
	CheckpointInterval int `json:"checkpointInterval,omitempty"`
}

// Checkpoint is a saved packing state that can be resumed later.
//
// The checkpoint stores the full placement geometry of the current solution,
// which is everything needed to reconstruct it exactly: the problem's
// rectangle set is regenerated deterministically from the seeded config, and
// the boxes are replayed in sequence order. What is NOT saved is transient
// algorithm state (annealing temperature, overlap relaxation progress,
// random generator position), so a resumed run continues from the same
// solution but not the same trajectory. The score can only stay equal or
// improve from the checkpointed solution onward.
type Checkpoint struct {
	// JobID is the unique identifier of the packing job.
	JobID string `json:"jobId"`

	// Config holds the job configuration, checked for compatibility on
	// resume.
	Config JobConfig `json:"config"`

	// Tick is the tick count when the checkpoint was taken.
	Tick int `json:"tick"`

	// Score is the solution score at checkpoint time.
	Score pack.Score `json:"score"`

	// Boxes lists the placements per box, in box sequence order.
	Boxes [][]pack.Placed `json:"boxes"`

	// PermissibleOverlap preserves the overlap tolerance the solution was
	// saved under, non-zero only for overlap-mode intermediate states.
	PermissibleOverlap float64 `json:"permissibleOverlap,omitempty"`

	// Timestamp records when the checkpoint was created.
	Timestamp time.Time `json:"timestamp"`
}

// CheckpointInfo is checkpoint metadata without the placement data, used
// for listing without loading full solutions.
type CheckpointInfo struct {
	JobID     string     `json:"jobId"`
	Algorithm string     `json:"algorithm"`
	Mode      string     `json:"mode"`
	Rects     int        `json:"rects"`
	BoxSide   int        `json:"boxSide"`
	Tick      int        `json:"tick"`
	Score     pack.Score `json:"score"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewCheckpoint captures a checkpoint from a solution snapshot.
func NewCheckpoint(jobID string, config JobConfig, tick int, s *pack.Solution) *Checkpoint {
	boxes := make([][]pack.Placed, len(s.Boxes))
	for i, b := range s.Boxes {
		placements := make([]pack.Placed, 0, b.Len())
		for _, r := range s.Rects {
			if p, ok := b.Items[r.ID]; ok {
				placements = append(placements, p)
			}
		}
		boxes[i] = placements
	}
	return &Checkpoint{
		JobID:              jobID,
		Config:             config,
		Tick:               tick,
		Score:              s.Score(),
		Boxes:              boxes,
		PermissibleOverlap: s.PermissibleOverlap,
		Timestamp:          time.Now(),
	}
}

// ToInfo converts a full Checkpoint to its metadata.
func (c *Checkpoint) ToInfo() CheckpointInfo {
	return CheckpointInfo{
		JobID:     c.JobID,
		Algorithm: c.Config.Algorithm,
		Mode:      c.Config.Mode,
		Rects:     c.Config.Problem.RectCount,
		BoxSide:   c.Config.Problem.BoxSide,
		Tick:      c.Tick,
		Score:     c.Score,
		Timestamp: c.Timestamp,
	}
}

// RestoreSolution rebuilds the checkpointed solution. The rectangle set is
// regenerated from the seeded problem config and the saved placements are
// replayed box by box.
func (c *Checkpoint) RestoreSolution() (*pack.Solution, error) {
	p, err := pack.NewProblem(c.Config.Problem)
	if err != nil {
		return nil, fmt.Errorf("regenerate problem: %w", err)
	}
	s := pack.NewSolution(p.Side, p.Rects)
	s.PermissibleOverlap = c.PermissibleOverlap
	for i, placements := range c.Boxes {
		b := s.AppendBox()
		for _, placed := range placements {
			if err := s.Place(placed.ID, b.ID, placed.X, placed.Y, placed.Flipped); err != nil {
				return nil, fmt.Errorf("replay placement of rect %d into box %d: %w", placed.ID, i, err)
			}
		}
	}
	return s, nil
}

// Validate checks the checkpoint before it is saved or resumed.
func (c *Checkpoint) Validate() error {
	if c.JobID == "" {
		return &ValidationError{Field: "JobID", Reason: "cannot be empty"}
	}
	if c.Config.Algorithm == "" {
		return &ValidationError{Field: "Config.Algorithm", Reason: "cannot be empty"}
	}
	if c.Config.Mode == "" {
		return &ValidationError{Field: "Config.Mode", Reason: "cannot be empty"}
	}
	if err := c.Config.Problem.Validate(); err != nil {
		return &ValidationError{Field: "Config.Problem", Reason: err.Error()}
	}
	if c.Tick < 0 {
		return &ValidationError{Field: "Tick", Reason: "cannot be negative"}
	}
	if c.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	placed := 0
	for _, placements := range c.Boxes {
		placed += len(placements)
	}
	if placed > c.Config.Problem.RectCount {
		return &ValidationError{
			Field:  "Boxes",
			Reason: fmt.Sprintf("%d placements for %d rectangles", placed, c.Config.Problem.RectCount),
		}
	}
	return nil
}

// ValidationError represents a checkpoint validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// IsCompatible checks whether the checkpoint can be resumed under the given
// config. The problem must be identical or the saved placements would not
// match the regenerated rectangles; the algorithm must match because
// algorithm state machines are not interchangeable mid-run. The mode may
// differ, mode switching is supported at runtime.
func (c *Checkpoint) IsCompatible(config JobConfig) error {
	if c.Config.Problem != config.Problem {
		return &CompatibilityError{
			Field:    "Problem",
			Expected: fmt.Sprintf("%+v", c.Config.Problem),
			Actual:   fmt.Sprintf("%+v", config.Problem),
		}
	}
	if c.Config.Algorithm != config.Algorithm {
		return &CompatibilityError{
			Field:    "Algorithm",
			Expected: c.Config.Algorithm,
			Actual:   config.Algorithm,
		}
	}
	return nil
}

// CompatibilityError represents a checkpoint compatibility error.
type CompatibilityError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *CompatibilityError) Error() string {
	return "compatibility error: " + e.Field + " mismatch (expected " + e.Expected + ", got " + e.Actual + ")"
}
