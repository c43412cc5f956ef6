package search

import (
	"github.com/cwagner/boxpack/internal/pack"
)

// DefaultStagnationWindow is how many consecutive identical scores end a
// run early.
const DefaultStagnationWindow = 5

// StagnationTracker detects runs whose score has stopped moving. Update is
// fed the score after every tick and reports true once the same score has
// been observed for a full window of consecutive ticks.
type StagnationTracker struct {
	window int
	last   pack.Score
	count  int
}

// NewStagnationTracker creates a tracker; window <= 0 selects the default.
func NewStagnationTracker(window int) *StagnationTracker {
	if window <= 0 {
		window = DefaultStagnationWindow
	}
	return &StagnationTracker{window: window}
}

// Update records a tick's score and reports whether the run is stagnant.
func (t *StagnationTracker) Update(s pack.Score) bool {
	if t.count == 0 || !s.Equal(t.last) {
		t.last = s
		t.count = 1
		return t.window <= 1
	}
	t.count++
	return t.count >= t.window
}

// Reset clears the observation history, used after a mode switch.
func (t *StagnationTracker) Reset() {
	t.count = 0
}
