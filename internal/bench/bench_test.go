package bench

import (
	"context"
	"strings"
	"testing"

	"github.com/cwagner/boxpack/internal/pack"
	"github.com/cwagner/boxpack/internal/search"
)

func benchConfig() Config {
	return Config{
		Problem: pack.ProblemConfig{
			RectCount: 8,
			WidthMin:  1, WidthMax: 3,
			HeightMin: 1, HeightMax: 3,
			BoxSide: 5,
			Seed:    11,
		},
		MaxTicks:   50,
		MoveBudget: 200,
	}
}

func TestRunCoversFullGrid(t *testing.T) {
	cfg := benchConfig()
	results, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := 0
	for _, algo := range search.Algorithms() {
		want += len(search.ModesFor(algo))
	}
	if len(results) != want {
		t.Fatalf("result rows = %d, want %d", len(results), want)
	}

	seen := make(map[string]bool)
	for _, r := range results {
		key := r.Algorithm + "/" + r.Mode
		if seen[key] {
			t.Fatalf("duplicate combination %s", key)
		}
		seen[key] = true
		if r.Ticks == 0 {
			t.Errorf("%s ran zero ticks", key)
		}
		if r.Outcome == search.OutcomeRunning {
			t.Errorf("%s still reported running", key)
		}
	}
}

func TestRunRestrictedAlgorithms(t *testing.T) {
	cfg := benchConfig()
	cfg.Algorithms = []string{search.AlgoGreedy}
	results, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != len(search.ModesFor(search.AlgoGreedy)) {
		t.Fatalf("result rows = %d, want greedy modes only", len(results))
	}
	for _, r := range results {
		if !r.Score.Valid {
			t.Errorf("greedy %s produced invalid score %v", r.Mode, r.Score)
		}
	}
}

func TestRunIsReproducible(t *testing.T) {
	cfg := benchConfig()
	cfg.Algorithms = []string{search.AlgoGreedy, search.AlgoLocal}

	first, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("row counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Score.Equal(second[i].Score) {
			t.Errorf("%s/%s scores differ across runs: %v vs %v",
				first[i].Algorithm, first[i].Mode, first[i].Score, second[i].Score)
		}
	}
}

func TestReportRendering(t *testing.T) {
	results := []Result{
		{Algorithm: "greedy", Mode: "byarea", Ticks: 8, Outcome: search.OutcomeConverged,
			Score: pack.Score{Valid: true, BoxCount: 3, BoxEntropy: 1.2, IncidentEdges: 20}},
		{Algorithm: "localsearch", Mode: "geometric-overlap", Ticks: 50, Outcome: search.OutcomeNoValidScore,
			Score: pack.Score{BoxCount: 4, Overlaps: 2}},
	}
	out := Report(results)

	for _, want := range []string{"ALGORITHM", "MODE", "ELAPSED (S)", "BOXES", "greedy", "byarea", "no valid score"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
