package main

import (
	"github.com/spf13/cobra"

	"github.com/cwagner/boxpack/internal/pack"
)

// problemFlags bundles the flags describing a generated problem instance,
// shared by the run, bench and tui commands.
type problemFlags struct {
	rects   int
	rectW   string
	rectH   string
	boxSide int
	seed    int64
}

func (f *problemFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.rects, "rects", 20, "Number of rectangles to generate")
	cmd.Flags().StringVar(&f.rectW, "rect-w", "1-5", "Rectangle width range (min-max, inclusive)")
	cmd.Flags().StringVar(&f.rectH, "rect-h", "1-5", "Rectangle height range (min-max, inclusive)")
	cmd.Flags().IntVar(&f.boxSide, "box-side", 10, "Side length of the square boxes")
	cmd.Flags().Int64Var(&f.seed, "seed", 42, "Random seed for problem generation")
}

func (f *problemFlags) config() (pack.ProblemConfig, error) {
	wMin, wMax, err := pack.ParseRange(f.rectW)
	if err != nil {
		return pack.ProblemConfig{}, err
	}
	hMin, hMax, err := pack.ParseRange(f.rectH)
	if err != nil {
		return pack.ProblemConfig{}, err
	}
	cfg := pack.ProblemConfig{
		RectCount: f.rects,
		WidthMin:  wMin,
		WidthMax:  wMax,
		HeightMin: hMin,
		HeightMax: hMax,
		BoxSide:   f.boxSide,
		Seed:      f.seed,
	}
	return cfg, cfg.Validate()
}
