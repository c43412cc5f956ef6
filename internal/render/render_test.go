package render

import (
	"image/color"
	"testing"

	"github.com/cwagner/boxpack/internal/pack"
)

func TestSolution_EmptySolutionStillRenders(t *testing.T) {
	s := pack.NewSolution(4, nil)
	img := Solution(s)

	wantSide := 4*scale + 2*padding
	bounds := img.Bounds()
	if bounds.Dx() != wantSide || bounds.Dy() != wantSide {
		t.Errorf("image size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), wantSide, wantSide)
	}
}

func TestSolution_DrawsPlacedRects(t *testing.T) {
	rects := []pack.Rect{{ID: 0, W: 2, H: 2}}
	s := pack.NewSolution(4, rects)
	b := s.AppendBox()
	if err := s.Place(0, b.ID, 0, 0, false); err != nil {
		t.Fatalf("place: %v", err)
	}

	img := Solution(s)

	// Center of the placed rect must carry its palette color.
	cx := padding + scale
	cy := padding + scale
	got := img.NRGBAAt(cx, cy)
	want := palette[0]
	if got != want {
		t.Errorf("pixel at rect center = %v, want %v", got, want)
	}

	// A cell outside the placement stays the box background.
	bx := padding + 3*scale + scale/2
	by := padding + 3*scale + scale/2
	if got := img.NRGBAAt(bx, by); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("empty cell pixel = %v, want white", got)
	}
}

func TestSolution_GridLayoutForManyBoxes(t *testing.T) {
	rects := []pack.Rect{
		{ID: 0, W: 1, H: 1}, {ID: 1, W: 1, H: 1},
		{ID: 2, W: 1, H: 1}, {ID: 3, W: 1, H: 1},
		{ID: 4, W: 1, H: 1},
	}
	s := pack.NewSolution(2, rects)
	for _, r := range rects {
		b := s.AppendBox()
		if err := s.Place(r.ID, b.ID, 0, 0, false); err != nil {
			t.Fatalf("place: %v", err)
		}
	}

	// Five boxes lay out on a 3x2 grid.
	img := Solution(s)
	cell := 2 * scale
	wantW := 3*cell + 4*padding
	wantH := 2*cell + 3*padding
	bounds := img.Bounds()
	if bounds.Dx() != wantW || bounds.Dy() != wantH {
		t.Errorf("image size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), wantW, wantH)
	}
}
