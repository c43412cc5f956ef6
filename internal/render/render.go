// Package render draws packing solutions as raster images.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/cwagner/boxpack/internal/pack"
)

const (
	scale   = 24 // pixels per unit cell
	padding = 8  // pixels between boxes
)

// palette holds distinguishable fill colors, indexed by rect ID modulo its
// length.
var palette = []color.NRGBA{
	{66, 133, 244, 255},
	{219, 68, 55, 255},
	{244, 180, 0, 255},
	{15, 157, 88, 255},
	{171, 71, 188, 255},
	{0, 172, 193, 255},
	{255, 112, 67, 255},
	{158, 157, 36, 255},
	{92, 107, 192, 255},
	{240, 98, 146, 255},
}

// Solution draws all boxes of a solution into a single image, laid out on a
// near-square grid. Each rectangle is filled with a color derived from its
// identity so it can be followed across ticks.
func Solution(s *pack.Solution) *image.NRGBA {
	boxes := len(s.Boxes)
	if boxes == 0 {
		boxes = 1
	}
	cols := int(math.Ceil(math.Sqrt(float64(boxes))))
	rows := (boxes + cols - 1) / cols

	cell := s.Side * scale
	width := cols*cell + (cols+1)*padding
	height := rows*cell + (rows+1)*padding

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	fillRect(img, img.Bounds(), color.NRGBA{245, 245, 245, 255})

	for i, b := range s.Boxes {
		col := i % cols
		row := i / cols
		ox := padding + col*(cell+padding)
		oy := padding + row*(cell+padding)

		boxBounds := image.Rect(ox, oy, ox+cell, oy+cell)
		fillRect(img, boxBounds, color.NRGBA{255, 255, 255, 255})
		strokeRect(img, boxBounds, color.NRGBA{60, 60, 60, 255})

		for _, p := range b.Items {
			fill := palette[p.ID%len(palette)]
			r := image.Rect(
				ox+p.X*scale,
				oy+p.Y*scale,
				ox+(p.X+p.Width())*scale,
				oy+(p.Y+p.Height())*scale,
			)
			fillRect(img, r.Intersect(boxBounds), fill)
			strokeRect(img, r.Intersect(boxBounds), color.NRGBA{30, 30, 30, 255})
		}
	}

	return img
}

// fillRect fills a rectangle of the image with a solid color.
func fillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// strokeRect draws a one pixel border along the rectangle's edges.
func strokeRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetNRGBA(x, r.Min.Y, c)
		img.SetNRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetNRGBA(r.Min.X, y, c)
		img.SetNRGBA(r.Max.X-1, y, c)
	}
}
