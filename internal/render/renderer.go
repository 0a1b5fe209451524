// Package render draws contour sets and shows them in a window.
package render

import (
	"image"
	"image/color"

	"github.com/nowakf/colour-to-shape/internal/segment"
	"gocv.io/x/gocv"
)

// White is the outline colour.
var White = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Renderer draws contours onto a fresh canvas.
type Renderer struct {
	Color     color.RGBA
	Thickness int
}

// DefaultRenderer draws white, 1px, anti-aliased outlines.
func DefaultRenderer() Renderer {
	return Renderer{Color: White, Thickness: 1}
}

// Render returns a zeroed single-channel canvas of the given size with every
// contour outlined in sequence order. The caller owns the returned Mat.
func (r Renderer) Render(contours segment.ContourSet, size image.Point) gocv.Mat {
	canvas := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), size.Y, size.X, gocv.MatTypeCV8U)
	if len(contours) == 0 {
		return canvas
	}

	pv := gocv.NewPointsVectorFromPoints(contours)
	defer pv.Close()

	hierarchy := gocv.NewMat()
	defer hierarchy.Close()

	for i := range contours {
		gocv.DrawContoursWithParams(&canvas, pv, i, r.Color, r.Thickness, gocv.LineAA, hierarchy, 0, image.Point{})
	}
	return canvas
}
