package segment

import (
	"image"

	"gocv.io/x/gocv"
)

// ContourSet holds the outline polylines of a binary mask in extraction order.
type ContourSet [][]image.Point

// Otsu binarizes src into dst with an automatically chosen threshold and
// returns that threshold.
func Otsu(src gocv.Mat, dst *gocv.Mat) float32 {
	return gocv.Threshold(src, dst, 0, 255, gocv.ThresholdBinary+gocv.ThresholdOtsu)
}

// FindContours returns every contour in binary, with no hierarchy, keeping
// only the vertices needed to describe each polyline.
func FindContours(binary gocv.Mat) ContourSet {
	pv := gocv.FindContours(binary, gocv.RetrievalList, gocv.ChainApproxSimple)
	defer pv.Close()

	if pv.Size() == 0 {
		return nil
	}
	return ContourSet(pv.ToPoints())
}

// Vertices returns the total number of points across all contours.
func (c ContourSet) Vertices() int {
	n := 0
	for _, pts := range c {
		n += len(pts)
	}
	return n
}
