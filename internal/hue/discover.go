package hue

import (
	"image"
	"sort"

	"github.com/chewxy/math32"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// Discoverer produces the ordered candidate hues from a sample frame.
type Discoverer interface {
	DiscoverHues(sample image.Image) ([]uint8, error)
}

// FixedHues returns Count evenly spaced hues starting at 0, ignoring the sample.
type FixedHues struct {
	Count int
	Step  uint8
}

// DefaultFixedHues is 0, 10, 20, ..., 240.
func DefaultFixedHues() FixedHues {
	return FixedHues{Count: 25, Step: 10}
}

// DiscoverHues implements Discoverer.
func (f FixedHues) DiscoverHues(image.Image) ([]uint8, error) {
	if f.Count <= 0 {
		return nil, ErrNoHues
	}
	hues := make([]uint8, f.Count)
	for i := range hues {
		hues[i] = uint8(i * int(f.Step))
	}
	return hues, nil
}

// KMeans clusters the chromatic pixels of a sample by hue.
type KMeans struct {
	K             int
	Iterations    int
	SampleWidth   uint
	MinSaturation uint8
	MinValue      uint8
}

// DefaultKMeans returns a KMeans discoverer with k clusters.
func DefaultKMeans(k int) KMeans {
	return KMeans{
		K:             k,
		Iterations:    20,
		SampleWidth:   160,
		MinSaturation: 64,
		MinValue:      48,
	}
}

// DiscoverHues implements Discoverer. Cluster centres are returned sorted
// ascending; clusters that end up empty are dropped.
func (k KMeans) DiscoverHues(sample image.Image) ([]uint8, error) {
	if sample == nil {
		return nil, errors.New("kmeans: nil sample")
	}
	if k.K <= 0 {
		return nil, errors.Errorf("kmeans: invalid cluster count %d", k.K)
	}

	b := sample.Bounds()
	if k.SampleWidth > 0 && uint(b.Dx()) > k.SampleWidth {
		sample = resize.Resize(k.SampleWidth, 0, sample, resize.Bilinear)
		b = sample.Bounds()
	}

	var samples []float32
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := sample.At(x, y).RGBA()
			h, s, v := rgbToHSV(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
			if s < k.MinSaturation || v < k.MinValue {
				continue
			}
			samples = append(samples, float32(h))
		}
	}
	if len(samples) == 0 {
		return nil, ErrNoHues
	}

	centres := clusterCircular(samples, k.K, max(k.Iterations, 1))
	sort.Slice(centres, func(i, j int) bool { return centres[i] < centres[j] })
	return centres, nil
}

// hueRange is the size of the full-range hue circle.
const hueRange = 256

// rgbToHSV converts to full-range HSV matching OpenCV's BGR2HSV_FULL:
// h in [0,255] spanning 360 degrees, s and v in [0,255].
func rgbToHSV(r, g, b uint8) (h, s, v uint8) {
	rf, gf, bf := float32(r), float32(g), float32(b)
	maxc := math32.Max(rf, math32.Max(gf, bf))
	minc := math32.Min(rf, math32.Min(gf, bf))
	diff := maxc - minc

	v = uint8(maxc)
	if maxc == 0 {
		return 0, 0, v
	}
	s = uint8(roundf(diff * 255 / maxc))
	if diff == 0 {
		return 0, s, v
	}

	var deg float32
	switch maxc {
	case rf:
		deg = 60 * (gf - bf) / diff
	case gf:
		deg = 120 + 60*(bf-rf)/diff
	default:
		deg = 240 + 60*(rf-gf)/diff
	}
	if deg < 0 {
		deg += 360
	}
	hv := int(roundf(deg*hueRange/360)) % hueRange
	return uint8(hv), s, v
}

// circularDist is the shortest distance between two hues on the circle.
func circularDist(a, b float32) float32 {
	d := math32.Abs(a - b)
	return math32.Min(d, hueRange-d)
}

// clusterCircular runs 1-D k-means on a circle of circumference hueRange.
// Seeds are evenly spaced so results are deterministic.
func clusterCircular(samples []float32, k, iterations int) []uint8 {
	centres := make([]float32, k)
	for i := range centres {
		centres[i] = float32(i) * hueRange / float32(k)
	}

	counts := make([]int, k)
	sinSum := make([]float32, k)
	cosSum := make([]float32, k)

	for it := 0; it < iterations; it++ {
		for i := range counts {
			counts[i], sinSum[i], cosSum[i] = 0, 0, 0
		}

		for _, h := range samples {
			best := 0
			bestDist := circularDist(h, centres[0])
			for c := 1; c < k; c++ {
				if d := circularDist(h, centres[c]); d < bestDist {
					best, bestDist = c, d
				}
			}
			theta := h * 2 * math32.Pi / hueRange
			sinSum[best] += math32.Sin(theta)
			cosSum[best] += math32.Cos(theta)
			counts[best]++
		}

		moved := false
		for c := range centres {
			if counts[c] == 0 {
				continue
			}
			theta := math32.Atan2(sinSum[c], cosSum[c])
			if theta < 0 {
				theta += 2 * math32.Pi
			}
			next := math32.Mod(theta*hueRange/(2*math32.Pi), hueRange)
			if circularDist(next, centres[c]) > 1e-3 {
				moved = true
			}
			centres[c] = next
		}
		if !moved {
			break
		}
	}

	out := make([]uint8, 0, k)
	seen := make(map[uint8]bool, k)
	for c, centre := range centres {
		if counts[c] == 0 {
			continue
		}
		h := uint8(int(roundf(centre)) % hueRange)
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	return out
}

// roundf rounds a non-negative value half up.
func roundf(x float32) float32 {
	return math32.Floor(x + 0.5)
}
