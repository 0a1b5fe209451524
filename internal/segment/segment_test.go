package segment

import (
	"image"
	"image/color"
	"testing"

	"github.com/nowakf/colour-to-shape/internal/hue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

var (
	green  = color.RGBA{G: 255}
	square = image.Rect(20, 16, 44, 40)
)

// greenSquareFrame returns a black BGR frame with a filled green square.
func greenSquareFrame(t *testing.T) gocv.Mat {
	t.Helper()
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 64, 64, gocv.MatTypeCV8UC3)
	gocv.Rectangle(&frame, square, green, -1)
	return frame
}

// squareMask returns a single-channel mask with the square set.
func squareMask() gocv.Mat {
	mask := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 64, 64, gocv.MatTypeCV8U)
	gocv.Rectangle(&mask, square, color.RGBA{R: 255, G: 255, B: 255}, -1)
	return mask
}

func TestToHSV_FullRange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := greenSquareFrame(t)
	defer frame.Close()
	hsv := gocv.NewMat()
	defer hsv.Close()

	require.NoError(t, ToHSV(frame, &hsv))

	px := hsv.GetVecbAt(square.Min.Y+1, square.Min.X+1)
	assert.Equal(t, uint8(85), px[0], "green hue in full range")
	assert.Equal(t, uint8(255), px[1])
	assert.Equal(t, uint8(255), px[2])

	bg := hsv.GetVecbAt(0, 0)
	assert.Equal(t, uint8(0), bg[2], "background value")
}

func TestToHSV_Empty(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()
	dst := gocv.NewMat()
	defer dst.Close()

	assert.Error(t, ToHSV(empty, &dst))
}

func TestMasker_Mask(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := greenSquareFrame(t)
	defer frame.Close()
	hsv := gocv.NewMat()
	defer hsv.Close()
	require.NoError(t, ToHSV(frame, &hsv))

	area := square.Dx() * square.Dy()
	total := 64 * 64

	tests := []struct {
		name string
		band hue.Band
		want int
	}{
		{"green band", hue.NewBand(85, hue.Fudge, hue.PolicyClamp), area},
		{"blue band", hue.NewBand(170, hue.Fudge, hue.PolicyClamp), 0},
		// Black pixels have hue 0, so the band at 0 selects the background.
		{"hue zero band", hue.NewBand(0, hue.Fudge, hue.PolicyClamp), total - area},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask := gocv.NewMat()
			defer mask.Close()

			require.NoError(t, Masker{}.Mask(hsv, tt.band, &mask))
			assert.Equal(t, 1, mask.Channels())
			assert.Equal(t, tt.want, gocv.CountNonZero(mask))
		})
	}
}

func TestMasker_WrappedBand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	// An HSV image whose every pixel has hue 255.
	hsv := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 200, 200, 0), 8, 8, gocv.MatTypeCV8UC3)
	defer hsv.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	require.NoError(t, Masker{}.Mask(hsv, hue.NewBand(0, 1, hue.PolicyWrap), &mask))
	assert.Equal(t, 64, gocv.CountNonZero(mask), "wrap policy reaches across the seam")

	require.NoError(t, Masker{}.Mask(hsv, hue.NewBand(0, 1, hue.PolicyClamp), &mask))
	assert.Equal(t, 0, gocv.CountNonZero(mask), "clamp policy stops at zero")
}

func TestOtsu(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 0, 0, 0), 10, 10, gocv.MatTypeCV8U)
	defer src.Close()
	gocv.Rectangle(&src, image.Rect(0, 0, 10, 5), color.RGBA{R: 200, G: 200, B: 200}, -1)

	dst := gocv.NewMat()
	defer dst.Close()

	thresh := Otsu(src, &dst)
	assert.GreaterOrEqual(t, thresh, float32(10))
	assert.Less(t, thresh, float32(200))
	assert.Equal(t, 50, gocv.CountNonZero(dst))
}

func TestFindContours_Square(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	mask := squareMask()
	defer mask.Close()

	contours := FindContours(mask)
	require.Len(t, contours, 1)
	assert.Len(t, contours[0], 4, "simple approximation keeps only the corners")
	assert.Equal(t, 4, contours.Vertices())

	corners := map[image.Point]bool{}
	for _, p := range contours[0] {
		corners[p] = true
	}
	assert.True(t, corners[square.Min])
	assert.True(t, corners[image.Pt(square.Max.X-1, square.Max.Y-1)])
}

func TestFindContours_Empty(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	mask := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 16, 16, gocv.MatTypeCV8U)
	defer mask.Close()

	assert.Empty(t, FindContours(mask))
}

func TestDenoiser_IdenticalMasks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	masks := make([]gocv.Mat, 6)
	for i := range masks {
		masks[i] = squareMask()
	}
	defer closeAll(masks)

	denoised := gocv.NewMat()
	defer denoised.Close()
	require.NoError(t, DefaultDenoiser().Denoise(masks, &denoised))

	assert.Equal(t, 1, denoised.Channels())
	assert.Equal(t, 64, denoised.Rows())
	assert.Equal(t, 64, denoised.Cols())

	binary := gocv.NewMat()
	defer binary.Close()
	Otsu(denoised, &binary)

	contours := FindContours(binary)
	require.Len(t, contours, 1)
	pv := gocv.NewPointVectorFromPoints(contours[0])
	defer pv.Close()
	r := gocv.BoundingRect(pv)
	assert.InDelta(t, square.Min.X, r.Min.X, 3)
	assert.InDelta(t, square.Min.Y, r.Min.Y, 3)
	assert.InDelta(t, square.Max.X, r.Max.X, 3)
	assert.InDelta(t, square.Max.Y, r.Max.Y, 3)
}

func TestDenoiser_TooFewMasks(t *testing.T) {
	masks := []gocv.Mat{gocv.NewMat(), gocv.NewMat()}
	defer closeAll(masks)

	dst := gocv.NewMat()
	defer dst.Close()

	assert.Error(t, DefaultDenoiser().Denoise(masks, &dst))
}

func TestDenoiser_EmptyMask(t *testing.T) {
	masks := []gocv.Mat{gocv.NewMat(), gocv.NewMat(), gocv.NewMat()}
	defer closeAll(masks)

	dst := gocv.NewMat()
	defer dst.Close()

	assert.Error(t, DefaultDenoiser().Denoise(masks, &dst))
}
