package segment

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Non-local-means parameters tuned for binary masks.
const (
	DenoiseTemporalWindow = 3
	DenoiseTemplateWindow = 7
	DenoiseSearchWindow   = 7
	DenoiseStrength       = 300
)

// Denoiser collapses a mask history into one mask with multi-frame
// non-local-means, denoising the middle mask of the history using its
// temporal neighbours.
type Denoiser struct {
	TemporalWindow int
	TemplateWindow int
	SearchWindow   int
	Strength       float32
}

// DefaultDenoiser returns a Denoiser with the mask-tuned constants.
func DefaultDenoiser() Denoiser {
	return Denoiser{
		TemporalWindow: DenoiseTemporalWindow,
		TemplateWindow: DenoiseTemplateWindow,
		SearchWindow:   DenoiseSearchWindow,
		Strength:       DenoiseStrength,
	}
}

// Denoise writes a single-channel denoised mask into dst. masks must be
// oldest-first, equally sized CV_8U images.
func (d Denoiser) Denoise(masks []gocv.Mat, dst *gocv.Mat) error {
	centre := len(masks) / 2
	half := d.TemporalWindow / 2
	if d.TemporalWindow%2 == 0 || centre-half < 0 || centre+half >= len(masks) {
		return errors.Errorf("denoise: temporal window %d does not fit %d masks", d.TemporalWindow, len(masks))
	}

	// OpenCV only exposes the multi-frame variant for colour input, so the
	// masks are replicated into three channels and collapsed afterwards.
	bgr := make([]gocv.Mat, len(masks))
	for i := range masks {
		if masks[i].Empty() {
			closeAll(bgr[:i])
			return errors.Errorf("denoise: mask %d is empty", i)
		}
		bgr[i] = gocv.NewMat()
		gocv.CvtColor(masks[i], &bgr[i], gocv.ColorGrayToBGR)
	}
	defer closeAll(bgr)

	out := gocv.NewMat()
	defer out.Close()

	gocv.FastNlMeansDenoisingColoredMultiWithParams(bgr, &out, centre, d.TemporalWindow,
		d.Strength, d.Strength, d.TemplateWindow, d.SearchWindow)
	if out.Empty() {
		return errors.New("denoise: no output")
	}

	gocv.CvtColor(out, dst, gocv.ColorBGRToGray)
	return nil
}

func closeAll(mats []gocv.Mat) {
	for i := range mats {
		mats[i].Close()
	}
}
