package app

import (
	"image"
	"strconv"

	"github.com/nowakf/colour-to-shape/internal/capture"
	"github.com/nowakf/colour-to-shape/internal/hue"
	"github.com/nowakf/colour-to-shape/internal/input"
	"github.com/nowakf/colour-to-shape/internal/segment"
	"github.com/nowakf/colour-to-shape/internal/store"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// State is where an iteration of the loop ended.
type State int

const (
	// StateSkipped means the frame was not ready and nothing changed.
	StateSkipped State = iota
	// StateBuffering means the mask was buffered but the window is not full.
	StateBuffering
	// StateRendered means a canvas was drawn and shown.
	StateRendered
	// StateQuit means a canvas was shown and the operator asked to quit.
	StateQuit
)

func (s State) String() string {
	switch s {
	case StateSkipped:
		return "skipped"
	case StateBuffering:
		return "buffering"
	case StateRendered:
		return "rendered"
	case StateQuit:
		return "quit"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Result describes one iteration.
type Result struct {
	State     State
	Threshold float32
	Contours  segment.ContourSet
}

// Step runs one iteration of the loop:
//
//	capture -> mask -> buffer -> denoise -> threshold -> contours -> render -> display -> poll
//
// A frame that is not ready ends the iteration before masking, and a window
// that is not yet full ends it before denoising. Capture failures and
// image-processing failures are returned and are fatal.
func (a *App) Step() (Result, error) {
	frame, err := a.config.Camera.ReadFrame()
	if errors.Is(err, capture.ErrFrameNotReady) {
		a.count(func(s *Stats) { s.Skipped++ })
		a.log.Debug("frame not ready")
		return Result{State: StateSkipped}, nil
	}
	if err != nil {
		return Result{}, errors.Wrap(err, "capture")
	}
	defer frame.Close()
	a.count(func(s *Stats) { s.Frames++ })

	if a.selector == nil {
		if err := a.calibrate(*frame); err != nil {
			return Result{}, errors.Wrap(err, "calibrate")
		}
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	if err := segment.ToHSV(*frame, &hsv); err != nil {
		return Result{}, errors.Wrap(err, "hsv")
	}

	mask := gocv.NewMat()
	if err := a.masker.Mask(hsv, a.selector.Band(hue.Fudge, a.policy), &mask); err != nil {
		mask.Close()
		return Result{}, errors.Wrap(err, "mask")
	}
	a.buffer.Push(mask)
	if !a.buffer.Full() {
		return Result{State: StateBuffering}, nil
	}

	denoised := gocv.NewMat()
	defer denoised.Close()
	if err := a.denoiser.Denoise(a.buffer.Items(), &denoised); err != nil {
		return Result{}, errors.Wrap(err, "denoise")
	}

	binary := gocv.NewMat()
	defer binary.Close()
	res := Result{State: StateRendered}
	res.Threshold = segment.Otsu(denoised, &binary)
	res.Contours = segment.FindContours(binary)

	canvas := a.renderer.Render(res.Contours, image.Pt(binary.Cols(), binary.Rows()))
	defer canvas.Close()
	if err := a.config.Display.Show(canvas); err != nil {
		return Result{}, errors.Wrap(err, "display")
	}
	a.count(func(s *Stats) { s.Rendered++ })

	switch a.poll() {
	case input.Advance:
		a.advance()
	case input.Quit:
		res.State = StateQuit
	}
	return res, nil
}

func (a *App) poll() input.Event {
	if a.config.Input == nil {
		return input.None
	}
	return a.config.Input.Poll()
}

func (a *App) advance() {
	a.selector.Advance()
	a.count(func(s *Stats) { s.Advances++ })

	band := a.selector.Band(hue.Fudge, a.policy)
	a.log.Info("hue advanced",
		"index", a.selector.Index(),
		"hue", a.selector.Hue(),
		"lower", band.Lower[0],
		"upper", band.Upper[0],
		"wrapped", band.Wrapped)

	a.notifyHue()
	if a.config.Store != nil {
		if err := a.config.Store.Settings().SetInt(a.indexKey(), a.selector.Index()); err != nil {
			a.log.Warn("failed to save hue index", "error", err)
		}
	}
}

func (a *App) notifyHue() {
	if a.config.OnHue != nil {
		a.config.OnHue(a.selector.Hue(), a.selector.Index(), a.selector.Len())
	}
}

// indexKey is the settings key of the persisted hue index.
func (a *App) indexKey() string {
	if a.config.Profile == "" {
		return "hue_index"
	}
	return "hue_index/" + a.config.Profile
}

// calibrate builds the hue selector from the stored profile, or from the
// discoverer run on the first valid frame.
func (a *App) calibrate(frame gocv.Mat) error {
	hues, source, err := a.profileHues()
	if err != nil {
		return err
	}

	if hues == nil {
		sample, err := frame.ToImage()
		if err != nil {
			return errors.Wrap(err, "sample frame")
		}
		if hues, err = a.config.Discoverer.DiscoverHues(sample); err != nil {
			return err
		}
		source = "discovered"
		if err := a.saveProfile(hues); err != nil {
			return err
		}
	}

	sel, err := hue.NewSelector(hues)
	if err != nil {
		return err
	}
	a.selector = sel

	if a.config.Store != nil {
		idx, err := a.config.Store.Settings().GetInt(a.indexKey())
		switch {
		case err == nil:
			sel.SetIndex(idx)
		case !errors.Is(err, store.ErrNotFound):
			a.log.Warn("failed to restore hue index", "error", err)
		}
	}

	a.log.Info("hues calibrated",
		"source", source,
		"count", sel.Len(),
		"hues", sel.Hues(),
		"index", sel.Index(),
		"policy", a.policy.String())
	a.notifyHue()
	return nil
}

// profileHues returns the hues of the configured profile, or nil when there
// is none yet. A stored profile also fixes the band policy.
func (a *App) profileHues() ([]uint8, string, error) {
	if a.config.Profile == "" {
		return nil, "", nil
	}
	p, err := a.config.Store.Profiles().GetByName(a.config.Profile)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", errors.Wrapf(err, "load profile %q", a.config.Profile)
	}

	policy, err := hue.ParsePolicy(p.Policy)
	if err != nil {
		return nil, "", errors.Wrapf(err, "profile %q", p.Name)
	}
	a.policy = policy
	return p.Hues, "profile:" + p.Name, nil
}

func (a *App) saveProfile(hues []uint8) error {
	if a.config.Profile == "" {
		return nil
	}
	p := &store.Profile{
		Name:   a.config.Profile,
		Hues:   hues,
		Policy: a.policy.String(),
	}
	if err := a.config.Store.Profiles().Create(p); err != nil {
		return err
	}
	a.log.Info("profile saved", "name", p.Name, "id", p.ID)
	return nil
}
