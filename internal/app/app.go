// Package app runs the frame loop that turns camera frames into hue-band
// contour drawings.
package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nowakf/colour-to-shape/internal/capture"
	"github.com/nowakf/colour-to-shape/internal/hue"
	"github.com/nowakf/colour-to-shape/internal/input"
	"github.com/nowakf/colour-to-shape/internal/render"
	"github.com/nowakf/colour-to-shape/internal/segment"
	"github.com/nowakf/colour-to-shape/internal/store"
	"github.com/nowakf/colour-to-shape/internal/window"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Config holds the collaborators of the application.
type Config struct {
	Camera     capture.Camera
	Display    render.Sink
	Input      input.Source
	Discoverer hue.Discoverer
	Policy     hue.Policy
	// Store and Profile are optional. With a profile name the calibrated
	// hues are saved under it and reused on the next start.
	Store   *store.Store
	Profile string
	Logger  *slog.Logger
	// OnHue, if set, is called whenever the selected hue changes.
	OnHue func(h uint8, index, total int)
}

// Stats counts what the loop has done so far.
type Stats struct {
	Frames   int
	Skipped  int
	Rendered int
	Advances int
}

// App owns the hue selector and the mask window between iterations.
type App struct {
	config   Config
	log      *slog.Logger
	selector *hue.Selector
	policy   hue.Policy
	buffer   *window.Buffer[gocv.Mat]
	masker   segment.Masker
	denoiser segment.Denoiser
	renderer render.Renderer

	mu    sync.Mutex
	stats Stats
}

// New creates a new App instance with the given configuration.
func New(config Config) (*App, error) {
	if config.Camera == nil {
		return nil, errors.New("app: camera is required")
	}
	if config.Display == nil {
		return nil, errors.New("app: display is required")
	}
	if config.Discoverer == nil {
		config.Discoverer = hue.DefaultFixedHues()
	}
	if config.Profile != "" && config.Store == nil {
		return nil, errors.Errorf("app: profile %q needs a store", config.Profile)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &App{
		config:   config,
		log:      logger,
		policy:   config.Policy,
		buffer:   window.New(window.Size, func(m gocv.Mat) { m.Close() }),
		denoiser: segment.DefaultDenoiser(),
		renderer: render.DefaultRenderer(),
	}, nil
}

// Run opens the camera if needed and steps until the operator quits, ctx is
// cancelled or a fatal error occurs. Only the last case returns an error.
func (a *App) Run(ctx context.Context) error {
	if !a.config.Camera.IsOpen() {
		if err := a.config.Camera.Open(); err != nil {
			return err
		}
	}
	a.log.Info("frame loop started", "window", window.Size, "policy", a.policy.String())

	for {
		select {
		case <-ctx.Done():
			a.log.Info("frame loop cancelled")
			return nil
		default:
		}

		res, err := a.Step()
		if err != nil {
			a.log.Error("frame loop stopped", "error", err)
			return err
		}
		if res.State == StateQuit {
			a.log.Info("quit requested")
			return nil
		}
	}
}

// Stats returns a snapshot of the loop counters.
func (a *App) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Selector returns the hue selector, or nil before calibration.
func (a *App) Selector() *hue.Selector {
	return a.selector
}

// Close releases the buffered masks and the camera.
func (a *App) Close() error {
	a.buffer.Reset()
	s := a.Stats()
	a.log.Info("frame loop closed",
		"frames", s.Frames, "skipped", s.Skipped, "rendered", s.Rendered, "advances", s.Advances)
	return a.config.Camera.Close()
}

func (a *App) count(f func(*Stats)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	f(&a.stats)
}
