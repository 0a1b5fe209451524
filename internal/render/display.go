package render

import (
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// WindowName is the title of the single display window.
const WindowName = "disp"

// ErrDisplayClosed is returned by Show after Close.
var ErrDisplayClosed = errors.New("display is closed")

// Sink receives rendered canvases.
type Sink interface {
	Show(canvas gocv.Mat) error
}

// Display owns the process's display window. It is created once at startup
// with OpenDisplay and released with Close at shutdown.
type Display struct {
	name   string
	window *gocv.Window
	mu     sync.Mutex
}

// OpenDisplay creates the named window.
func OpenDisplay(name string) *Display {
	return &Display{
		name:   name,
		window: gocv.NewWindow(name),
	}
}

// Name returns the window title.
func (d *Display) Name() string {
	return d.name
}

// Show draws canvas in the window.
func (d *Display) Show(canvas gocv.Mat) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.window == nil {
		return ErrDisplayClosed
	}
	d.window.IMShow(canvas)
	return nil
}

// PollKey returns the pressed key code, or -1 when no key is pending.
// It never blocks.
func (d *Display) PollKey() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.window == nil {
		return -1
	}
	return d.window.PollKey()
}

// Close destroys the window. It is safe to call more than once.
func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.window == nil {
		return nil
	}
	err := d.window.Close()
	d.window = nil
	return err
}
