// Package tray provides a system tray menu for stepping through candidate hues.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onNext func()
	onQuit func()
	hue    int
	index  int
	total  int
	mu     sync.RWMutex

	// Menu items stored for later updates
	menuHue *systray.MenuItem
}

// New creates a new Tray instance.
func New() *Tray {
	return &Tray{hue: -1}
}

// OnNext sets the callback function to be called when "Next hue" is clicked.
func (t *Tray) OnNext(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onNext = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called or the quit item is clicked.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit stops a running tray.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("colourshape")
	systray.SetTooltip("Hue band contour tracer")

	t.mu.Lock()
	t.menuHue = systray.AddMenuItem(t.labelLocked(), "Current hue band")
	t.menuHue.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuNext := systray.AddMenuItem("Next hue", "Select the next candidate hue")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit colourshape")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-menuNext.ClickedCh:
				t.handleNext()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) handleNext() {
	t.mu.RLock()
	callback := t.onNext
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetHue updates the hue label in the menu. index is zero-based.
func (t *Tray) SetHue(hue uint8, index, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.hue, t.index, t.total = int(hue), index, total
	if t.menuHue != nil {
		t.menuHue.SetTitle(t.labelLocked())
	}
}

// Label returns the current hue label text.
func (t *Tray) Label() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.labelLocked()
}

func (t *Tray) labelLocked() string {
	if t.hue < 0 {
		return "Hue: calibrating"
	}
	return fmt.Sprintf("Hue: %d (%d/%d)", t.hue, t.index+1, t.total)
}
