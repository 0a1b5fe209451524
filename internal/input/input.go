// Package input turns operator actions into hue-advance and quit events.
package input

import (
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Event is what the operator asked for since the last poll.
type Event int

const (
	// None means nothing was requested.
	None Event = iota
	// Advance asks for the next candidate hue.
	Advance
	// Quit asks the loop to stop.
	Quit
)

func (e Event) String() string {
	switch e {
	case Advance:
		return "advance"
	case Quit:
		return "quit"
	default:
		return "none"
	}
}

// Source reports, without blocking, the request made since the last call.
type Source interface {
	Poll() Event
}

// KeyPoller is a non-blocking key reader that returns a negative value when
// no key is pending.
type KeyPoller interface {
	PollKey() int
}

// Key codes understood by ParseKey besides single characters.
const (
	KeyEsc   = 27
	KeySpace = 32
	KeyEnter = 13
)

// ParseKey converts a key name ("q", "esc", "space", "enter" or a decimal
// code) into a key code.
func ParseKey(name string) (int, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "esc", "escape":
		return KeyEsc, nil
	case "space":
		return KeySpace, nil
	case "enter", "return":
		return KeyEnter, nil
	case "":
		return 0, errors.New("empty key name")
	default:
		if len(n) == 1 {
			return int(n[0]), nil
		}
		code, err := strconv.Atoi(n)
		if err != nil {
			return 0, errors.Errorf("unknown key %q", name)
		}
		return code, nil
	}
}

// KeySource maps key presses to events: a quit key yields Quit, any other
// key yields Advance.
type KeySource struct {
	poller KeyPoller
	quit   map[int]bool
}

// NewKeySource creates a KeySource. With no quit keys every key advances.
func NewKeySource(poller KeyPoller, quitKeys ...int) *KeySource {
	quit := make(map[int]bool, len(quitKeys))
	for _, k := range quitKeys {
		quit[k] = true
	}
	return &KeySource{poller: poller, quit: quit}
}

// Poll implements Source.
func (k *KeySource) Poll() Event {
	key := k.poller.PollKey()
	if key < 0 {
		return None
	}
	// highgui may report modifier bits above the low byte.
	if k.quit[key] || k.quit[key&0xff] {
		return Quit
	}
	return Advance
}

// Latch collects requests from other goroutines, such as tray callbacks.
type Latch struct {
	mu       sync.Mutex
	advances int
	quit     bool
}

// RequestAdvance records an advance request. Requests made between two
// polls are reported one per poll.
func (l *Latch) RequestAdvance() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.advances++
}

// RequestQuit records a quit request; it wins over pending advances.
func (l *Latch) RequestQuit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.quit = true
}

// Poll implements Source.
func (l *Latch) Poll() Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case l.quit:
		return Quit
	case l.advances > 0:
		l.advances--
		return Advance
	default:
		return None
	}
}

// multi polls every source each time so none of them accumulates a backlog.
type multi []Source

// Multi combines sources. Quit from any source wins, then Advance.
func Multi(sources ...Source) Source {
	return multi(sources)
}

func (m multi) Poll() Event {
	out := None
	for _, s := range m {
		if s == nil {
			continue
		}
		if e := s.Poll(); e > out {
			out = e
		}
	}
	return out
}
