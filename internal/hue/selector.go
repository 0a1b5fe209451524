// Package hue selects the hue band the pipeline tracks and discovers candidate hues.
package hue

import (
	"strings"

	"github.com/pkg/errors"
)

// Fudge is the tolerance added to and subtracted from the selected hue.
const Fudge uint8 = 1

// ErrNoHues is returned when a selector is built from an empty candidate list.
var ErrNoHues = errors.New("no candidate hues")

// Policy decides what happens when hue ± tolerance leaves the 0-255 range.
type Policy int

const (
	// PolicyClamp pins the band to [0, 255].
	PolicyClamp Policy = iota
	// PolicyWrap treats hue as circular and lets the band cross the 255/0 seam.
	PolicyWrap
)

// String returns the config spelling of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyWrap:
		return "wrap"
	default:
		return "clamp"
	}
}

// ParsePolicy parses "clamp" or "wrap".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clamp":
		return PolicyClamp, nil
	case "wrap":
		return PolicyWrap, nil
	default:
		return PolicyClamp, errors.Errorf("unknown hue policy %q", s)
	}
}

// Band is a lower/upper bound pair over H, S and V.
// Saturation and value always span the full 0-255 range.
type Band struct {
	Lower [3]uint8
	Upper [3]uint8
	// Wrapped is set when the hue range crosses the seam, i.e. it covers
	// [Lower[0], 255] and [0, Upper[0]].
	Wrapped bool
}

// Contains reports whether an HSV pixel falls inside the band.
func (b Band) Contains(h, s, v uint8) bool {
	if s < b.Lower[1] || s > b.Upper[1] || v < b.Lower[2] || v > b.Upper[2] {
		return false
	}
	if b.Wrapped {
		return h >= b.Lower[0] || h <= b.Upper[0]
	}
	return h >= b.Lower[0] && h <= b.Upper[0]
}

// NewBand builds the band for hue h with tolerance t.
func NewBand(h, t uint8, policy Policy) Band {
	b := Band{
		Lower: [3]uint8{0, 0, 0},
		Upper: [3]uint8{0, 255, 255},
	}

	switch policy {
	case PolicyWrap:
		b.Lower[0] = h - t
		b.Upper[0] = h + t
		b.Wrapped = b.Lower[0] > b.Upper[0]
	default:
		lo, hi := int(h)-int(t), int(h)+int(t)
		b.Lower[0] = uint8(max(lo, 0))
		b.Upper[0] = uint8(min(hi, 255))
	}

	return b
}

// Selector holds a cyclic pointer into a fixed list of candidate hues.
// It is owned by the frame loop and is not safe for concurrent use.
type Selector struct {
	hues  []uint8
	index int
}

// NewSelector creates a Selector positioned at index 0.
func NewSelector(hues []uint8) (*Selector, error) {
	if len(hues) == 0 {
		return nil, ErrNoHues
	}
	cp := make([]uint8, len(hues))
	copy(cp, hues)
	return &Selector{hues: cp}, nil
}

// Len returns the number of candidate hues.
func (s *Selector) Len() int {
	return len(s.hues)
}

// Index returns the current position in the candidate list.
func (s *Selector) Index() int {
	return s.index
}

// SetIndex moves the pointer, reducing i modulo the list length.
func (s *Selector) SetIndex(i int) {
	n := len(s.hues)
	s.index = ((i % n) + n) % n
}

// Hue returns the currently selected hue.
func (s *Selector) Hue() uint8 {
	return s.hues[s.index]
}

// Hues returns a copy of the candidate list.
func (s *Selector) Hues() []uint8 {
	cp := make([]uint8, len(s.hues))
	copy(cp, s.hues)
	return cp
}

// Advance moves to the next candidate, wrapping at the end of the list.
func (s *Selector) Advance() {
	s.index = (s.index + 1) % len(s.hues)
}

// Band returns the band around the current hue.
func (s *Selector) Band(tolerance uint8, policy Policy) Band {
	return NewBand(s.Hue(), tolerance, policy)
}
