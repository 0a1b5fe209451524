package hue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelector_Empty(t *testing.T) {
	_, err := NewSelector(nil)
	assert.ErrorIs(t, err, ErrNoHues)
}

func TestSelector_StartsAtZero(t *testing.T) {
	s, err := NewSelector([]uint8{30, 60, 90})
	require.NoError(t, err)

	assert.Equal(t, 0, s.Index())
	assert.Equal(t, uint8(30), s.Hue())
	assert.Equal(t, 3, s.Len())
}

func TestSelector_AdvanceIsCyclic(t *testing.T) {
	hues, err := DefaultFixedHues().DiscoverHues(nil)
	require.NoError(t, err)

	s, err := NewSelector(hues)
	require.NoError(t, err)

	for start := 0; start < s.Len(); start++ {
		s.SetIndex(start)
		for i := 0; i < s.Len(); i++ {
			s.Advance()
		}
		assert.Equal(t, start, s.Index(), "advancing %d times from %d", s.Len(), start)
	}
}

func TestSelector_AdvanceOrder(t *testing.T) {
	s, err := NewSelector([]uint8{5, 15, 25})
	require.NoError(t, err)

	var got []uint8
	for i := 0; i < 5; i++ {
		got = append(got, s.Hue())
		s.Advance()
	}
	assert.Equal(t, []uint8{5, 15, 25, 5, 15}, got)
}

func TestSelector_SetIndex(t *testing.T) {
	s, err := NewSelector([]uint8{1, 2, 3, 4})
	require.NoError(t, err)

	tests := []struct {
		in   int
		want int
	}{
		{0, 0},
		{3, 3},
		{4, 0},
		{9, 1},
		{-1, 3},
	}
	for _, tt := range tests {
		s.SetIndex(tt.in)
		assert.Equal(t, tt.want, s.Index(), "SetIndex(%d)", tt.in)
	}
}

func TestSelector_HuesIsCopy(t *testing.T) {
	in := []uint8{10, 20}
	s, err := NewSelector(in)
	require.NoError(t, err)

	in[0] = 99
	out := s.Hues()
	out[1] = 99

	assert.Equal(t, []uint8{10, 20}, s.Hues())
}

func TestNewBand_InRange(t *testing.T) {
	for _, policy := range []Policy{PolicyClamp, PolicyWrap} {
		for h := 1; h <= 254; h++ {
			b := NewBand(uint8(h), Fudge, policy)
			assert.Equal(t, uint8(h-1), b.Lower[0])
			assert.Equal(t, uint8(h+1), b.Upper[0])
			assert.False(t, b.Wrapped)
		}
	}
}

func TestNewBand_FixedSaturationValue(t *testing.T) {
	b := NewBand(120, 5, PolicyClamp)
	assert.Equal(t, [3]uint8{115, 0, 0}, b.Lower)
	assert.Equal(t, [3]uint8{125, 255, 255}, b.Upper)
}

func TestNewBand_LowEdge(t *testing.T) {
	t.Run("clamp", func(t *testing.T) {
		b := NewBand(0, 1, PolicyClamp)
		assert.Equal(t, uint8(0), b.Lower[0])
		assert.Equal(t, uint8(1), b.Upper[0])
		assert.False(t, b.Wrapped)

		assert.True(t, b.Contains(0, 200, 200))
		assert.True(t, b.Contains(1, 200, 200))
		assert.False(t, b.Contains(255, 200, 200))
		assert.False(t, b.Contains(128, 200, 200))
	})

	t.Run("wrap", func(t *testing.T) {
		b := NewBand(0, 1, PolicyWrap)
		assert.Equal(t, uint8(255), b.Lower[0])
		assert.Equal(t, uint8(1), b.Upper[0])
		assert.True(t, b.Wrapped)

		assert.True(t, b.Contains(255, 200, 200))
		assert.True(t, b.Contains(0, 200, 200))
		assert.True(t, b.Contains(1, 200, 200))
		assert.False(t, b.Contains(2, 200, 200))
		assert.False(t, b.Contains(128, 200, 200), "wrapped band must stay narrow")
	})
}

func TestNewBand_HighEdge(t *testing.T) {
	clamp := NewBand(255, 1, PolicyClamp)
	assert.Equal(t, uint8(254), clamp.Lower[0])
	assert.Equal(t, uint8(255), clamp.Upper[0])
	assert.False(t, clamp.Wrapped)

	wrap := NewBand(255, 1, PolicyWrap)
	assert.Equal(t, uint8(254), wrap.Lower[0])
	assert.Equal(t, uint8(0), wrap.Upper[0])
	assert.True(t, wrap.Wrapped)
	assert.True(t, wrap.Contains(0, 10, 10))
	assert.False(t, wrap.Contains(1, 10, 10))
}

func TestSelector_Band(t *testing.T) {
	s, err := NewSelector([]uint8{0, 100})
	require.NoError(t, err)

	assert.Equal(t, NewBand(0, Fudge, PolicyClamp), s.Band(Fudge, PolicyClamp))
	s.Advance()
	b := s.Band(Fudge, PolicyWrap)
	assert.Equal(t, uint8(99), b.Lower[0])
	assert.Equal(t, uint8(101), b.Upper[0])
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyClamp, false},
		{"clamp", PolicyClamp, false},
		{"Wrap", PolicyWrap, false},
		{" wrap ", PolicyWrap, false},
		{"circle", PolicyClamp, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, got.String(), tt.want.String())
	}
}
