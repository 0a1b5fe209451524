package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCamera(t *testing.T) {
	tests := []struct {
		name     string
		deviceID int
	}{
		{name: "default device", deviceID: DefaultDeviceID},
		{name: "device 1", deviceID: 1},
		{name: "device 2", deviceID: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.deviceID)
			require.NotNil(t, cam)

			// Camera should not be running initially
			assert.False(t, cam.IsOpen())
		})
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(DefaultDeviceID)

	err := cam.Open()
	if err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}
	assert.True(t, cam.IsOpen())

	// The first reads may legitimately report a not-ready frame.
	for i := 0; i < 10; i++ {
		mat, err := cam.ReadFrame()
		if err == ErrFrameNotReady {
			continue
		}
		require.NoError(t, err)
		require.NotNil(t, mat)
		assert.Positive(t, mat.Cols())
		assert.Equal(t, 3, mat.Channels())
		mat.Close()
		break
	}

	require.NoError(t, cam.Close())
	assert.False(t, cam.IsOpen())
}

func TestCamera_ReadFrame_NotOpened(t *testing.T) {
	cam := NewCamera(DefaultDeviceID)

	_, err := cam.ReadFrame()
	assert.ErrorIs(t, err, ErrCameraNotOpen)
}

func TestCamera_Close_NotOpened(t *testing.T) {
	cam := NewCamera(DefaultDeviceID)

	// Close on not opened camera should not panic and return nil
	assert.NoError(t, cam.Close())
}
