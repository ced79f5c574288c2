package capture

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMonitor(t *testing.T) {
	monitors := []Monitor{
		{Index: 0, Name: "HDMI-1", Rect: image.Rect(0, 0, 1920, 1080)},
		{Index: 1, Name: "eDP-1", Rect: image.Rect(1920, 0, 3840, 1200), Primary: true},
	}
	tests := []struct {
		sel     string
		want    string
		wantErr bool
	}{
		{sel: "", want: "eDP-1"},
		{sel: "Primary", want: "eDP-1"},
		{sel: "0", want: "HDMI-1"},
		{sel: "hdmi-1", want: "HDMI-1"},
		{sel: "5", wantErr: true},
		{sel: "DP-3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.sel, func(t *testing.T) {
			got, err := FindMonitor(monitors, tt.sel)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoMonitor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
		})
	}

	got, err := FindMonitor(monitors[:1], "primary")
	require.NoError(t, err)
	assert.Equal(t, "HDMI-1", got.Name, "first monitor without a primary")

	_, err = FindMonitor(nil, "")
	assert.ErrorIs(t, err, ErrNoMonitor)
}

func TestCrop(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 10))
	src.SetRGBA(12, 4, color.RGBA{R: 255, A: 255})

	out, err := Crop(src, image.Rect(10, 2, 30, 8))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 6), out.Bounds())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(2, 2))

	_, err = Crop(src, image.Rect(40, 40, 50, 50))
	assert.Error(t, err)
}
