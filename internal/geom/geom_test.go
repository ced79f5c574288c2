package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageInfoClamp(t *testing.T) {
	info := ImageInfo{X: 0, Y: 50, Width: 400, Height: 200}

	assert.Equal(t, Pt(0, 50), info.Clamp(Pt(-10, 10)))
	assert.Equal(t, Pt(400, 250), info.Clamp(Pt(500, 300)))
	assert.Equal(t, Pt(120, 90), info.Clamp(Pt(120, 90)))
	assert.Equal(t, Pt(400, 250), info.Max())
}

func TestImageInfoValid(t *testing.T) {
	var nilInfo *ImageInfo
	assert.False(t, nilInfo.Valid())
	assert.False(t, (&ImageInfo{Width: 10}).Valid())
	assert.True(t, (&ImageInfo{Width: 10, Height: 5}).Valid())
}

func TestPointArithmetic(t *testing.T) {
	p := Pt(3, 4)
	assert.Equal(t, Pt(4, 6), p.Add(Pt(1, 2)))
	assert.Equal(t, Pt(2, 2), p.Sub(Pt(1, 2)))
	assert.Equal(t, Pt(6, 8), p.Scale(2))
	assert.True(t, Size{Width: 0, Height: 3}.Empty())
}
