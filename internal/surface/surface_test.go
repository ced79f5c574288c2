package surface

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/boxlabel/internal/box"
	"github.com/example/boxlabel/internal/geom"
	"github.com/example/boxlabel/internal/theme"
	"github.com/example/boxlabel/internal/viewport"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func baseFrame() *Frame {
	return &Frame{
		Image: solid(50, 40, color.RGBA{0, 0, 255, 255}),
		Info:  geom.ImageInfo{Width: 100, Height: 80, OriginalWidth: 50, OriginalHeight: 40},
		View:  viewport.State{Scale: 1},
	}
}

func TestImageScaledIntoPlacement(t *testing.T) {
	th := theme.Default()
	s := New(th, WithoutStatusBar())
	dst := image.NewRGBA(image.Rect(0, 0, 200, 200))

	require.True(t, s.Render(context.Background(), dst, baseFrame()))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, dst.RGBAAt(99, 79))
	assert.Equal(t, th.Background, dst.RGBAAt(150, 150))
}

func TestImageFollowsViewport(t *testing.T) {
	s := New(nil, WithoutStatusBar())
	dst := image.NewRGBA(image.Rect(0, 0, 400, 400))
	f := baseFrame()
	f.View = viewport.State{Scale: 2, Pan: geom.Pt(10, 20)}

	s.Render(context.Background(), dst, f)
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, dst.RGBAAt(10, 20))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, dst.RGBAAt(209, 179))
	assert.NotEqual(t, color.RGBA{0, 0, 255, 255}, dst.RGBAAt(211, 181))
}

func TestBoxStrokeAndHover(t *testing.T) {
	s := New(nil, WithoutStatusBar())
	dst := image.NewRGBA(image.Rect(0, 0, 200, 200))
	f := baseFrame()
	f.Boxes = box.Collection{{ID: 1, SX: 10, SY: 10, CX: 60, CY: 50, Color: "#ff0000"}}

	s.Render(context.Background(), dst, f)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, dst.RGBAAt(30, 10), "stroke")
	inside := dst.RGBAAt(30, 30)
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, inside, "no fill when not hovered")

	f.HoverID = 1
	s.Render(context.Background(), dst, f)
	hovered := dst.RGBAAt(30, 30)
	assert.InDelta(t, 128, int(hovered.R), 2, "half-alpha fill")
	assert.InDelta(t, 127, int(hovered.B), 2)
}

func TestSelectedBoxHandlesAndGuide(t *testing.T) {
	th := theme.Default()
	s := New(th, WithoutStatusBar())
	dst := image.NewRGBA(image.Rect(0, 0, 200, 200))
	f := baseFrame()
	f.Boxes = box.Collection{{ID: 1, SX: 20, SY: 20, CX: 80, CY: 60, Color: "#ff0000"}}
	f.SelectedID = 1
	f.HoverID = 1

	s.Render(context.Background(), dst, f)
	assert.Equal(t, th.HandleFill, dst.RGBAAt(80, 60), "corner handle centre")
	assert.Equal(t, th.HandleStroke, dst.RGBAAt(74, 54), "handle outline")

	guide := insetRect(image.Rect(20, 20, 80, 60), guideInset)
	assert.Equal(t, image.Rect(21, 21, 79, 59), guide)
	c := dst.RGBAAt(guide.Min.X+dashLength*2+2, guide.Min.Y)
	assert.Contains(t, []color.RGBA{th.GuideLight, th.GuideDark}, c)
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, dst.RGBAAt(50, 40), "selected box is not filled")
}

func TestUnknownColourFallsBack(t *testing.T) {
	th := theme.Default()
	s := New(th, WithoutStatusBar())
	dst := image.NewRGBA(image.Rect(0, 0, 200, 200))
	f := baseFrame()
	f.Boxes = box.Collection{{ID: 1, SX: 10, SY: 10, CX: 60, CY: 50, Color: "not-a-colour"}}

	s.Render(context.Background(), dst, f)
	assert.Equal(t, th.BoxFallback, dst.RGBAAt(30, 10))
}

func TestColorResolver(t *testing.T) {
	s := New(nil, WithoutStatusBar(), WithColorResolver(func(string) (color.RGBA, bool) {
		return color.RGBA{0, 255, 0, 255}, true
	}))
	dst := image.NewRGBA(image.Rect(0, 0, 200, 200))
	f := baseFrame()
	f.Boxes = box.Collection{{ID: 1, SX: 10, SY: 10, CX: 60, CY: 50, Color: "lime"}}

	s.Render(context.Background(), dst, f)
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, dst.RGBAAt(30, 10))
}

func TestRenderStopsWhenCancelled(t *testing.T) {
	s := New(nil)
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, s.Render(ctx, dst, baseFrame()))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(5, 5))
}

func TestStatusBar(t *testing.T) {
	th := theme.Default()
	s := New(th)
	dst := image.NewRGBA(image.Rect(0, 0, 200, 100))
	f := baseFrame()
	f.Status = "select"

	s.Render(context.Background(), dst, f)
	assert.Equal(t, th.StatusBackground, dst.RGBAAt(199, 99))
}

type recordLayer struct{ calls int }

func (r *recordLayer) Draw(*image.RGBA, *Frame) { r.calls++ }

func TestExtraLayers(t *testing.T) {
	rec := &recordLayer{}
	s := New(nil, WithLayers(rec))
	s.Render(context.Background(), image.NewRGBA(image.Rect(0, 0, 4, 4)), baseFrame())
	assert.Equal(t, 1, rec.calls)
}

func TestSchedulerCoalesces(t *testing.T) {
	notified := 0
	s := NewScheduler(func() { notified++ })

	assert.True(t, s.Request())
	for i := 0; i < 50; i++ {
		assert.False(t, s.Request())
	}
	assert.Equal(t, 1, notified)
	assert.True(t, s.Pending())

	assert.True(t, s.Begin())
	assert.False(t, s.Pending())
	assert.False(t, s.Begin())

	assert.True(t, s.Request())
	assert.Equal(t, 2, notified)
}
