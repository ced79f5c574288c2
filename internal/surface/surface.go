// Package surface paints the image, the boxes and their editing affordances
// onto an RGBA buffer.
package surface

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/example/boxlabel/internal/box"
	"github.com/example/boxlabel/internal/geom"
	"github.com/example/boxlabel/internal/theme"
	"github.com/example/boxlabel/internal/viewport"
)

// Frame is the read-only state one paint needs.
type Frame struct {
	Image      image.Image
	Info       geom.ImageInfo
	View       viewport.State
	Boxes      box.Collection
	SelectedID int64
	HoverID    int64
	// Crosshair is an image-space point to draw guides through, or nil.
	Crosshair *geom.Point
	Status    string
}

// ToScreen converts an image-space point using the frame's viewport.
func (f *Frame) ToScreen(p geom.Point) image.Point {
	scale := f.View.Scale
	if scale <= 0 {
		scale = 1
	}
	return image.Pt(
		int(math.Round(p.X*scale+f.View.Pan.X)),
		int(math.Round(p.Y*scale+f.View.Pan.Y)),
	)
}

// ScreenRect converts an image-space rectangle given by two corners.
func (f *Frame) ScreenRect(lo, hi geom.Point) image.Rectangle {
	return image.Rectangle{Min: f.ToScreen(lo), Max: f.ToScreen(hi)}.Canon()
}

// Layer draws one part of a frame.
type Layer interface {
	Draw(dst *image.RGBA, f *Frame)
}

// ColorResolver maps a box colour string to a paint colour.
type ColorResolver func(string) (color.RGBA, bool)

// Surface draws frames through an ordered list of layers.
type Surface struct {
	theme  *theme.Theme
	layers []Layer
}

// Option configures a Surface.
type Option func(*surfaceOptions)

type surfaceOptions struct {
	resolve ColorResolver
	status  bool
	extra   []Layer
}

// WithColorResolver sets how box colour strings are interpreted. The default
// accepts hex notation only.
func WithColorResolver(fn ColorResolver) Option {
	return func(o *surfaceOptions) { o.resolve = fn }
}

// WithoutStatusBar omits the status bar layer, for offscreen renders.
func WithoutStatusBar() Option {
	return func(o *surfaceOptions) { o.status = false }
}

// WithLayers appends layers drawn after the built-in ones.
func WithLayers(l ...Layer) Option {
	return func(o *surfaceOptions) { o.extra = append(o.extra, l...) }
}

// New returns a Surface painting with th, or the default theme when nil.
func New(th *theme.Theme, opts ...Option) *Surface {
	if th == nil {
		th = theme.Default()
	}
	o := surfaceOptions{resolve: hexColor, status: true}
	for _, opt := range opts {
		opt(&o)
	}
	s := &Surface{theme: th}
	s.layers = []Layer{
		&backdropLayer{theme: th},
		&imageLayer{},
		&boxLayer{theme: th, resolve: o.resolve},
		&guideLayer{theme: th},
	}
	if o.status {
		s.layers = append(s.layers, &statusLayer{theme: th})
	}
	s.layers = append(s.layers, o.extra...)
	return s
}

// Render paints f into dst. It stops between layers and reports false when
// ctx is cancelled.
func (s *Surface) Render(ctx context.Context, dst *image.RGBA, f *Frame) bool {
	for _, l := range s.layers {
		if ctx != nil && ctx.Err() != nil {
			return false
		}
		l.Draw(dst, f)
	}
	return true
}

func hexColor(s string) (color.RGBA, bool) {
	c, err := theme.ParseHex(s)
	return c, err == nil
}
