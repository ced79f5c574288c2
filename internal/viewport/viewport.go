// Package viewport maps between screen-space and image-space under a zoom
// scale and a pan offset.
package viewport

import (
	"math"

	"github.com/example/boxlabel/internal/geom"
)

const (
	MinScale = 0.1
	MaxScale = 4.0
	// ZoomFactor is the multiplier applied by one zoom step.
	ZoomFactor = 1.1
	// PanMargin is how many screen pixels of the image stay reachable when
	// pan limits are active.
	PanMargin = 32.0
)

// Direction selects zooming in or out.
type Direction int

const (
	ZoomOut Direction = -1
	ZoomIn  Direction = 1
)

// State is a snapshot of the transform.
type State struct {
	Scale float64
	Pan   geom.Point
}

// Transform owns the viewport scale and pan. It is not safe for concurrent
// use; all calls are expected from the event loop.
type Transform struct {
	scale    float64
	pan      geom.Point
	minScale float64
	maxScale float64
	factor   float64
	margin   float64

	bounded bool
	surface geom.Size
	content geom.ImageInfo

	onChange func()
}

// Option configures a Transform.
type Option func(*Transform)

// WithScaleLimits overrides the zoom range.
func WithScaleLimits(lo, hi float64) Option {
	return func(t *Transform) {
		if lo > 0 && hi >= lo {
			t.minScale, t.maxScale = lo, hi
		}
	}
}

// WithZoomFactor overrides the per-step zoom multiplier.
func WithZoomFactor(f float64) Option {
	return func(t *Transform) {
		if f > 1 {
			t.factor = f
		}
	}
}

// WithOnChange registers a callback run after every mutation, typically a
// redraw request.
func WithOnChange(fn func()) Option {
	return func(t *Transform) { t.onChange = fn }
}

// New returns an identity transform.
func New(opts ...Option) *Transform {
	t := &Transform{
		scale:    1,
		minScale: MinScale,
		maxScale: MaxScale,
		factor:   ZoomFactor,
		margin:   PanMargin,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Scale returns the current zoom scale.
func (t *Transform) Scale() float64 { return t.scale }

// Pan returns the current screen-space pan offset.
func (t *Transform) Pan() geom.Point { return t.pan }

// State returns a copy of the current scale and pan.
func (t *Transform) State() State { return State{Scale: t.scale, Pan: t.pan} }

// ToImageSpace converts a screen-space point to image-space.
func (t *Transform) ToImageSpace(p geom.Point) geom.Point {
	return geom.Point{
		X: (p.X - t.pan.X) / t.scale,
		Y: (p.Y - t.pan.Y) / t.scale,
	}
}

// ToScreenSpace converts an image-space point to screen-space.
func (t *Transform) ToScreenSpace(p geom.Point) geom.Point {
	return geom.Point{
		X: p.X*t.scale + t.pan.X,
		Y: p.Y*t.scale + t.pan.Y,
	}
}

// ApplyZoom multiplies or divides the scale by the zoom factor, keeping the
// image-space point under anchor fixed on screen. It reports whether the
// scale changed.
func (t *Transform) ApplyZoom(dir Direction, anchor geom.Point) bool {
	switch {
	case dir > 0:
		return t.ZoomTo(t.scale*t.factor, anchor)
	case dir < 0:
		return t.ZoomTo(t.scale/t.factor, anchor)
	}
	return false
}

// ZoomTo sets the scale to s, clamped to the configured range, anchored at
// the given screen point.
func (t *Transform) ZoomTo(s float64, anchor geom.Point) bool {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return false
	}
	s = geom.Clamp(s, t.minScale, t.maxScale)
	if s == t.scale {
		return false
	}
	fixed := t.ToImageSpace(anchor)
	t.scale = s
	t.pan = geom.Point{
		X: anchor.X - fixed.X*s,
		Y: anchor.Y - fixed.Y*s,
	}
	t.changed()
	return true
}

// PanBy adds d to the pan offset, clamped to the pan limits when set.
func (t *Transform) PanBy(d geom.Point) bool {
	next := t.clampPan(t.pan.Add(d))
	if next == t.pan {
		return false
	}
	t.pan = next
	t.changed()
	return true
}

// Reset restores scale 1 and zero pan.
func (t *Transform) Reset() {
	t.scale = 1
	t.pan = geom.Point{}
	t.changed()
}

// SetBounds enables pan limits so that at least the pan margin of content
// stays inside a surface of the given size.
func (t *Transform) SetBounds(surface geom.Size, content geom.ImageInfo) {
	if surface.Empty() || !content.Valid() {
		t.bounded = false
		return
	}
	t.bounded = true
	t.surface = surface
	t.content = content
}

func (t *Transform) clampPan(p geom.Point) geom.Point {
	if !t.bounded {
		return p
	}
	c := t.content
	p.X = clampAxis(p.X, c.X*t.scale, (c.X+c.Width)*t.scale, t.surface.Width, t.margin)
	p.Y = clampAxis(p.Y, c.Y*t.scale, (c.Y+c.Height)*t.scale, t.surface.Height, t.margin)
	return p
}

// clampAxis keeps [lo+v, hi+v] overlapping [0, extent] by at least margin.
func clampAxis(v, lo, hi, extent, margin float64) float64 {
	margin = math.Min(margin, (hi-lo)/2)
	minV := margin - hi
	maxV := extent - margin - lo
	if minV > maxV {
		return v
	}
	return geom.Clamp(v, minV, maxV)
}

func (t *Transform) changed() {
	if t.onChange != nil {
		t.onChange()
	}
}
