// Package hittest resolves image-space pointer positions to boxes and their
// resize handles.
package hittest

import (
	"math"

	"github.com/example/boxlabel/internal/box"
	"github.com/example/boxlabel/internal/geom"
)

// HandleSize is the on-screen hit target size of a resize handle in pixels.
const HandleSize = 9.0

// Tolerance converts the on-screen handle size into image-space units at the
// given scale.
func Tolerance(scale float64) float64 {
	return ToleranceFor(HandleSize, scale)
}

// ToleranceFor is Tolerance for a custom handle size. A non-positive size
// falls back to HandleSize.
func ToleranceFor(size, scale float64) float64 {
	if size <= 0 {
		size = HandleSize
	}
	if scale <= 0 {
		return size
	}
	return size / scale
}

// ResolveHandle reports which part of b lies under p. Resize handles are only
// considered when selected is true; otherwise the result is HandleInside or
// HandleNone.
func ResolveHandle(p geom.Point, b box.Box, selected bool, tol float64) box.Handle {
	if selected {
		if h := resolveResize(p, b, tol); h != box.HandleNone {
			return h
		}
	}
	if b.Contains(p) {
		return box.HandleInside
	}
	return box.HandleNone
}

func resolveResize(p geom.Point, b box.Box, tol float64) box.Handle {
	near := func(a, v float64) bool { return math.Abs(a-v) <= tol }
	between := func(v, a, c float64) bool { return v > math.Min(a, c) && v < math.Max(a, c) }

	for _, h := range box.Corners {
		c, _ := b.Corner(h)
		if near(p.X, c.X) && near(p.Y, c.Y) {
			return h
		}
	}
	switch {
	case near(p.Y, b.SY) && between(p.X, b.SX, b.CX):
		return box.HandleTop
	case near(p.X, b.CX) && between(p.Y, b.SY, b.CY):
		return box.HandleRight
	case near(p.Y, b.CY) && between(p.X, b.SX, b.CX):
		return box.HandleBottom
	case near(p.X, b.SX) && between(p.Y, b.SY, b.CY):
		return box.HandleLeft
	}
	return box.HandleNone
}

// Hit is the result of ResolveTopBoxAt.
type Hit struct {
	Box    box.Box
	Handle box.Handle
}

// ResolveTopBoxAt returns the box under p. The selected box, when present in
// boxes, is tested first with its handles; the rest are tested from the most
// recently created down and only report their interior.
func ResolveTopBoxAt(p geom.Point, boxes box.Collection, selectedID int64, tol float64) (Hit, bool) {
	if selectedID != 0 {
		if b, ok := boxes.Find(selectedID); ok {
			if h := ResolveHandle(p, b, true, tol); h != box.HandleNone {
				return Hit{Box: b, Handle: h}, true
			}
		}
	}
	for i := len(boxes) - 1; i >= 0; i-- {
		b := boxes[i]
		if b.ID == selectedID {
			continue
		}
		if b.Contains(p) {
			return Hit{Box: b, Handle: box.HandleInside}, true
		}
	}
	return Hit{}, false
}
