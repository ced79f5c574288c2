// Package box defines the rectangle annotation entity and operations on
// collections of them.
package box

import (
	"math"

	"github.com/example/boxlabel/internal/geom"
)

// MinSize is the smallest width or height a finished box may have.
const MinSize = 5.0

// Box is a rectangle annotation in image-space. SX/SY need not be the
// top-left corner until the box has been canonicalized.
type Box struct {
	ID    int64   `json:"id"`
	SX    float64 `json:"sX"`
	SY    float64 `json:"sY"`
	CX    float64 `json:"cX"`
	CY    float64 `json:"cY"`
	Color string  `json:"color"`
	Label string  `json:"label"`
}

// Canonical returns the box with its corners reordered so that SX <= CX and
// SY <= CY.
func (b Box) Canonical() Box {
	if b.SX > b.CX {
		b.SX, b.CX = b.CX, b.SX
	}
	if b.SY > b.CY {
		b.SY, b.CY = b.CY, b.SY
	}
	return b
}

// IsCanonical reports whether the first corner is the top-left one.
func (b Box) IsCanonical() bool {
	return b.SX <= b.CX && b.SY <= b.CY
}

// Width is the absolute horizontal extent.
func (b Box) Width() float64 {
	return math.Abs(b.CX - b.SX)
}

// Height is the absolute vertical extent.
func (b Box) Height() float64 {
	return math.Abs(b.CY - b.SY)
}

// TooSmall reports whether the box is below MinSize on either axis.
func (b Box) TooSmall() bool {
	return b.Width() < MinSize || b.Height() < MinSize
}

// Min returns the top-left corner regardless of corner order.
func (b Box) Min() geom.Point {
	return geom.Pt(math.Min(b.SX, b.CX), math.Min(b.SY, b.CY))
}

// Max returns the bottom-right corner regardless of corner order.
func (b Box) Max() geom.Point {
	return geom.Pt(math.Max(b.SX, b.CX), math.Max(b.SY, b.CY))
}

// Contains reports whether p lies within the box bounds, edges included.
func (b Box) Contains(p geom.Point) bool {
	lo, hi := b.Min(), b.Max()
	return p.X >= lo.X && p.X <= hi.X && p.Y >= lo.Y && p.Y <= hi.Y
}

// Translate moves both corners by d.
func (b Box) Translate(d geom.Point) Box {
	b.SX += d.X
	b.SY += d.Y
	b.CX += d.X
	b.CY += d.Y
	return b
}

// ClampInside shifts the box so it lies fully within info without changing its
// size. A box larger than the image is pinned to the image's top-left corner.
func (b Box) ClampInside(info geom.ImageInfo) Box {
	lo, hi := b.Min(), b.Max()
	var d geom.Point
	switch {
	case lo.X < info.X:
		d.X = info.X - lo.X
	case hi.X > info.X+info.Width:
		d.X = info.X + info.Width - hi.X
	}
	switch {
	case lo.Y < info.Y:
		d.Y = info.Y - lo.Y
	case hi.Y > info.Y+info.Height:
		d.Y = info.Y + info.Height - hi.Y
	}
	return b.Translate(d)
}
