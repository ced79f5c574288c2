// Package geom holds the small value types shared by the annotation engine.
package geom

import "math"

// Point is a position in either screen-space or image-space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p multiplied by s on both axes.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Size is a width and height pair.
type Size struct {
	Width, Height float64
}

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// ImageInfo describes where the image sits in image-space and its true pixel
// dimensions.
type ImageInfo struct {
	Source         string
	X, Y           float64
	Width, Height  float64
	OriginalWidth  float64
	OriginalHeight float64
}

// Valid reports whether the placement can be used for clamping and export.
func (i *ImageInfo) Valid() bool {
	return i != nil && i.Width > 0 && i.Height > 0
}

// Min returns the top-left corner of the placed image.
func (i ImageInfo) Min() Point {
	return Point{X: i.X, Y: i.Y}
}

// Max returns the bottom-right corner of the placed image.
func (i ImageInfo) Max() Point {
	return Point{X: i.X + i.Width, Y: i.Y + i.Height}
}

// Clamp limits p to the placed image bounds.
func (i ImageInfo) Clamp(p Point) Point {
	return Point{
		X: Clamp(p.X, i.X, i.X+i.Width),
		Y: Clamp(p.Y, i.Y, i.Y+i.Height),
	}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
