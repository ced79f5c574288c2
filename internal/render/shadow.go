// Package render post-processes rendered previews before they are saved.
package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ShadowOptions configures the drop shadow drawn behind a preview.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadowOptions returns the shadow used by `preview --shadow`.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  12,
		Offset:  image.Pt(8, 8),
		Opacity: 0.5,
	}
}

// Shadowed is the result of Shadow.
type Shadowed struct {
	Image *image.NRGBA
	// Origin is where the source's top-left pixel landed on the canvas.
	Origin image.Point
}

// Shadow places img on a transparent canvas large enough to hold a blurred
// silhouette of it displaced by opts.Offset. With no opacity the result is a
// plain copy.
func Shadow(img image.Image, opts ShadowOptions) Shadowed {
	if img == nil {
		return Shadowed{}
	}
	b := img.Bounds()
	if b.Empty() || opts.Opacity <= 0 {
		return Shadowed{Image: imaging.Clone(img)}
	}
	opacity := min(opts.Opacity, 1)
	radius := max(opts.Radius, 0)

	origin := image.Pt(radius+max(0, -opts.Offset.X), radius+max(0, -opts.Offset.Y))
	w := b.Dx() + 2*radius + abs(opts.Offset.X)
	h := b.Dy() + 2*radius + abs(opts.Offset.Y)

	canvas := imaging.New(w, h, color.NRGBA{})
	canvas = imaging.Paste(canvas, silhouette(img, opacity), origin.Add(opts.Offset))
	if radius > 0 {
		canvas = imaging.Blur(canvas, float64(radius)/2)
	}
	canvas = imaging.Overlay(canvas, img, origin, 1)
	return Shadowed{Image: canvas, Origin: origin}
}

// silhouette is img's alpha mask in black, scaled by opacity.
func silhouette(img image.Image, opacity float64) *image.NRGBA {
	src := imaging.Clone(img)
	out := image.NewNRGBA(src.Bounds())
	for i := 3; i < len(src.Pix); i += 4 {
		out.Pix[i] = uint8(float64(src.Pix[i])*opacity + 0.5)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
