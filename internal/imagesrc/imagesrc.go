// Package imagesrc loads images to annotate and places them on the surface.
package imagesrc

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/example/boxlabel/internal/geom"
)

// ErrUnsupportedFormat is returned when no decoder recognises a file.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Load decodes the image at path, applying any EXIF orientation.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}
	if !isWebP(path) {
		return nil, fmt.Errorf("open %s: %w: %v", path, ErrUnsupportedFormat, err)
	}
	f, ferr := os.Open(path)
	if ferr != nil {
		return nil, fmt.Errorf("open %s: %w", path, ferr)
	}
	defer f.Close()
	img, err = webp.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w: %v", path, ErrUnsupportedFormat, err)
	}
	return img, nil
}

// Save writes img to path in the format implied by its extension.
func Save(img image.Image, path string) error {
	if isWebP(path) {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := webp.Encode(f, img, &webp.Options{Lossless: true}); err != nil {
			f.Close()
			return fmt.Errorf("encode webp: %w", err)
		}
		return f.Close()
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Thumbnail scales img down to fit within size x size.
func Thumbnail(img image.Image, size int) image.Image {
	return imaging.Fit(img, size, size, imaging.Lanczos)
}

// SizeOf returns the pixel size of img.
func SizeOf(img image.Image) geom.Size {
	b := img.Bounds()
	return geom.Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
}

// Place spans the image across the surface width and centres it
// vertically, letterboxing when it is shorter than the surface.
func Place(source string, original, surface geom.Size) geom.ImageInfo {
	if original.Empty() || surface.Empty() {
		return geom.ImageInfo{Source: source}
	}
	h := original.Height * surface.Width / original.Width
	return geom.ImageInfo{
		Source:         source,
		X:              0,
		Y:              (surface.Height - h) / 2,
		Width:          surface.Width,
		Height:         h,
		OriginalWidth:  original.Width,
		OriginalHeight: original.Height,
	}
}

// Native places the image at its own pixel size, for offscreen renders at
// original resolution.
func Native(source string, original geom.Size) geom.ImageInfo {
	return geom.ImageInfo{
		Source:         source,
		Width:          original.Width,
		Height:         original.Height,
		OriginalWidth:  original.Width,
		OriginalHeight: original.Height,
	}
}

func isWebP(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".webp")
}
