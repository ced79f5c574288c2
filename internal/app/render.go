package app

import (
	"context"
	"fmt"
	"image"

	"github.com/example/boxlabel/internal/category"
	"github.com/example/boxlabel/internal/export"
	"github.com/example/boxlabel/internal/imagesrc"
	"github.com/example/boxlabel/internal/surface"
	"github.com/example/boxlabel/internal/theme"
	"github.com/example/boxlabel/internal/viewport"
)

// RenderRecord draws the boxes of rec over img at the image's own
// resolution. Labels are coloured from cats, or the default categories when
// none is given.
func RenderRecord(ctx context.Context, img image.Image, rec export.Record, th *theme.Theme, cats ...category.Set) (*image.RGBA, error) {
	set := category.Default()
	if len(cats) > 0 {
		set = cats[0]
	}
	size := imagesrc.SizeOf(img)
	info := imagesrc.Native(rec.ImageSrc, size)
	boxes, err := export.Restore(rec, info, set.ColorOf)
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(size.Width), int(size.Height)))
	surf := surface.New(th, surface.WithoutStatusBar(), surface.WithColorResolver(category.ParseColor))
	frame := &surface.Frame{
		Image: img,
		Info:  info,
		View:  viewport.State{Scale: 1},
		Boxes: boxes,
	}
	if !surf.Render(ctx, dst, frame) {
		return nil, fmt.Errorf("render: %w", ctx.Err())
	}
	return dst, nil
}
