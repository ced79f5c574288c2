package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/example/boxlabel/internal/hittest"
	"github.com/example/boxlabel/internal/theme"
)

const (
	strokeWidth  = 2
	dashLength   = 5
	checkerSize  = 8
	statusHeight = 20
	// handleDrawSize is the on-screen side of a drawn corner handle; it is a
	// little larger than the hit target.
	handleDrawSize = int(hittest.HandleSize) + 3
	hoverAlpha     = 128
	guideInset     = 0.05
)

type backdropLayer struct {
	theme   *theme.Theme
	checker *image.RGBA
}

func (l *backdropLayer) Draw(dst *image.RGBA, f *Frame) {
	b := dst.Bounds()
	draw.Draw(dst, b, &image.Uniform{C: l.theme.Background}, image.Point{}, draw.Src)
	if !f.Info.Valid() {
		return
	}
	if l.checker == nil || l.checker.Bounds() != b {
		l.checker = image.NewRGBA(b)
		drawCheckerboard(l.checker, b, checkerSize, l.theme.CheckerLight, l.theme.CheckerDark)
	}
	r := f.ScreenRect(f.Info.Min(), f.Info.Max()).Intersect(b)
	draw.Draw(dst, r, l.checker, r.Min, draw.Src)
}

type imageLayer struct {
	interp xdraw.Interpolator
}

func (l *imageLayer) Draw(dst *image.RGBA, f *Frame) {
	if f.Image == nil || !f.Info.Valid() {
		return
	}
	sr := f.Image.Bounds()
	if sr.Empty() {
		return
	}
	scale := f.View.Scale
	if scale <= 0 {
		scale = 1
	}
	kx := f.Info.Width / float64(sr.Dx()) * scale
	ky := f.Info.Height / float64(sr.Dy()) * scale
	ox := f.Info.X*scale + f.View.Pan.X
	oy := f.Info.Y*scale + f.View.Pan.Y
	s2d := f64.Aff3{
		kx, 0, ox - float64(sr.Min.X)*kx,
		0, ky, oy - float64(sr.Min.Y)*ky,
	}
	interp := l.interp
	if interp == nil {
		interp = xdraw.NearestNeighbor
	}
	interp.Transform(dst, s2d, f.Image, sr, xdraw.Over, nil)
}

type boxLayer struct {
	theme   *theme.Theme
	resolve ColorResolver
}

func (l *boxLayer) Draw(dst *image.RGBA, f *Frame) {
	for _, b := range f.Boxes {
		col, ok := l.resolve(b.Color)
		if !ok {
			col = l.theme.BoxFallback
		}
		r := f.ScreenRect(b.Min(), b.Max())
		if b.ID == f.HoverID && b.ID != f.SelectedID {
			fill := color.NRGBA{R: col.R, G: col.G, B: col.B, A: hoverAlpha}
			draw.Draw(dst, r, &image.Uniform{C: fill}, image.Point{}, draw.Over)
		}
		strokeRect(dst, r, col, strokeWidth)
		if b.Label != "" {
			drawTag(dst, r.Min, b.Label, col, l.theme.LabelText)
		}
	}
	for _, b := range f.Boxes {
		if b.ID != f.SelectedID {
			continue
		}
		r := f.ScreenRect(b.Min(), b.Max())
		guide := insetRect(r, guideInset)
		dashedRect(dst, guide, dashLength, 1, l.theme.GuideLight, l.theme.GuideDark)
		for _, hr := range cornerHandleRects(r, handleDrawSize) {
			draw.Draw(dst, hr, &image.Uniform{C: l.theme.HandleFill}, image.Point{}, draw.Src)
			strokeRect(dst, hr, l.theme.HandleStroke, 1)
		}
	}
}

// insetRect shrinks r on every side by half of frac times its smaller side,
// giving a guide at 1-frac of the box along that side.
func insetRect(r image.Rectangle, frac float64) image.Rectangle {
	cut := math.Min(float64(r.Dx())*frac, float64(r.Dy())*frac)
	d := int(math.Round(cut / 2))
	return r.Inset(d)
}

func cornerHandleRects(r image.Rectangle, size int) []image.Rectangle {
	h := size / 2
	at := func(p image.Point) image.Rectangle {
		return image.Rect(p.X-h, p.Y-h, p.X-h+size, p.Y-h+size)
	}
	return []image.Rectangle{
		at(r.Min),
		at(image.Pt(r.Max.X, r.Min.Y)),
		at(image.Pt(r.Min.X, r.Max.Y)),
		at(r.Max),
	}
}

type guideLayer struct {
	theme *theme.Theme
}

func (l *guideLayer) Draw(dst *image.RGBA, f *Frame) {
	if f.Crosshair == nil || !f.Info.Valid() {
		return
	}
	p := f.ToScreen(f.Info.Clamp(*f.Crosshair))
	r := f.ScreenRect(f.Info.Min(), f.Info.Max())
	dashedLine(dst, image.Pt(r.Min.X, p.Y), image.Pt(r.Max.X, p.Y), dashLength, 1, l.theme.GuideLight, l.theme.GuideDark)
	dashedLine(dst, image.Pt(p.X, r.Min.Y), image.Pt(p.X, r.Max.Y), dashLength, 1, l.theme.GuideLight, l.theme.GuideDark)
}

type statusLayer struct {
	theme *theme.Theme
}

func (l *statusLayer) Draw(dst *image.RGBA, f *Frame) {
	if f.Status == "" {
		return
	}
	b := dst.Bounds()
	bar := image.Rect(b.Min.X, b.Max.Y-statusHeight, b.Max.X, b.Max.Y)
	draw.Draw(dst, bar, &image.Uniform{C: l.theme.StatusBackground}, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  dst,
		Src:  &image.Uniform{C: l.theme.StatusText},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(bar.Min.X+6, bar.Max.Y-5),
	}
	d.DrawString(f.Status)
}
