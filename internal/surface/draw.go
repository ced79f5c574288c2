package surface

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const tagFontSize = 12

var (
	tagFaceOnce sync.Once
	tagFace     font.Face
)

// labelFace returns the face used for box tags, falling back to the fixed
// bitmap face if the embedded font cannot be parsed.
func labelFace() font.Face {
	tagFaceOnce.Do(func() {
		tagFace = basicfont.Face7x13
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			log.Warn().Err(err).Msg("parse label font")
			return
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: tagFontSize, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			log.Warn().Err(err).Msg("label font face")
			return
		}
		tagFace = face
	})
	return tagFace
}

func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

// strokeRect outlines r with a border of the given thickness drawn inside r.
func strokeRect(dst *image.RGBA, r image.Rectangle, col color.Color, thick int) {
	if r.Empty() {
		return
	}
	u := &image.Uniform{C: col}
	t := min(thick, r.Dx(), r.Dy())
	for _, side := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t),
		image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y),
		image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(dst, side, u, image.Point{}, draw.Over)
	}
}

// dashedLine draws an axis-aligned line alternating c1 and c2 every dash
// pixels. Diagonal lines are not needed by any layer and are ignored.
func dashedLine(dst *image.RGBA, a, b image.Point, dash, thick int, c1, c2 color.Color) {
	if dash <= 0 {
		dash = 1
	}
	horiz := a.Y == b.Y
	if !horiz && a.X != b.X {
		return
	}
	if horiz && a.X > b.X || !horiz && a.Y > b.Y {
		a, b = b, a
	}
	length := b.X - a.X
	if !horiz {
		length = b.Y - a.Y
	}
	for i := 0; i <= length; i += dash {
		col := c1
		if (i/dash)%2 == 1 {
			col = c2
		}
		n := min(dash, length-i+1)
		var seg image.Rectangle
		if horiz {
			seg = image.Rect(a.X+i, a.Y, a.X+i+n, a.Y+thick)
		} else {
			seg = image.Rect(a.X, a.Y+i, a.X+thick, a.Y+i+n)
		}
		draw.Draw(dst, seg, &image.Uniform{C: col}, image.Point{}, draw.Src)
	}
}

func dashedRect(dst *image.RGBA, r image.Rectangle, dash, thick int, c1, c2 color.Color) {
	if r.Empty() {
		return
	}
	dashedLine(dst, r.Min, image.Pt(r.Max.X-1, r.Min.Y), dash, thick, c1, c2)
	dashedLine(dst, image.Pt(r.Min.X, r.Max.Y-thick), image.Pt(r.Max.X-1, r.Max.Y-thick), dash, thick, c1, c2)
	dashedLine(dst, r.Min, image.Pt(r.Min.X, r.Max.Y-1), dash, thick, c1, c2)
	dashedLine(dst, image.Pt(r.Max.X-thick, r.Min.Y), image.Pt(r.Max.X-thick, r.Max.Y-1), dash, thick, c1, c2)
}

// drawTag paints label on a filled tab sitting above the top-left corner at,
// or just inside the box when there is no room above.
func drawTag(dst *image.RGBA, at image.Point, label string, bg, fg color.Color) {
	face := labelFace()
	m := face.Metrics()
	d := &font.Drawer{Dst: dst, Src: &image.Uniform{C: fg}, Face: face}
	w := d.MeasureString(label).Ceil()
	h := (m.Ascent + m.Descent).Ceil()
	top := at.Y - h - 2
	if top < dst.Bounds().Min.Y {
		top = at.Y
	}
	tab := image.Rect(at.X, top, at.X+w+6, top+h+2)
	draw.Draw(dst, tab, &image.Uniform{C: bg}, image.Point{}, draw.Src)
	d.Dot = fixed.P(tab.Min.X+3, tab.Min.Y+1+m.Ascent.Ceil())
	d.DrawString(label)
}
