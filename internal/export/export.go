// Package export converts boxes to and from the submission record written
// for an annotated image.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/hay-kot/criterio"

	"github.com/example/boxlabel/internal/box"
	"github.com/example/boxlabel/internal/geom"
)

// TypeRectangle is the only shape type produced.
const TypeRectangle = "rectangle"

// ErrNoImage is returned when no usable image placement is known.
var ErrNoImage = errors.New("export: image placement unavailable")

// Item is one exported box in original-image pixels.
type Item struct {
	ID     int64         `json:"id"`
	Label  string        `json:"label"`
	Points [2][2]float64 `json:"points"`
	Type   string        `json:"type"`
}

// Record is the submission for one image.
type Record struct {
	Submission  string  `json:"submission,omitempty"`
	Result      []Item  `json:"result"`
	ImageSrc    string  `json:"imageSrc"`
	ImageWidth  float64 `json:"imageWidth"`
	ImageHeight float64 `json:"imageHeight"`
}

// Build maps boxes from image-space into original-image pixels.
func Build(boxes box.Collection, info geom.ImageInfo) (Record, error) {
	if !info.Valid() || info.OriginalWidth <= 0 || info.OriginalHeight <= 0 {
		return Record{}, ErrNoImage
	}
	kx := info.OriginalWidth / info.Width
	ky := info.OriginalHeight / info.Height
	rec := Record{
		Submission:  uuid.New().String(),
		Result:      make([]Item, 0, len(boxes)),
		ImageSrc:    info.Source,
		ImageWidth:  info.OriginalWidth,
		ImageHeight: info.OriginalHeight,
	}
	for _, b := range boxes {
		b = b.Canonical()
		rec.Result = append(rec.Result, Item{
			ID:    b.ID,
			Label: b.Label,
			Points: [2][2]float64{
				{kx * (b.SX - info.X), ky * (b.SY - info.Y)},
				{kx * (b.CX - info.X), ky * (b.CY - info.Y)},
			},
			Type: TypeRectangle,
		})
	}
	return rec, nil
}

// Restore maps a record back into image-space boxes for the given
// placement. colorOf supplies the colour for each label and may be nil.
func Restore(rec Record, info geom.ImageInfo, colorOf func(label string) string) (box.Collection, error) {
	if !info.Valid() || rec.ImageWidth <= 0 || rec.ImageHeight <= 0 {
		return nil, ErrNoImage
	}
	kx := info.Width / rec.ImageWidth
	ky := info.Height / rec.ImageHeight
	out := make(box.Collection, 0, len(rec.Result))
	for _, it := range rec.Result {
		b := box.Box{
			ID:    it.ID,
			SX:    kx*it.Points[0][0] + info.X,
			SY:    ky*it.Points[0][1] + info.Y,
			CX:    kx*it.Points[1][0] + info.X,
			CY:    ky*it.Points[1][1] + info.Y,
			Label: it.Label,
		}
		if colorOf != nil {
			b.Color = colorOf(it.Label)
		}
		out = append(out, b.Canonical())
	}
	return out, nil
}

// Validate checks a record's metadata and that each item is a rectangle
// inside the image.
func (r Record) Validate() error {
	var errs criterio.FieldErrorsBuilder
	if r.ImageWidth <= 0 {
		errs = errs.Append("imageWidth", fmt.Errorf("must be positive"))
	}
	if r.ImageHeight <= 0 {
		errs = errs.Append("imageHeight", fmt.Errorf("must be positive"))
	}
	seen := make(map[int64]bool, len(r.Result))
	for i, it := range r.Result {
		field := fmt.Sprintf("result[%d]", i)
		if it.Type != TypeRectangle {
			errs = errs.Append(field+".type", fmt.Errorf("unsupported type %q", it.Type))
		}
		if seen[it.ID] {
			errs = errs.Append(field+".id", fmt.Errorf("duplicate id %d", it.ID))
		}
		seen[it.ID] = true
		for j, p := range it.Points {
			if p[0] < 0 || p[1] < 0 || (r.ImageWidth > 0 && p[0] > r.ImageWidth) || (r.ImageHeight > 0 && p[1] > r.ImageHeight) {
				errs = errs.Append(fmt.Sprintf("%s.points[%d]", field, j), fmt.Errorf("(%g, %g) outside image", p[0], p[1]))
			}
		}
	}
	return errs.ToError()
}

// Write encodes rec as indented JSON.
func Write(w io.Writer, rec Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return nil
}

// Read decodes a record.
func Read(r io.Reader) (Record, error) {
	var rec Record
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}
