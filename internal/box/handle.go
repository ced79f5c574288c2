package box

import "github.com/example/boxlabel/internal/geom"

// Handle names a resize position on a box, or its interior.
type Handle string

const (
	HandleNone        Handle = ""
	HandleTopLeft     Handle = "tl"
	HandleTop         Handle = "t"
	HandleTopRight    Handle = "tr"
	HandleRight       Handle = "r"
	HandleBottomRight Handle = "br"
	HandleBottom      Handle = "b"
	HandleBottomLeft  Handle = "bl"
	HandleLeft        Handle = "l"
	HandleInside      Handle = "inside"
)

// Corners lists the corner handles in hit-test priority order.
var Corners = []Handle{HandleTopLeft, HandleTopRight, HandleBottomLeft, HandleBottomRight}

// Edges lists the edge handles in hit-test priority order.
var Edges = []Handle{HandleTop, HandleRight, HandleBottom, HandleLeft}

// IsResize reports whether h is one of the eight resize handles.
func (h Handle) IsResize() bool {
	switch h {
	case HandleTopLeft, HandleTop, HandleTopRight, HandleRight,
		HandleBottomRight, HandleBottom, HandleBottomLeft, HandleLeft:
		return true
	}
	return false
}

// Cursor returns the pointer shape conventionally shown over the handle.
func (h Handle) Cursor() string {
	switch h {
	case HandleTopLeft, HandleBottomRight:
		return "nwse-resize"
	case HandleTopRight, HandleBottomLeft:
		return "nesw-resize"
	case HandleTop, HandleBottom:
		return "row-resize"
	case HandleLeft, HandleRight:
		return "col-resize"
	case HandleInside:
		return "move"
	}
	return "default"
}

// Corner returns the image-space position of a corner handle using the
// box's raw corner order.
func (b Box) Corner(h Handle) (geom.Point, bool) {
	switch h {
	case HandleTopLeft:
		return geom.Pt(b.SX, b.SY), true
	case HandleTopRight:
		return geom.Pt(b.CX, b.SY), true
	case HandleBottomLeft:
		return geom.Pt(b.SX, b.CY), true
	case HandleBottomRight:
		return geom.Pt(b.CX, b.CY), true
	}
	return geom.Point{}, false
}

// Resize applies delta d to the coordinates represented by h.
func (b Box) Resize(h Handle, d geom.Point) Box {
	switch h {
	case HandleTopLeft:
		b.SX += d.X
		b.SY += d.Y
	case HandleTopRight:
		b.CX += d.X
		b.SY += d.Y
	case HandleBottomLeft:
		b.SX += d.X
		b.CY += d.Y
	case HandleBottomRight:
		b.CX += d.X
		b.CY += d.Y
	case HandleTop:
		b.SY += d.Y
	case HandleRight:
		b.CX += d.X
	case HandleBottom:
		b.CY += d.Y
	case HandleLeft:
		b.SX += d.X
	}
	return b
}
