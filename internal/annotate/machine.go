// Package annotate turns pointer and keyboard events into box edits.
package annotate

import (
	"github.com/example/boxlabel/internal/box"
	"github.com/example/boxlabel/internal/geom"
	"github.com/example/boxlabel/internal/history"
	"github.com/example/boxlabel/internal/hittest"
	"github.com/example/boxlabel/internal/viewport"
)

// State is the interaction mode.
type State int

const (
	StateNone State = iota
	StateDrawing
	StateMoving
	StateResizing
)

func (s State) String() string {
	switch s {
	case StateDrawing:
		return "drawing"
	case StateMoving:
		return "moving"
	case StateResizing:
		return "resizing"
	}
	return "none"
}

// session is the state shared by a pointer-down and the moves and up that
// follow it.
type session struct {
	state   State
	panning bool
	handle  box.Handle
	// grab is the clamped image-space pointer at drag start.
	grab geom.Point
	// origin is the edited box as it was at drag start.
	origin box.Box
	// current is the latest preview of the edited box.
	current box.Box
	// base is the collection before the gesture began.
	base box.Collection
	// last is the most recent screen position, used for panning.
	last geom.Point
}

// Machine owns the interaction state and the box collection.
//
// The collection lives in a history. While a gesture is in progress the
// entry under the cursor holds a preview; on pointer-up the pre-gesture
// entry is restored and the finished collection is committed as one step.
type Machine struct {
	view   *viewport.Transform
	hist   *history.History
	ids    *box.IDSource
	tools  ToolSource
	styles StyleSource

	info    geom.ImageInfo
	hasInfo bool

	sess        session
	selectedID  int64
	hoverID     int64
	hoverHandle box.Handle
	pointer     geom.Point
	screen      geom.Point
	hasPointer  bool
	handleSize  float64

	onChange func()
}

// Option configures a Machine.
type Option func(*Machine)

// WithTools sets the tool selector consulted on pointer-down.
func WithTools(src ToolSource) Option {
	return func(m *Machine) { m.tools = src }
}

// WithStyles sets the category picker used for new and relabelled boxes.
func WithStyles(src StyleSource) Option {
	return func(m *Machine) { m.styles = src }
}

// WithIDSource replaces the box id generator.
func WithIDSource(ids *box.IDSource) Option {
	return func(m *Machine) { m.ids = ids }
}

// WithOnChange registers a callback run whenever something visible changed.
func WithOnChange(fn func()) Option {
	return func(m *Machine) { m.onChange = fn }
}

// WithHandleSize sets the on-screen handle hit size in pixels.
func WithHandleSize(px float64) Option {
	return func(m *Machine) { m.handleSize = px }
}

// WithImageInfo sets the initial image placement.
func WithImageInfo(info geom.ImageInfo) Option {
	return func(m *Machine) { m.SetImageInfo(info) }
}

// New returns a Machine operating on view and hist. Nil arguments get fresh
// defaults.
func New(view *viewport.Transform, hist *history.History, opts ...Option) *Machine {
	if view == nil {
		view = viewport.New()
	}
	if hist == nil {
		hist = history.New(history.Capacity)
	}
	ctl := NewControls(ToolSelect, Style{})
	m := &Machine{
		view:   view,
		hist:   hist,
		ids:    box.NewIDSource(nil),
		tools:  ctl,
		styles: ctl,

		handleSize: hittest.HandleSize,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// View returns the viewport the machine converts pointer positions with.
func (m *Machine) View() *viewport.Transform { return m.view }

// History returns the underlying history.
func (m *Machine) History() *history.History { return m.hist }

// State returns the current interaction mode.
func (m *Machine) State() State { return m.sess.state }

// Panning reports whether a pan gesture is in progress.
func (m *Machine) Panning() bool { return m.sess.panning }

// Busy reports whether any pointer gesture is in progress.
func (m *Machine) Busy() bool { return m.sess.state != StateNone || m.sess.panning }

// Boxes returns the visible collection.
func (m *Machine) Boxes() box.Collection { return m.hist.Current() }

// SelectedID returns the id of the selected box, or 0.
func (m *Machine) SelectedID() int64 { return m.selectedID }

// HoverID returns the id of the box under the pointer, or 0.
func (m *Machine) HoverID() int64 { return m.hoverID }

// Selected returns the selected box as it is in the visible collection.
func (m *Machine) Selected() (box.Box, bool) {
	if m.selectedID == 0 {
		return box.Box{}, false
	}
	return m.hist.Current().Find(m.selectedID)
}

// ImageInfo returns the image placement if one has been set.
func (m *Machine) ImageInfo() (geom.ImageInfo, bool) { return m.info, m.hasInfo }

// SetImageInfo updates the image placement.
func (m *Machine) SetImageInfo(info geom.ImageInfo) {
	m.info = info
	m.hasInfo = info.Valid()
	m.changed()
}

// Pointer returns the last image-space pointer position, clamped to the
// image when a placement is known.
func (m *Machine) Pointer() (geom.Point, bool) {
	if !m.hasPointer {
		return geom.Point{}, false
	}
	return m.clamp(m.pointer), true
}

// Tool returns the tool currently reported by the selector.
func (m *Machine) Tool() Tool {
	if m.tools == nil {
		return ToolSelect
	}
	return m.tools.Tool()
}

// Cursor names the pointer shape for the current tool and position.
func (m *Machine) Cursor() string {
	if m.sess.panning {
		return "grabbing"
	}
	switch m.sess.state {
	case StateDrawing:
		return "crosshair"
	case StateMoving, StateResizing:
		return m.sess.handle.Cursor()
	}
	switch m.Tool() {
	case ToolMove:
		return "grab"
	case ToolBounding:
		return "crosshair"
	}
	return m.hoverHandle.Cursor()
}

// PointerDown starts a gesture at a screen-space position. It is ignored
// while another gesture is in progress.
func (m *Machine) PointerDown(screen geom.Point) {
	if m.Busy() {
		return
	}
	m.track(screen)
	switch m.Tool() {
	case ToolMove:
		m.sess = session{panning: true, last: screen}
		m.changed()
	case ToolBounding:
		m.beginDraw()
	case ToolSelect:
		m.beginEdit()
	}
}

func (m *Machine) beginDraw() {
	if !m.hasInfo {
		return
	}
	p := m.clamp(m.pointer)
	var style Style
	if m.styles != nil {
		style = m.styles.Style()
	}
	b := box.Box{
		ID:    m.ids.Next(),
		SX:    p.X,
		SY:    p.Y,
		CX:    p.X,
		CY:    p.Y,
		Color: style.Color,
		Label: style.Label,
	}
	m.sess = session{
		state:   StateDrawing,
		grab:    p,
		origin:  b,
		current: b,
		base:    m.hist.Current(),
	}
	m.selectedID = b.ID
	m.hoverID, m.hoverHandle = 0, box.HandleNone
	m.hist.Overwrite(m.sess.base.With(b))
	m.changed()
}

func (m *Machine) beginEdit() {
	boxes := m.hist.Current()
	hit, ok := hittest.ResolveTopBoxAt(m.pointer, boxes, m.selectedID, hittest.ToleranceFor(m.handleSize, m.view.Scale()))
	if !ok {
		if m.selectedID != 0 {
			m.selectedID = 0
			m.changed()
		}
		return
	}
	state := StateResizing
	if hit.Handle == box.HandleInside {
		state = StateMoving
	}
	m.selectedID = hit.Box.ID
	m.sess = session{
		state:   state,
		handle:  hit.Handle,
		grab:    m.clamp(m.pointer),
		origin:  hit.Box,
		current: hit.Box,
		base:    boxes,
	}
	m.changed()
}

// PointerMove advances the active gesture or updates hover feedback.
func (m *Machine) PointerMove(screen geom.Point) {
	if m.sess.panning {
		d := screen.Sub(m.sess.last)
		m.sess.last = screen
		m.track(screen)
		m.view.PanBy(d)
		return
	}
	m.track(screen)
	switch m.sess.state {
	case StateNone:
		m.updateHover()
	case StateDrawing, StateMoving, StateResizing:
		m.drag()
	}
}

func (m *Machine) updateHover() {
	id, handle := int64(0), box.HandleNone
	if m.Tool() == ToolSelect {
		hit, ok := hittest.ResolveTopBoxAt(m.pointer, m.hist.Current(), m.selectedID, hittest.ToleranceFor(m.handleSize, m.view.Scale()))
		if ok {
			id, handle = hit.Box.ID, hit.Handle
		}
	}
	if id != m.hoverID || handle != m.hoverHandle || m.Tool() == ToolBounding {
		m.hoverID, m.hoverHandle = id, handle
		m.changed()
	}
}

func (m *Machine) drag() {
	if m.sess.base == nil {
		return
	}
	p := m.clamp(m.pointer)
	b := m.sess.origin
	switch m.sess.state {
	case StateDrawing:
		if !m.hasInfo {
			return
		}
		b.CX, b.CY = p.X, p.Y
	case StateMoving:
		b = b.Translate(p.Sub(m.sess.grab))
		if m.hasInfo {
			b = b.ClampInside(m.info)
		}
	case StateResizing:
		if !m.sess.handle.IsResize() {
			return
		}
		b = b.Resize(m.sess.handle, p.Sub(m.sess.grab))
	}
	if b == m.sess.current {
		return
	}
	m.sess.current = b
	m.hist.Overwrite(m.preview(b))
	m.changed()
}

func (m *Machine) preview(b box.Box) box.Collection {
	if m.sess.state == StateDrawing {
		return m.sess.base.With(b)
	}
	return m.sess.base.Replace(b)
}

// PointerUp finishes the active gesture. It applies the release position
// first, so a release outside the surface still finalises the drag.
func (m *Machine) PointerUp(screen geom.Point) {
	if m.sess.panning {
		m.PointerMove(screen)
		m.sess = session{}
		m.changed()
		return
	}
	if m.sess.state == StateNone {
		return
	}
	m.PointerMove(screen)

	s := m.sess
	m.sess = session{}
	b := s.current.Canonical()

	m.hist.Overwrite(s.base)
	switch s.state {
	case StateDrawing:
		if b.TooSmall() {
			m.selectedID = 0
			break
		}
		m.hist.Commit(s.base.With(b))
	case StateMoving, StateResizing:
		if b != s.origin {
			m.hist.Commit(s.base.Replace(b))
		}
	}
	m.refreshSelection()
	m.changed()
}

// ReleaseCapture finishes any gesture at the last known pointer position,
// for when the surface loses focus mid-drag.
func (m *Machine) ReleaseCapture() {
	if m.Busy() {
		m.PointerUp(m.screen)
	}
}

// Cancel abandons an unfinished draw.
func (m *Machine) Cancel() bool {
	if m.sess.state != StateDrawing {
		return false
	}
	m.hist.Overwrite(m.sess.base)
	m.sess = session{}
	m.selectedID = 0
	m.changed()
	return true
}

// Delete removes the selected box.
func (m *Machine) Delete() bool {
	if m.Busy() || m.selectedID == 0 {
		return false
	}
	boxes := m.hist.Current()
	if boxes.Index(m.selectedID) < 0 {
		m.selectedID = 0
		return false
	}
	m.hist.Commit(boxes.Without(m.selectedID))
	if m.hoverID == m.selectedID {
		m.hoverID, m.hoverHandle = 0, box.HandleNone
	}
	m.selectedID = 0
	m.changed()
	return true
}

// Relabel applies the picked category to the selected box.
func (m *Machine) Relabel() bool {
	if m.Busy() || m.styles == nil {
		return false
	}
	b, ok := m.Selected()
	if !ok {
		return false
	}
	style := m.styles.Style()
	if b.Label == style.Label && b.Color == style.Color {
		return false
	}
	b.Label, b.Color = style.Label, style.Color
	m.hist.Commit(m.hist.Current().Replace(b))
	m.changed()
	return true
}

// Select marks the box with the given id as selected, or clears the
// selection when id is 0.
func (m *Machine) Select(id int64) bool {
	if m.Busy() {
		return false
	}
	if id != 0 && m.hist.Current().Index(id) < 0 {
		return false
	}
	m.selectedID = id
	m.changed()
	return true
}

// Undo steps the history back.
func (m *Machine) Undo() bool {
	if m.Busy() || !m.hist.Undo() {
		return false
	}
	m.refreshSelection()
	m.changed()
	return true
}

// Redo steps the history forward.
func (m *Machine) Redo() bool {
	if m.Busy() || !m.hist.Redo() {
		return false
	}
	m.refreshSelection()
	m.changed()
	return true
}

// ResetView restores the identity viewport and clears the selection.
func (m *Machine) ResetView() {
	if m.Busy() {
		return
	}
	m.selectedID = 0
	m.view.Reset()
	m.changed()
}

// Clear empties the history, as after a submission.
func (m *Machine) Clear() {
	m.sess = session{}
	m.hist.Clear()
	m.selectedID = 0
	m.hoverID, m.hoverHandle = 0, box.HandleNone
	m.changed()
}

func (m *Machine) refreshSelection() {
	boxes := m.hist.Current()
	if m.selectedID != 0 && boxes.Index(m.selectedID) < 0 {
		m.selectedID = 0
	}
	if m.hoverID != 0 && boxes.Index(m.hoverID) < 0 {
		m.hoverID, m.hoverHandle = 0, box.HandleNone
	}
}

func (m *Machine) track(screen geom.Point) {
	m.screen = screen
	m.pointer = m.view.ToImageSpace(screen)
	m.hasPointer = true
}

func (m *Machine) clamp(p geom.Point) geom.Point {
	if !m.hasInfo {
		return p
	}
	return m.info.Clamp(p)
}

func (m *Machine) changed() {
	if m.onChange != nil {
		m.onChange()
	}
}
