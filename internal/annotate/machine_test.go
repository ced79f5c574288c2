package annotate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/boxlabel/internal/box"
	"github.com/example/boxlabel/internal/geom"
	"github.com/example/boxlabel/internal/history"
	"github.com/example/boxlabel/internal/viewport"
)

type fixture struct {
	m    *Machine
	ctl  *Controls
	view *viewport.Transform
}

// newFixture builds a machine over an 800x600 image with a zoomed and panned
// viewport so that screen and image coordinates differ.
func newFixture(t *testing.T, tool Tool) *fixture {
	t.Helper()
	view := viewport.New()
	view.ZoomTo(2, geom.Pt(0, 0))
	view.PanBy(geom.Pt(30, 40))

	ctl := NewControls(tool, Style{Label: "car", Color: "#ff0000"})
	clock := time.UnixMilli(1_700_000_000_000)
	m := New(view, history.New(history.Capacity),
		WithTools(ctl),
		WithStyles(ctl),
		WithIDSource(box.NewIDSource(func() time.Time { return clock })),
		WithImageInfo(geom.ImageInfo{Width: 800, Height: 600, OriginalWidth: 1600, OriginalHeight: 1200}),
	)
	return &fixture{m: m, ctl: ctl, view: view}
}

// screen converts an image-space position to the screen position a pointer
// event would carry.
func (f *fixture) screen(x, y float64) geom.Point {
	return f.view.ToScreenSpace(geom.Pt(x, y))
}

func (f *fixture) drag(from, to geom.Point) {
	f.m.PointerDown(f.screen(from.X, from.Y))
	f.m.PointerMove(f.screen(to.X, to.Y))
	f.m.PointerUp(f.screen(to.X, to.Y))
}

func (f *fixture) draw(t *testing.T, sx, sy, cx, cy float64) box.Box {
	t.Helper()
	prev := f.ctl.Tool()
	f.ctl.SetTool(ToolBounding)
	f.drag(geom.Pt(sx, sy), geom.Pt(cx, cy))
	f.ctl.SetTool(prev)
	boxes := f.m.Boxes()
	require.NotEmpty(t, boxes)
	return boxes[len(boxes)-1]
}

func assertBox(t *testing.T, want [4]float64, got box.Box) {
	t.Helper()
	assert.InDelta(t, want[0], got.SX, 1e-9, "sX")
	assert.InDelta(t, want[1], got.SY, 1e-9, "sY")
	assert.InDelta(t, want[2], got.CX, 1e-9, "cX")
	assert.InDelta(t, want[3], got.CY, 1e-9, "cY")
}

func TestScenarioDrawBox(t *testing.T) {
	f := newFixture(t, ToolBounding)

	f.m.PointerDown(f.screen(10, 10))
	assert.Equal(t, StateDrawing, f.m.State())
	f.m.PointerMove(f.screen(110, 60))
	f.m.PointerUp(f.screen(110, 60))

	assert.Equal(t, StateNone, f.m.State())
	boxes := f.m.Boxes()
	require.Len(t, boxes, 1)
	assertBox(t, [4]float64{10, 10, 110, 60}, boxes[0])
	assert.Equal(t, "car", boxes[0].Label)
	assert.Equal(t, "#ff0000", boxes[0].Color)
	assert.Equal(t, boxes[0].ID, f.m.SelectedID())
	assert.Equal(t, 2, f.m.History().Len())
}

func TestScenarioDiscardTinyBox(t *testing.T) {
	f := newFixture(t, ToolBounding)

	f.m.PointerDown(f.screen(10, 10))
	f.m.PointerMove(f.screen(12, 11))
	f.m.PointerUp(f.screen(12, 11))

	assert.Empty(t, f.m.Boxes())
	assert.Equal(t, 1, f.m.History().Len(), "discarded draw leaves no history entry")
	assert.Zero(t, f.m.SelectedID())
}

func TestScenarioResizeTopLeft(t *testing.T) {
	f := newFixture(t, ToolSelect)
	b := f.draw(t, 10, 10, 110, 60)

	f.m.Select(0)
	f.m.PointerDown(f.screen(60, 35))
	f.m.PointerUp(f.screen(60, 35))
	require.Equal(t, b.ID, f.m.SelectedID())

	f.m.PointerDown(f.screen(10, 10))
	require.Equal(t, StateResizing, f.m.State())
	f.m.PointerMove(f.screen(30, 15))
	f.m.PointerUp(f.screen(30, 15))

	got, ok := f.m.Selected()
	require.True(t, ok)
	assertBox(t, [4]float64{30, 15, 110, 60}, got)
}

func TestScenarioMoveClampedToImage(t *testing.T) {
	f := newFixture(t, ToolSelect)
	b := f.draw(t, 700, 100, 780, 150)
	require.Equal(t, b.ID, f.m.SelectedID())

	f.m.PointerDown(f.screen(740, 120))
	require.Equal(t, StateMoving, f.m.State())
	f.m.PointerMove(f.screen(840, 130))
	f.m.PointerUp(f.screen(840, 130))

	got, ok := f.m.Selected()
	require.True(t, ok)
	assert.InDelta(t, 800, got.CX, 1e-9)
	assert.InDelta(t, 720, got.SX, 1e-9)
	assert.InDelta(t, 80, got.Width(), 1e-9)
	assert.InDelta(t, 50, got.Height(), 1e-9)
}

func TestDrawCanonicalisesReverseDrag(t *testing.T) {
	f := newFixture(t, ToolBounding)
	f.drag(geom.Pt(200, 150), geom.Pt(100, 50))

	boxes := f.m.Boxes()
	require.Len(t, boxes, 1)
	assert.True(t, boxes[0].IsCanonical())
	assertBox(t, [4]float64{100, 50, 200, 150}, boxes[0])
}

func TestDrawClampsToImage(t *testing.T) {
	f := newFixture(t, ToolBounding)
	f.drag(geom.Pt(700, 500), geom.Pt(950, 900))

	boxes := f.m.Boxes()
	require.Len(t, boxes, 1)
	assertBox(t, [4]float64{700, 500, 800, 600}, boxes[0])
}

func TestResizePastOppositeEdgeCanonicalises(t *testing.T) {
	f := newFixture(t, ToolSelect)
	f.draw(t, 100, 100, 200, 200)

	f.m.PointerDown(f.screen(200, 150))
	require.Equal(t, StateResizing, f.m.State())
	f.m.PointerMove(f.screen(50, 150))
	f.m.PointerUp(f.screen(50, 150))

	got, ok := f.m.Selected()
	require.True(t, ok)
	assert.True(t, got.IsCanonical())
	assertBox(t, [4]float64{50, 100, 100, 200}, got)
}

func TestPreviewDuringDragIsVisibleButNotRetained(t *testing.T) {
	f := newFixture(t, ToolBounding)

	f.m.PointerDown(f.screen(10, 10))
	f.m.PointerMove(f.screen(60, 60))
	require.Len(t, f.m.Boxes(), 1, "preview is visible mid-drag")
	assert.Equal(t, 1, f.m.History().Len())

	f.m.PointerUp(f.screen(60, 60))
	assert.Equal(t, 2, f.m.History().Len())

	require.True(t, f.m.Undo())
	assert.Empty(t, f.m.Boxes(), "undo returns to the state before the draw")
	assert.Zero(t, f.m.SelectedID())
}

func TestEscapeCancelsDraw(t *testing.T) {
	f := newFixture(t, ToolBounding)

	f.m.PointerDown(f.screen(10, 10))
	f.m.PointerMove(f.screen(100, 100))
	require.True(t, f.m.Cancel())

	assert.Equal(t, StateNone, f.m.State())
	assert.Empty(t, f.m.Boxes())
	assert.Zero(t, f.m.SelectedID())

	f.m.PointerUp(f.screen(100, 100))
	assert.Empty(t, f.m.Boxes(), "release after escape does nothing")
	assert.False(t, f.m.Cancel())
}

func TestDeleteSelected(t *testing.T) {
	f := newFixture(t, ToolSelect)
	f.draw(t, 10, 10, 110, 60)
	second := f.draw(t, 200, 200, 300, 300)
	require.Equal(t, second.ID, f.m.SelectedID())

	require.True(t, f.m.Delete())
	boxes := f.m.Boxes()
	require.Len(t, boxes, 1)
	assert.NotEqual(t, second.ID, boxes[0].ID)
	assert.Zero(t, f.m.SelectedID())
	assert.False(t, f.m.Delete(), "nothing selected")

	require.True(t, f.m.Undo())
	assert.Len(t, f.m.Boxes(), 2)
}

func TestSelectEmptySpaceClearsSelection(t *testing.T) {
	f := newFixture(t, ToolSelect)
	f.draw(t, 10, 10, 110, 60)
	require.NotZero(t, f.m.SelectedID())

	f.m.PointerDown(f.screen(500, 500))
	assert.Equal(t, StateNone, f.m.State())
	assert.Zero(t, f.m.SelectedID())
}

func TestClickWithoutMoveAddsNoHistory(t *testing.T) {
	f := newFixture(t, ToolSelect)
	f.draw(t, 10, 10, 110, 60)
	before := f.m.History().Len()

	f.m.PointerDown(f.screen(50, 30))
	f.m.PointerUp(f.screen(50, 30))
	assert.Equal(t, before, f.m.History().Len())
}

func TestMoveToolPans(t *testing.T) {
	f := newFixture(t, ToolMove)
	f.draw(t, 10, 10, 110, 60)
	pan := f.view.Pan()

	f.m.PointerDown(geom.Pt(100, 100))
	assert.True(t, f.m.Panning())
	f.m.PointerMove(geom.Pt(130, 90))
	f.m.PointerUp(geom.Pt(150, 90))

	assert.False(t, f.m.Panning())
	assert.Equal(t, pan.Add(geom.Pt(50, -10)), f.view.Pan())
	assertBox(t, [4]float64{10, 10, 110, 60}, f.m.Boxes()[0])
}

func TestPanIgnoresOtherPointerDowns(t *testing.T) {
	f := newFixture(t, ToolMove)
	f.m.PointerDown(geom.Pt(100, 100))
	f.ctl.SetTool(ToolBounding)
	f.m.PointerDown(f.screen(10, 10))

	assert.True(t, f.m.Panning())
	assert.Equal(t, StateNone, f.m.State())
	f.m.PointerUp(geom.Pt(100, 100))
	assert.Empty(t, f.m.Boxes())
}

func TestHeldToolOverridesSelection(t *testing.T) {
	ctl := NewControls(ToolBounding, Style{})
	ctl.Hold(ToolMove)
	assert.Equal(t, ToolMove, ctl.Tool())
	ctl.Release()
	assert.Equal(t, ToolBounding, ctl.Tool())
}

func TestReleaseCaptureFinalisesDrag(t *testing.T) {
	f := newFixture(t, ToolSelect)
	b := f.draw(t, 100, 100, 200, 200)

	f.m.PointerDown(f.screen(150, 150))
	f.m.PointerMove(f.screen(170, 160))
	f.m.ReleaseCapture()

	assert.Equal(t, StateNone, f.m.State())
	got, ok := f.m.Boxes().Find(b.ID)
	require.True(t, ok)
	assertBox(t, [4]float64{120, 110, 220, 210}, got)
}

func TestRelabelSelected(t *testing.T) {
	f := newFixture(t, ToolSelect)
	f.draw(t, 10, 10, 110, 60)
	before := f.m.History().Len()

	f.ctl.SetStyle(Style{Label: "person", Color: "#00ff00"})
	require.True(t, f.m.Relabel())
	got, _ := f.m.Selected()
	assert.Equal(t, "person", got.Label)
	assert.Equal(t, "#00ff00", got.Color)
	assert.Equal(t, before+1, f.m.History().Len())

	assert.False(t, f.m.Relabel(), "same style is a no-op")
}

func TestUndoBlockedDuringDrag(t *testing.T) {
	f := newFixture(t, ToolBounding)
	f.draw(t, 10, 10, 110, 60)

	f.m.PointerDown(f.screen(200, 200))
	assert.False(t, f.m.Undo())
	f.m.PointerUp(f.screen(300, 300))
	assert.Len(t, f.m.Boxes(), 2)
}

func TestNoImageInfoDrawIsNoop(t *testing.T) {
	m := New(nil, nil, WithTools(NewControls(ToolBounding, Style{})))
	m.PointerDown(geom.Pt(10, 10))
	m.PointerMove(geom.Pt(100, 100))
	m.PointerUp(geom.Pt(100, 100))

	assert.Equal(t, StateNone, m.State())
	assert.Empty(t, m.Boxes())
}

func TestHoverAndCursor(t *testing.T) {
	f := newFixture(t, ToolSelect)
	b := f.draw(t, 100, 100, 200, 200)
	f.m.Select(0)

	f.m.PointerMove(f.screen(150, 150))
	assert.Equal(t, b.ID, f.m.HoverID())
	assert.Equal(t, "move", f.m.Cursor())

	f.m.Select(b.ID)
	f.m.PointerMove(f.screen(200, 200))
	assert.Equal(t, "nwse-resize", f.m.Cursor())

	f.m.PointerMove(f.screen(500, 500))
	assert.Zero(t, f.m.HoverID())
	assert.Equal(t, "default", f.m.Cursor())

	f.ctl.SetTool(ToolBounding)
	assert.Equal(t, "crosshair", f.m.Cursor())
}

func TestResetViewClearsSelection(t *testing.T) {
	f := newFixture(t, ToolSelect)
	f.draw(t, 10, 10, 110, 60)

	f.m.ResetView()
	assert.Zero(t, f.m.SelectedID())
	assert.Equal(t, viewport.State{Scale: 1}, f.view.State())
	assert.Len(t, f.m.Boxes(), 1)
}

func TestClearAfterSubmit(t *testing.T) {
	f := newFixture(t, ToolSelect)
	f.draw(t, 10, 10, 110, 60)
	f.m.Clear()

	assert.Empty(t, f.m.Boxes())
	assert.Equal(t, 1, f.m.History().Len())
	assert.False(t, f.m.Undo())
}

func TestHandleSizeWidensHitTarget(t *testing.T) {
	f := newFixture(t, ToolSelect)
	b := f.draw(t, 100, 100, 200, 200)
	require.True(t, f.m.Select(b.ID))

	f.m.PointerMove(f.screen(94, 100))
	assert.Equal(t, "default", f.m.Cursor())

	WithHandleSize(16)(f.m)
	f.m.PointerMove(f.screen(94, 101))
	assert.Equal(t, "nwse-resize", f.m.Cursor())
}
