package hittest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/boxlabel/internal/box"
	"github.com/example/boxlabel/internal/geom"
)

func TestTolerance(t *testing.T) {
	assert.InDelta(t, 9.0, Tolerance(1), 1e-12)
	assert.InDelta(t, 4.5, Tolerance(2), 1e-12)
	assert.InDelta(t, 90.0, Tolerance(0.1), 1e-9)
	assert.InDelta(t, HandleSize, Tolerance(0), 1e-12)
	assert.InDelta(t, 6.0, ToleranceFor(12, 2), 1e-12)
	assert.InDelta(t, 4.5, ToleranceFor(0, 2), 1e-12)
}

func TestResolveHandle(t *testing.T) {
	b := box.Box{ID: 1, SX: 100, SY: 100, CX: 200, CY: 160}
	tol := Tolerance(1)

	tests := []struct {
		name string
		p    geom.Point
		want box.Handle
	}{
		{"tl", geom.Pt(102, 97), box.HandleTopLeft},
		{"tr", geom.Pt(205, 100), box.HandleTopRight},
		{"bl", geom.Pt(100, 168), box.HandleBottomLeft},
		{"br", geom.Pt(193, 153), box.HandleBottomRight},
		{"t", geom.Pt(150, 104), box.HandleTop},
		{"r", geom.Pt(196, 130), box.HandleRight},
		{"b", geom.Pt(150, 165), box.HandleBottom},
		{"l", geom.Pt(95, 130), box.HandleLeft},
		{"inside", geom.Pt(150, 130), box.HandleInside},
		{"outside", geom.Pt(300, 300), box.HandleNone},
		{"edge band beyond corners", geom.Pt(215, 104), box.HandleNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveHandle(tt.p, b, true, tol))
		})
	}
}

func TestResolveHandleUnselectedOnlyInside(t *testing.T) {
	b := box.Box{ID: 1, SX: 100, SY: 100, CX: 200, CY: 160}
	tol := Tolerance(1)

	assert.Equal(t, box.HandleInside, ResolveHandle(geom.Pt(101, 101), b, false, tol))
	assert.Equal(t, box.HandleNone, ResolveHandle(geom.Pt(97, 97), b, false, tol))
}

func TestToleranceShrinksWithZoom(t *testing.T) {
	b := box.Box{ID: 1, SX: 100, SY: 100, CX: 200, CY: 160}
	p := geom.Pt(96, 96)

	assert.Equal(t, box.HandleTopLeft, ResolveHandle(p, b, true, Tolerance(1)))
	assert.Equal(t, box.HandleNone, ResolveHandle(p, b, true, Tolerance(4)))
}

func TestResolveTopBoxAtZOrder(t *testing.T) {
	boxes := box.Collection{
		{ID: 1, SX: 0, SY: 0, CX: 100, CY: 100},
		{ID: 2, SX: 50, SY: 50, CX: 150, CY: 150},
	}
	hit, ok := ResolveTopBoxAt(geom.Pt(75, 75), boxes, 0, Tolerance(1))
	require.True(t, ok)
	assert.Equal(t, int64(2), hit.Box.ID, "last created box is on top")
	assert.Equal(t, box.HandleInside, hit.Handle)

	_, ok = ResolveTopBoxAt(geom.Pt(400, 400), boxes, 0, Tolerance(1))
	assert.False(t, ok)
}

func TestResolveTopBoxAtSelectionWins(t *testing.T) {
	boxes := box.Collection{
		{ID: 1, SX: 0, SY: 0, CX: 100, CY: 100},
		{ID: 2, SX: 50, SY: 50, CX: 150, CY: 150},
	}
	hit, ok := ResolveTopBoxAt(geom.Pt(75, 75), boxes, 1, Tolerance(1))
	require.True(t, ok)
	assert.Equal(t, int64(1), hit.Box.ID)
	assert.Equal(t, box.HandleInside, hit.Handle)

	hit, ok = ResolveTopBoxAt(geom.Pt(98, 98), boxes, 1, Tolerance(1))
	require.True(t, ok)
	assert.Equal(t, int64(1), hit.Box.ID)
	assert.Equal(t, box.HandleBottomRight, hit.Handle)
}
