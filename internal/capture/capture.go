// Package capture grabs a screenshot so it can be annotated directly.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strconv"
	"strings"
)

var (
	// ErrUnsupported is returned on platforms without a capture backend.
	ErrUnsupported = errors.New("screen capture not supported on this platform")
	// ErrNoMonitor is returned when a display selector matches nothing.
	ErrNoMonitor = errors.New("no matching monitor")
)

// Options controls a Grab.
type Options struct {
	// Display selects one monitor by name, index or "primary". Empty keeps
	// the whole desktop.
	Display string
	// Interactive lets the user pick a region through the desktop portal.
	Interactive bool
}

// Monitor is one connected output in global desktop coordinates.
type Monitor struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

// Grab captures the desktop, cropped to opts.Display when set.
func Grab(ctx context.Context, opts Options) (*image.RGBA, error) {
	img, err := grab(ctx, opts.Interactive)
	if err != nil {
		return nil, err
	}
	if opts.Display == "" || opts.Interactive {
		return img, nil
	}
	monitors, err := listMonitors()
	if err != nil {
		return nil, err
	}
	m, err := FindMonitor(monitors, opts.Display)
	if err != nil {
		return nil, err
	}
	return Crop(img, m.Rect)
}

// Monitors lists the connected outputs.
func Monitors() ([]Monitor, error) {
	return listMonitors()
}

// FindMonitor resolves selector against monitors. "" and "primary" pick the
// primary output, falling back to the first one.
func FindMonitor(monitors []Monitor, selector string) (Monitor, error) {
	if len(monitors) == 0 {
		return Monitor{}, ErrNoMonitor
	}
	sel := strings.TrimSpace(selector)
	if sel == "" || strings.EqualFold(sel, "primary") {
		for _, m := range monitors {
			if m.Primary {
				return m, nil
			}
		}
		return monitors[0], nil
	}
	if idx, err := strconv.Atoi(sel); err == nil {
		for _, m := range monitors {
			if m.Index == idx {
				return m, nil
			}
		}
		return Monitor{}, fmt.Errorf("%w: index %d", ErrNoMonitor, idx)
	}
	for _, m := range monitors {
		if strings.EqualFold(m.Name, sel) {
			return m, nil
		}
	}
	return Monitor{}, fmt.Errorf("%w: %q", ErrNoMonitor, sel)
}

// Crop copies rect out of src into a zero-origin image.
func Crop(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("region %v outside captured image", rect)
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
