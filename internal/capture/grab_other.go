//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"context"
	"image"
)

func grab(context.Context, bool) (*image.RGBA, error) { return nil, ErrUnsupported }

func listMonitors() ([]Monitor, error) { return nil, ErrUnsupported }
