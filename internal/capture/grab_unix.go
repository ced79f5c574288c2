//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// Swapped out in tests.
var (
	portalGrab = portalScreenshot
	rootGrab   = x11RootImage
)

// grab prefers the desktop portal and falls back to reading the X11 root
// window when the portal is unavailable outside Wayland.
func grab(ctx context.Context, interactive bool) (*image.RGBA, error) {
	img, err := portalGrab(ctx, interactive)
	if err == nil {
		return img, nil
	}
	if interactive || ctx.Err() != nil || runningOnWayland() {
		return nil, err
	}
	log.Debug().Err(err).Msg("portal screenshot failed, reading X11 root window")
	img, xerr := rootGrab()
	if xerr != nil {
		return nil, fmt.Errorf("portal: %v; x11: %w", err, xerr)
	}
	return img, nil
}

func listMonitors() ([]Monitor, error) {
	return x11Monitors()
}

func runningOnWayland() bool {
	if strings.EqualFold(strings.TrimSpace(os.Getenv("XDG_SESSION_TYPE")), "wayland") {
		return true
	}
	return os.Getenv("WAYLAND_DISPLAY") != ""
}
