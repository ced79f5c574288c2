package theme

import (
	"image/color"
)

// Theme defines the colours used to paint the annotation surface.
type Theme struct {
	Name string

	// Surface
	Background   color.RGBA // Area outside the placed image
	CheckerLight color.RGBA // Behind transparent image pixels
	CheckerDark  color.RGBA

	// Boxes
	BoxFallback  color.RGBA // Stroke when a box colour cannot be parsed
	HandleFill   color.RGBA
	HandleStroke color.RGBA
	GuideLight   color.RGBA // Dashed inset guide and crosshair
	GuideDark    color.RGBA
	LabelText    color.RGBA

	// Status bar
	StatusBackground color.RGBA
	StatusText       color.RGBA
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:             "Default",
		Background:       color.RGBA{64, 64, 64, 255},
		CheckerLight:     color.RGBA{220, 220, 220, 255},
		CheckerDark:      color.RGBA{192, 192, 192, 255},
		BoxFallback:      color.RGBA{255, 0, 255, 255},
		HandleFill:       color.RGBA{255, 255, 255, 255},
		HandleStroke:     color.RGBA{0, 0, 0, 255},
		GuideLight:       color.RGBA{255, 255, 255, 255},
		GuideDark:        color.RGBA{0, 0, 0, 255},
		LabelText:        color.RGBA{255, 255, 255, 255},
		StatusBackground: color.RGBA{220, 220, 220, 255},
		StatusText:       color.RGBA{0, 0, 0, 255},
	}
}

// Fields lists the colour field names in declaration order.
func Fields() []string {
	return []string{
		"Background", "CheckerLight", "CheckerDark",
		"BoxFallback", "HandleFill", "HandleStroke", "GuideLight", "GuideDark", "LabelText",
		"StatusBackground", "StatusText",
	}
}
