package entity

import (
	"fmt"
	"math"
)

// PrintArea defines the printable region of a product view as fractions
// of a reference canvas (0..1). It is static configuration, never edited
// by the user.
type PrintArea struct {
	XPct        float64 `json:"x_pct" mapstructure:"x_pct"`
	YPct        float64 `json:"y_pct" mapstructure:"y_pct"`
	WidthPct    float64 `json:"width_pct" mapstructure:"width_pct"`
	HeightPct   float64 `json:"height_pct" mapstructure:"height_pct"`
	RotationDeg float64 `json:"rotation_deg,omitempty" mapstructure:"rotation_deg"`
}

// PixelRect is a print area resolved against a concrete canvas resolution.
type PixelRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ToPixels resolves the area against a canvas of the given size, rounding
// each coordinate to the nearest pixel. Scaling the canvas by k scales the
// result by k within 1px per dimension.
func (a PrintArea) ToPixels(canvasWidth, canvasHeight int) PixelRect {
	return PixelRect{
		X:      int(math.Round(a.XPct * float64(canvasWidth))),
		Y:      int(math.Round(a.YPct * float64(canvasHeight))),
		Width:  int(math.Round(a.WidthPct * float64(canvasWidth))),
		Height: int(math.Round(a.HeightPct * float64(canvasHeight))),
	}
}

// Validate rejects areas that would fall outside the canvas. This is a
// configuration-time check, not a runtime user error.
func (a PrintArea) Validate() error {
	if a.XPct < 0 || a.YPct < 0 {
		return fmt.Errorf("%w: negative origin (%.3f, %.3f)", ErrPrintAreaBounds, a.XPct, a.YPct)
	}
	if a.WidthPct <= 0 || a.HeightPct <= 0 {
		return fmt.Errorf("%w: non-positive size (%.3f x %.3f)", ErrPrintAreaBounds, a.WidthPct, a.HeightPct)
	}
	if a.XPct+a.WidthPct > 1 || a.YPct+a.HeightPct > 1 {
		return fmt.Errorf("%w: area exceeds canvas (%.3f+%.3f, %.3f+%.3f)",
			ErrPrintAreaBounds, a.XPct, a.WidthPct, a.YPct, a.HeightPct)
	}
	return nil
}
