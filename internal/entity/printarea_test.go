package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestToPixels checks the fraction-to-pixel resolution against known
// product canvases.
func TestToPixels(t *testing.T) {
	tests := []struct {
		name         string
		area         PrintArea
		canvasWidth  int
		canvasHeight int
		want         PixelRect
	}{
		{
			name:         "hoodie front on reference canvas",
			area:         PrintArea{XPct: 0.22, YPct: 0.25, WidthPct: 0.56, HeightPct: 0.40},
			canvasWidth:  400,
			canvasHeight: 480,
			want:         PixelRect{X: 88, Y: 120, Width: 224, Height: 192},
		},
		{
			name:         "tshirt front on reference canvas",
			area:         PrintArea{XPct: 0.25, YPct: 0.18, WidthPct: 0.50, HeightPct: 0.55},
			canvasWidth:  400,
			canvasHeight: 450,
			want:         PixelRect{X: 100, Y: 81, Width: 200, Height: 248},
		},
		{
			name:         "full canvas area",
			area:         PrintArea{XPct: 0, YPct: 0, WidthPct: 1, HeightPct: 1},
			canvasWidth:  123,
			canvasHeight: 77,
			want:         PixelRect{X: 0, Y: 0, Width: 123, Height: 77},
		},
		{
			name:         "rounding to nearest pixel",
			area:         PrintArea{XPct: 0.333, YPct: 0.333, WidthPct: 0.334, HeightPct: 0.334},
			canvasWidth:  100,
			canvasHeight: 100,
			want:         PixelRect{X: 33, Y: 33, Width: 33, Height: 33},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.area.ToPixels(tt.canvasWidth, tt.canvasHeight)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestToPixelsScaleInvariance checks that resolving at k times the
// canvas size lands within 1px per dimension of k times the base rect.
func TestToPixelsScaleInvariance(t *testing.T) {
	areas := []PrintArea{
		{XPct: 0.22, YPct: 0.25, WidthPct: 0.56, HeightPct: 0.40},
		{XPct: 0.30, YPct: 0.25, WidthPct: 0.40, HeightPct: 0.50},
		{XPct: 0.017, YPct: 0.013, WidthPct: 0.911, HeightPct: 0.733},
	}
	factors := []float64{2, 3, 4.5, 10}

	for _, area := range areas {
		base := area.ToPixels(400, 480)
		for _, k := range factors {
			scaled := area.ToPixels(int(400*k), int(480*k))
			assert.InDelta(t, float64(base.X)*k, float64(scaled.X), 1.0+k/2)
			assert.InDelta(t, float64(base.Y)*k, float64(scaled.Y), 1.0+k/2)
			assert.InDelta(t, float64(base.Width)*k, float64(scaled.Width), 1.0+k/2)
			assert.InDelta(t, float64(base.Height)*k, float64(scaled.Height), 1.0+k/2)
		}
	}
}

// TestToPixelsRoundsHalfAway documents the rounding mode: .5 goes away
// from zero, matching math.Round.
func TestToPixelsRoundsHalfAway(t *testing.T) {
	area := PrintArea{XPct: 0.125, YPct: 0.125, WidthPct: 0.25, HeightPct: 0.25}
	got := area.ToPixels(100, 100)
	assert.Equal(t, int(math.Round(12.5)), got.X)
	assert.Equal(t, 13, got.X)
}

func TestPrintAreaValidate(t *testing.T) {
	tests := []struct {
		name    string
		area    PrintArea
		wantErr bool
	}{
		{
			name: "valid area",
			area: PrintArea{XPct: 0.22, YPct: 0.25, WidthPct: 0.56, HeightPct: 0.40},
		},
		{
			name: "exact fit",
			area: PrintArea{XPct: 0, YPct: 0, WidthPct: 1, HeightPct: 1},
		},
		{
			name:    "negative origin",
			area:    PrintArea{XPct: -0.1, YPct: 0.2, WidthPct: 0.5, HeightPct: 0.5},
			wantErr: true,
		},
		{
			name:    "zero width",
			area:    PrintArea{XPct: 0.1, YPct: 0.1, WidthPct: 0, HeightPct: 0.5},
			wantErr: true,
		},
		{
			name:    "overflows right edge",
			area:    PrintArea{XPct: 0.6, YPct: 0.1, WidthPct: 0.5, HeightPct: 0.5},
			wantErr: true,
		},
		{
			name:    "overflows bottom edge",
			area:    PrintArea{XPct: 0.1, YPct: 0.7, WidthPct: 0.5, HeightPct: 0.4},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.area.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPrintAreaBounds)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
