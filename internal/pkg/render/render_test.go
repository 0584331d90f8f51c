package render

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/printforge/designer/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapResolver serves sources from memory.
type mapResolver map[string][]byte

func (m mapResolver) Open(ref string) (io.ReadCloser, error) {
	data, ok := m[ref]
	if !ok {
		return nil, fmt.Errorf("no such source %q", ref)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func pngBytes(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := imaging.New(w, h, c)
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func testFonts(t *testing.T) *FontSet {
	t.Helper()
	fs, err := NewFontSet("")
	require.NoError(t, err)
	return fs
}

func TestRenderDimensions(t *testing.T) {
	tests := []struct {
		name       string
		baseWidth  int
		baseHeight int
		multiplier float64
		wantWidth  int
		wantHeight int
	}{
		{name: "print multiplier", baseWidth: 224, baseHeight: 192, multiplier: 3, wantWidth: 672, wantHeight: 576},
		{name: "identity", baseWidth: 224, baseHeight: 192, multiplier: 1, wantWidth: 224, wantHeight: 192},
		{name: "fractional multiplier rounds", baseWidth: 101, baseHeight: 51, multiplier: 1.5, wantWidth: 152, wantHeight: 77},
	}

	r := NewRasterizer(mapResolver{}, testFonts(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := r.Render(nil, tt.baseWidth, tt.baseHeight, tt.multiplier)
			require.NotNil(t, img)
			assert.Equal(t, tt.wantWidth, img.Bounds().Dx())
			assert.Equal(t, tt.wantHeight, img.Bounds().Dy())
		})
	}
}

func TestRenderEmptySceneIsTransparent(t *testing.T) {
	r := NewRasterizer(mapResolver{}, testFonts(t))
	img := r.Render(nil, 50, 50, 1)
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			t.Fatalf("pixel %d not transparent", i)
		}
	}
}

func TestRenderImageLayer(t *testing.T) {
	sources := mapResolver{
		"uploads/red.png": pngBytes(t, 80, 60, color.NRGBA{R: 200, A: 255}),
	}
	r := NewRasterizer(sources, testFonts(t))

	layer := entity.Layer{
		ID:   "l1",
		Type: entity.LayerImage,
		Transform: entity.Transform{
			X: 112, Y: 96, Scale: 1, OriginX: 0.5, OriginY: 0.5,
		},
		Visible:      true,
		SourceRef:    "uploads/red.png",
		Opacity:      1,
		SourceWidth:  80,
		SourceHeight: 60,
	}
	img := r.Render([]entity.Layer{layer}, 224, 192, 1)

	// center of the canvas is inside the pasted image
	i := img.PixOffset(112, 96)
	assert.NotZero(t, img.Pix[i+3], "center pixel should be painted")
	assert.Greater(t, int(img.Pix[i]), 150, "center pixel should be red")

	// far corner stays transparent
	i = img.PixOffset(2, 2)
	assert.Zero(t, img.Pix[i+3])
}

func TestRenderSkipsInvisibleLayers(t *testing.T) {
	sources := mapResolver{
		"uploads/red.png": pngBytes(t, 80, 60, color.NRGBA{R: 200, A: 255}),
	}
	r := NewRasterizer(sources, testFonts(t))

	layer := entity.Layer{
		ID:        "l1",
		Type:      entity.LayerImage,
		Transform: entity.Transform{X: 112, Y: 96, Scale: 1, OriginX: 0.5, OriginY: 0.5},
		Visible:   false,
		SourceRef: "uploads/red.png",
		Opacity:   1,
	}
	img := r.Render([]entity.Layer{layer}, 224, 192, 1)
	i := img.PixOffset(112, 96)
	assert.Zero(t, img.Pix[i+3])
}

// TestRenderSkipsBrokenLayer checks partial failure tolerance: a layer
// whose source is gone is skipped, the rest of the scene still renders.
func TestRenderSkipsBrokenLayer(t *testing.T) {
	sources := mapResolver{
		"uploads/ok.png": pngBytes(t, 40, 40, color.NRGBA{G: 180, A: 255}),
	}
	r := NewRasterizer(sources, testFonts(t))

	layers := []entity.Layer{
		{
			ID: "broken", Type: entity.LayerImage, Visible: true,
			Transform: entity.Transform{X: 50, Y: 50, Scale: 1, OriginX: 0.5, OriginY: 0.5},
			SourceRef: "uploads/gone.png",
		},
		{
			ID: "ok", Type: entity.LayerImage, Visible: true,
			Transform: entity.Transform{X: 112, Y: 96, Scale: 1, OriginX: 0.5, OriginY: 0.5},
			SourceRef: "uploads/ok.png", Opacity: 1,
		},
	}

	img := r.Render(layers, 224, 192, 1)
	require.NotNil(t, img)
	i := img.PixOffset(112, 96)
	assert.NotZero(t, img.Pix[i+3], "surviving layer still renders")
}

func TestRenderTextLayer(t *testing.T) {
	r := NewRasterizer(mapResolver{}, testFonts(t))
	layer := entity.Layer{
		ID:         "t1",
		Type:       entity.LayerText,
		Transform:  entity.Transform{X: 112, Y: 96, Scale: 1, OriginX: 0.5, OriginY: 0.5},
		Visible:    true,
		Text:       "Hello",
		FontSizePx: 36,
		ColorHex:   "#ff0000",
		Direction:  entity.DirectionLTR,
	}
	img := r.Render([]entity.Layer{layer}, 224, 192, 1)

	painted := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			painted++
		}
	}
	assert.Greater(t, painted, 0, "text should paint glyph pixels")
}

func TestRenderTextBuffer(t *testing.T) {
	fs := testFonts(t)
	img, err := fs.RenderText("Hello\nWorld", "", 24, "#000000", entity.DirectionLTR, "center")
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
	assert.Greater(t, img.Bounds().Dy(), 0)

	_, err = fs.RenderText("x", "", 0.2, "#000000", entity.DirectionLTR, "")
	assert.Error(t, err, "sub-pixel font size is rejected")
}

func TestFontSetFallback(t *testing.T) {
	fs := testFonts(t)
	// unknown family falls back instead of failing
	img, err := fs.RenderText("fallback", "no-such-family", 18, "#336699", entity.DirectionLTR, "")
	require.NoError(t, err)
	assert.NotNil(t, img)
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: "#ffffff", want: color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{in: "#1f1f1f", want: color.NRGBA{R: 31, G: 31, B: 31, A: 255}},
		{in: "#fff", want: color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{in: "f00", want: color.NRGBA{R: 255, A: 255}},
		{in: " #b3202c ", want: color.NRGBA{R: 179, G: 32, B: 44, A: 255}},
		{in: "", wantErr: true},
		{in: "#12345", wantErr: true},
		{in: "#zzzzzz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVisualOrder(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		direction entity.TextDirection
		want      string
	}{
		{name: "latin ltr unchanged", in: "hello", direction: entity.DirectionLTR, want: "hello"},
		{name: "arabic rtl reversed for drawing", in: "مرحبا", direction: entity.DirectionRTL, want: "ابحرم"},
		{name: "empty string", in: "", direction: entity.DirectionRTL, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, visualOrder(tt.in, tt.direction))
		})
	}
}

func TestLineX(t *testing.T) {
	tests := []struct {
		name      string
		align     string
		direction entity.TextDirection
		want      int
	}{
		{name: "explicit center", align: "center", direction: entity.DirectionLTR, want: 25},
		{name: "explicit right", align: "right", direction: entity.DirectionLTR, want: 50},
		{name: "explicit left", align: "left", direction: entity.DirectionRTL, want: 0},
		{name: "default follows ltr", align: "", direction: entity.DirectionLTR, want: 0},
		{name: "default follows rtl", align: "", direction: entity.DirectionRTL, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lineX(tt.align, tt.direction, 100, 50))
		})
	}
}
