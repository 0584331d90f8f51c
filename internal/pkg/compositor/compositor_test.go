package compositor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/printforge/designer/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapResolver map[string][]byte

func (m mapResolver) Open(ref string) (io.ReadCloser, error) {
	data, ok := m[ref]
	if !ok {
		return nil, fmt.Errorf("no such photo %q", ref)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func jpegBytes(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(w, h, c), imaging.JPEG))
	return buf.Bytes()
}

func hoodieInput() Input {
	return Input{
		Product: entity.ProductConfig{
			ID:         "hoodie",
			CanvasSize: entity.CanvasSize{Width: 400, Height: 480},
		},
		View: entity.ProductView{
			ID:           "front",
			PrintArea:    entity.PrintArea{XPct: 0.22, YPct: 0.25, WidthPct: 0.56, HeightPct: 0.40},
			HasRealPhoto: true,
		},
		Color: entity.ProductColor{ID: "black", Hex: "#1f1f1f", PhotoAvailable: true},
		Scale: 1,
	}
}

func TestMultiplyChannel(t *testing.T) {
	tests := []struct {
		src, dst, want uint8
	}{
		{src: 255, dst: 255, want: 255},
		{src: 255, dst: 100, want: 100},
		{src: 0, dst: 200, want: 0},
		{src: 128, dst: 128, want: 64},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, multiplyChannel(tt.src, tt.dst))
	}
}

func TestBlendNormal(t *testing.T) {
	// opaque source replaces destination
	r, g, b, a := blendNormal(10, 20, 30, 255, 200, 200, 200, 255)
	assert.Equal(t, [4]uint8{10, 20, 30, 255}, [4]uint8{r, g, b, a})

	// fully transparent source over opaque destination leaves it alone
	r, g, b, a = blendNormal(10, 20, 30, 0, 200, 201, 202, 255)
	assert.Equal(t, [4]uint8{200, 201, 202, 255}, [4]uint8{r, g, b, a})

	// source over empty destination is the source
	r, g, b, a = blendNormal(10, 20, 30, 100, 0, 0, 0, 0)
	assert.Equal(t, [4]uint8{10, 20, 30, 100}, [4]uint8{r, g, b, a})
}

// TestDrawMultiplyDarkens checks the multiply invariant: the result is
// never brighter than the destination underneath.
func TestDrawMultiplyDarkens(t *testing.T) {
	dst := imaging.New(50, 50, color.NRGBA{R: 180, G: 180, B: 180, A: 255})
	src := imaging.New(20, 20, color.NRGBA{R: 120, G: 200, B: 255, A: 255})

	drawMultiply(dst, src, image.Pt(10, 10), 1.0)

	i := dst.PixOffset(15, 15)
	assert.LessOrEqual(t, dst.Pix[i], uint8(180))
	assert.LessOrEqual(t, dst.Pix[i+1], uint8(180))
	assert.LessOrEqual(t, dst.Pix[i+2], uint8(180))

	// white source times destination is the destination
	white := imaging.New(5, 5, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	plain := imaging.New(10, 10, color.NRGBA{R: 99, G: 98, B: 97, A: 255})
	drawMultiply(plain, white, image.Pt(0, 0), 1.0)
	j := plain.PixOffset(2, 2)
	assert.InDelta(t, 99, int(plain.Pix[j]), 1)
}

func TestDrawMultiplySkipsTransparentSource(t *testing.T) {
	dst := imaging.New(10, 10, color.NRGBA{R: 50, G: 60, B: 70, A: 255})
	src := imaging.New(10, 10, color.NRGBA{})

	drawMultiply(dst, src, image.Pt(0, 0), 1.0)

	i := dst.PixOffset(5, 5)
	assert.Equal(t, uint8(50), dst.Pix[i])
	assert.Equal(t, uint8(60), dst.Pix[i+1])
}

func TestDrawMultiplyClipsOutOfBounds(t *testing.T) {
	dst := imaging.New(10, 10, color.NRGBA{R: 50, A: 255})
	src := imaging.New(20, 20, color.NRGBA{R: 10, A: 255})

	// partially off every edge; must not panic
	drawMultiply(dst, src, image.Pt(-5, -5), 1.0)
	drawMultiply(dst, src, image.Pt(8, 8), 1.0)
}

func TestComposeWithPhoto(t *testing.T) {
	photos := mapResolver{
		"photos/hoodie_black_front.jpg": jpegBytes(t, 200, 240, color.NRGBA{R: 40, G: 40, B: 40, A: 255}),
	}
	c := New(photos)

	in := hoodieInput()
	in.Design = imaging.New(224, 192, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	out, err := c.Compose(in)
	require.NoError(t, err)
	assert.Equal(t, 400, out.Bounds().Dx())
	assert.Equal(t, 480, out.Bounds().Dy())
}

func TestComposeMissingPhotoFails(t *testing.T) {
	c := New(mapResolver{})
	in := hoodieInput()
	_, err := c.Compose(in)
	assert.Error(t, err, "missing photo is an error; callers fall back to the raw design")
}

func TestComposeSyntheticSilhouette(t *testing.T) {
	tests := []struct {
		name       string
		productID  string
		canvasW    int
		canvasH    int
		scale      float64
		wantWidth  int
		wantHeight int
	}{
		{name: "navy hoodie", productID: "hoodie", canvasW: 400, canvasH: 480, scale: 1, wantWidth: 400, wantHeight: 480},
		{name: "mug at export scale", productID: "mug", canvasW: 400, canvasH: 300, scale: 3, wantWidth: 1200, wantHeight: 900},
		{name: "red tshirt", productID: "tshirt", canvasW: 400, canvasH: 450, scale: 1, wantWidth: 400, wantHeight: 450},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(mapResolver{})
			in := Input{
				Product: entity.ProductConfig{
					ID:         tt.productID,
					CanvasSize: entity.CanvasSize{Width: tt.canvasW, Height: tt.canvasH},
				},
				View: entity.ProductView{
					ID:        "front",
					PrintArea: entity.PrintArea{XPct: 0.25, YPct: 0.25, WidthPct: 0.5, HeightPct: 0.5},
				},
				Color: entity.ProductColor{ID: "navy", Hex: "#1e2a4a"},
				Scale: tt.scale,
			}
			out, err := c.Compose(in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantWidth, out.Bounds().Dx())
			assert.Equal(t, tt.wantHeight, out.Bounds().Dy())

			// the silhouette paints something other than the flat backdrop
			center := out.PixOffset(out.Bounds().Dx()/2, out.Bounds().Dy()/2)
			assert.NotZero(t, out.Pix[center+3])
		})
	}
}

func TestComposeRejectsBadInput(t *testing.T) {
	c := New(mapResolver{})

	in := hoodieInput()
	in.Scale = 0
	_, err := c.Compose(in)
	assert.Error(t, err)

	in = hoodieInput()
	in.View.HasRealPhoto = false
	in.Color.Hex = "not-a-color"
	_, err = c.Compose(in)
	assert.Error(t, err)
}

// TestApplyGrainPreservesTransparency checks that texture is only ever
// stamped onto painted pixels.
func TestApplyGrainPreservesTransparency(t *testing.T) {
	img := imaging.New(48, 48, color.NRGBA{})
	applyGrain(img)
	for i := 3; i < len(img.Pix); i += 4 {
		assert.Zero(t, img.Pix[i], "grain must not paint transparent pixels")
	}
}

func TestApplyGrainDarkensDots(t *testing.T) {
	img := imaging.New(48, 48, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	applyGrain(img)

	darkened := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] < 200 {
			darkened++
		}
	}
	assert.Greater(t, darkened, 0)
	assert.Less(t, darkened, 48*48/4, "grain is sparse")
}

func TestApplyRadialShadeGradient(t *testing.T) {
	img := imaging.New(100, 100, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	applyRadialShade(img)

	nearLight := img.PixOffset(2, 2)
	farShadow := img.PixOffset(97, 97)
	assert.Greater(t, img.Pix[nearLight], img.Pix[farShadow],
		"top-left must come out brighter than bottom-right")
	assert.Greater(t, img.Pix[nearLight], uint8(128))
	assert.Less(t, img.Pix[farShadow], uint8(128))
}

func TestApplyRadialShadeSkipsTransparent(t *testing.T) {
	img := imaging.New(40, 40, color.NRGBA{})
	applyRadialShade(img)
	for i := 3; i < len(img.Pix); i += 4 {
		assert.Zero(t, img.Pix[i])
	}
}
