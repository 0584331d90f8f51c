package compositor

import (
	"image"
	"math"
)

// Fabric texture and depth constants. The exact fidelity is aesthetic;
// these are tuned by eye.
const (
	grainStep    = 6  // px between grain dots
	grainAlpha   = 8  // ~3% of 255
	shadeMaxDark = 46 // strongest darkening at the far corner
	shadeMaxLite = 26 // strongest lightening at the near corner
)

// applyGrain stamps a sparse regular dot pattern over the image to fake
// fabric texture.
func applyGrain(img *image.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += grainStep {
		// offset odd rows for a woven look
		xOff := 0
		if ((y-b.Min.Y)/grainStep)%2 == 1 {
			xOff = grainStep / 2
		}
		for x := b.Min.X + xOff; x < b.Max.X; x += grainStep {
			i := img.PixOffset(x, y)
			if img.Pix[i+3] == 0 {
				continue
			}
			r, g, bl, a := blendNormal(0, 0, 0, grainAlpha,
				img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3])
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, bl, a
		}
	}
}

// applyRadialShade overlays a radial light/shadow gradient: light near
// the top-left corner, falling off to shadow at the bottom-right, so a
// flat silhouette reads as a lit object.
func applyRadialShade(img *image.NRGBA) {
	b := img.Bounds()
	maxDist := math.Hypot(float64(b.Dx()), float64(b.Dy()))
	if maxDist == 0 {
		return
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			if img.Pix[i+3] == 0 {
				continue
			}
			t := math.Hypot(float64(x-b.Min.X), float64(y-b.Min.Y)) / maxDist
			var sr, sg, sb, sa uint8
			if t < 0.5 {
				// near the light corner: white, fading out
				sa = uint8((0.5 - t) * 2 * shadeMaxLite)
				sr, sg, sb = 255, 255, 255
			} else {
				// towards the far corner: black, fading in
				sa = uint8((t - 0.5) * 2 * shadeMaxDark)
			}
			if sa == 0 {
				continue
			}
			r, g, bl, a := blendNormal(sr, sg, sb, sa,
				img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3])
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, bl, a
		}
	}
}
