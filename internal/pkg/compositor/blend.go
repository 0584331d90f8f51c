package compositor

import (
	"image"
)

// blendNormal is Porter-Duff source-over on non-premultiplied channels.
func blendNormal(srcR, srcG, srcB, srcA, dstR, dstG, dstB, dstA uint8) (r, g, b, a uint8) {
	if srcA == 255 {
		return srcR, srcG, srcB, 255
	}
	if dstA == 0 {
		return srcR, srcG, srcB, srcA
	}
	sa := float64(srcA) / 255.0
	da := float64(dstA) / 255.0
	outA := sa + da*(1-sa)
	if outA == 0 {
		return 0, 0, 0, 0
	}
	r = uint8((float64(srcR)*sa + float64(dstR)*da*(1-sa)) / outA)
	g = uint8((float64(srcG)*sa + float64(dstG)*da*(1-sa)) / outA)
	b = uint8((float64(srcB)*sa + float64(dstB)*da*(1-sa)) / outA)
	a = uint8(outA * 255.0)
	return r, g, b, a
}

// multiplyChannel multiplies two color channels.
func multiplyChannel(src, dst uint8) uint8 {
	return uint8((int(src) * int(dst)) / 255)
}

// drawMultiply composites src onto dst at pos with the multiply blend
// mode: the source color is multiplied with the destination first, so
// the design inherits the shading of the fabric underneath, then the
// result is alpha-blended at the given opacity.
func drawMultiply(dst, src *image.NRGBA, pos image.Point, opacity float64) {
	srcB := src.Bounds()
	dstB := dst.Bounds()
	for y := 0; y < srcB.Dy(); y++ {
		dy := pos.Y + y
		if dy < dstB.Min.Y || dy >= dstB.Max.Y {
			continue
		}
		for x := 0; x < srcB.Dx(); x++ {
			dx := pos.X + x
			if dx < dstB.Min.X || dx >= dstB.Max.X {
				continue
			}
			si := src.PixOffset(srcB.Min.X+x, srcB.Min.Y+y)
			sr, sg, sb, sa := src.Pix[si], src.Pix[si+1], src.Pix[si+2], src.Pix[si+3]
			if sa == 0 {
				continue
			}
			sa = uint8(float64(sa) * opacity)

			di := dst.PixOffset(dx, dy)
			dr, dg, db, da := dst.Pix[di], dst.Pix[di+1], dst.Pix[di+2], dst.Pix[di+3]

			mr := multiplyChannel(sr, dr)
			mg := multiplyChannel(sg, dg)
			mb := multiplyChannel(sb, db)

			r, g, b, a := blendNormal(mr, mg, mb, sa, dr, dg, db, da)
			dst.Pix[di], dst.Pix[di+1], dst.Pix[di+2], dst.Pix[di+3] = r, g, b, a
		}
	}
}
