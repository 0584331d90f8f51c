package compositor

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"
)

// backdrop is the neutral studio background behind synthetic products.
var backdrop = color.NRGBA{R: 240, G: 240, B: 242, A: 255}

// kappa approximates a quarter circle with one cubic segment.
const kappa = 0.5523

// synthesizeBase draws a procedural product silhouette in the selected
// color when no real photograph exists for the (product, color, view)
// triple.
func synthesizeBase(productID string, w, h int, fill color.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(backdrop), image.Point{}, draw.Src)

	switch productID {
	case "mug":
		drawMug(dst, w, h, fill)
	case "hoodie":
		drawGarment(dst, w, h, fill, true)
	default:
		drawGarment(dst, w, h, fill, false)
	}
	return dst
}

// drawGarment fills a torso-with-sleeves silhouette; hooded garments
// additionally get a hood arc and a kangaroo-pocket outline.
func drawGarment(dst *image.NRGBA, w, h int, fill color.NRGBA, hooded bool) {
	fw, fh := float32(w), float32(h)
	r := vector.NewRasterizer(w, h)

	// torso
	r.MoveTo(0.25*fw, 0.18*fh)
	r.LineTo(0.75*fw, 0.18*fh)
	r.LineTo(0.78*fw, 0.92*fh)
	r.LineTo(0.22*fw, 0.92*fh)
	r.ClosePath()

	// sleeves
	r.MoveTo(0.25*fw, 0.18*fh)
	r.LineTo(0.06*fw, 0.30*fh)
	r.LineTo(0.12*fw, 0.62*fh)
	r.LineTo(0.25*fw, 0.55*fh)
	r.ClosePath()
	r.MoveTo(0.75*fw, 0.18*fh)
	r.LineTo(0.94*fw, 0.30*fh)
	r.LineTo(0.88*fw, 0.62*fh)
	r.LineTo(0.75*fw, 0.55*fh)
	r.ClosePath()

	if hooded {
		// hood arc over the shoulders
		r.MoveTo(0.33*fw, 0.18*fh)
		r.CubeTo(0.33*fw, 0.04*fh, 0.67*fw, 0.04*fh, 0.67*fw, 0.18*fh)
		r.CubeTo(0.62*fw, 0.24*fh, 0.38*fw, 0.24*fh, 0.33*fw, 0.18*fh)
		r.ClosePath()
	}

	r.Draw(dst, dst.Bounds(), image.NewUniform(fill), image.Point{})

	if hooded {
		// kangaroo pocket, a shade darker than the shell
		pocket := shade(fill, 0.85)
		p := vector.NewRasterizer(w, h)
		p.MoveTo(0.34*fw, 0.68*fh)
		p.LineTo(0.66*fw, 0.68*fh)
		p.LineTo(0.62*fw, 0.88*fh)
		p.LineTo(0.38*fw, 0.88*fh)
		p.ClosePath()
		p.Draw(dst, dst.Bounds(), image.NewUniform(pocket), image.Point{})
	}
}

// drawMug fills a cylindrical mug: body with ellipse caps and a handle
// ring on the right.
func drawMug(dst *image.NRGBA, w, h int, fill color.NRGBA) {
	fw, fh := float32(w), float32(h)
	body := vector.NewRasterizer(w, h)

	// cylinder wall
	body.MoveTo(0.20*fw, 0.18*fh)
	body.LineTo(0.70*fw, 0.18*fh)
	body.LineTo(0.70*fw, 0.85*fh)
	body.LineTo(0.20*fw, 0.85*fh)
	body.ClosePath()
	// bottom cap
	addEllipse(body, 0.45*fw, 0.85*fh, 0.25*fw, 0.05*fh)
	// handle: outer ring, hole punched below with the backdrop color
	addEllipse(body, 0.76*fw, 0.50*fh, 0.12*fw, 0.18*fh)
	body.Draw(dst, dst.Bounds(), image.NewUniform(fill), image.Point{})

	hole := vector.NewRasterizer(w, h)
	addEllipse(hole, 0.76*fw, 0.50*fh, 0.06*fw, 0.11*fh)
	hole.Draw(dst, dst.Bounds(), image.NewUniform(backdrop), image.Point{})

	// top cap, slightly lighter to suggest the rim
	top := vector.NewRasterizer(w, h)
	addEllipse(top, 0.45*fw, 0.18*fh, 0.25*fw, 0.05*fh)
	top.Draw(dst, dst.Bounds(), image.NewUniform(shade(fill, 1.15)), image.Point{})
}

// addEllipse appends a full ellipse path using four cubic segments.
func addEllipse(r *vector.Rasterizer, cx, cy, rx, ry float32) {
	kx, ky := rx*kappa, ry*kappa
	r.MoveTo(cx+rx, cy)
	r.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	r.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	r.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	r.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	r.ClosePath()
}

// shade scales a color towards black (<1) or white (>1).
func shade(c color.NRGBA, factor float64) color.NRGBA {
	scale := func(v uint8) uint8 {
		f := float64(v) * factor
		if f > 255 {
			return 255
		}
		return uint8(f)
	}
	return color.NRGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}
