// Scene rasterization: turns a serialized scene into a pixel buffer.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/printforge/designer/internal/entity"
	"github.com/sirupsen/logrus"
)

// SourceResolver opens the bytes behind an image layer's source
// reference (a storage path). http(s) references are fetched directly.
type SourceResolver interface {
	Open(ref string) (io.ReadCloser, error)
}

// Rasterizer renders scene graphs onto transparent buffers. The same
// rasterizer feeds both the print file and the mockup preview so the
// two artifacts stay pixel-consistent.
type Rasterizer struct {
	sources SourceResolver
	fonts   *FontSet
	client  *http.Client
}

func NewRasterizer(sources SourceResolver, fonts *FontSet) *Rasterizer {
	return &Rasterizer{
		sources: sources,
		fonts:   fonts,
		client:  http.DefaultClient,
	}
}

// Render draws the layers onto a transparent buffer of
// (baseWidth x baseHeight) x multiplier pixels. Layer transforms are in
// base editing-canvas pixels and scale with the multiplier, so any
// target resolution reproduces the editing view. A layer that fails to
// decode or render is logged and skipped; the rest of the scene still
// renders.
func (r *Rasterizer) Render(layers []entity.Layer, baseWidth, baseHeight int, multiplier float64) *image.NRGBA {
	w := int(math.Round(float64(baseWidth) * multiplier))
	h := int(math.Round(float64(baseHeight) * multiplier))
	dst := imaging.New(w, h, color.NRGBA{})

	for _, l := range layers {
		if !l.Visible {
			continue
		}
		var err error
		switch l.Type {
		case entity.LayerImage:
			err = r.drawImageLayer(dst, l, multiplier)
		case entity.LayerText:
			err = r.drawTextLayer(dst, l, multiplier)
		default:
			err = fmt.Errorf("unknown layer type %q", l.Type)
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"layer": l.ID,
				"type":  l.Type,
			}).Errorf("layer skipped: %v", err)
		}
	}
	return dst
}

func (r *Rasterizer) drawImageLayer(dst *image.NRGBA, l entity.Layer, multiplier float64) error {
	src, err := r.decodeSource(l.SourceRef)
	if err != nil {
		return fmt.Errorf("decode %s: %w", l.SourceRef, err)
	}

	bounds := src.Bounds()
	imgW, imgH := bounds.Dx(), bounds.Dy()
	if l.SourceWidth > 0 && l.SourceHeight > 0 {
		imgW, imgH = l.SourceWidth, l.SourceHeight
	}

	contentW := float64(imgW) * l.Transform.Scale * multiplier
	contentH := float64(imgH) * l.Transform.Scale * multiplier
	if contentW < 1 || contentH < 1 {
		return fmt.Errorf("degenerate size %.1fx%.1f", contentW, contentH)
	}

	buf := imaging.Resize(src, int(math.Round(contentW)), int(math.Round(contentH)), imaging.Lanczos)
	opacity := l.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = 1
	}
	paste(dst, buf, l.Transform, contentW, contentH, multiplier, opacity)
	return nil
}

func (r *Rasterizer) drawTextLayer(dst *image.NRGBA, l entity.Layer, multiplier float64) error {
	if strings.TrimSpace(l.Text) == "" {
		return nil
	}
	sizePx := l.FontSizePx * l.Transform.Scale * multiplier
	buf, err := r.fonts.RenderText(l.Text, l.FontFamily, sizePx, l.ColorHex, l.Direction, l.Align)
	if err != nil {
		return fmt.Errorf("render text: %w", err)
	}
	contentW := float64(buf.Bounds().Dx())
	contentH := float64(buf.Bounds().Dy())
	paste(dst, buf, l.Transform, contentW, contentH, multiplier, 1)
	return nil
}

// paste rotates the prepared layer buffer and composites it so that the
// layer's origin point lands at (X, Y) x multiplier. Rotation is about
// the content center; default layers use a center origin, which keeps
// rotation visually stable.
func paste(dst, buf *image.NRGBA, t entity.Transform, contentW, contentH, multiplier, opacity float64) {
	if t.RotationDeg != 0 {
		// imaging rotates counter-clockwise for positive angles; layer
		// rotation is clockwise.
		buf = imaging.Rotate(buf, -t.RotationDeg, color.NRGBA{})
	}
	centerX := t.X*multiplier + (0.5-t.OriginX)*contentW
	centerY := t.Y*multiplier + (0.5-t.OriginY)*contentH
	pos := image.Pt(
		int(math.Round(centerX-float64(buf.Bounds().Dx())/2)),
		int(math.Round(centerY-float64(buf.Bounds().Dy())/2)),
	)
	tmp := imaging.Overlay(dst, buf, pos, opacity)
	copy(dst.Pix, tmp.Pix)
}

// decodeSource loads and decodes an image source reference.
func (r *Rasterizer) decodeSource(ref string) (image.Image, error) {
	if ref == "" {
		return nil, fmt.Errorf("empty source reference")
	}
	var rc io.ReadCloser
	var err error
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		resp, rerr := r.client.Get(ref)
		if rerr != nil {
			return nil, rerr
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: status %d", ref, resp.StatusCode)
		}
		rc = resp.Body
	} else {
		rc, err = r.sources.Open(ref)
		if err != nil {
			return nil, err
		}
	}
	defer rc.Close()
	return imaging.Decode(rc)
}
