// Mockup compositing: product base imagery plus a rendered design.
package compositor

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/printforge/designer/internal/entity"
	"github.com/printforge/designer/internal/pkg/render"
	"github.com/sirupsen/logrus"
)

// photoOpacity is the multiply-blend opacity used over real product
// photos so the design inherits the fabric shading.
const photoOpacity = 0.95

// Input is one compositing request. Design is the scene rasterized at
// exactly the print-area pixel size of the composite resolution.
type Input struct {
	Product entity.ProductConfig
	View    entity.ProductView
	Color   entity.ProductColor
	Design  *image.NRGBA
	Scale   float64
}

// Compositor builds photorealistic mockups. Product photos are looked
// up through the same source-resolver contract the rasterizer uses.
type Compositor struct {
	photos render.SourceResolver
}

func New(photos render.SourceResolver) *Compositor {
	return &Compositor{photos: photos}
}

// Compose produces one composite raster at Scale x the product canvas
// size. With a real (product, color, view) photograph the design is
// multiply-blended onto it; otherwise a silhouette is synthesized and
// the design drawn opaquely with grain and radial shading on top.
// Callers treat any error as recoverable (fall back to the raw design).
func (c *Compositor) Compose(in Input) (*image.NRGBA, error) {
	if in.Scale <= 0 {
		return nil, fmt.Errorf("non-positive composite scale %.2f", in.Scale)
	}
	w := int(math.Round(float64(in.Product.CanvasSize.Width) * in.Scale))
	h := int(math.Round(float64(in.Product.CanvasSize.Height) * in.Scale))
	rect := in.View.PrintArea.ToPixels(w, h)

	if in.View.HasRealPhoto && in.Color.PhotoAvailable {
		base, err := c.loadPhoto(in.Product.ID, in.Color.ID, in.View.ID)
		if err != nil {
			return nil, fmt.Errorf("product photo: %w", err)
		}
		dst := imaging.Resize(base, w, h, imaging.Lanczos)
		if in.Design != nil {
			drawMultiply(dst, in.Design, image.Pt(rect.X, rect.Y), photoOpacity)
		}
		return dst, nil
	}

	fill, err := render.ParseHexColor(in.Color.Hex)
	if err != nil {
		return nil, fmt.Errorf("product color: %w", err)
	}
	dst := synthesizeBase(in.Product.ID, w, h, fill)
	if in.Design != nil {
		tmp := imaging.Overlay(dst, in.Design, image.Pt(rect.X, rect.Y), 1.0)
		copy(dst.Pix, tmp.Pix)
	}
	applyGrain(dst)
	applyRadialShade(dst)
	return dst, nil
}

// loadPhoto opens the stored photograph for a (product, color, view)
// triple, trying the usual encodings.
func (c *Compositor) loadPhoto(productID, colorID, viewID string) (image.Image, error) {
	var lastErr error
	for _, ext := range []string{".jpg", ".png"} {
		ref := fmt.Sprintf("photos/%s_%s_%s%s", productID, colorID, viewID, ext)
		rc, err := c.photos.Open(ref)
		if err != nil {
			lastErr = err
			continue
		}
		img, err := decodeAndClose(rc)
		if err != nil {
			logrus.Warnf("photo %s undecodable: %v", ref, err)
			lastErr = err
			continue
		}
		return img, nil
	}
	return nil, lastErr
}

func decodeAndClose(rc io.ReadCloser) (image.Image, error) {
	defer rc.Close()
	return imaging.Decode(rc)
}
