// Export pipeline: the print-ready raster and the composite preview,
// both rendered from the same scene snapshot.
package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/printforge/designer/internal/entity"
	"github.com/printforge/designer/internal/pkg/compositor"
	"github.com/printforge/designer/internal/pkg/render"
	"github.com/sirupsen/logrus"
)

const (
	// PrintMultiplier scales the print file above the editing canvas.
	PrintMultiplier = 3.0
	// ExportScale is the composite resolution of the saved preview.
	ExportScale = 3.0
	// LivePreviewScale keeps interactive previews cheap.
	LivePreviewScale = 1.0

	exportQuality      = 95
	livePreviewQuality = 60
)

// Pipeline renders export artifacts. Both artifacts read the same
// serialized snapshot, never the live scene, so an in-flight export can
// not race user edits.
type Pipeline struct {
	raster *render.Rasterizer
	comp   *compositor.Compositor
}

func NewPipeline(raster *render.Rasterizer, comp *compositor.Compositor) *Pipeline {
	return &Pipeline{raster: raster, comp: comp}
}

// PrintFile renders the design alone on a transparent background at
// PrintMultiplier x the print-area pixel size. It contains no product
// imagery; this is the only artifact sent to manufacturing.
func (p *Pipeline) PrintFile(snapshot entity.SerializedScene, product entity.ProductConfig) ([]byte, string, error) {
	rect := snapshot.PrintArea.ToPixels(product.CanvasSize.Width, product.CanvasSize.Height)
	img := p.raster.Render(snapshot.Objects, rect.Width, rect.Height, PrintMultiplier)

	raw, err := encode(img, imaging.PNG, 0)
	if err != nil {
		return nil, "", fmt.Errorf("encode print file: %w", err)
	}
	return raw, dataURL("image/png", raw), nil
}

// Preview composites the design onto the product at the given scale.
// If compositing fails the raw design raster is returned instead, so
// the caller always gets a usable preview.
func (p *Pipeline) Preview(snapshot entity.SerializedScene, product entity.ProductConfig,
	view entity.ProductView, color entity.ProductColor, scale float64, quality int) ([]byte, string, error) {

	design := p.renderDesignAt(snapshot, product, view, scale)

	img, err := p.comp.Compose(compositor.Input{
		Product: product,
		View:    view,
		Color:   color,
		Design:  design,
		Scale:   scale,
	})
	if err != nil {
		logrus.Warnf("compositing failed, falling back to raw design: %v", err)
		img = design
	}

	raw, err := encode(img, imaging.JPEG, quality)
	if err != nil {
		return nil, "", fmt.Errorf("encode preview: %w", err)
	}
	return raw, dataURL("image/jpeg", raw), nil
}

// Export produces the saved-design artifact pair at export quality.
func (p *Pipeline) Export(snapshot entity.SerializedScene, product entity.ProductConfig,
	view entity.ProductView, color entity.ProductColor) (entity.ExportArtifact, [2][]byte, error) {

	printRaw, printURL, err := p.PrintFile(snapshot, product)
	if err != nil {
		return entity.ExportArtifact{}, [2][]byte{}, err
	}
	previewRaw, previewURL, err := p.Preview(snapshot, product, view, color, ExportScale, exportQuality)
	if err != nil {
		return entity.ExportArtifact{}, [2][]byte{}, err
	}
	return entity.ExportArtifact{
		PrintFileDataURL: printURL,
		PreviewDataURL:   previewURL,
	}, [2][]byte{printRaw, previewRaw}, nil
}

// LivePreview renders the cheap debounced preview for the editor.
func (p *Pipeline) LivePreview(snapshot entity.SerializedScene, product entity.ProductConfig,
	view entity.ProductView, color entity.ProductColor) ([]byte, error) {

	raw, _, err := p.Preview(snapshot, product, view, color, LivePreviewScale, livePreviewQuality)
	return raw, err
}

// renderDesignAt rasterizes the snapshot to exactly the print-area
// pixel rectangle of the composite resolution. The multiplier scales
// within rounding of the target rect; a final resize absorbs the
// off-by-one.
func (p *Pipeline) renderDesignAt(snapshot entity.SerializedScene, product entity.ProductConfig,
	view entity.ProductView, scale float64) *image.NRGBA {

	base := snapshot.PrintArea.ToPixels(product.CanvasSize.Width, product.CanvasSize.Height)
	target := view.PrintArea.ToPixels(
		int(float64(product.CanvasSize.Width)*scale),
		int(float64(product.CanvasSize.Height)*scale),
	)
	design := p.raster.Render(snapshot.Objects, base.Width, base.Height, scale)
	if design.Bounds().Dx() != target.Width || design.Bounds().Dy() != target.Height {
		design = imaging.Resize(design, target.Width, target.Height, imaging.Lanczos)
	}
	return design
}

func encode(img image.Image, format imaging.Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if format == imaging.JPEG {
		err = imaging.Encode(&buf, img, format, imaging.JPEGQuality(quality))
	} else {
		err = imaging.Encode(&buf, img, format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func dataURL(mime string, raw []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw)
}
