// Scene graph: the ordered layer list composing one side of a design.
package scene

import (
	"math"

	"github.com/google/uuid"
	"github.com/printforge/designer/internal/entity"
)

// autoFitFraction caps a freshly inserted image at 90% of either
// print-area dimension.
const autoFitFraction = 0.9

// cloneOffsetPx shifts a cloned layer so it is immediately
// distinguishable from its source.
const cloneOffsetPx = 20

// Graph is one side's scene graph. Z-order is insertion order, the
// last layer is topmost. Graph is not safe for concurrent use; callers
// serialize access (the editor holds one lock per session).
type Graph struct {
	layers []entity.Layer
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// Layers returns the layers in z-order (bottom first).
func (g *Graph) Layers() []entity.Layer {
	return g.layers
}

// Len returns the number of layers.
func (g *Graph) Len() int {
	return len(g.layers)
}

// Snapshot returns an independent deep copy of the layer list. Layers
// hold no reference types, so copying the slice copies everything.
func (g *Graph) Snapshot() []entity.Layer {
	out := make([]entity.Layer, len(g.layers))
	copy(out, g.layers)
	return out
}

// AddImageLayer inserts an uploaded image centered in the print area,
// auto-fitted so it never exceeds 90% of either print-area dimension.
// The user may scale it out of bounds afterwards; only export clips.
func (g *Graph) AddImageLayer(sourceRef string, imgWidth, imgHeight, areaWidth, areaHeight int) entity.Layer {
	scale := 1.0
	if imgWidth > 0 && imgHeight > 0 {
		scale = math.Min(
			autoFitFraction*float64(areaWidth)/float64(imgWidth),
			autoFitFraction*float64(areaHeight)/float64(imgHeight),
		)
	}
	layer := entity.Layer{
		ID:   uuid.New().String(),
		Type: entity.LayerImage,
		Transform: entity.Transform{
			X:       float64(areaWidth) / 2,
			Y:       float64(areaHeight) / 2,
			Scale:   scale,
			OriginX: 0.5,
			OriginY: 0.5,
		},
		Visible:      true,
		SourceRef:    sourceRef,
		Opacity:      1,
		SourceWidth:  imgWidth,
		SourceHeight: imgHeight,
	}
	g.layers = append(g.layers, layer)
	return layer
}

// AddTextLayer inserts a text layer at the print-area center with a
// center/center origin so rotation stays visually stable.
func (g *Graph) AddTextLayer(text, fontFamily string, fontSizePx float64, colorHex string,
	direction entity.TextDirection, align string, areaWidth, areaHeight int) entity.Layer {

	if direction != entity.DirectionRTL {
		direction = entity.DirectionLTR
	}
	layer := entity.Layer{
		ID:   uuid.New().String(),
		Type: entity.LayerText,
		Transform: entity.Transform{
			X:       float64(areaWidth) / 2,
			Y:       float64(areaHeight) / 2,
			Scale:   1,
			OriginX: 0.5,
			OriginY: 0.5,
		},
		Visible:    true,
		Text:       text,
		FontFamily: fontFamily,
		FontSizePx: fontSizePx,
		ColorHex:   colorHex,
		Direction:  direction,
		Align:      align,
	}
	g.layers = append(g.layers, layer)
	return layer
}

// Clone duplicates a layer with a +20/+20 offset. The duplicate gets a
// fresh id and becomes the new topmost layer.
func (g *Graph) Clone(layerID string) (entity.Layer, error) {
	src, err := g.Find(layerID)
	if err != nil {
		return entity.Layer{}, err
	}
	dup := *src
	dup.ID = uuid.New().String()
	dup.Transform.X += cloneOffsetPx
	dup.Transform.Y += cloneOffsetPx
	g.layers = append(g.layers, dup)
	return dup, nil
}

// Remove deletes a layer by id.
func (g *Graph) Remove(layerID string) error {
	for i := range g.layers {
		if g.layers[i].ID == layerID {
			g.layers = append(g.layers[:i], g.layers[i+1:]...)
			return nil
		}
	}
	return entity.ErrLayerNotFound
}

// ReorderToTop moves a layer to the end of the list (topmost).
func (g *Graph) ReorderToTop(layerID string) error {
	for i := range g.layers {
		if g.layers[i].ID == layerID {
			l := g.layers[i]
			g.layers = append(g.layers[:i], g.layers[i+1:]...)
			g.layers = append(g.layers, l)
			return nil
		}
	}
	return entity.ErrLayerNotFound
}

// ReorderToBottom moves a layer to the start of the list (bottom).
func (g *Graph) ReorderToBottom(layerID string) error {
	for i := range g.layers {
		if g.layers[i].ID == layerID {
			l := g.layers[i]
			g.layers = append(g.layers[:i], g.layers[i+1:]...)
			g.layers = append([]entity.Layer{l}, g.layers...)
			return nil
		}
	}
	return entity.ErrLayerNotFound
}

// SetVisibility toggles a layer without removing it from the graph.
func (g *Graph) SetVisibility(layerID string, visible bool) error {
	l, err := g.Find(layerID)
	if err != nil {
		return err
	}
	l.Visible = visible
	return nil
}

// Find returns a pointer into the graph for in-place edits.
func (g *Graph) Find(layerID string) (*entity.Layer, error) {
	for i := range g.layers {
		if g.layers[i].ID == layerID {
			return &g.layers[i], nil
		}
	}
	return nil, entity.ErrLayerNotFound
}
