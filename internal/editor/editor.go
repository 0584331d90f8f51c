// Canvas editor: binds mutation operations to the active scene graph
// and keeps the derived layers panel in sync.
package editor

import (
	"fmt"
	"sync"

	"github.com/printforge/designer/internal/entity"
	"github.com/printforge/designer/internal/scene"
	"github.com/sirupsen/logrus"
)

// PanelItem is one row of the derived layers panel.
type PanelItem struct {
	LayerID string           `json:"layer_id"`
	Label   string           `json:"label"`
	Type    entity.LayerType `json:"type"`
	Visible bool             `json:"visible"`
}

// Editor owns the interactive canvas of one session. All mutations,
// side switches and export snapshots serialize on one mutex, which
// stands in for the single-threaded event loop of an interactive
// client: no two mutations interleave, and a switch completes fully
// before the next mutation is accepted.
type Editor struct {
	mu sync.Mutex

	product entity.ProductConfig
	colorID string

	state    *stateManager
	active   *scene.Graph
	areaRect entity.PixelRect

	selected string
	panel    []PanelItem
}

// New creates an editor on the front view of the product.
func New(product entity.ProductConfig, colorID string) (*Editor, error) {
	if _, err := product.Color(colorID); err != nil {
		return nil, err
	}
	view, err := product.View(string(entity.SideFront))
	if err != nil {
		return nil, err
	}
	if err := view.PrintArea.Validate(); err != nil {
		return nil, fmt.Errorf("product %s view %s: %w", product.ID, view.ID, err)
	}
	e := &Editor{
		product: product,
		colorID: colorID,
		state:   newStateManager(),
		active:  scene.New(),
	}
	e.areaRect = view.PrintArea.ToPixels(product.CanvasSize.Width, product.CanvasSize.Height)
	e.rebuildPanel()
	return e, nil
}

// Product returns the static product configuration.
func (e *Editor) Product() entity.ProductConfig { return e.product }

// ColorID returns the selected color variant.
func (e *Editor) ColorID() string { return e.colorID }

// Side reports the side currently bound to the canvas.
func (e *Editor) Side() entity.Side {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Active()
}

// PrintAreaRect is the editing-canvas pixel rectangle of the active view.
func (e *Editor) PrintAreaRect() entity.PixelRect {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.areaRect
}

// Panel returns the derived layers-panel rows, topmost layer first.
func (e *Editor) Panel() []PanelItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]PanelItem, len(e.panel))
	copy(out, e.panel)
	return out
}

// AddImageLayer inserts an uploaded image, auto-fitted and centered.
func (e *Editor) AddImageLayer(sourceRef string, imgWidth, imgHeight int) entity.Layer {
	e.mu.Lock()
	defer e.mu.Unlock()
	l := e.active.AddImageLayer(sourceRef, imgWidth, imgHeight, e.areaRect.Width, e.areaRect.Height)
	e.selected = l.ID
	e.rebuildPanel()
	return l
}

// AddTextLayer inserts a text layer at the print-area center.
func (e *Editor) AddTextLayer(text, fontFamily string, fontSizePx float64, colorHex string,
	direction entity.TextDirection, align string) entity.Layer {

	e.mu.Lock()
	defer e.mu.Unlock()
	l := e.active.AddTextLayer(text, fontFamily, fontSizePx, colorHex, direction, align,
		e.areaRect.Width, e.areaRect.Height)
	e.selected = l.ID
	e.rebuildPanel()
	return l
}

// CloneLayer duplicates a layer with an offset; the clone is selected.
func (e *Editor) CloneLayer(layerID string) (entity.Layer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	dup, err := e.active.Clone(layerID)
	if err != nil {
		return entity.Layer{}, err
	}
	e.selected = dup.ID
	e.rebuildPanel()
	return dup, nil
}

// RemoveLayer deletes a layer and drops a dangling selection.
func (e *Editor) RemoveLayer(layerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.active.Remove(layerID); err != nil {
		return err
	}
	if e.selected == layerID {
		e.selected = ""
	}
	e.rebuildPanel()
	return nil
}

// Reorder moves a layer to the top or bottom of the z-order.
func (e *Editor) Reorder(layerID string, toTop bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	var err error
	if toTop {
		err = e.active.ReorderToTop(layerID)
	} else {
		err = e.active.ReorderToBottom(layerID)
	}
	if err != nil {
		return err
	}
	e.rebuildPanel()
	return nil
}

// SetVisibility shows or hides a layer.
func (e *Editor) SetVisibility(layerID string, visible bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.active.SetVisibility(layerID, visible); err != nil {
		return err
	}
	e.rebuildPanel()
	return nil
}

// SetTransform replaces a layer's transform (move/scale/rotate gesture).
func (e *Editor) SetTransform(layerID string, t entity.Transform) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, err := e.active.Find(layerID)
	if err != nil {
		return err
	}
	l.Transform = t
	e.rebuildPanel()
	return nil
}

// TextStyle carries the optional text-control edits; nil fields are
// left untouched.
type TextStyle struct {
	Text       *string
	FontFamily *string
	FontSizePx *float64
	ColorHex   *string
	Align      *string
}

// SetTextStyle writes text controls into one text layer. Other layers
// are never touched.
func (e *Editor) SetTextStyle(layerID string, style TextStyle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, err := e.active.Find(layerID)
	if err != nil {
		return err
	}
	if l.Type != entity.LayerText {
		return entity.ErrNotTextLayer
	}
	if style.Text != nil {
		l.Text = *style.Text
	}
	if style.FontFamily != nil {
		l.FontFamily = *style.FontFamily
	}
	if style.FontSizePx != nil {
		l.FontSizePx = *style.FontSizePx
	}
	if style.ColorHex != nil {
		l.ColorHex = *style.ColorHex
	}
	if style.Align != nil {
		l.Align = *style.Align
	}
	e.rebuildPanel()
	return nil
}

// Select marks a layer as selected. Selection is UI state only; it is
// never part of the persisted scene.
func (e *Editor) Select(layerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.active.Find(layerID); err != nil {
		return err
	}
	e.selected = layerID
	return nil
}

// Selected returns the selected layer id, empty when nothing is selected.
func (e *Editor) Selected() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected
}

// SwitchSide serializes the outgoing scene, clears the canvas, and
// loads the stored scene of the other side. A corrupt stored scene
// falls back to an empty canvas with a warning; editing continues.
func (e *Editor) SwitchSide() (entity.Side, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	incomingSide := e.state.Active().Opposite()
	view, err := e.product.View(string(incomingSide))
	if err != nil {
		return e.state.Active(), fmt.Errorf("product %s has no %s view: %w", e.product.ID, incomingSide, err)
	}

	outgoing := scene.Serialize(e.active, e.currentPrintArea())
	stored := e.state.Switch(outgoing)

	e.active = scene.New()
	e.selected = ""
	e.areaRect = view.PrintArea.ToPixels(e.product.CanvasSize.Width, e.product.CanvasSize.Height)

	if stored != nil {
		g, err := scene.Deserialize(*stored)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"side":    incomingSide,
				"product": e.product.ID,
			}).Warnf("stored scene unreadable, starting empty: %v", err)
		} else {
			e.active = g
		}
	}
	e.rebuildPanel()
	return e.state.Active(), nil
}

// SnapshotScene deep-copies the active scene for export. Concurrent
// edits after the snapshot never affect an export in flight.
func (e *Editor) SnapshotScene() entity.SerializedScene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return scene.Serialize(e.active, e.currentPrintArea())
}

// ExportState is one consistent view of the editor for an export: the
// scene snapshot together with the side and print area it belongs to.
type ExportState struct {
	Scene entity.SerializedScene
	Side  entity.Side
	Area  entity.PixelRect
}

// ExportSnapshot captures scene, side and print area under one lock.
// Reading them separately would let a concurrent side switch pair one
// side's scene with the other side's metadata.
func (e *Editor) ExportSnapshot() ExportState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ExportState{
		Scene: scene.Serialize(e.active, e.currentPrintArea()),
		Side:  e.state.Active(),
		Area:  e.areaRect,
	}
}

// Checkpoint snapshots both sides plus the active side for session
// persistence, again under one lock so the pair is consistent.
func (e *Editor) Checkpoint() (entity.ViewState, entity.Side) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.State(scene.Serialize(e.active, e.currentPrintArea())), e.state.Active()
}

// RestoreState rebinds the editor from a checkpoint.
func (e *Editor) RestoreState(st entity.ViewState, side entity.Side) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	view, err := e.product.View(string(side))
	if err != nil {
		return err
	}
	stored := e.state.Restore(st, side)
	e.active = scene.New()
	e.selected = ""
	e.areaRect = view.PrintArea.ToPixels(e.product.CanvasSize.Width, e.product.CanvasSize.Height)
	if stored != nil {
		g, err := scene.Deserialize(*stored)
		if err != nil {
			return err
		}
		e.active = g
	}
	e.rebuildPanel()
	return nil
}

// AssetSources returns the distinct original image sources referenced
// by the active scene, in z-order.
func (e *Editor) AssetSources() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, l := range e.active.Layers() {
		if l.Type == entity.LayerImage && l.SourceRef != "" && !seen[l.SourceRef] {
			seen[l.SourceRef] = true
			out = append(out, l.SourceRef)
		}
	}
	return out
}

func (e *Editor) currentPrintArea() entity.PrintArea {
	view, err := e.product.View(string(e.state.Active()))
	if err != nil {
		return entity.PrintArea{}
	}
	return view.PrintArea
}

// rebuildPanel re-derives the layers panel from the scene graph so the
// panel never drifts from it. Called after every mutation, under lock.
func (e *Editor) rebuildPanel() {
	layers := e.active.Layers()
	e.panel = e.panel[:0]
	for i := len(layers) - 1; i >= 0; i-- {
		e.panel = append(e.panel, PanelItem{
			LayerID: layers[i].ID,
			Label:   layers[i].Label(),
			Type:    layers[i].Type,
			Visible: layers[i].Visible,
		})
	}
}
