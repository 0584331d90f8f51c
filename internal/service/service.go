package service

import (
	"context"
	"io"

	"github.com/printforge/designer/internal/editor"
	"github.com/printforge/designer/internal/entity"
)

// ProductService exposes the static product configuration table.
type ProductService interface {
	List() []entity.ProductConfig
	Get(id string) (entity.ProductConfig, error)
}

// TextLayerRequest carries the parameters of a new text layer.
type TextLayerRequest struct {
	Text       string               `json:"text"`
	FontFamily string               `json:"font_family"`
	FontSizePx float64              `json:"font_size_px"`
	ColorHex   string               `json:"color_hex"`
	Direction  entity.TextDirection `json:"direction"`
	Align      string               `json:"align"`
}

// LayerUpdate carries a PATCH of one layer; nil fields are untouched.
type LayerUpdate struct {
	Transform  *entity.Transform `json:"transform,omitempty"`
	Visible    *bool             `json:"visible,omitempty"`
	Text       *string           `json:"text,omitempty"`
	FontFamily *string           `json:"font_family,omitempty"`
	FontSizePx *float64          `json:"font_size_px,omitempty"`
	ColorHex   *string           `json:"color_hex,omitempty"`
	Align      *string           `json:"align,omitempty"`
}

// SessionInfo is the editor-state summary returned to clients.
type SessionInfo struct {
	SessionID string             `json:"session_id"`
	ProductID string             `json:"product_id"`
	ColorID   string             `json:"color_id"`
	Side      entity.Side        `json:"side"`
	PrintArea entity.PixelRect   `json:"print_area"`
	Panel     []editor.PanelItem `json:"panel"`
}

// DesignService manages editor sessions and runs the save pipeline.
type DesignService interface {
	CreateSession(ctx context.Context, productID, colorID string) (SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (SessionInfo, error)
	CloseSession(ctx context.Context, sessionID string) error
	AddImageLayer(ctx context.Context, sessionID, filename string, file io.Reader, size int64) (entity.Layer, error)
	AddTextLayer(ctx context.Context, sessionID string, req TextLayerRequest) (entity.Layer, error)
	UpdateLayer(ctx context.Context, sessionID, layerID string, upd LayerUpdate) error
	CloneLayer(ctx context.Context, sessionID, layerID string) (entity.Layer, error)
	RemoveLayer(ctx context.Context, sessionID, layerID string) error
	ReorderLayer(ctx context.Context, sessionID, layerID string, toTop bool) error
	SwitchSide(ctx context.Context, sessionID string) (entity.Side, error)
	LivePreview(ctx context.Context, sessionID string) ([]byte, error)
	Save(ctx context.Context, sessionID string) (entity.DesignConfig, entity.ExportArtifact, error)
	Close()
}

// OrderSubmitter is the external order/cart collaborator consuming a
// finalized DesignConfig.
type OrderSubmitter interface {
	Submit(ctx context.Context, cfg entity.DesignConfig) (string, error)
}
