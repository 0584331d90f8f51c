package entity

// Side names one of the two printable sides of a product.
type Side string

const (
	SideFront Side = "front"
	SideBack  Side = "back"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideFront {
		return SideBack
	}
	return SideFront
}

// SerializedScene is the persisted form of one side's scene graph:
// the ordered layer list plus the print area it was authored against.
type SerializedScene struct {
	Objects   []Layer   `json:"objects"`
	PrintArea PrintArea `json:"print_area"`
}

// ViewState holds the stored scene graphs of both sides. A nil slot
// means the side has no design yet.
type ViewState struct {
	Front *SerializedScene `json:"front,omitempty"`
	Back  *SerializedScene `json:"back,omitempty"`
}

// DesignConfig is the durable, order-facing projection of a finished
// design. AssetUrls lists only the original user-provided images,
// never derived exports.
type DesignConfig struct {
	PositionX    float64         `json:"position_x"`
	PositionY    float64         `json:"position_y"`
	Scale        float64         `json:"scale"`
	Rotation     float64         `json:"rotation"`
	Side         Side            `json:"side"`
	CanvasJSON   SerializedScene `json:"canvas_json"`
	AssetUrls    []string        `json:"asset_urls"`
	PreviewURL   string          `json:"preview_url"`
	PrintURL     string          `json:"print_url"`
	ProductType  string          `json:"product_type"`
	ProductColor string          `json:"product_color"`
	Price        int             `json:"price"`
}

// ExportArtifact is the ephemeral pair of rasters produced by one
// export request. Only the uploaded URLs are ever persisted.
type ExportArtifact struct {
	PrintFileDataURL string `json:"print_file_data_url"`
	PreviewDataURL   string `json:"preview_data_url"`
}

// SessionCheckpoint is the stored form of an editor session, enough to
// rebuild the editor after a restart.
type SessionCheckpoint struct {
	ProductID string    `json:"product_id"`
	ColorID   string    `json:"color_id"`
	Side      Side      `json:"side"`
	State     ViewState `json:"state"`
}
