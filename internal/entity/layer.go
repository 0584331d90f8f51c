package entity

// LayerType discriminates the layer tagged union.
type LayerType string

const (
	LayerImage LayerType = "image"
	LayerText  LayerType = "text"
)

// TextDirection is the writing direction of a text layer.
type TextDirection string

const (
	DirectionLTR TextDirection = "ltr"
	DirectionRTL TextDirection = "rtl"
)

// Transform positions a layer on the editing canvas. Coordinates are
// pixels of the editing canvas, which is fixed at the print-area pixel
// size of the product view. OriginX/OriginY are fractions of the layer
// box (0 = left/top, 0.5 = center, 1 = right/bottom): the point of the
// layer that (X, Y) refers to.
type Transform struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Scale       float64 `json:"scale"`
	RotationDeg float64 `json:"rotation_deg"`
	OriginX     float64 `json:"origin_x"`
	OriginY     float64 `json:"origin_y"`
}

// Layer is one element of a scene graph: either an image or a text
// layer, discriminated by Type. Type-specific fields are zero for the
// other kind. Layers contain no reference types, so a value copy is a
// deep copy.
type Layer struct {
	ID        string    `json:"id"`
	Type      LayerType `json:"type"`
	Transform Transform `json:"transform"`
	Visible   bool      `json:"visible"`

	// image fields
	SourceRef string  `json:"source_ref,omitempty"`
	Opacity   float64 `json:"opacity,omitempty"`
	// natural pixel size of the decoded source, recorded at insertion
	SourceWidth  int `json:"source_width,omitempty"`
	SourceHeight int `json:"source_height,omitempty"`

	// text fields
	Text       string        `json:"text,omitempty"`
	FontFamily string        `json:"font_family,omitempty"`
	FontSizePx float64       `json:"font_size_px,omitempty"`
	ColorHex   string        `json:"color_hex,omitempty"`
	Direction  TextDirection `json:"direction,omitempty"`
	Align      string        `json:"align,omitempty"`
}

// Label is the human-readable name shown in the layers panel.
func (l Layer) Label() string {
	if l.Type == LayerText && l.Text != "" {
		return l.Text
	}
	return "Image"
}
