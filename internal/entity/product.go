package entity

// CanvasSize is the reference canvas of a product in editor pixels.
type CanvasSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ProductView is one printable side of a product.
type ProductView struct {
	ID           string    `json:"id"`
	PrintArea    PrintArea `json:"print_area"`
	HasRealPhoto bool      `json:"has_real_photo"`
}

// ProductColor is one orderable color variant.
type ProductColor struct {
	ID             string `json:"id"`
	Hex            string `json:"hex"`
	PhotoAvailable bool   `json:"photo_available"`
}

// ProductConfig is the static configuration of a printable product.
// Loaded once at startup, never mutated by the editor.
type ProductConfig struct {
	ID                 string         `json:"id"`
	BasePriceUnit      int            `json:"base_price_unit"`
	CanvasSize         CanvasSize     `json:"canvas_size"`
	Views              []ProductView  `json:"views"`
	Colors             []ProductColor `json:"colors"`
	PrintResolutionDpi int            `json:"print_resolution_dpi"`
}

// View returns the view with the given id.
func (p ProductConfig) View(id string) (ProductView, error) {
	for _, v := range p.Views {
		if v.ID == id {
			return v, nil
		}
	}
	return ProductView{}, ErrViewNotFound
}

// Color returns the color with the given id.
func (p ProductConfig) Color(id string) (ProductColor, error) {
	for _, c := range p.Colors {
		if c.ID == id {
			return c, nil
		}
	}
	return ProductColor{}, ErrColorNotFound
}

// DefaultCatalog is the built-in product table. A deployment may
// override it with a JSON catalog file named in the config.
func DefaultCatalog() []ProductConfig {
	return []ProductConfig{
		{
			ID:            "hoodie",
			BasePriceUnit: 3490,
			CanvasSize:    CanvasSize{Width: 400, Height: 480},
			Views: []ProductView{
				{ID: "front", PrintArea: PrintArea{XPct: 0.22, YPct: 0.25, WidthPct: 0.56, HeightPct: 0.40}, HasRealPhoto: true},
				{ID: "back", PrintArea: PrintArea{XPct: 0.25, YPct: 0.20, WidthPct: 0.50, HeightPct: 0.48}, HasRealPhoto: true},
			},
			Colors: []ProductColor{
				{ID: "black", Hex: "#1f1f1f", PhotoAvailable: true},
				{ID: "white", Hex: "#f4f4f4", PhotoAvailable: true},
				{ID: "navy", Hex: "#1e2a4a", PhotoAvailable: false},
			},
			PrintResolutionDpi: 300,
		},
		{
			ID:            "tshirt",
			BasePriceUnit: 1990,
			CanvasSize:    CanvasSize{Width: 400, Height: 450},
			Views: []ProductView{
				{ID: "front", PrintArea: PrintArea{XPct: 0.25, YPct: 0.18, WidthPct: 0.50, HeightPct: 0.55}, HasRealPhoto: true},
				{ID: "back", PrintArea: PrintArea{XPct: 0.25, YPct: 0.15, WidthPct: 0.50, HeightPct: 0.60}, HasRealPhoto: false},
			},
			Colors: []ProductColor{
				{ID: "black", Hex: "#222222", PhotoAvailable: true},
				{ID: "white", Hex: "#fafafa", PhotoAvailable: true},
				{ID: "red", Hex: "#b3202c", PhotoAvailable: false},
			},
			PrintResolutionDpi: 300,
		},
		{
			ID:            "mug",
			BasePriceUnit: 1290,
			CanvasSize:    CanvasSize{Width: 400, Height: 300},
			Views: []ProductView{
				{ID: "front", PrintArea: PrintArea{XPct: 0.30, YPct: 0.25, WidthPct: 0.40, HeightPct: 0.50}, HasRealPhoto: false},
			},
			Colors: []ProductColor{
				{ID: "white", Hex: "#ffffff", PhotoAvailable: false},
				{ID: "black", Hex: "#2b2b2b", PhotoAvailable: false},
			},
			PrintResolutionDpi: 300,
		},
	}
}
