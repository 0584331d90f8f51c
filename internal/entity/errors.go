package entity

import "errors"

var (
	// Layer errors
	ErrLayerNotFound        = errors.New("layer not found")
	ErrNotTextLayer         = errors.New("layer is not a text layer")
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrImageTooLarge        = errors.New("image file too large")

	// Geometry errors
	ErrPrintAreaBounds = errors.New("print area out of canvas bounds")

	// Product errors
	ErrProductNotFound = errors.New("product not found")
	ErrColorNotFound   = errors.New("product color not found")
	ErrViewNotFound    = errors.New("product view not found")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSceneCorrupt    = errors.New("stored scene data is corrupt")

	// Save/upload errors
	ErrUploadIncomplete = errors.New("upload incomplete: design not saved")
	ErrNothingToExport  = errors.New("scene has no layers to export")
)
