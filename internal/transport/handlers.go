package transport

import (
	"github.com/printforge/designer/internal/service"
)

type DesignHandler struct {
	designs  service.DesignService
	products service.ProductService
}

func NewDesignHandler(designs service.DesignService, products service.ProductService) *DesignHandler {
	return &DesignHandler{designs: designs, products: products}
}
