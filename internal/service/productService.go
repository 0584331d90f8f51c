package service

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/printforge/designer/internal/entity"
	"github.com/sirupsen/logrus"
)

type productService struct {
	products map[string]entity.ProductConfig
	order    []string
}

// NewProductService loads the product table: the built-in catalog,
// optionally replaced by a JSON catalog file. Every print area is
// validated here, at configuration time.
func NewProductService(catalogPath string) (ProductService, error) {
	catalog := entity.DefaultCatalog()
	if catalogPath != "" {
		data, err := os.ReadFile(catalogPath)
		if err != nil {
			logrus.Warnf("catalog file unreadable, using built-in catalog: %v", err)
		} else {
			var loaded []entity.ProductConfig
			if err := json.Unmarshal(data, &loaded); err != nil {
				return nil, fmt.Errorf("parse catalog %s: %w", catalogPath, err)
			}
			catalog = loaded
		}
	}

	s := &productService{products: map[string]entity.ProductConfig{}}
	for _, p := range catalog {
		for _, v := range p.Views {
			if err := v.PrintArea.Validate(); err != nil {
				return nil, fmt.Errorf("product %s view %s: %w", p.ID, v.ID, err)
			}
		}
		s.products[p.ID] = p
		s.order = append(s.order, p.ID)
	}
	return s, nil
}

func (s *productService) List() []entity.ProductConfig {
	out := make([]entity.ProductConfig, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.products[id])
	}
	return out
}

func (s *productService) Get(id string) (entity.ProductConfig, error) {
	p, ok := s.products[id]
	if !ok {
		return entity.ProductConfig{}, entity.ErrProductNotFound
	}
	return p, nil
}
