package database

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/printforge/designer/internal/entity"
	"github.com/printforge/designer/internal/pkg/storage"
)

// fileDesignRepository stores one JSON document per finalized design.
type fileDesignRepository struct {
	storage storage.FileStorage
}

func NewDesignRepository(storage storage.FileStorage) DesignRepository {
	return &fileDesignRepository{storage: storage}
}

func (r *fileDesignRepository) Save(id string, cfg entity.DesignConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return r.storage.Save(r.designPath(id), bytes.NewReader(data))
}

func (r *fileDesignRepository) FindByID(id string) (*entity.DesignConfig, error) {
	reader, err := r.storage.Open(r.designPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer reader.Close()

	var cfg entity.DesignConfig
	if err := json.NewDecoder(reader).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *fileDesignRepository) designPath(id string) string {
	return filepath.Join("designs", id+".json")
}
