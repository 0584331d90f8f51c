package database

import (
	"context"
	"testing"

	"github.com/printforge/designer/internal/entity"
	"github.com/printforge/designer/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionRepository(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	_, err := repo.LoadCheckpoint(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)

	cp := entity.SessionCheckpoint{
		ProductID: "hoodie",
		ColorID:   "black",
		Side:      entity.SideBack,
		State: entity.ViewState{
			Back: &entity.SerializedScene{
				Objects: []entity.Layer{{ID: "l1", Type: entity.LayerText, Text: "hi", Visible: true}},
			},
		},
	}
	require.NoError(t, repo.SaveCheckpoint(ctx, "s1", cp))

	got, err := repo.LoadCheckpoint(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "hoodie", got.ProductID)
	assert.Equal(t, entity.SideBack, got.Side)
	require.NotNil(t, got.State.Back)
	assert.Equal(t, "hi", got.State.Back.Objects[0].Text)
	assert.Nil(t, got.State.Front)

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.LoadCheckpoint(ctx, "s1")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestFileDesignRepository(t *testing.T) {
	repo := NewDesignRepository(storage.NewFileStorage(t.TempDir()))

	missing, err := repo.FindByID("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	cfg := entity.DesignConfig{
		Side:         entity.SideFront,
		PreviewURL:   "https://cdn.example.com/previews/p.jpg",
		PrintURL:     "https://cdn.example.com/prints/p.png",
		AssetUrls:    []string{"https://cdn.example.com/assets/a.png"},
		ProductType:  "hoodie",
		ProductColor: "black",
		Price:        3490,
	}
	require.NoError(t, repo.Save("d1", cfg))

	got, err := repo.FindByID("d1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, cfg.PrintURL, got.PrintURL)
	assert.Equal(t, cfg.AssetUrls, got.AssetUrls)
	assert.Equal(t, 3490, got.Price)
}
