package database

import (
	"context"

	"github.com/printforge/designer/internal/entity"
)

// SessionRepository checkpoints editor sessions so they survive a
// process restart.
type SessionRepository interface {
	SaveCheckpoint(ctx context.Context, sessionID string, cp entity.SessionCheckpoint) error
	LoadCheckpoint(ctx context.Context, sessionID string) (*entity.SessionCheckpoint, error)
	Delete(ctx context.Context, sessionID string) error
}

// DesignRepository persists finalized design configurations. It backs
// the local implementation of the order-collaborator contract.
type DesignRepository interface {
	Save(id string, cfg entity.DesignConfig) error
	FindByID(id string) (*entity.DesignConfig, error)
}
