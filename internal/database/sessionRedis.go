package database

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/printforge/designer/internal/entity"
	"github.com/redis/go-redis/v9"
)

// redisSessionRepository keeps one JSON checkpoint per session under a
// TTL; idle sessions expire on their own.
type redisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) (SessionRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &redisSessionRepository{client: client, ttl: ttl}, nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (r *redisSessionRepository) SaveCheckpoint(ctx context.Context, sessionID string, cp entity.SessionCheckpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(sessionID), data, r.ttl).Err()
}

func (r *redisSessionRepository) LoadCheckpoint(ctx context.Context, sessionID string) (*entity.SessionCheckpoint, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, entity.ErrSessionNotFound
		}
		return nil, err
	}
	var cp entity.SessionCheckpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrSceneCorrupt, err)
	}
	return &cp, nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionKey(sessionID)).Err()
}

// memorySessionRepository is the fallback when no redis is configured
// (single-process deployments and tests).
type memorySessionRepository struct {
	mu    sync.RWMutex
	items map[string]entity.SessionCheckpoint
}

func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{items: map[string]entity.SessionCheckpoint{}}
}

func (r *memorySessionRepository) SaveCheckpoint(_ context.Context, sessionID string, cp entity.SessionCheckpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[sessionID] = cp
	return nil
}

func (r *memorySessionRepository) LoadCheckpoint(_ context.Context, sessionID string) (*entity.SessionCheckpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cp, ok := r.items[sessionID]
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return &cp, nil
}

func (r *memorySessionRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, sessionID)
	return nil
}
