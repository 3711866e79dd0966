package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mapmark/core/internal/models"
	pkgredis "github.com/mapmark/core/internal/pkg/redis"
)

// RedisBackend keeps each collection in a single key holding the full
// JSON-encoded array, mirroring the local key-value slot layout on a shared
// Redis instance.
type RedisBackend struct {
	rc *pkgredis.Client
}

// NewRedisBackend wraps an already-connected client.
func NewRedisBackend(rc *pkgredis.Client) *RedisBackend {
	return &RedisBackend{rc: rc}
}

func redisLoad[T any](ctx context.Context, rc *pkgredis.Client, key string) ([]T, error) {
	raw, err := rc.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, nil
}

func redisSave[T any](ctx context.Context, rc *pkgredis.Client, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return rc.Set(ctx, key, string(data), 0)
}

func (b *RedisBackend) LoadPoints(ctx context.Context) ([]models.Point, error) {
	return redisLoad[models.Point](ctx, b.rc, PointsKey)
}

func (b *RedisBackend) SavePoints(ctx context.Context, points []models.Point) error {
	return redisSave(ctx, b.rc, PointsKey, points)
}

func (b *RedisBackend) LoadRoutes(ctx context.Context) ([]models.Route, error) {
	return redisLoad[models.Route](ctx, b.rc, RoutesKey)
}

func (b *RedisBackend) SaveRoutes(ctx context.Context, routes []models.Route) error {
	return redisSave(ctx, b.rc, RoutesKey, routes)
}
