package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mapmark/core/internal/models"
	"go.uber.org/zap"
)

// RemoteBackend talks to a share server exposing the /api/points and
// /api/routes collections. Every successful read and write passes through a
// local cache, and a failed read degrades to that cache instead of blocking:
// one attempt, then fallback, no retry loop.
type RemoteBackend struct {
	baseURL string
	client  *http.Client
	cache   *FileBackend
	logger  *zap.Logger
}

// NewRemoteBackend builds a backend for baseURL (e.g. "http://host:3000/api")
// with cache as the degraded-read copy.
func NewRemoteBackend(baseURL string, cache *FileBackend, logger *zap.Logger) *RemoteBackend {
	return &RemoteBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
		logger:  logger,
	}
}

func (b *RemoteBackend) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (b *RemoteBackend) put(ctx context.Context, path string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, b.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("PUT %s: status %d", path, resp.StatusCode)
	}
	return nil
}

func (b *RemoteBackend) LoadPoints(ctx context.Context) ([]models.Point, error) {
	var points []models.Point
	if err := b.get(ctx, "/points", &points); err != nil {
		b.logger.Warn("remote point load failed, using cached copy", zap.Error(err))
		return b.cache.LoadPoints(ctx)
	}
	if err := b.cache.SavePoints(ctx, points); err != nil {
		b.logger.Warn("point cache write failed", zap.Error(err))
	}
	return points, nil
}

func (b *RemoteBackend) SavePoints(ctx context.Context, points []models.Point) error {
	if points == nil {
		points = []models.Point{}
	}
	if err := b.put(ctx, "/points", points); err != nil {
		return err
	}
	if err := b.cache.SavePoints(ctx, points); err != nil {
		b.logger.Warn("point cache write failed", zap.Error(err))
	}
	return nil
}

func (b *RemoteBackend) LoadRoutes(ctx context.Context) ([]models.Route, error) {
	var routes []models.Route
	if err := b.get(ctx, "/routes", &routes); err != nil {
		b.logger.Warn("remote route load failed, using cached copy", zap.Error(err))
		return b.cache.LoadRoutes(ctx)
	}
	if err := b.cache.SaveRoutes(ctx, routes); err != nil {
		b.logger.Warn("route cache write failed", zap.Error(err))
	}
	return routes, nil
}

func (b *RemoteBackend) SaveRoutes(ctx context.Context, routes []models.Route) error {
	if routes == nil {
		routes = []models.Route{}
	}
	if err := b.put(ctx, "/routes", routes); err != nil {
		return err
	}
	if err := b.cache.SaveRoutes(ctx, routes); err != nil {
		b.logger.Warn("route cache write failed", zap.Error(err))
	}
	return nil
}
