package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mapmark/core/internal/models"
	"github.com/mapmark/core/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackendRoundTrip(t *testing.T) {
	backend, err := store.NewFileBackend(t.TempDir())
	require.NoError(t, err)

	// Fresh directory reads as empty collections.
	points, err := backend.LoadPoints(context.Background())
	require.NoError(t, err)
	assert.Nil(t, points)

	want := []models.Point{
		{ID: 1, Lat: 22.3, Lng: 114.1, Category: models.CategoryAttraction, Tag: "Peak", Username: "alice", Timestamp: "2024-06-01 12:00:00"},
		{ID: 2, Lat: 22.4, Lng: 114.2, Category: models.CategoryOther, Tag: "Pier"},
	}
	require.NoError(t, backend.SavePoints(context.Background(), want))

	points, err = backend.LoadPoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, points)

	routes := []models.Route{{
		ID:   3,
		Name: "Loop",
		Points: []models.RoutePoint{
			{Lat: 22.3, Lng: 114.1, Name: "Peak", Type: models.VertexWaypoint, PointID: 1},
			{Lat: 22.35, Lng: 114.15, Name: "Route Point 2", Type: models.VertexRoutePoint},
		},
	}}
	require.NoError(t, backend.SaveRoutes(context.Background(), routes))

	got, err := backend.LoadRoutes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, routes, got)
}

func TestFileBackendSlotFiles(t *testing.T) {
	dir := t.TempDir()
	backend, err := store.NewFileBackend(dir)
	require.NoError(t, err)

	require.NoError(t, backend.SavePoints(context.Background(), nil))

	data, err := os.ReadFile(filepath.Join(dir, store.PointsKey+".json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestFileBackendMalformedFile(t *testing.T) {
	dir := t.TempDir()
	backend, err := store.NewFileBackend(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, store.PointsKey+".json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err = backend.LoadPoints(context.Background())
	assert.Error(t, err)
}

func TestFileBackendCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := store.NewFileBackend(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
