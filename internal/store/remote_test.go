package store_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mapmark/core/internal/models"
	"github.com/mapmark/core/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCache(t *testing.T) *store.FileBackend {
	t.Helper()
	cache, err := store.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	return cache
}

func TestRemoteLoadWritesThroughCache(t *testing.T) {
	want := []models.Point{{ID: 1, Tag: "remote"}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/points", r.URL.Path)
		json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	cache := newCache(t)
	backend := store.NewRemoteBackend(srv.URL+"/api", cache, zap.NewNop())

	points, err := backend.LoadPoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, points)

	cached, err := cache.LoadPoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, cached)
}

func TestRemoteLoadFallsBackToCache(t *testing.T) {
	cache := newCache(t)
	stale := []models.Point{{ID: 2, Tag: "stale but present"}}
	require.NoError(t, cache.SavePoints(context.Background(), stale))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	backend := store.NewRemoteBackend(srv.URL+"/api", cache, zap.NewNop())

	points, err := backend.LoadPoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stale, points)
}

func TestRemoteLoadUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	cache := newCache(t)
	backend := store.NewRemoteBackend(srv.URL+"/api", cache, zap.NewNop())

	// Empty cache plus unreachable server means an empty collection.
	points, err := backend.LoadPoints(context.Background())
	require.NoError(t, err)
	assert.Nil(t, points)
}

func TestRemoteSave(t *testing.T) {
	var received []models.Point
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/points", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cache := newCache(t)
	backend := store.NewRemoteBackend(srv.URL+"/api", cache, zap.NewNop())

	want := []models.Point{{ID: 3, Tag: "pushed"}}
	require.NoError(t, backend.SavePoints(context.Background(), want))
	assert.Equal(t, want, received)

	cached, err := cache.LoadPoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, cached)
}

func TestRemoteSaveFailureIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cache := newCache(t)
	backend := store.NewRemoteBackend(srv.URL+"/api", cache, zap.NewNop())

	err := backend.SavePoints(context.Background(), []models.Point{{ID: 4}})
	require.Error(t, err)

	// The cache keeps the last acknowledged state, not the failed write.
	cached, err := cache.LoadPoints(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cached)
}
