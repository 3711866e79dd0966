package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mapmark/core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, 20.0, cfg.HitThresholdM)
	assert.Equal(t, config.ModeLocal, cfg.Storage.Mode)
	assert.Equal(t, "./data", cfg.Storage.DataDir)
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
port: 8080
env: production
hit_threshold_m: 35
allowed_origins:
  - example.com
storage:
  mode: redis
  redis_url: redis://localhost:6379/0
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, 35.0, cfg.HitThresholdM)
	assert.Equal(t, []string{"example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, config.ModeRedis, cfg.Storage.Mode)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Storage.RedisURL)
}

func TestLoadLegacyKeys(t *testing.T) {
	path := writeConfig(t, `
node_env: production
data_dir: /var/lib/mapmark
use_server: true
server_url: https://share.example.com
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "/var/lib/mapmark", cfg.Storage.DataDir)
	assert.Equal(t, config.ModeRemote, cfg.Storage.Mode)
	assert.Equal(t, "https://share.example.com", cfg.Storage.RemoteURL)
}

func TestLoadFlatRedisURL(t *testing.T) {
	path := writeConfig(t, `redis_url: redis://cache:6379`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.ModeRedis, cfg.Storage.Mode)
	assert.Equal(t, "redis://cache:6379", cfg.Storage.RedisURL)
}

func TestUseServerFalseStaysLocal(t *testing.T) {
	path := writeConfig(t, `
use_server: false
server_url: https://share.example.com
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.ModeLocal, cfg.Storage.Mode)
}

func TestLoadErrors(t *testing.T) {
	t.Run("malformed yaml", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "port: [not an int"))
		assert.Error(t, err)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "storage:\n  mode: carrier-pigeon\n"))
		assert.Error(t, err)
	})

	t.Run("redis mode without url", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "storage:\n  mode: redis\n"))
		assert.Error(t, err)
	})

	t.Run("remote mode without url", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "storage:\n  mode: remote\n"))
		assert.Error(t, err)
	})
}
