// Package config loads runtime startup configuration from YAML, accepting a
// few legacy key spellings and filling defaults for everything omitted.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort         = 3000
	defaultEnv          = "development"
	defaultDataDir      = "./data"
	defaultHitThreshold = 20.0

	// Storage modes.
	ModeLocal  = "local"
	ModeRedis  = "redis"
	ModeRemote = "remote"
)

// StorageConfig selects and parameterizes the backing store.
type StorageConfig struct {
	// Mode is "local" (JSON files), "redis" (shared key slots), or
	// "remote" (share-server client with local cache fallback).
	Mode      string `yaml:"mode"`
	DataDir   string `yaml:"data_dir"`
	RedisURL  string `yaml:"redis_url"`
	RemoteURL string `yaml:"remote_url"`
}

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int           `yaml:"port"`
	Env            string        `yaml:"env"` // "development" | "production"
	AllowedOrigins []string      `yaml:"allowed_origins"`
	HitThresholdM  float64       `yaml:"hit_threshold_m"`
	Storage        StorageConfig `yaml:"storage"`
}

type rawAppConfig struct {
	Port           int           `yaml:"port"`
	Env            string        `yaml:"env"`
	NodeEnv        string        `yaml:"node_env"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	HitThresholdM  float64       `yaml:"hit_threshold_m"`
	Storage        StorageConfig `yaml:"storage"`

	// Legacy flat spellings.
	DataDir   string `yaml:"data_dir"`
	RedisURL  string `yaml:"redis_url"`
	RemoteURL string `yaml:"remote_url"`
	UseServer *bool  `yaml:"use_server"`
	ServerURL string `yaml:"server_url"`
}

// Load reads the config file at path. A missing file yields the defaults;
// a malformed file is an error.
func Load(path string) (*AppConfig, error) {
	raw := rawAppConfig{}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	return normalize(raw)
}

func normalize(raw rawAppConfig) (*AppConfig, error) {
	cfg := &AppConfig{
		Port:           raw.Port,
		Env:            firstNonEmpty(raw.Env, raw.NodeEnv, defaultEnv),
		AllowedOrigins: raw.AllowedOrigins,
		HitThresholdM:  raw.HitThresholdM,
		Storage:        raw.Storage,
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.HitThresholdM <= 0 {
		cfg.HitThresholdM = defaultHitThreshold
	}

	s := &cfg.Storage
	s.DataDir = firstNonEmpty(s.DataDir, raw.DataDir, defaultDataDir)
	s.RedisURL = firstNonEmpty(s.RedisURL, raw.RedisURL)
	s.RemoteURL = firstNonEmpty(s.RemoteURL, raw.RemoteURL, raw.ServerURL)

	if s.Mode == "" {
		switch {
		case raw.UseServer != nil && *raw.UseServer && s.RemoteURL != "":
			s.Mode = ModeRemote
		case s.RedisURL != "":
			s.Mode = ModeRedis
		default:
			s.Mode = ModeLocal
		}
	}

	switch s.Mode {
	case ModeLocal, ModeRedis, ModeRemote:
	default:
		return nil, fmt.Errorf("unknown storage mode %q", s.Mode)
	}
	if s.Mode == ModeRedis && s.RedisURL == "" {
		return nil, fmt.Errorf("storage mode %q requires redis_url", ModeRedis)
	}
	if s.Mode == ModeRemote && s.RemoteURL == "" {
		return nil, fmt.Errorf("storage mode %q requires remote_url", ModeRemote)
	}

	return cfg, nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env == "development" }

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
