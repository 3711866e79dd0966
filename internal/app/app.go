// Package app wires the share server: config, storage backend, gateway hub,
// and the HTTP surface.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mapmark/core/internal/config"
	"github.com/mapmark/core/internal/gateway"
	"github.com/mapmark/core/internal/middleware"
	pkgredis "github.com/mapmark/core/internal/pkg/redis"
	"github.com/mapmark/core/internal/store"
	"go.uber.org/zap"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	hub    *gateway.Hub
	logger *zap.Logger
	cancel context.CancelFunc
}

// New initializes the application: storage backend → hub → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	backend, err := buildBackend(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			host := extractOriginHost(origin)
			for _, pattern := range patterns {
				if matchOriginPattern(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	router.Use(cors.New(corsConfig))

	hub := gateway.NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	app := &App{cfg: cfg, router: router, hub: hub, logger: logger, cancel: cancel}
	app.registerRoutes(backend)

	return app, nil
}

// buildBackend selects the server-side store. Remote mode is a client-only
// concept; a server configured with it falls back to local files.
func buildBackend(cfg *config.AppConfig, logger *zap.Logger) (store.Backend, error) {
	switch cfg.Storage.Mode {
	case config.ModeRedis:
		rc, err := pkgredis.Connect(cfg.Storage.RedisURL)
		if err != nil {
			return nil, err
		}
		return store.NewRedisBackend(rc), nil

	case config.ModeRemote:
		logger.Warn("remote storage mode is client-only, serving from local files instead")
		fallthrough
	default:
		return store.NewFileBackend(cfg.Storage.DataDir)
	}
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown cleans up background goroutines.
func (a *App) Shutdown() { a.cancel() }
