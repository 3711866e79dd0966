package app

import (
	"github.com/gin-gonic/gin"
	"github.com/mapmark/core/internal/gateway"
	"github.com/mapmark/core/internal/modules/points"
	"github.com/mapmark/core/internal/modules/routes"
	"github.com/mapmark/core/internal/pkg/response"
	"github.com/mapmark/core/internal/store"
)

func (a *App) registerRoutes(backend store.Backend) {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.GET("/", func(c *gin.Context) {
		response.OK(c, gin.H{
			"name":    "mapmark-share",
			"version": "1.0.0",
			"storage": a.cfg.Storage.Mode,
		})
	})
	r.GET("/ping", func(c *gin.Context) {
		response.OK(c, gin.H{"message": "pong"})
	})

	root := r.Group("")
	gateway.RegisterRoutes(root, a.hub)

	ids := store.NewIDGenerator()
	api := r.Group("/api")
	points.NewHandler(points.NewService(backend, ids), a.hub).RegisterRoutes(api)
	routes.NewHandler(routes.NewService(backend, ids), a.hub).RegisterRoutes(api)
}
