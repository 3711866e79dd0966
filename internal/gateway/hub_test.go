package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mapmark/core/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishNeverBlocks(t *testing.T) {
	// No Run loop draining the queue: the hub must drop, not deadlock.
	hub := gateway.NewHub(zap.NewNop())
	for i := 0; i < 1000; i++ {
		hub.Publish("POINTS_UPDATED", nil)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	hub := gateway.NewHub(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	hub.Publish("ROUTES_UPDATED", []string{"payload"})
	cancel()
	<-done
}

func TestGatewayStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := gateway.NewHub(zap.NewNop())

	r := gin.New()
	gateway.RegisterRoutes(r.Group(""), hub)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gateway/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Clients int `json:"clients"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Zero(t, body.Clients)
}
