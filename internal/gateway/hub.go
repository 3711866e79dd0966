// Package gateway pushes view-update events to connected map views over
// socket.io, so they re-render without polling.
package gateway

import (
	"context"
	"net/http"
	"sync"

	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

const namespaceMap = "/map"

// Message is the envelope used by hub broadcasts.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

type framedPayload struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans view-update events out to every connected view. It implements
// controller.EventSink.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]struct{}

	broadcast chan Message
	logger    *zap.Logger
	sio       *socketio.Server
}

// NewHub creates the hub and registers the /map namespace.
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		clients:   make(map[string]struct{}),
		broadcast: make(chan Message, 256),
		logger:    logger,
		sio:       socketio.NewServer(nil, nil),
	}
	h.registerNamespace()
	return h
}

func (h *Hub) registerNamespace() {
	ns := h.sio.Of(namespaceMap, nil)
	_ = ns.On("connection", func(args ...any) {
		client, ok := args[0].(*socketio.Socket)
		if !ok {
			return
		}
		sid := string(client.Id())

		h.mu.Lock()
		h.clients[sid] = struct{}{}
		h.mu.Unlock()

		_ = client.Emit("message", framedPayload{Type: "GATEWAY_CONNECT", Data: "WebSocket connected"})

		_ = client.On("disconnect", func(_ ...any) {
			h.mu.Lock()
			delete(h.clients, sid)
			h.mu.Unlock()
		})
	})
}

// Run delivers queued broadcasts until ctx ends.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.sio.Close(nil)
			return

		case msg := <-h.broadcast:
			h.sio.Of(namespaceMap, nil).Emit("message", framedPayload{Type: msg.Event, Data: msg.Payload})
		}
	}
}

// Publish queues an event for broadcast. Drops the event rather than
// blocking an intent when the queue is full.
func (h *Hub) Publish(event string, payload interface{}) {
	select {
	case h.broadcast <- Message{Event: event, Payload: payload}:
	default:
		h.logger.Warn("gateway broadcast queue full, event dropped", zap.String("event", event))
	}
}

// ClientCount returns the number of connected views.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Handler returns the socket.io HTTP handler mounted at /socket.io.
func (h *Hub) Handler() http.Handler {
	return h.sio.ServeHandler(nil)
}
