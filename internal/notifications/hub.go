package notifications

import (
	"context"
	"errors"
	"sync"

	"verdant/internal/middleware"

	"github.com/gofiber/websocket/v2"
)

// Visitors are anonymous, so the only limit that matters is the total.
const maxTotalConns = 10000

// Hub tracks every connected visitor and broadcasts content updates to
// all of them.
type Hub struct {
	mu    sync.RWMutex
	conns map[*Client]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[*Client]struct{})}
}

// Register adds a visitor connection.
func (h *Hub) Register(conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.conns) >= maxTotalConns {
		return nil, errors.New("server connection limit reached")
	}

	client := newClient(h, conn)
	h.conns[client] = struct{}{}
	middleware.CounterStreams.Set(float64(len(h.conns)))
	return client, nil
}

// Unregister removes a visitor connection.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[client]; ok {
		delete(h.conns, client)
		middleware.CounterStreams.Set(float64(len(h.conns)))
	}
}

// Broadcast sends message to every connected visitor.
func (h *Hub) Broadcast(message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data := []byte(message)
	for c := range h.conns {
		c.TrySend(data)
	}
}

// Connected returns the number of active visitor connections.
func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// StartWiring subscribes the hub to the notifier's update channels so
// saves made on any instance reach every visitor.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartSubscriber(ctx, func(channel, payload string) {
		h.Broadcast(payload)
	})
}

// Shutdown closes every visitor connection.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.conns {
		if client.Conn != nil {
			if err := client.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
				middleware.Logger.Debug("failed to write close message", "error", err)
			}
			_ = client.Conn.Close()
		}
		close(client.Send)
	}
	h.conns = make(map[*Client]struct{})
	middleware.CounterStreams.Set(0)
	return nil
}
