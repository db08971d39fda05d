// Package websocket is the transport layer: it owns the live gorilla
// connections and exposes delivery-by-token to the routing core, which
// never touches a socket directly.
package websocket

import (
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"chat-hub/internal/registry"
)

// Hub tracks every attached client by connection token and implements
// the router's Sender capability.
type Hub struct {
	mu      sync.RWMutex
	clients map[registry.ConnID]*Client
	log     *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients: make(map[registry.ConnID]*Client),
		log:     log,
	}
}

// Attach makes a client reachable for delivery.
func (h *Hub) Attach(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
}

// Detach forgets a client. Its send channel stays open; the write pump
// dies with the connection.
func (h *Hub) Detach(id registry.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, id)
}

// Deliver queues a payload for one connection, best effort. A client
// that already detached is skipped; a full send buffer loses the frame
// rather than stalling the caller.
func (h *Hub) Deliver(id registry.ConnID, payload []byte) {
	h.mu.RLock()
	c, ok := h.clients[id]
	h.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case c.send <- payload:
	default:
		h.log.Warn("send buffer full, dropping frame", "conn", id)
	}
}

// Count returns the number of attached connections, registered or not.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IDs snapshots the tokens of all attached connections.
func (h *Hub) IDs() []registry.ConnID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return lo.Keys(h.clients)
}
