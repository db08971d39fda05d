package websocket

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"chat-hub/internal/registry"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Outbound frames queued per connection before the hub starts
	// dropping them.
	sendBufferSize = 256
)

// EventHandler receives the three lifecycle events of a connection. The
// router implements it; tests substitute fakes.
type EventHandler interface {
	OnConnect(id registry.ConnID)
	OnEvent(id registry.ConnID, raw []byte)
	OnDisconnect(id registry.ConnID)
}

// Client is one live WebSocket session: the gorilla connection, its
// outbound queue, and the token the core knows it by.
type Client struct {
	id   registry.ConnID
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
	log  *slog.Logger
}

func NewClient(id registry.ConnID, conn *websocket.Conn, hub *Hub, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		id:   id,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		hub:  hub,
		log:  log,
	}
}

// ID returns the connection token.
func (c *Client) ID() registry.ConnID {
	return c.id
}

// ReadPump pumps inbound frames to the handler until the connection
// dies, then fires OnDisconnect exactly once and detaches from the hub.
// The departure broadcast runs before Detach so remaining peers are
// still reachable while this client is already out of the registries.
func (c *Client) ReadPump(h EventHandler) {
	defer func() {
		h.OnDisconnect(c.id)
		c.hub.Detach(c.id)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("websocket read failed", "conn", c.id, "err", err)
			}
			return
		}
		h.OnEvent(c.id, raw)
	}
}

// WritePump drains the send queue onto the wire and keeps the connection
// alive with pings. It exits when the connection closes; the send
// channel itself is never closed, so a late Deliver is harmless.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
