package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"

	"chat-hub/internal/registry"
	"chat-hub/internal/router"
	ws "chat-hub/internal/websocket"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict origins once the frontend host is fixed
		return true
	},
}

// WebSocketHandler upgrades HTTP connections and hands them to the
// transport hub and routing core.
type WebSocketHandler struct {
	hub    *ws.Hub
	router *router.Router
	users  *registry.Users
	groups *registry.Groups
	log    *slog.Logger
}

func NewWebSocketHandler(hub *ws.Hub, rt *router.Router, users *registry.Users, groups *registry.Groups, log *slog.Logger) *WebSocketHandler {
	if log == nil {
		log = slog.Default()
	}
	return &WebSocketHandler{
		hub:    hub,
		router: rt,
		users:  users,
		groups: groups,
		log:    log,
	}
}

// HandleWebSocket upgrades the request, mints a connection token, and
// starts the read/write pumps. The handler returns immediately; the
// pumps own the connection from here on.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "remote", c.Request.RemoteAddr, "err", err)
		return
	}

	id, err := registry.NewConnID()
	if err != nil {
		h.log.Error("minting connection id failed", "err", err)
		conn.Close()
		return
	}

	client := ws.NewClient(id, conn, h.hub, h.log)
	h.hub.Attach(client)
	h.router.OnConnect(id)

	go client.WritePump()
	go client.ReadPump(h.router)
}

type ConnectionInfoResponse struct {
	TotalConnections int        `json:"total_connections"`
	OnlineUsers      []UserInfo `json:"online_users"`
	Groups           []string   `json:"groups"`
	ServerTime       string     `json:"server_time"`
}

type UserInfo struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

// GetConnectionInfo reports live transport and presence stats: attached
// connections, registered users, and known group names.
func (h *WebSocketHandler) GetConnectionInfo(c *gin.Context) {
	users := make([]UserInfo, 0)
	for _, u := range h.users.All(registry.None) {
		users = append(users, UserInfo{Name: u.Name, Mobile: u.Mobile})
	}

	c.JSON(http.StatusOK, ConnectionInfoResponse{
		TotalConnections: h.hub.Count(),
		OnlineUsers:      users,
		Groups:           h.groups.Names(),
		ServerTime:       time.Now().Format(time.RFC3339),
	})
}
