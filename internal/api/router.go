package api

import (
	"github.com/gin-gonic/gin"

	m "chat-hub/internal/middleware"
)

type Router struct {
	wh      *WebSocketHandler
	limiter *m.IPRateLimiter
}

func NewRouter(wh *WebSocketHandler, limiter *m.IPRateLimiter) *Router {
	return &Router{
		wh:      wh,
		limiter: limiter,
	}
}

func (r *Router) RegisterRoutes(router *gin.Engine) {
	{
		unprotected := router.Group("/")
		unprotected.GET("/hc", HealthCheckHandler)
	}

	{
		ws := router.Group("/ws")
		ws.Use(m.RateLimitMiddleware(r.limiter))
		ws.GET("", r.wh.HandleWebSocket)
		ws.GET("/info", r.wh.GetConnectionInfo)
	}
}

func HealthCheckHandler(c *gin.Context) {
	c.String(200, "Running")
}
