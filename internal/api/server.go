package api

import "github.com/gin-gonic/gin"

// Serve mounts the routes on a default gin engine and blocks serving
// plain HTTP. TLS termination, when wanted, sits in front of the
// process.
func Serve(addr string, router *Router) error {
	engine := gin.Default()
	router.RegisterRoutes(engine)
	return engine.Run(addr)
}
