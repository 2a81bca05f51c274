package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"allocation-backend/internal/config"
	"allocation-backend/internal/handlers"
	"allocation-backend/internal/middleware"
)

// Setup builds the gin engine with all routes wired
func Setup(cfg *config.Config, resolveHandler *handlers.ResolveHandler, relayHandler *handlers.RelayHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORS))

	// Metrics endpoint for Prometheus scraping
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheckHandler)
		api.GET("/allocation/resolve", resolveHandler.ResolveAllocationHandler)
		api.GET("/allocation/resolve/ws", resolveHandler.ResolveAllocationWSHandler)
	}

	// Same-origin relay for the browser frontend; the relay sets its own
	// permissive CORS header per the off-chain interface contract.
	r.GET("/relay/allocation", relayHandler.RelayAllocationHandler)

	return r
}
