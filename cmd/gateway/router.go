// In file: cmd/gateway/router.go
package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// newEngine registers every route of the gateway on a fresh gin engine.
func newEngine(h *GatewayHandler, corsOrigins []string, logger *zap.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), securityHeaders(gin.Mode() == gin.ReleaseMode), requestLogger(logger))
	if len(corsOrigins) > 0 {
		engine.Use(corsMiddleware(corsOrigins))
	}

	v1 := engine.Group("/api/v1")
	{
		v1.POST("/analyze", h.HandleAnalyze)
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodHead} {
			v1.Handle(method, "/analyze", h.HandleMethodNotAllowed)
		}
		v1.GET("/categories", h.HandleCategories)
		v1.GET("/models", h.HandleModels)
	}

	engine.GET("/healthz", h.HandleHealth)
	engine.GET("/version", h.HandleVersion)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return engine
}
