package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jroosing/forge/internal/api/handlers"
)

func registerRoutes(r *gin.Engine, h *handlers.Handler) {
	v1 := r.Group("/api/v1")

	v1.GET("/health", h.Health)
	v1.GET("/stats", h.Stats)
	v1.GET("/status", h.Status)
	v1.GET("/buckets", h.Buckets)
	v1.POST("/reload", h.Reload)
}
