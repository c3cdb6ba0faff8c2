// Package httpapi is the JSON-over-HTTP surface of supportdesk, built on gin.
package httpapi

import (
	"github.com/dmitrijs2005/supportdesk/internal/logging"
	"github.com/dmitrijs2005/supportdesk/internal/server/guard"
	"github.com/dmitrijs2005/supportdesk/internal/server/models"
	"github.com/gin-gonic/gin"
)

// NewRouter mounts every route on a fresh gin engine.
func NewRouter(h *Handler, g *guard.Guard, logger logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/health", h.health)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.GET("/me", authenticate(g), h.me)
	}

	docs := api.Group("/documents")
	docs.Use(authenticate(g), requireRole(models.RoleAdmin))
	{
		docs.GET("", h.listDocuments)
		docs.POST("", h.uploadDocument)
		docs.GET("/:id", h.getDocument)
		docs.DELETE("/:id", h.deleteDocument)
	}

	return r
}
