package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/jroosing/hydrawhois/internal/api/handlers"
	"github.com/jroosing/hydrawhois/internal/api/middleware"
	"github.com/jroosing/hydrawhois/internal/config"

	_ "github.com/jroosing/hydrawhois/internal/api/docs" // swagger docs
)

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, cfg *config.Config) {
	// Swagger UI at /swagger/*
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")

	// Registered before the key check so probes never need the key.
	api.GET("/health", h.Health)

	if cfg != nil && cfg.API.APIKey != "" {
		api.Use(middleware.RequireAPIKey(cfg.API.APIKey))
	}

	api.GET("/stats", h.Stats)
	api.GET("/config", h.GetConfig)

	api.GET("/whois/:domain", h.Whois)

	api.GET("/history", h.ListHistory)
	api.GET("/history/:id", h.GetHistoryEntry)
}
