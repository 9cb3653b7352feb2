package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/hydrawhois/internal/api/models"
)

// GetConfig godoc
// @Summary Get current configuration
// @Description Returns the current server configuration (API key and proxy credentials redacted)
// @Tags config
// @Produce json
// @Success 200 {object} models.ConfigResponse
// @Failure 500 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /config [get]
func (h *Handler) GetConfig(c *gin.Context) {
	if h.cfg == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "config unavailable"})
		return
	}

	red := h.cfg.Redacted()
	resp := models.ConfigResponse{
		Whois:     red.Whois,
		RateLimit: red.RateLimit,
		Logging:   red.Logging,
		API: models.APIConfigResponse{
			Enabled:     red.API.Enabled,
			Host:        red.API.Host,
			Port:        red.API.Port,
			AuthEnabled: h.cfg.API.APIKey != "",
		},
		Database: red.Database,
	}

	c.JSON(http.StatusOK, resp)
}
