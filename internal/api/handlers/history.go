package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/hydrawhois/internal/api/models"
	"github.com/jroosing/hydrawhois/internal/database"
)

const defaultHistoryLimit = 50

// ListHistory godoc
// @Summary List recent lookups
// @Description Returns the most recent lookups, newest first
// @Tags history
// @Produce json
// @Param limit query int false "Maximum entries (1-1000, default 50)"
// @Success 200 {object} models.HistoryResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /history [get]
func (h *Handler) ListHistory(c *gin.Context) {
	hist := h.GetHistory()
	if hist == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "history is disabled"})
		return
	}

	limit := defaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	ctx := c.Request.Context()
	lookups, err := hist.ListLookups(ctx, limit)
	if err != nil {
		h.logger.Error("failed to list lookups", "err", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list lookups"})
		return
	}
	total, err := hist.CountLookups(ctx)
	if err != nil {
		h.logger.Error("failed to count lookups", "err", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to count lookups"})
		return
	}

	resp := models.HistoryResponse{Total: total, Lookups: make([]models.HistoryEntry, 0, len(lookups))}
	for _, l := range lookups {
		resp.Lookups = append(resp.Lookups, historyEntry(l))
	}
	c.JSON(http.StatusOK, resp)
}

// GetHistoryEntry godoc
// @Summary Get one lookup
// @Description Returns a recorded lookup by id
// @Tags history
// @Produce json
// @Param id path string true "Lookup id"
// @Success 200 {object} models.HistoryEntry
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /history/{id} [get]
func (h *Handler) GetHistoryEntry(c *gin.Context) {
	hist := h.GetHistory()
	if hist == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "history is disabled"})
		return
	}

	l, err := hist.GetLookup(c.Request.Context(), c.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "lookup not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to get lookup", "id", c.Param("id"), "err", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to get lookup"})
		return
	}
	c.JSON(http.StatusOK, historyEntry(l))
}

func historyEntry(l database.Lookup) models.HistoryEntry {
	return models.HistoryEntry{
		ID:             l.ID,
		Domain:         l.Domain,
		RootServer:     l.RootServer,
		ReferralServer: l.ReferralServer,
		Outcome:        l.Outcome,
		ErrorKind:      l.ErrorKind,
		DurationMs:     l.DurationMs,
		RawSize:        l.RawSize,
		Record:         l.Record,
		CreatedAt:      l.CreatedAt,
	}
}
