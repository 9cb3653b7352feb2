package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/hydrawhois/internal/api/models"
)

// Health godoc
// @Summary Health check
// @Description Returns server health status
// @Tags system
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatusResponse{Status: "ok"})
}

// Stats godoc
// @Summary Server statistics
// @Description Returns runtime statistics including memory, goroutines, process usage and WHOIS counters
// @Tags system
// @Produce json
// @Success 200 {object} models.ServerStatsResponse
// @Security ApiKeyAuth
// @Router /stats [get]
func (h *Handler) Stats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.startTime)

	resp := models.ServerStatsResponse{
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: int64(uptime.Seconds()),
		StartTime:     h.startTime,
		GoRoutines:    runtime.NumGoroutine(),
		MemoryAllocMB: float64(m.Alloc) / 1024 / 1024,
		NumCPU:        runtime.NumCPU(),
		Process:       h.processStats(c),
		Whois:         h.GetStats().Snapshot(),
	}

	if hist := h.GetHistory(); hist != nil {
		n, err := hist.CountLookups(c.Request.Context())
		if err != nil {
			h.logger.Warn("failed to count lookups", "err", err)
		} else {
			v, err := hist.SchemaVersion()
			if err != nil {
				h.logger.Warn("failed to read schema version", "err", err)
			}
			resp.History = &models.HistoryStatsResponse{Lookups: n, SchemaVersion: v}
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) processStats(c *gin.Context) *models.ProcessStatsResponse {
	if h.proc == nil {
		return nil
	}
	ctx := c.Request.Context()
	out := &models.ProcessStatsResponse{}
	if mem, err := h.proc.MemoryInfoWithContext(ctx); err == nil {
		out.RSSMB = float64(mem.RSS) / 1024 / 1024
	}
	if cpu, err := h.proc.CPUPercentWithContext(ctx); err == nil {
		out.CPUPercent = cpu
	}
	if n, err := h.proc.NumThreadsWithContext(ctx); err == nil {
		out.NumThreads = n
	}
	return out
}
