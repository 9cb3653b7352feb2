// Package handlers implements the REST API endpoint handlers for HydraWHOIS.
//
// REST API Endpoints:
//
// System Health:
//   - GET /api/v1/health - Health check status
//   - GET /api/v1/stats - Server statistics (uptime, memory, process, WHOIS counters)
//   - GET /api/v1/config - Current configuration (sensitive values redacted)
//
// Lookups:
//   - GET /api/v1/whois/:domain - Two-hop WHOIS lookup and parse
//
// History:
//   - GET /api/v1/history - Most recent lookups, newest first
//   - GET /api/v1/history/:id - One recorded lookup
//
// Authentication:
//
// All endpoints except /health support optional API key authentication via
// the X-API-Key header.
//
// @title HydraWHOIS API
// @version 1.0
// @description WHOIS referral resolver and record parser.
//
// @contact.name HydraWHOIS Support
// @contact.url https://github.com/jroosing/hydrawhois
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:8080
// @BasePath /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package handlers

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/jroosing/hydrawhois/internal/config"
	"github.com/jroosing/hydrawhois/internal/database"
	"github.com/jroosing/hydrawhois/internal/resolvers"
	"github.com/jroosing/hydrawhois/internal/server"
)

// Lookuper runs one lookup. *server.LookupService implements it.
type Lookuper interface {
	Lookup(ctx context.Context, req server.LookupRequest) (*server.LookupResult, error)
}

// HistoryReader reads the lookup history. *database.DB implements it.
type HistoryReader interface {
	ListLookups(ctx context.Context, limit int) ([]database.Lookup, error)
	GetLookup(ctx context.Context, id string) (database.Lookup, error)
	CountLookups(ctx context.Context) (int64, error)
	SchemaVersion() (uint, error)
}

// Handler contains dependencies for API handlers.
type Handler struct {
	cfg       *config.Config
	logger    *slog.Logger
	startTime time.Time
	proc      *process.Process // nil when the OS does not expose it

	// Runtime components (set after the runner has built them)
	lookups Lookuper
	history HistoryReader
	stats   *resolvers.Stats
	mu      sync.RWMutex
}

// New creates a new Handler with the given configuration.
func New(cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		logger.Debug("process stats unavailable", "err", err)
		proc = nil
	}
	return &Handler{
		cfg:       cfg,
		logger:    logger,
		startTime: time.Now(),
		proc:      proc,
	}
}

// SetLookups sets the lookup service used by the whois endpoint.
func (h *Handler) SetLookups(l Lookuper) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lookups = l
}

// GetLookups retrieves the lookup service with safe read access.
func (h *Handler) GetLookups() Lookuper {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lookups
}

// SetHistory sets the history store. A nil store disables the history endpoints.
func (h *Handler) SetHistory(r HistoryReader) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.history = r
}

// GetHistory retrieves the history store.
func (h *Handler) GetHistory() HistoryReader {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.history
}

// SetStats sets the WHOIS client counters reported by /stats.
func (h *Handler) SetStats(s *resolvers.Stats) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats = s
}

// GetStats retrieves the WHOIS client counters.
func (h *Handler) GetStats() *resolvers.Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stats
}
