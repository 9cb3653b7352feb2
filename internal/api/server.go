// Package api provides the REST API for HydraWHOIS.
// It exposes endpoints for health checks, statistics, configuration,
// WHOIS lookups and lookup history via a Gin-based HTTP server.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sys/unix"

	"github.com/jroosing/hydrawhois/internal/api/handlers"
	"github.com/jroosing/hydrawhois/internal/api/middleware"
	"github.com/jroosing/hydrawhois/internal/config"
	"github.com/jroosing/hydrawhois/internal/server"
)

const shutdownTimeout = 10 * time.Second

// Server is the REST API server.
//
// Do not expose the API to untrusted networks without an API key.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	engine     *gin.Engine
	handler    *handlers.Handler
	httpServer *http.Server
}

// New creates the API server. c may be nil, in which case only the system
// endpoints are functional.
func New(cfg *config.Config, logger *slog.Logger, c *server.Components) *Server {
	if cfg == nil {
		panic("api.New: cfg is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.SlogRequestLogger(logger))

	h := handlers.New(cfg, logger)
	if c != nil {
		if c.Lookups != nil {
			h.SetLookups(c.Lookups)
		}
		h.SetStats(c.Stats)
		if c.DB != nil {
			h.SetHistory(c.DB)
		}
	}
	RegisterRoutes(engine, h, cfg)
	MountSPA(engine, logger)

	addr := net.JoinHostPort(cfg.API.Host, strconv.Itoa(cfg.API.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Lookups may take up to two WHOIS round trips.
		WriteTimeout: cfg.Whois.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{cfg: cfg, logger: logger, engine: engine, handler: h, httpServer: httpServer}
}

// NewFrontend is a server.FrontendFactory serving the API.
func NewFrontend(c *server.Components) (server.Frontend, error) {
	return New(c.Config, c.Logger, c), nil
}

func (s *Server) Addr() string {
	if s.httpServer == nil {
		return ""
	}
	return s.httpServer.Addr
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handler returns the endpoint handlers.
func (s *Server) Handler() *handlers.Handler {
	return s.handler
}

// Serve listens on the configured address and serves until ctx is canceled,
// then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := Listen(ctx, s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is canceled.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("API server listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- s.httpServer.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("API server shutdown", "err", err)
		return err
	}
	s.logger.Info("API server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Listen opens a TCP listener with SO_REUSEADDR and SO_REUSEPORT so a
// restarted process can bind while the old one drains.
func Listen(ctx context.Context, addr string) (net.Listener, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				if sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); sockErr != nil {
					return
				}
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}
	return lc.Listen(ctx, "tcp", addr)
}
