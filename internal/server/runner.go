package server

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jroosing/hydrawhois/internal/config"
	"github.com/jroosing/hydrawhois/internal/database"
	"github.com/jroosing/hydrawhois/internal/resolvers"
)

// Components are the long-lived pieces built from the config.
type Components struct {
	Config  *config.Config
	Logger  *slog.Logger
	Stats   *resolvers.Stats
	Client  *resolvers.Client
	DB      *database.DB // nil when history is disabled
	Lookups *LookupService
}

// Close releases resources held by the components.
func (c *Components) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// Frontend is served for the lifetime of the runner. Serve must return when
// ctx is canceled.
type Frontend interface {
	Serve(ctx context.Context) error
}

// FrontendFactory builds the frontend (the HTTP API) from the components.
type FrontendFactory func(c *Components) (Frontend, error)

// Runner orchestrates service startup, wiring, and shutdown.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a new runner with the given logger.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logger}
}

// Build creates the components for cfg. The caller must Close them.
//
// Wiring order:
//  1. Caller-owned stats
//  2. WHOIS client (dialer, limiter, charset fallback, referral policy)
//  3. History store, when enabled
//  4. Lookup service
func (r *Runner) Build(cfg *config.Config) (*Components, error) {
	c := &Components{Config: cfg, Logger: r.logger, Stats: resolvers.NewStats()}

	client, err := NewClient(cfg, c.Stats)
	if err != nil {
		return nil, err
	}
	c.Client = client

	var history History
	if cfg.Database.Enabled {
		db, err := database.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		c.DB = db
		history = db
	}

	c.Lookups = NewLookupService(LookupConfig{
		Resolver:        client,
		RootServer:      cfg.Whois.RootServer,
		Timeout:         cfg.Whois.Timeout,
		RegistrableOnly: cfg.Whois.RegistrableOnly,
		History:         history,
		HistoryLimit:    cfg.Database.HistoryLimit,
		Logger:          r.logger,
	})
	return c, nil
}

// Run starts the service and blocks until SIGINT/SIGTERM.
func (r *Runner) Run(cfg *config.Config, frontend FrontendFactory) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return r.RunWithContext(ctx, cfg, frontend)
}

// RunWithContext builds the components, serves the frontend and blocks until
// ctx is canceled or the frontend fails.
func (r *Runner) RunWithContext(ctx context.Context, cfg *config.Config, frontend FrontendFactory) error {
	c, err := r.Build(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	r.logStartup(cfg, c)

	if frontend == nil {
		<-ctx.Done()
		return nil
	}
	fe, err := frontend(c)
	if err != nil {
		return err
	}

	ctx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	errCh := make(chan error, 1)
	go func() { errCh <- fe.Serve(ctx) }()

	select {
	case <-ctx.Done():
		// Serve observes ctx and shuts down; wait for it to finish.
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// logStartup logs the effective configuration at startup.
func (r *Runner) logStartup(cfg *config.Config, c *Components) {
	if r.logger == nil {
		return
	}
	r.logger.Info(
		"whois client ready",
		"root", cfg.Whois.RootServer,
		"timeout", cfg.Whois.Timeout.String(),
		"referral_policy", c.Client.Policy().String(),
		"max_response_bytes", cfg.Whois.MaxResponseBytes,
		"proxy", cfg.Whois.Proxy != "",
		"history", cfg.Database.Enabled,
	)
	r.logger.Info("rate limits", "effective", resolvers.FormatLimitLog(LimiterConfig(cfg.RateLimit)))
}
