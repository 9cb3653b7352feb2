// Package server wires the WHOIS client into a running service: domain
// normalization, the lookup pipeline (resolve, parse, record), and the Runner
// that owns the process lifecycle.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jroosing/hydrawhois/internal/database"
	"github.com/jroosing/hydrawhois/internal/resolvers"
	"github.com/jroosing/hydrawhois/internal/whois"
)

// OutcomeDirect marks a single-hop lookup against an explicit server.
const OutcomeDirect = "direct"

// Prune the history once every pruneEvery recorded lookups.
const pruneEvery = 100

// Resolver is the part of resolvers.Client used by LookupService.
type Resolver interface {
	Query(ctx context.Context, server, domain string) (string, error)
	Resolve(ctx context.Context, rootServer, domain string) (*resolvers.Resolution, error)
}

// History is the part of database.DB used by LookupService.
type History interface {
	RecordLookup(ctx context.Context, l *database.Lookup) error
	PruneLookups(ctx context.Context, keep int) (int64, error)
}

// LookupConfig configures a LookupService.
type LookupConfig struct {
	Resolver        Resolver
	RootServer      string        // default hop-1 server
	Timeout         time.Duration // bound for one whole lookup
	RegistrableOnly bool
	History         History // optional
	HistoryLimit    int
	Logger          *slog.Logger
}

// LookupRequest is one lookup.
type LookupRequest struct {
	Domain string
	Server string // overrides the root server when set (host:port)
	Direct bool   // query Server (or the root) only, without following a referral
}

// LookupResult is what a lookup produced. On error it still describes how far
// the lookup got.
type LookupResult struct {
	ID             string        `json:"id,omitempty"`
	Domain         string        `json:"domain"`
	RootServer     string        `json:"root_server"`
	ReferralServer string        `json:"referral_server,omitempty"`
	Outcome        string        `json:"outcome"`
	Record         *whois.Record `json:"record,omitempty"`
	Raw            string        `json:"-"`
	Duration       time.Duration `json:"-"`
}

// LookupService runs the lookup pipeline: normalize, resolve, parse, record.
// It is safe for concurrent use.
type LookupService struct {
	resolver        Resolver
	rootServer      string
	timeout         time.Duration
	registrableOnly bool
	history         History
	historyLimit    int
	logger          *slog.Logger

	recorded atomic.Uint64
}

// NewLookupService creates a LookupService.
func NewLookupService(cfg LookupConfig) *LookupService {
	root := cfg.RootServer
	if root == "" {
		root = whois.DefaultRootServer
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = resolvers.DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &LookupService{
		resolver:        cfg.Resolver,
		rootServer:      root,
		timeout:         timeout,
		registrableOnly: cfg.RegistrableOnly,
		history:         cfg.History,
		historyLimit:    cfg.HistoryLimit,
		logger:          logger,
	}
}

// RootServer returns the default hop-1 server.
func (s *LookupService) RootServer() string {
	return s.rootServer
}

// Lookup resolves and parses one domain.
//
// Errors are ErrInvalidDomain (wrapped) for bad input, a KindMalformedServer
// *whois.Error for a server override that is not host:port (checked before any
// I/O and never recorded), or a *whois.Error from the client or the parser. When the parser fails the result still
// carries the raw text.
func (s *LookupService) Lookup(ctx context.Context, req LookupRequest) (*LookupResult, error) {
	domain, err := NormalizeDomain(req.Domain, s.registrableOnly)
	if err != nil {
		return nil, err
	}

	server := strings.TrimSpace(req.Server)
	if server == "" {
		server = s.rootServer
	}

	target := whois.Target{Server: server, Domain: domain}
	res := &LookupResult{Domain: domain, RootServer: server}
	if err := target.Validate(); err != nil {
		s.log(res, err)
		return res, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if req.Direct {
		res.Outcome = OutcomeDirect
		res.Raw, err = s.resolver.Query(ctx, target.Server, target.Domain)
	} else {
		var r *resolvers.Resolution
		r, err = s.resolver.Resolve(ctx, target.Server, target.Domain)
		if r != nil {
			res.ReferralServer = r.ReferralServer
			res.Outcome = r.Outcome.String()
			res.Raw = r.Text
		}
	}
	if err == nil {
		res.Record, err = whois.Parse(res.Raw)
	}
	res.Duration = time.Since(start)

	s.record(ctx, res, err)
	s.log(res, err)
	return res, err
}

// record appends the lookup to the history. History failures are logged and
// never fail the lookup.
func (s *LookupService) record(ctx context.Context, res *LookupResult, lookupErr error) {
	if s.history == nil {
		return
	}
	// The lookup context may already be expired; the write gets its own budget.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	l := &database.Lookup{
		Domain:         res.Domain,
		RootServer:     res.RootServer,
		ReferralServer: res.ReferralServer,
		Outcome:        res.Outcome,
		DurationMs:     res.Duration.Milliseconds(),
		RawSize:        len(res.Raw),
	}
	if l.Outcome == "" {
		l.Outcome = resolvers.OutcomeNone.String()
	}
	if lookupErr != nil {
		l.ErrorKind = whois.KindOf(lookupErr).String()
	}
	if res.Record != nil {
		if b, err := json.Marshal(res.Record); err == nil {
			l.Record = b
		}
	}

	if err := s.history.RecordLookup(ctx, l); err != nil {
		s.logger.Warn("failed to record lookup", "domain", res.Domain, "err", err)
		return
	}
	res.ID = l.ID

	if s.historyLimit > 0 && s.recorded.Add(1)%pruneEvery == 0 {
		if n, err := s.history.PruneLookups(ctx, s.historyLimit); err != nil {
			s.logger.Warn("failed to prune lookup history", "err", err)
		} else if n > 0 {
			s.logger.Debug("pruned lookup history", "removed", n, "keep", s.historyLimit)
		}
	}
}

func (s *LookupService) log(res *LookupResult, err error) {
	attrs := []any{
		"domain", res.Domain,
		"root", res.RootServer,
		"referral", res.ReferralServer,
		"outcome", res.Outcome,
		"duration_ms", res.Duration.Milliseconds(),
	}
	if err == nil {
		s.logger.Info("whois lookup", attrs...)
		return
	}
	kind := whois.KindOf(err)
	attrs = append(attrs, "error_kind", kind.String(), "err", err)
	if kind == whois.KindNoReferral {
		s.logger.Info("whois lookup", attrs...)
		return
	}
	s.logger.Warn("whois lookup failed", attrs...)
}
