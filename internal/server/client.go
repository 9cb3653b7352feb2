package server

import (
	"fmt"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/jroosing/hydrawhois/internal/config"
	"github.com/jroosing/hydrawhois/internal/resolvers"
)

// CharsetFallback maps the config charset name to a decoder. "" means strict
// UTF-8 (nil). "utf-8" decodes invalid sequences to U+FFFD.
func CharsetFallback(name string) (encoding.Encoding, error) {
	switch name {
	case "":
		return nil, nil
	case "utf-8":
		return unicode.UTF8, nil
	case "latin1":
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("unknown charset %q", name)
	}
}

// LimiterConfig converts the rate limit section to a token bucket config.
func LimiterConfig(cfg config.RateLimitConfig) resolvers.TokenBucketConfig {
	return resolvers.TokenBucketConfig{
		Rate:            cfg.PerHostQPS,
		Burst:           cfg.PerHostBurst,
		CleanupInterval: time.Duration(cfg.CleanupSeconds * float64(time.Second)),
		MaxEntries:      cfg.MaxHosts,
	}
}

// NewClient builds a WHOIS client from a validated config. stats may be nil.
func NewClient(cfg *config.Config, stats *resolvers.Stats) (*resolvers.Client, error) {
	dialer, err := resolvers.NewDialer(cfg.Whois.Proxy, cfg.Whois.Timeout)
	if err != nil {
		return nil, err
	}
	policy, err := resolvers.ParseReferralPolicy(cfg.Whois.ReferralPolicy)
	if err != nil {
		return nil, err
	}
	fallback, err := CharsetFallback(cfg.Whois.CharsetFallback)
	if err != nil {
		return nil, err
	}

	opts := []resolvers.Option{
		resolvers.WithDialer(dialer),
		resolvers.WithMaxResponseBytes(cfg.Whois.MaxResponseBytes),
		resolvers.WithReferralPolicy(policy),
		resolvers.WithStats(stats),
	}
	if fallback != nil {
		opts = append(opts, resolvers.WithCharsetFallback(fallback))
	}
	if limiter := resolvers.NewTokenBucket(LimiterConfig(cfg.RateLimit)); limiter.Enabled() {
		opts = append(opts, resolvers.WithLimiter(limiter))
	}
	return resolvers.NewClient(opts...), nil
}
