package resolvers

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// TokenBucketConfig configures a TokenBucket.
type TokenBucketConfig struct {
	Rate            float64       // Tokens replenished per second (queries per second per host)
	Burst           int           // Maximum tokens (burst capacity)
	CleanupInterval time.Duration // How often to drop idle hosts
	MaxEntries      int           // Maximum tracked hosts
}

// TokenBucket limits outbound queries per WHOIS server host.
//
// Token bucket algorithm:
//   - Each host has a bucket of tokens
//   - Tokens are replenished at Rate tokens/second, up to Burst
//   - Each hop consumes 1 token; a hop is denied when the bucket is empty
//
// Keys are lower-cased server host names, not queried domains.
type TokenBucket struct {
	rate            float64
	burst           float64
	cleanupInterval time.Duration
	maxEntries      int

	mu          sync.Mutex // Protects all fields below
	lastCleanup time.Time
	lastUpdate  map[string]time.Time
	tokens      map[string]float64
}

// NewTokenBucket creates a limiter. A Rate or Burst <= 0 disables limiting.
func NewTokenBucket(cfg TokenBucketConfig) *TokenBucket {
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	ci := cfg.CleanupInterval
	if ci <= 0 {
		ci = 60 * time.Second
	}
	return &TokenBucket{
		rate:            cfg.Rate,
		burst:           float64(cfg.Burst),
		cleanupInterval: ci,
		maxEntries:      maxEntries,
		lastCleanup:     time.Now(),
		lastUpdate:      map[string]time.Time{},
		tokens:          map[string]float64{},
	}
}

// Enabled reports whether the limiter enforces anything.
func (l *TokenBucket) Enabled() bool {
	return l != nil && l.rate > 0.0 && l.burst > 0.0
}

// Allow reports whether a hop to host may proceed and consumes a token if so.
func (l *TokenBucket) Allow(host string) bool {
	if !l.Enabled() {
		return true
	}
	return l.allowAt(host, time.Now())
}

func (l *TokenBucket) allowAt(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastCleanup) > l.cleanupInterval {
		l.cleanupLocked(now)
	}

	last, exists := l.lastUpdate[key]
	if !exists {
		if len(l.lastUpdate) >= l.maxEntries {
			l.cleanupLocked(now)
			if len(l.lastUpdate) >= l.maxEntries {
				return false
			}
		}
		l.lastUpdate[key] = now
		l.tokens[key] = l.burst - 1.0
		return true
	}

	elapsed := now.Sub(last).Seconds()
	l.lastUpdate[key] = now

	tokens := l.tokens[key]
	if elapsed > 0 {
		tokens = math.Min(l.burst, tokens+(elapsed*l.rate))
	}
	if tokens >= 1.0 {
		l.tokens[key] = tokens - 1.0
		return true
	}
	l.tokens[key] = tokens
	return false
}

// cleanupLocked drops hosts idle for longer than the cleanup interval.
// Must be called with l.mu held.
func (l *TokenBucket) cleanupLocked(now time.Time) {
	staleBefore := now.Add(-l.cleanupInterval)
	for k, last := range l.lastUpdate {
		if !last.After(staleBefore) {
			delete(l.lastUpdate, k)
			delete(l.tokens, k)
		}
	}
	l.lastCleanup = now
}

// FormatLimitLog returns a human-readable summary of a limiter configuration.
func FormatLimitLog(cfg TokenBucketConfig) string {
	if cfg.Rate <= 0.0 || cfg.Burst <= 0 {
		return "per_host=disabled"
	}
	return fmt.Sprintf("per_host=%gqps/%d max_hosts=%d", cfg.Rate, cfg.Burst, cfg.MaxEntries)
}
