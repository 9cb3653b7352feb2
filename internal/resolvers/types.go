// Package resolvers implements the network side of HydraWHOIS: a WHOIS client
// that speaks RFC 3912 over TCP and follows the two-hop referral protocol.
//
// Architecture:
//
//  1. Hop 1 - query the root server (usually whois.iana.org:43)
//  2. Referral - extract the authoritative server from the hop-1 text
//  3. Hop 2 - query the referral host on the root server's port
//
// Exactly one redirection is followed. There are no retries and no caching;
// callers that want either build it on top of Client.
//
// Caller-Owned State:
//
// Nothing in this package is process-global. Rate limiting and statistics are
// supplied by the caller through WithLimiter and WithStats, so two clients in
// the same process never share counters unless the caller wants them to.
//
// Transport:
//
// All connections go through a Dialer (proxy.ContextDialer). The default is a
// net.Dialer; NewDialer returns a SOCKS5 dialer when a proxy URL is given.
package resolvers

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// Client defaults.
const (
	DefaultTimeout          = 10 * time.Second
	DefaultMaxResponseBytes = 1 << 20 // 1 MiB
)

// Dialer opens the TCP connection for one hop.
type Dialer = proxy.ContextDialer

// Limiter decides whether a hop to the given server host may proceed.
// TokenBucket is the standard implementation.
type Limiter interface {
	Allow(key string) bool
}

// NewDialer returns the dialer used for WHOIS hops.
//
// An empty proxyURL yields a plain net.Dialer with the given connect timeout.
// Otherwise proxyURL must be a socks5:// or socks5h:// URL; the proxy itself
// is reached through the same net.Dialer.
func NewDialer(proxyURL string, timeout time.Duration) (Dialer, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	direct := &net.Dialer{Timeout: timeout}

	proxyURL = strings.TrimSpace(proxyURL)
	if proxyURL == "" {
		return direct, nil
	}

	u, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy url: %w", err)
	}
	switch u.Scheme {
	case "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("proxy url has no host")
	}

	d, err := proxy.FromURL(u, direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create proxy dialer: %w", err)
	}
	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("proxy dialer %T does not support contexts", d)
	}
	return cd, nil
}
