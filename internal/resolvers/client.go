package resolvers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding"

	"github.com/jroosing/hydrawhois/internal/pool"
	"github.com/jroosing/hydrawhois/internal/whois"
)

// Buffers larger than this are dropped instead of being returned to the pool.
const maxPooledBufferSize = 256 << 10

var bufferPool = pool.NewWithReset(
	func() *bytes.Buffer { return new(bytes.Buffer) },
	(*bytes.Buffer).Reset,
	func(b *bytes.Buffer) bool { return b.Cap() <= maxPooledBufferSize },
)

// ReferralPolicy decides what happens when hop 1 names no referral server.
type ReferralPolicy int

const (
	// ReferralRequired fails the resolution with whois.KindNoReferral.
	ReferralRequired ReferralPolicy = iota
	// ReferralOptional returns the hop-1 text as the final answer.
	ReferralOptional
)

func (p ReferralPolicy) String() string {
	if p == ReferralOptional {
		return "optional"
	}
	return "required"
}

// ParseReferralPolicy parses "required" or "optional". Empty means required.
func ParseReferralPolicy(s string) (ReferralPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "required":
		return ReferralRequired, nil
	case "optional":
		return ReferralOptional, nil
	default:
		return ReferralRequired, fmt.Errorf("unknown referral policy %q", s)
	}
}

// Outcome describes how a resolution ended.
type Outcome int

const (
	// OutcomeNone: the resolution failed before a referral decision was made.
	OutcomeNone Outcome = iota
	// OutcomeReferred: hop 1 named a referral and hop 2 was performed.
	OutcomeReferred
	// OutcomeNoReferral: hop 1 named no usable referral.
	OutcomeNoReferral
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReferred:
		return "referred"
	case OutcomeNoReferral:
		return "no_referral"
	default:
		return "none"
	}
}

// Hop records one WHOIS round trip.
type Hop struct {
	Server   string        // host:port that was queried
	Bytes    int           // response size
	Duration time.Duration // dial to EOF
}

// Resolution is the result of a two-hop lookup. Resolve always returns one,
// even on error, describing how far the lookup got.
type Resolution struct {
	Domain         string
	RootServer     string
	ReferralServer string         // host:port of hop 2, empty without a referral
	Referral       whois.Referral // the line the referral was taken from
	Outcome        Outcome
	Text           string // final raw text
	Hops           []Hop
}

// Option configures a Client.
type Option func(*Client)

// WithDialer replaces the default net.Dialer.
func WithDialer(d Dialer) Option {
	return func(c *Client) {
		if d != nil {
			c.dialer = d
		}
	}
}

// WithMaxResponseBytes caps the size of a single response. Larger responses
// fail with whois.KindResponseTooLarge.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// WithCharsetFallback decodes responses that are not valid UTF-8 with enc
// instead of failing with whois.KindEncoding.
func WithCharsetFallback(enc encoding.Encoding) Option {
	return func(c *Client) { c.fallback = enc }
}

// WithLimiter applies a per-server-host limiter before every hop.
func WithLimiter(l Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithStats records every hop and resolution in s.
func WithStats(s *Stats) Option {
	return func(c *Client) { c.stats = s }
}

// WithReferralPolicy sets the policy applied when hop 1 has no referral.
func WithReferralPolicy(p ReferralPolicy) Option {
	return func(c *Client) { c.policy = p }
}

// Client performs WHOIS queries. It holds no per-query state and is safe for
// concurrent use.
type Client struct {
	dialer   Dialer
	maxBytes int64
	fallback encoding.Encoding
	limiter  Limiter
	stats    *Stats
	policy   ReferralPolicy
}

// NewClient creates a Client. Without options it dials directly with
// DefaultTimeout, caps responses at DefaultMaxResponseBytes, requires a
// referral and decodes strictly as UTF-8.
func NewClient(opts ...Option) *Client {
	c := &Client{
		dialer:   &net.Dialer{Timeout: DefaultTimeout},
		maxBytes: DefaultMaxResponseBytes,
		policy:   ReferralRequired,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the referral policy in effect.
func (c *Client) Policy() ReferralPolicy {
	return c.policy
}

// Query sends domain to a single server and returns the full response text.
//
// Protocol (RFC 3912): open a TCP connection, write "<domain>\r\n", read until
// the server closes the connection. The connection is closed on every path.
func (c *Client) Query(ctx context.Context, server, domain string) (string, error) {
	target := whois.Target{Server: server, Domain: domain}
	if err := target.Validate(); err != nil {
		return "", err
	}
	_, text, err := c.hop(ctx, target.Server, target.Domain)
	return text, err
}

// ResolveAndQuery performs the two-hop lookup and returns the final text.
// A referral naming the root host itself counts as no referral, so under
// ReferralRequired it fails with whois.KindNoReferral.
func (c *Client) ResolveAndQuery(ctx context.Context, rootServer, domain string) (string, error) {
	res, err := c.Resolve(ctx, rootServer, domain)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Resolve performs the two-hop lookup.
//
// Algorithm:
//  1. Split rootServer; a missing port fails before any network I/O
//  2. Query rootServer
//  3. Extract the referral host from the hop-1 text
//  4. Query referralHost on the root server's port
//
// A referral naming the root host itself counts as no referral. Without a
// referral the client's ReferralPolicy applies: ReferralRequired returns a
// whois.KindNoReferral error, ReferralOptional returns the hop-1 text.
func (c *Client) Resolve(ctx context.Context, rootServer, domain string) (*Resolution, error) {
	res := &Resolution{Domain: domain, RootServer: rootServer}

	if err := (whois.Target{Server: rootServer, Domain: domain}).Validate(); err != nil {
		return res, err
	}
	rootHost, rootPort, _ := whois.SplitServer(rootServer)
	c.stats.recordResolution()

	hop, first, err := c.hop(ctx, rootServer, domain)
	res.Hops = append(res.Hops, hop)
	if err != nil {
		return res, err
	}

	ref, ok := whois.ExtractReferral(first)
	if !ok || strings.EqualFold(ref.Host, strings.TrimSuffix(rootHost, ".")) {
		c.stats.recordNoReferral()
		res.Outcome = OutcomeNoReferral
		res.Text = first
		if c.policy == ReferralRequired {
			err := &whois.Error{Kind: whois.KindNoReferral, Server: rootServer}
			c.stats.recordError(err)
			return res, err
		}
		return res, nil
	}

	res.Referral = ref
	res.ReferralServer = whois.JoinServer(ref.Host, rootPort)

	hop, final, err := c.hop(ctx, res.ReferralServer, domain)
	res.Hops = append(res.Hops, hop)
	if err != nil {
		return res, err
	}
	c.stats.recordReferral()
	res.Outcome = OutcomeReferred
	res.Text = final
	return res, nil
}

// hop runs one round trip and records it.
func (c *Client) hop(ctx context.Context, server, domain string) (Hop, string, error) {
	start := time.Now()
	text, err := c.roundTrip(ctx, server, domain)
	h := Hop{Server: server, Bytes: len(text), Duration: time.Since(start)}
	c.stats.recordHop(h)
	if err != nil {
		c.stats.recordError(err)
	}
	return h, text, err
}

func (c *Client) roundTrip(ctx context.Context, server, domain string) (string, error) {
	if c.limiter != nil {
		host, _, _ := whois.SplitServer(server)
		if !c.limiter.Allow(strings.ToLower(host)) {
			return "", &whois.Error{Kind: whois.KindRateLimited, Server: server}
		}
	}
	if err := ctx.Err(); err != nil {
		return "", classify(ctx, whois.KindConnect, server, err)
	}

	conn, err := c.dialer.DialContext(ctx, "tcp", server)
	if err != nil {
		return "", classify(ctx, whois.KindConnect, server, err)
	}
	defer conn.Close()

	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}
	// Unblock a pending read or write as soon as ctx is canceled.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := io.WriteString(conn, domain+"\r\n"); err != nil {
		return "", classify(ctx, whois.KindIO, server, err)
	}

	buf := bufferPool.Get()
	defer bufferPool.Put(buf)

	// Read one byte past the cap so an oversized response is detectable.
	n, err := buf.ReadFrom(io.LimitReader(conn, c.maxBytes+1))
	if err != nil {
		return "", classify(ctx, whois.KindIO, server, err)
	}
	if n == 0 {
		return "", &whois.Error{Kind: whois.KindEmptyResponse, Server: server}
	}
	if n > c.maxBytes {
		return "", &whois.Error{
			Kind:   whois.KindResponseTooLarge,
			Server: server,
			Err:    fmt.Errorf("limit is %d bytes", c.maxBytes),
		}
	}
	return c.decode(server, buf.Bytes())
}

// decode converts a response to a string, copying it out of the pooled buffer.
func (c *Client) decode(server string, b []byte) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}
	if c.fallback == nil {
		return "", &whois.Error{Kind: whois.KindEncoding, Server: server}
	}
	out, err := c.fallback.NewDecoder().Bytes(b)
	if err != nil {
		return "", &whois.Error{Kind: whois.KindEncoding, Server: server, Err: err}
	}
	return string(out), nil
}

// classify maps a transport error to a whois.Error. Context state wins over
// the transport error, so a read unblocked by cancellation reports Canceled.
func classify(ctx context.Context, kind whois.Kind, server string, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return &whois.Error{Kind: whois.KindCanceled, Server: server, Err: err}
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return &whois.Error{Kind: whois.KindTimeout, Server: server, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &whois.Error{Kind: whois.KindTimeout, Server: server, Err: err}
	}
	return &whois.Error{Kind: kind, Server: server, Err: err}
}
