package resolvers_test

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jroosing/hydrawhois/internal/resolvers"
	"github.com/jroosing/hydrawhois/internal/whois"
)

const (
	ianaText = "% IANA WHOIS server\n" +
		"\n" +
		"domain:       COM\n" +
		"organisation: VeriSign Global Registry Services\n" +
		"whois:        whois.verisign-grs.com\n" +
		"status:       ACTIVE\n"

	registryText = "   Domain Name: EXAMPLE.COM\r\n" +
		"   Registrar WHOIS Server: whois.iana.org\r\n" +
		"   Creation Date: 1995-08-14T04:00:00Z\r\n" +
		"   Name Server: A.IANA-SERVERS.NET\r\n" +
		"   Name Server: B.IANA-SERVERS.NET\r\n"
)

func assertKind(t *testing.T, err error, kind whois.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, whois.KindOf(err), "unexpected error: %v", err)
}

// =============================================================================
// Query Tests
// =============================================================================

func TestQuery_WritesDomainAndReadsUntilEOF(t *testing.T) {
	d := newFakeDialer().handle("whois.verisign-grs.com:43", respond(registryText))
	c := resolvers.NewClient(resolvers.WithDialer(d))

	text, err := c.Query(context.Background(), "whois.verisign-grs.com:43", "example.com")
	require.NoError(t, err)

	assert.Equal(t, registryText, text)
	assert.Equal(t, []string{"example.com\r\n"}, d.Queries())
	assert.Equal(t, []string{"whois.verisign-grs.com:43"}, d.Dialed())
}

func TestQuery_ConnectFailure(t *testing.T) {
	d := newFakeDialer().refuse("whois.example:43")
	c := resolvers.NewClient(resolvers.WithDialer(d))

	_, err := c.Query(context.Background(), "whois.example:43", "example.com")
	assertKind(t, err, whois.KindConnect)
	assert.ErrorIs(t, err, whois.ErrConnect)

	var werr *whois.Error
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, "whois.example:43", werr.Server)
}

func TestQuery_UnknownHostIsConnect(t *testing.T) {
	c := resolvers.NewClient(resolvers.WithDialer(newFakeDialer()))

	_, err := c.Query(context.Background(), "whois.nowhere.invalid:43", "example.com")
	assertKind(t, err, whois.KindConnect)
}

func TestQuery_EmptyResponse(t *testing.T) {
	d := newFakeDialer().handle("whois.example:43", respond(""))
	c := resolvers.NewClient(resolvers.WithDialer(d))

	_, err := c.Query(context.Background(), "whois.example:43", "example.com")
	assertKind(t, err, whois.KindEmptyResponse)
}

func TestQuery_MalformedServer(t *testing.T) {
	d := newFakeDialer()
	c := resolvers.NewClient(resolvers.WithDialer(d))

	for _, server := range []string{"whois.example", ":43", ""} {
		_, err := c.Query(context.Background(), server, "example.com")
		assertKind(t, err, whois.KindMalformedServer)
	}
	assert.Empty(t, d.Dialed())
}

func TestQuery_InvalidUTF8(t *testing.T) {
	latin1 := "Registrant Name: Jos\xe9 Garc\xeda\n"
	d := newFakeDialer().handle("whois.nic.example:43", respond(latin1))

	t.Run("strict", func(t *testing.T) {
		c := resolvers.NewClient(resolvers.WithDialer(d))
		_, err := c.Query(context.Background(), "whois.nic.example:43", "example.es")
		assertKind(t, err, whois.KindEncoding)
	})

	t.Run("latin1 fallback", func(t *testing.T) {
		c := resolvers.NewClient(
			resolvers.WithDialer(d),
			resolvers.WithCharsetFallback(charmap.ISO8859_1),
		)
		text, err := c.Query(context.Background(), "whois.nic.example:43", "example.es")
		require.NoError(t, err)
		assert.Equal(t, "Registrant Name: José García\n", text)
	})
}

func TestQuery_ResponseTooLarge(t *testing.T) {
	d := newFakeDialer().handle("whois.example:43", respond(strings.Repeat("x", 100)))
	c := resolvers.NewClient(resolvers.WithDialer(d), resolvers.WithMaxResponseBytes(16))

	_, err := c.Query(context.Background(), "whois.example:43", "example.com")
	assertKind(t, err, whois.KindResponseTooLarge)
}

func TestQuery_ResponseAtLimit(t *testing.T) {
	body := strings.Repeat("x", 16)
	d := newFakeDialer().handle("whois.example:43", respond(body))
	c := resolvers.NewClient(resolvers.WithDialer(d), resolvers.WithMaxResponseBytes(16))

	text, err := c.Query(context.Background(), "whois.example:43", "example.com")
	require.NoError(t, err)
	assert.Equal(t, body, text)
}

func TestQuery_DeadlineIsTimeout(t *testing.T) {
	d := newFakeDialer().handle("whois.slow.example:43", hang())
	c := resolvers.NewClient(resolvers.WithDialer(d))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Query(ctx, "whois.slow.example:43", "example.com")
	assertKind(t, err, whois.KindTimeout)
	assert.ErrorIs(t, err, whois.ErrTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestQuery_CancelIsCanceled(t *testing.T) {
	d := newFakeDialer().handle("whois.slow.example:43", hang())
	c := resolvers.NewClient(resolvers.WithDialer(d))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)

	_, err := c.Query(ctx, "whois.slow.example:43", "example.com")
	assertKind(t, err, whois.KindCanceled)
}

func TestQuery_AlreadyCanceledDoesNotDial(t *testing.T) {
	d := newFakeDialer().handle("whois.example:43", respond(registryText))
	c := resolvers.NewClient(resolvers.WithDialer(d))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Query(ctx, "whois.example:43", "example.com")
	assertKind(t, err, whois.KindCanceled)
	assert.Empty(t, d.Dialed())
}

// brokenConn fails every write.
type brokenConn struct {
	net.Conn
}

func (brokenConn) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

type brokenDialer struct{}

func (brokenDialer) DialContext(context.Context, string, string) (net.Conn, error) {
	client, srv := net.Pipe()
	_ = srv.Close()
	return brokenConn{Conn: client}, nil
}

func TestQuery_WriteFailureIsIO(t *testing.T) {
	c := resolvers.NewClient(resolvers.WithDialer(brokenDialer{}))

	_, err := c.Query(context.Background(), "whois.example:43", "example.com")
	assertKind(t, err, whois.KindIO)
	assert.ErrorContains(t, err, "broken pipe")
}

// =============================================================================
// ResolveAndQuery Tests
// =============================================================================

func TestResolveAndQuery_TwoHopsSamePort(t *testing.T) {
	d := newFakeDialer().
		handle("whois.iana.org:43", respond(ianaText)).
		handle("whois.verisign-grs.com:43", respond(registryText))
	c := resolvers.NewClient(resolvers.WithDialer(d))

	text, err := c.ResolveAndQuery(context.Background(), "whois.iana.org:43", "example.com")
	require.NoError(t, err)

	assert.Equal(t, registryText, text)
	assert.Equal(t, []string{"whois.iana.org:43", "whois.verisign-grs.com:43"}, d.Dialed())
	assert.Equal(t, []string{"example.com\r\n", "example.com\r\n"}, d.Queries())

	rec, err := whois.Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "EXAMPLE.COM", whois.Value(rec.DomainName))
}

func TestResolveAndQuery_RootPortReused(t *testing.T) {
	d := newFakeDialer().
		handle("root.example:4343", respond("whois: referral.example:43\n")).
		handle("referral.example:4343", respond(registryText))
	c := resolvers.NewClient(resolvers.WithDialer(d))

	_, err := c.ResolveAndQuery(context.Background(), "root.example:4343", "example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"root.example:4343", "referral.example:4343"}, d.Dialed())
}

func TestResolveAndQuery_MalformedRootBeforeIO(t *testing.T) {
	d := newFakeDialer()
	c := resolvers.NewClient(resolvers.WithDialer(d))

	_, err := c.ResolveAndQuery(context.Background(), "whois.iana.org", "example.com")
	assertKind(t, err, whois.KindMalformedServer)
	assert.Empty(t, d.Dialed(), "no network I/O on a malformed root")
}

func TestResolveAndQuery_NoReferral(t *testing.T) {
	d := newFakeDialer().handle("whois.iana.org:43", respond("% This query returned 0 objects.\n"))

	t.Run("required", func(t *testing.T) {
		c := resolvers.NewClient(resolvers.WithDialer(d))
		_, err := c.ResolveAndQuery(context.Background(), "whois.iana.org:43", "example.invalid")
		assertKind(t, err, whois.KindNoReferral)
		assert.ErrorIs(t, err, whois.ErrNoReferral)
	})

	t.Run("optional", func(t *testing.T) {
		c := resolvers.NewClient(
			resolvers.WithDialer(d),
			resolvers.WithReferralPolicy(resolvers.ReferralOptional),
		)
		text, err := c.ResolveAndQuery(context.Background(), "whois.iana.org:43", "example.invalid")
		require.NoError(t, err)
		assert.Equal(t, "% This query returned 0 objects.\n", text)
	})
}

func TestResolve_SelfReferralIsNoReferral(t *testing.T) {
	d := newFakeDialer().handle("whois.iana.org:43", respond("whois: WHOIS.IANA.ORG\n"))
	c := resolvers.NewClient(
		resolvers.WithDialer(d),
		resolvers.WithReferralPolicy(resolvers.ReferralOptional),
	)

	res, err := c.Resolve(context.Background(), "whois.iana.org:43", "iana.org")
	require.NoError(t, err)
	assert.Equal(t, resolvers.OutcomeNoReferral, res.Outcome)
	assert.Empty(t, res.ReferralServer)
	assert.Equal(t, []string{"whois.iana.org:43"}, d.Dialed())
}

func TestResolve_RegistrarWhoisServerIsFollowed(t *testing.T) {
	registrarText := "Domain Name: EXAMPLE.COM\r\n" +
		"Registrar: Example Registrar, Inc.\r\n"
	d := newFakeDialer().
		handle("whois.verisign-grs.com:43", respond(
			"   Domain Name: EXAMPLE.COM\r\n"+
				"   Registrar WHOIS Server: whois.registrar.example\r\n"+
				"   Registrar URL: http://www.registrar.example\r\n")).
		handle("whois.registrar.example:43", respond(registrarText))
	c := resolvers.NewClient(resolvers.WithDialer(d))

	res, err := c.Resolve(context.Background(), "whois.verisign-grs.com:43", "example.com")
	require.NoError(t, err)

	assert.Equal(t, resolvers.OutcomeReferred, res.Outcome)
	assert.Equal(t, "whois.registrar.example:43", res.ReferralServer)
	assert.Equal(t, "Registrar WHOIS Server: whois.registrar.example", res.Referral.Line)
	assert.Equal(t, registrarText, res.Text)
	assert.Equal(t, []string{"whois.verisign-grs.com:43", "whois.registrar.example:43"}, d.Dialed())
}

func TestResolve_SelfReferralRequiredFails(t *testing.T) {
	d := newFakeDialer().handle("whois.iana.org:43", respond("whois: whois.iana.org\n"))
	c := resolvers.NewClient(resolvers.WithDialer(d))

	res, err := c.Resolve(context.Background(), "whois.iana.org:43", "iana.org")
	assertKind(t, err, whois.KindNoReferral)
	assert.Equal(t, resolvers.OutcomeNoReferral, res.Outcome)
	assert.Equal(t, []string{"whois.iana.org:43"}, d.Dialed())
}

func TestResolve_Details(t *testing.T) {
	d := newFakeDialer().
		handle("whois.iana.org:43", respond(ianaText)).
		handle("whois.verisign-grs.com:43", respond(registryText))
	c := resolvers.NewClient(resolvers.WithDialer(d))

	res, err := c.Resolve(context.Background(), "whois.iana.org:43", "example.com")
	require.NoError(t, err)

	assert.Equal(t, resolvers.OutcomeReferred, res.Outcome)
	assert.Equal(t, "whois.verisign-grs.com:43", res.ReferralServer)
	assert.Equal(t, "whois.verisign-grs.com", res.Referral.Host)
	require.Len(t, res.Hops, 2)
	assert.Equal(t, len(ianaText), res.Hops[0].Bytes)
	assert.Equal(t, len(registryText), res.Hops[1].Bytes)
}

func TestResolveAndQuery_EmptyOnEitherHop(t *testing.T) {
	t.Run("hop 1", func(t *testing.T) {
		d := newFakeDialer().handle("whois.iana.org:43", respond(""))
		c := resolvers.NewClient(resolvers.WithDialer(d))

		_, err := c.ResolveAndQuery(context.Background(), "whois.iana.org:43", "example.com")
		assertKind(t, err, whois.KindEmptyResponse)
		assert.Len(t, d.Dialed(), 1)
	})

	t.Run("hop 2", func(t *testing.T) {
		d := newFakeDialer().
			handle("whois.iana.org:43", respond(ianaText)).
			handle("whois.verisign-grs.com:43", respond(""))
		c := resolvers.NewClient(resolvers.WithDialer(d))

		res, err := c.Resolve(context.Background(), "whois.iana.org:43", "example.com")
		assertKind(t, err, whois.KindEmptyResponse)
		assert.Equal(t, "whois.verisign-grs.com:43", res.ReferralServer)

		var werr *whois.Error
		require.ErrorAs(t, err, &werr)
		assert.Equal(t, "whois.verisign-grs.com:43", werr.Server)
	})
}

func TestResolveAndQuery_ReferralUnreachable(t *testing.T) {
	d := newFakeDialer().
		handle("whois.iana.org:43", respond(ianaText)).
		refuse("whois.verisign-grs.com:43")
	c := resolvers.NewClient(resolvers.WithDialer(d))

	_, err := c.ResolveAndQuery(context.Background(), "whois.iana.org:43", "example.com")
	assertKind(t, err, whois.KindConnect)
}

// =============================================================================
// Limiter and Stats Tests
// =============================================================================

func TestClient_LimiterDeniesBeforeDial(t *testing.T) {
	d := newFakeDialer().handle("whois.example:43", respond(registryText))
	limiter := resolvers.NewTokenBucket(resolvers.TokenBucketConfig{Rate: 0.001, Burst: 1})
	c := resolvers.NewClient(resolvers.WithDialer(d), resolvers.WithLimiter(limiter))

	_, err := c.Query(context.Background(), "whois.example:43", "example.com")
	require.NoError(t, err)

	_, err = c.Query(context.Background(), "WHOIS.EXAMPLE:43", "example.com")
	assertKind(t, err, whois.KindRateLimited)
	assert.Len(t, d.Dialed(), 1)
}

func TestClient_StatsAreCallerOwned(t *testing.T) {
	d := newFakeDialer().
		handle("whois.iana.org:43", respond(ianaText)).
		handle("whois.verisign-grs.com:43", respond(registryText))

	statsA := resolvers.NewStats()
	statsB := resolvers.NewStats()
	a := resolvers.NewClient(resolvers.WithDialer(d), resolvers.WithStats(statsA))
	b := resolvers.NewClient(resolvers.WithDialer(d), resolvers.WithStats(statsB))

	_, err := a.ResolveAndQuery(context.Background(), "whois.iana.org:43", "example.com")
	require.NoError(t, err)
	_, err = a.ResolveAndQuery(context.Background(), "whois.iana.org", "example.com")
	require.Error(t, err)

	snap := statsA.Snapshot()
	assert.Equal(t, uint64(1), snap.Resolutions)
	assert.Equal(t, uint64(2), snap.Hops)
	assert.Equal(t, uint64(1), snap.Referrals)
	assert.Equal(t, uint64(len(ianaText)+len(registryText)), snap.BytesRead)

	_, err = b.ResolveAndQuery(context.Background(), "whois.iana.org:43", "example.com")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), statsB.Snapshot().Hops)
	assert.Equal(t, uint64(2), statsA.Snapshot().Hops, "stats must not leak across clients")
}

func TestClient_StatsCountErrorsByKind(t *testing.T) {
	d := newFakeDialer().handle("whois.iana.org:43", respond("nothing here\n"))
	stats := resolvers.NewStats()
	c := resolvers.NewClient(resolvers.WithDialer(d), resolvers.WithStats(stats))

	_, err := c.ResolveAndQuery(context.Background(), "whois.iana.org:43", "example.com")
	require.Error(t, err)

	snap := stats.Snapshot()
	assert.Equal(t, uint64(1), snap.NoReferrals)
	assert.Equal(t, uint64(1), snap.Errors["no_referral"])
}

func TestStats_NilSafe(t *testing.T) {
	var s *resolvers.Stats
	snap := s.Snapshot()
	assert.Zero(t, snap.Hops)
	assert.NotNil(t, snap.Errors)
}

// =============================================================================
// Policy and Dialer Tests
// =============================================================================

func TestParseReferralPolicy(t *testing.T) {
	p, err := resolvers.ParseReferralPolicy("")
	require.NoError(t, err)
	assert.Equal(t, resolvers.ReferralRequired, p)

	p, err = resolvers.ParseReferralPolicy(" Optional ")
	require.NoError(t, err)
	assert.Equal(t, resolvers.ReferralOptional, p)
	assert.Equal(t, "optional", p.String())

	_, err = resolvers.ParseReferralPolicy("sometimes")
	assert.Error(t, err)
}

func TestNewDialer(t *testing.T) {
	d, err := resolvers.NewDialer("", time.Second)
	require.NoError(t, err)
	assert.IsType(t, &net.Dialer{}, d)

	d, err = resolvers.NewDialer("socks5://127.0.0.1:1080", time.Second)
	require.NoError(t, err)
	assert.NotNil(t, d)

	for _, bad := range []string{"http://proxy:8080", "socks5://", "://nope"} {
		_, err := resolvers.NewDialer(bad, time.Second)
		assert.Error(t, err, bad)
	}
}
