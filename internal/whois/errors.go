// Package whois provides the WHOIS protocol model: the parsed record, the
// response parser, referral extraction and the error taxonomy shared with the
// network layer.
//
// Standards Compliance:
//
//   - RFC 3912: WHOIS Protocol Specification (query line, close-terminated response)
//
// WHOIS defines no response format. The parser understands the common
// "Key: Value" layout used by gTLD registries and registrars (ICANN RAA 2013
// labels) and ignores everything else.
//
// Error Handling:
//
// Every failure is reported as *Error carrying a Kind. The set of kinds is
// closed, so callers can switch on KindOf(err) exhaustively. Use errors.Is with
// the Err* sentinels to match a kind, and errors.Unwrap to reach the cause.
package whois

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a WHOIS failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConnect: the TCP connection to the server could not be opened.
	KindConnect
	// KindEmptyResponse: the server closed the connection without sending data.
	KindEmptyResponse
	// KindEncoding: the response bytes are not valid text.
	KindEncoding
	// KindNoReferral: the hop-1 response named no authoritative server.
	KindNoReferral
	// KindMalformedServer: a server address is not in host:port form.
	KindMalformedServer
	// KindDateFormat: a date-bearing line could not be parsed.
	KindDateFormat
	// KindTimeout: a caller deadline elapsed during a network step.
	KindTimeout
	// KindResponseTooLarge: the response exceeded the configured size cap.
	KindResponseTooLarge
	// KindCanceled: the caller canceled the context during a network step.
	KindCanceled
	// KindIO: a write or read failed after the connection was established.
	KindIO
	// KindRateLimited: a caller-owned limiter refused the hop.
	KindRateLimited
)

var kindNames = map[Kind]string{
	KindUnknown:          "unknown",
	KindConnect:          "connect",
	KindEmptyResponse:    "empty_response",
	KindEncoding:         "encoding",
	KindNoReferral:       "no_referral",
	KindMalformedServer:  "malformed_server",
	KindDateFormat:       "date_format",
	KindTimeout:          "timeout",
	KindResponseTooLarge: "response_too_large",
	KindCanceled:         "canceled",
	KindIO:               "io",
	KindRateLimited:      "rate_limited",
}

// String returns the snake_case name used in logs, JSON and the history store.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrConnect          = &Error{Kind: KindConnect}
	ErrEmptyResponse    = &Error{Kind: KindEmptyResponse}
	ErrEncoding         = &Error{Kind: KindEncoding}
	ErrNoReferral       = &Error{Kind: KindNoReferral}
	ErrMalformedServer  = &Error{Kind: KindMalformedServer}
	ErrDateFormat       = &Error{Kind: KindDateFormat}
	ErrTimeout          = &Error{Kind: KindTimeout}
	ErrResponseTooLarge = &Error{Kind: KindResponseTooLarge}
	ErrCanceled         = &Error{Kind: KindCanceled}
	ErrIO               = &Error{Kind: KindIO}
	ErrRateLimited      = &Error{Kind: KindRateLimited}
)

// Error is the single error type returned by this package and by the WHOIS
// client. Only the fields relevant to the Kind are set.
type Error struct {
	Kind   Kind
	Server string // host:port of the server involved, if any
	Field  string // record field for KindDateFormat
	Value  string // offending raw value (date text, server address)
	Err    error  // underlying cause, if any
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("whois: ")
	switch e.Kind {
	case KindConnect:
		b.WriteString("connect failed")
	case KindEmptyResponse:
		b.WriteString("server returned an empty response")
	case KindEncoding:
		b.WriteString("response is not valid text")
	case KindNoReferral:
		b.WriteString("no referral server in response")
	case KindMalformedServer:
		fmt.Fprintf(&b, "server %q is not in host:port form", e.Value)
	case KindDateFormat:
		fmt.Fprintf(&b, "invalid date for %s: %q", e.Field, e.Value)
	case KindTimeout:
		b.WriteString("deadline exceeded")
	case KindResponseTooLarge:
		b.WriteString("response too large")
	case KindCanceled:
		b.WriteString("query canceled")
	case KindIO:
		b.WriteString("i/o failed")
	case KindRateLimited:
		b.WriteString("rate limited")
	default:
		b.WriteString(e.Kind.String())
	}
	if e.Server != "" {
		fmt.Fprintf(&b, " (server %s)", e.Server)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return KindUnknown
}

// NewError builds an *Error of the given kind for server, wrapping cause.
func NewError(kind Kind, server string, cause error) *Error {
	return &Error{Kind: kind, Server: server, Err: cause}
}
