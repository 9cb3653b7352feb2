package whois

import (
	"net"
	"strings"
)

// DefaultPort is the registered WHOIS port (RFC 3912).
const DefaultPort = "43"

// DefaultRootServer is the IANA WHOIS server, the usual hop-1 target.
const DefaultRootServer = "whois.iana.org:43"

// Target is a single query: the server to ask and the domain to ask about.
// The domain is sent verbatim.
type Target struct {
	Server string // host:port
	Domain string
}

// Validate checks that Server is in host:port form. The error is a
// KindMalformedServer *Error.
func (t Target) Validate() error {
	_, _, err := SplitServer(t.Server)
	return err
}

// SplitServer splits a host:port server address. A missing separator, an
// empty host or an empty port yields a KindMalformedServer *Error.
func SplitServer(server string) (host, port string, err error) {
	host, port, splitErr := net.SplitHostPort(server)
	if splitErr != nil || host == "" || port == "" {
		return "", "", &Error{Kind: KindMalformedServer, Value: server, Err: splitErr}
	}
	return host, port, nil
}

// JoinServer builds a host:port server address.
func JoinServer(host, port string) string {
	return net.JoinHostPort(host, port)
}

// WithDefaultPort appends DefaultPort to a bare host. Addresses that already
// carry a port are returned unchanged.
func WithDefaultPort(server string) string {
	server = strings.TrimSpace(server)
	if server == "" {
		return ""
	}
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(strings.Trim(server, "[]"), DefaultPort)
}
