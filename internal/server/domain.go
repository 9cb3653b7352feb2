package server

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// ErrInvalidDomain is returned for names that cannot be sent to a WHOIS server.
var ErrInvalidDomain = errors.New("invalid domain name")

const maxDomainLength = 253

// NormalizeDomain prepares a user-supplied name for a WHOIS query.
//
// Steps:
//  1. Trim whitespace and a single trailing dot
//  2. Reject control characters and inner whitespace (the name is written
//     verbatim to the socket, so CR/LF would inject a second query)
//  3. Convert to lower-case ASCII with IDNA lookup rules (Bücher.example
//     becomes xn--bcher-kva.example)
//  4. With registrableOnly, reduce to eTLD+1 (www.example.co.uk becomes
//     example.co.uk). Bare public suffixes such as "com" are kept as is.
func NormalizeDomain(name string, registrableOnly bool) (string, error) {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, ".")
	if name == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidDomain)
	}
	if strings.ContainsFunc(name, func(r rune) bool { return r <= ' ' || r == 0x7f }) {
		return "", fmt.Errorf("%w: %q contains whitespace or control characters", ErrInvalidDomain, name)
	}

	ascii, err := idna.Lookup.ToASCII(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidDomain, name, err)
	}
	if len(ascii) > maxDomainLength {
		return "", fmt.Errorf("%w: longer than %d bytes", ErrInvalidDomain, maxDomainLength)
	}

	if registrableOnly && strings.Contains(ascii, ".") {
		if etld1, err := publicsuffix.EffectiveTLDPlusOne(ascii); err == nil {
			ascii = etld1
		}
	}
	return ascii, nil
}
