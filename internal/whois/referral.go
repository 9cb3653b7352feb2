package whois

import (
	"strings"
)

// referralToken marks a referral anywhere in a line, matched case-insensitively.
const referralToken = "whois:"

// Referral keys, matched after key normalization. "whois" is what IANA and most
// registries emit; "refer" and "registrar whois server" are common variants.
var referralKeys = map[string]bool{
	"whois":                   true,
	"refer":                   true,
	FieldRegistrarWhoisServer: true,
}

// Referral names the authoritative WHOIS server found in a response.
type Referral struct {
	Host string // bare host name, without scheme or port
	Line string // the response line it was taken from
}

// ExtractReferral scans a response for the first referral line and returns the
// referral host. A line is a referral line when its key is a referral key, or
// when it contains "whois:" anywhere, in which case the value is the text after
// that token ("% whois: host", "Registry WHOIS: host").
//
// The value is trimmed, an optional scheme ("whois://", "http://", ...), a
// trailing '/' and any ":port" suffix are removed. Lines with an empty value
// are skipped, since IANA uses "whois:" with no value for TLDs that have no
// WHOIS service. ok is false when no usable line exists.
func ExtractReferral(text string) (ref Referral, ok bool) {
	for _, line := range strings.Split(text, "\n") {
		value, found := referralValue(line)
		if !found {
			continue
		}
		host := referralHost(value)
		if host == "" {
			continue
		}
		return Referral{Host: host, Line: strings.TrimSpace(line)}, true
	}
	return Referral{}, false
}

// referralValue returns the referral value of line, if it is a referral line.
func referralValue(line string) (string, bool) {
	if key, value, ok := SplitLine(line); ok && referralKeys[key] {
		return value, true
	}
	if i := indexFold(line, referralToken); i >= 0 {
		return line[i+len(referralToken):], true
	}
	return "", false
}

// indexFold is strings.Index with ASCII case folding. Byte offsets refer to s.
func indexFold(s, token string) int {
	for i := 0; i+len(token) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(token)], token) {
			return i
		}
	}
	return -1
}

// referralHost reduces a referral value to a host name.
func referralHost(value string) string {
	v := strings.TrimSpace(value)
	if i := strings.Index(v, "://"); i >= 0 {
		v = v[i+3:]
	}
	if i := strings.IndexByte(v, '/'); i >= 0 {
		v = v[:i]
	}
	if fields := strings.Fields(v); len(fields) > 0 {
		v = fields[0]
	} else {
		return ""
	}
	if host, _, err := SplitServer(v); err == nil {
		v = host
	}
	return strings.ToLower(strings.TrimSuffix(v, "."))
}
