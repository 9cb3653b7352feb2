package whois

import (
	"strings"
	"time"
)

// Field labels understood by Parse, as they appear after key normalization.
const (
	FieldDomainName           = "domain name"
	FieldRegistryDomainID     = "registry domain id"
	FieldRegistrarWhoisServer = "registrar whois server"
	FieldRegistrarURL         = "registrar url"
	FieldUpdatedDate          = "updated date"
	FieldCreationDate         = "creation date"
	FieldRegistryExpiryDate   = "registry expiry date"
	FieldRegistrar            = "registrar"
	FieldRegistrarIANAID      = "registrar iana id"
	FieldAbuseEmail           = "registrar abuse contact email"
	FieldAbusePhone           = "registrar abuse contact phone"
	FieldDomainStatus         = "domain status"
	FieldNameServer           = "name server"
	FieldDNSSEC               = "dnssec"
)

type fieldSetter func(r *Record, value string) error

func stringField(get func(r *Record) **string) fieldSetter {
	return func(r *Record, value string) error {
		v := value
		*get(r) = &v
		return nil
	}
}

func dateField(field string, get func(r *Record) **time.Time) fieldSetter {
	return func(r *Record, value string) error {
		t, err := ParseDate(value)
		if err != nil {
			return &Error{Kind: KindDateFormat, Field: field, Value: value, Err: err}
		}
		*get(r) = &t
		return nil
	}
}

var fieldTable = map[string]fieldSetter{
	FieldDomainName:           stringField(func(r *Record) **string { return &r.DomainName }),
	FieldRegistryDomainID:     stringField(func(r *Record) **string { return &r.RegistryDomainID }),
	FieldRegistrarWhoisServer: stringField(func(r *Record) **string { return &r.RegistrarWhoisServer }),
	FieldRegistrarURL:         stringField(func(r *Record) **string { return &r.RegistrarURL }),
	FieldUpdatedDate:          dateField(FieldUpdatedDate, func(r *Record) **time.Time { return &r.UpdatedDate }),
	FieldCreationDate:         dateField(FieldCreationDate, func(r *Record) **time.Time { return &r.CreationDate }),
	FieldRegistryExpiryDate:   dateField(FieldRegistryExpiryDate, func(r *Record) **time.Time { return &r.RegistryExpiryDate }),
	FieldRegistrar:            stringField(func(r *Record) **string { return &r.Registrar }),
	FieldRegistrarIANAID:      stringField(func(r *Record) **string { return &r.RegistrarIANAID }),
	FieldAbuseEmail:           stringField(func(r *Record) **string { return &r.RegistrarAbuseEmail }),
	FieldAbusePhone:           stringField(func(r *Record) **string { return &r.RegistrarAbusePhone }),
	FieldDomainStatus:         stringField(func(r *Record) **string { return &r.DomainStatus }),
	FieldNameServer: func(r *Record, value string) error {
		r.NameServers = append(r.NameServers, value)
		return nil
	},
	FieldDNSSEC: stringField(func(r *Record) **string { return &r.DNSSEC }),
}

// Parse converts raw WHOIS text into a Record.
//
// Parsing rules:
//  1. The text is split into lines on '\n'
//  2. Each line is split once on the first ':'; lines without one are skipped
//  3. Keys are trimmed and lower-cased, values are only trimmed
//  4. Known keys are assigned to their field, unknown keys are ignored
//  5. Single-valued fields keep the last occurrence; "name server" appends
//
// The only failure is a date-bearing line whose value cannot be parsed (an
// empty value included), which aborts with a KindDateFormat *Error naming the
// field and the raw value.
func Parse(text string) (*Record, error) {
	rec := &Record{}
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := SplitLine(line)
		if !ok {
			continue
		}
		set, known := fieldTable[key]
		if !known {
			continue
		}
		if err := set(rec, value); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// SplitLine splits a response line into a normalized (key, value) pair.
// It returns ok=false for lines without a colon.
func SplitLine(line string) (key, value string, ok bool) {
	k, v, found := strings.Cut(line, ":")
	if !found {
		return "", "", false
	}
	return strings.ToLower(strings.TrimSpace(k)), strings.TrimSpace(v), true
}

// dateLayouts lists the ISO-8601 forms accepted for date fields. Layouts
// without a zone are interpreted as UTC.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses a WHOIS date value and returns it in UTC.
func ParseDate(value string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
