package models

import (
	"encoding/json"
	"time"

	"github.com/jroosing/hydrawhois/internal/whois"
)

// WhoisResponse is the API response for GET /whois/:domain.
//
// Failed lookups that got as far as a server answer use the same shape with
// Error and Kind set, so the caller still sees the servers involved and, with
// ?raw=true, the text that could not be parsed.
type WhoisResponse struct {
	ID             string        `json:"id,omitempty"`
	Domain         string        `json:"domain"`
	RootServer     string        `json:"root_server"`
	ReferralServer string        `json:"referral_server,omitempty"`
	Outcome        string        `json:"outcome"`
	DurationMs     int64         `json:"duration_ms"`
	Record         *whois.Record `json:"record,omitempty"`
	Raw            string        `json:"raw,omitempty"`
	Error          string        `json:"error,omitempty"`
	Kind           string        `json:"kind,omitempty"`
}

// HistoryEntry is one recorded lookup.
type HistoryEntry struct {
	ID             string          `json:"id"`
	Domain         string          `json:"domain"`
	RootServer     string          `json:"root_server"`
	ReferralServer string          `json:"referral_server,omitempty"`
	Outcome        string          `json:"outcome"`
	ErrorKind      string          `json:"error_kind,omitempty"`
	DurationMs     int64           `json:"duration_ms"`
	RawSize        int             `json:"raw_size"`
	Record         json.RawMessage `json:"record,omitempty" swaggertype:"object"`
	CreatedAt      time.Time       `json:"created_at"`
}

// HistoryResponse is the API response for GET /history.
type HistoryResponse struct {
	Total   int64          `json:"total"`
	Lookups []HistoryEntry `json:"lookups"`
}
