// Package models defines request and response types for the HydraWHOIS REST API.
// All types are JSON-serializable.
package models

// ErrorResponse represents an API error response. Kind is the whois error
// kind (for example "timeout" or "no_referral") when the failure came from a
// lookup.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// StatusResponse represents a simple status response.
type StatusResponse struct {
	Status string `json:"status"`
}
