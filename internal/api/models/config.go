package models

import "github.com/jroosing/hydrawhois/internal/config"

// APIConfigResponse is a redacted version of APIConfig (no api_key exposed).
type APIConfigResponse struct {
	Enabled     bool   `json:"enabled"`
	Host        string `json:"host"`
	Port        int    `json:"port"`
	AuthEnabled bool   `json:"auth_enabled"`
}

// ConfigResponse is the API response for GET /config.
type ConfigResponse struct {
	Whois     config.WhoisConfig     `json:"whois"`
	RateLimit config.RateLimitConfig `json:"rate_limit"`
	Logging   config.LoggingConfig   `json:"logging"`
	API       APIConfigResponse      `json:"api"`
	Database  config.DatabaseConfig  `json:"database"`
}
