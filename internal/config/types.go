package config

import (
	"time"
)

// WhoisConfig contains WHOIS client settings.
type WhoisConfig struct {
	// RootServer is the hop-1 server in host:port form (default "whois.iana.org:43").
	// A bare host gets port 43.
	RootServer string `json:"root_server" yaml:"root_server"`
	// TimeoutRaw bounds one whole resolution, e.g. "10s".
	TimeoutRaw string        `json:"timeout" yaml:"timeout"`
	Timeout    time.Duration `json:"-" yaml:"-"`
	// MaxResponseBytes caps a single response (default 1 MiB, 64 KiB..16 MiB).
	MaxResponseBytes int64 `json:"max_response_bytes" yaml:"max_response_bytes"`
	// ReferralPolicy is "required" (default) or "optional".
	ReferralPolicy string `json:"referral_policy" yaml:"referral_policy"`
	// CharsetFallback is "" (strict UTF-8), "utf-8" or "latin1".
	CharsetFallback string `json:"charset_fallback" yaml:"charset_fallback"`
	// Proxy is an optional socks5:// URL all hops are dialed through.
	Proxy string `json:"proxy,omitempty" yaml:"proxy"`
	// RegistrableOnly reduces names to eTLD+1 before querying.
	RegistrableOnly bool `json:"registrable_only" yaml:"registrable_only"`
}

// RateLimitConfig controls the per-server-host outbound limiter.
type RateLimitConfig struct {
	// PerHostQPS is the hop rate per WHOIS server host (default: 1, 0 = disabled)
	PerHostQPS float64 `json:"per_host_qps" yaml:"per_host_qps"`
	// PerHostBurst is the burst per host (default: 5)
	PerHostBurst int `json:"per_host_burst" yaml:"per_host_burst"`
	// MaxHosts is the maximum number of tracked hosts (default: 1024)
	MaxHosts int `json:"max_hosts" yaml:"max_hosts"`
	// CleanupSeconds is how often idle hosts are dropped (default: 60)
	CleanupSeconds float64 `json:"cleanup_seconds" yaml:"cleanup_seconds"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level            string            `json:"level" yaml:"level"`
	Structured       bool              `json:"structured" yaml:"structured"`
	StructuredFormat string            `json:"structured_format" yaml:"structured_format"`
	IncludePID       bool              `json:"include_pid" yaml:"include_pid"`
	ExtraFields      map[string]string `json:"extra_fields,omitempty" yaml:"extra_fields"`
}

// APIConfig contains HTTP API settings.
//
// Note: APIKey is a secret and is never returned by API endpoints.
type APIConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Host    string `json:"host" yaml:"host"`
	Port    int    `json:"port" yaml:"port"`
	APIKey  string `json:"api_key,omitempty" yaml:"api_key"`
}

// DatabaseConfig controls the lookup history store.
type DatabaseConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"`
	// HistoryLimit is the number of lookups kept; older rows are pruned (default: 10000).
	HistoryLimit int `json:"history_limit" yaml:"history_limit"`
}

// Config is the root configuration structure.
type Config struct {
	Whois     WhoisConfig     `json:"whois" yaml:"whois"`
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`
	Logging   LoggingConfig   `json:"logging" yaml:"logging"`
	API       APIConfig       `json:"api" yaml:"api"`
	Database  DatabaseConfig  `json:"database" yaml:"database"`
}
