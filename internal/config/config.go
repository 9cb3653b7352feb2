// Package config provides configuration types, loading and validation for
// HydraWHOIS.
//
// Configuration is read from an optional YAML file laid over Default(). The
// file path comes from the -config flag or the HYDRAWHOIS_CONFIG environment
// variable. Validate normalizes every section so the rest of the program can
// use the values without further checks.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jroosing/hydrawhois/internal/helpers"
	"github.com/jroosing/hydrawhois/internal/whois"
)

// EnvConfigPath names the environment variable consulted by ResolveConfigPath.
const EnvConfigPath = "HYDRAWHOIS_CONFIG"

// Response size bounds.
const (
	DefaultMaxResponseBytes = 1 << 20
	MinMaxResponseBytes     = 64 << 10
	MaxMaxResponseBytes     = 16 << 20
)

const (
	defaultTimeout      = 10 * time.Second
	defaultHistoryLimit = 10000
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Whois: WhoisConfig{
			RootServer:       whois.DefaultRootServer,
			TimeoutRaw:       defaultTimeout.String(),
			MaxResponseBytes: DefaultMaxResponseBytes,
			ReferralPolicy:   "required",
		},
		RateLimit: RateLimitConfig{
			PerHostQPS:     1,
			PerHostBurst:   5,
			MaxHosts:       1024,
			CleanupSeconds: 60,
		},
		Logging: LoggingConfig{
			Level:            "INFO",
			Structured:       false,
			StructuredFormat: "json",
			ExtraFields:      map[string]string{},
		},
		API: APIConfig{
			Enabled: true,
			Host:    "0.0.0.0",
			Port:    8080,
		},
		Database: DatabaseConfig{
			Enabled:      true,
			Path:         "hydrawhois.db",
			HistoryLimit: defaultHistoryLimit,
		},
	}
}

// ResolveConfigPath returns the config file path: the flag value when set,
// else $HYDRAWHOIS_CONFIG, else "".
func ResolveConfigPath(flagValue string) string {
	if p := strings.TrimSpace(flagValue); p != "" {
		return p
	}
	return strings.TrimSpace(os.Getenv(EnvConfigPath))
}

// Load reads a YAML config file over the defaults and validates the result.
// An empty path returns the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides lets a few common settings be changed without a file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HYDRAWHOIS_ROOT_SERVER"); v != "" {
		cfg.Whois.RootServer = v
	}
	if v := os.Getenv("HYDRAWHOIS_TIMEOUT"); v != "" {
		cfg.Whois.TimeoutRaw = v
	}
	if v := os.Getenv("HYDRAWHOIS_PROXY"); v != "" {
		cfg.Whois.Proxy = v
	}
	if v := os.Getenv("HYDRAWHOIS_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("HYDRAWHOIS_API_PORT"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.API.Port = n
		}
	}
	if v := os.Getenv("HYDRAWHOIS_API_KEY"); v != "" {
		cfg.API.APIKey = v
	}
	cfg.Database.Enabled = envBool(os.Getenv("HYDRAWHOIS_HISTORY"), cfg.Database.Enabled)
	if v := os.Getenv("HYDRAWHOIS_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// envBool parses common boolean spellings, returning def for anything else.
func envBool(raw string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// Validate validates and normalizes the configuration.
func (cfg *Config) Validate() error {
	if err := cfg.Whois.validate(); err != nil {
		return err
	}

	// Normalize rate limiting
	if cfg.RateLimit.PerHostQPS < 0 {
		cfg.RateLimit.PerHostQPS = 0
	}
	if cfg.RateLimit.PerHostBurst < 0 {
		cfg.RateLimit.PerHostBurst = 0
	}
	if cfg.RateLimit.MaxHosts <= 0 {
		cfg.RateLimit.MaxHosts = 1024
	}
	if cfg.RateLimit.CleanupSeconds <= 0 {
		cfg.RateLimit.CleanupSeconds = 60
	}

	// Normalize logging
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.StructuredFormat == "" {
		cfg.Logging.StructuredFormat = "json"
	}
	if cfg.Logging.ExtraFields == nil {
		cfg.Logging.ExtraFields = map[string]string{}
	}

	// Normalize API
	if cfg.API.Host == "" {
		cfg.API.Host = "0.0.0.0"
	}
	if cfg.API.Enabled {
		if cfg.API.Port <= 0 || cfg.API.Port > 65535 {
			return errors.New("api.port must be 1..65535")
		}
	}

	// Normalize history store
	if cfg.Database.Enabled && strings.TrimSpace(cfg.Database.Path) == "" {
		return errors.New("database.path is required when history is enabled")
	}
	if cfg.Database.HistoryLimit <= 0 {
		cfg.Database.HistoryLimit = defaultHistoryLimit
	}

	return nil
}

func (w *WhoisConfig) validate() error {
	w.RootServer = whois.WithDefaultPort(w.RootServer)
	if w.RootServer == "" {
		w.RootServer = whois.DefaultRootServer
	}
	if _, _, err := whois.SplitServer(w.RootServer); err != nil {
		return fmt.Errorf("whois.root_server: %w", err)
	}

	if strings.TrimSpace(w.TimeoutRaw) == "" {
		w.Timeout = defaultTimeout
		w.TimeoutRaw = defaultTimeout.String()
	} else {
		d, err := time.ParseDuration(strings.TrimSpace(w.TimeoutRaw))
		if err != nil || d <= 0 {
			return fmt.Errorf("whois.timeout must be a positive duration, got %q", w.TimeoutRaw)
		}
		w.Timeout = d
	}

	if w.MaxResponseBytes <= 0 {
		w.MaxResponseBytes = DefaultMaxResponseBytes
	}
	w.MaxResponseBytes = helpers.ClampInt64(w.MaxResponseBytes, MinMaxResponseBytes, MaxMaxResponseBytes)

	w.ReferralPolicy = strings.ToLower(strings.TrimSpace(w.ReferralPolicy))
	switch w.ReferralPolicy {
	case "":
		w.ReferralPolicy = "required"
	case "required", "optional":
	default:
		return fmt.Errorf("whois.referral_policy must be required or optional, got %q", w.ReferralPolicy)
	}

	w.CharsetFallback = strings.ToLower(strings.TrimSpace(w.CharsetFallback))
	switch w.CharsetFallback {
	case "", "utf-8", "latin1":
	case "iso-8859-1":
		w.CharsetFallback = "latin1"
	default:
		return fmt.Errorf("whois.charset_fallback must be utf-8 or latin1, got %q", w.CharsetFallback)
	}

	w.Proxy = strings.TrimSpace(w.Proxy)
	if w.Proxy != "" {
		u, err := url.Parse(w.Proxy)
		if err != nil || (u.Scheme != "socks5" && u.Scheme != "socks5h") || u.Host == "" {
			return fmt.Errorf("whois.proxy must be socks5://host:port, got %q", w.Proxy)
		}
	}
	return nil
}

// Redacted returns a copy safe to expose over the API.
func (cfg *Config) Redacted() Config {
	out := *cfg
	if out.API.APIKey != "" {
		out.API.APIKey = "********"
	}
	if out.Whois.Proxy != "" {
		if u, err := url.Parse(out.Whois.Proxy); err == nil && u.User != nil {
			u.User = url.User("********")
			out.Whois.Proxy = u.String()
		}
	}
	extra := make(map[string]string, len(cfg.Logging.ExtraFields))
	for k, v := range cfg.Logging.ExtraFields {
		extra[k] = v
	}
	out.Logging.ExtraFields = extra
	return out
}
