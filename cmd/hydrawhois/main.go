package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jroosing/hydrawhois/internal/api"
	"github.com/jroosing/hydrawhois/internal/config"
	"github.com/jroosing/hydrawhois/internal/logging"
	"github.com/jroosing/hydrawhois/internal/server"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML configuration file (or set HYDRAWHOIS_CONFIG)")
		host       = flag.String("host", "", "Override API bind host")
		port       = flag.Int("port", 0, "Override API bind port")
		root       = flag.String("root", "", "Override root WHOIS server (host[:port])")
		jsonLogs   = flag.Bool("json-logs", false, "Enable JSON structured logging")
		debug      = flag.Bool("debug", false, "Enable debug logging")
		noHistory  = flag.Bool("no-history", false, "Disable the lookup history store")
	)
	flag.Parse()

	cfg, err := config.Load(config.ResolveConfigPath(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *host != "" {
		cfg.API.Host = *host
	}
	if *port != 0 {
		cfg.API.Port = *port
	}
	if *root != "" {
		cfg.Whois.RootServer = *root
	}
	if *noHistory {
		cfg.Database.Enabled = false
	}
	if *jsonLogs {
		cfg.Logging.Structured = true
		cfg.Logging.StructuredFormat = "json"
	}
	if *debug {
		cfg.Logging.Level = "DEBUG"
	}
	// Flags may have changed validated fields.
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Configure(logging.Config{
		Level:            cfg.Logging.Level,
		Structured:       cfg.Logging.Structured,
		StructuredFormat: cfg.Logging.StructuredFormat,
		IncludePID:       cfg.Logging.IncludePID,
		ExtraFields:      cfg.Logging.ExtraFields,
	})
	logger.Info("HydraWHOIS starting",
		"api", cfg.API.Enabled,
		"host", cfg.API.Host,
		"port", cfg.API.Port,
		"history", cfg.Database.Enabled,
	)

	var frontend server.FrontendFactory
	if cfg.API.Enabled {
		frontend = api.NewFrontend
	}

	runner := server.NewRunner(logger)
	if err := runner.Run(cfg, frontend); err != nil {
		fmt.Fprintf(os.Stderr, "server exited with error: %v\n", err)
		os.Exit(1)
	}
}
