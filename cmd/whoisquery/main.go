package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jroosing/hydrawhois/internal/config"
	"github.com/jroosing/hydrawhois/internal/logging"
	"github.com/jroosing/hydrawhois/internal/whois"
)

var version = "dev"

// options are the flags shared by every subcommand.
type options struct {
	root             string
	timeout          time.Duration
	proxy            string
	maxBytes         int64
	charset          string
	optionalReferral bool
	registrableOnly  bool
	raw              bool
	json             bool
	debug            bool
}

// config turns the flags into a validated service config. Rate limiting is
// off: the CLI sends at most two queries.
func (o *options) config() (*config.Config, error) {
	cfg := config.Default()
	cfg.Whois.RootServer = o.root
	cfg.Whois.TimeoutRaw = o.timeout.String()
	cfg.Whois.Proxy = o.proxy
	cfg.Whois.MaxResponseBytes = o.maxBytes
	cfg.Whois.CharsetFallback = o.charset
	cfg.Whois.RegistrableOnly = o.registrableOnly
	if o.optionalReferral {
		cfg.Whois.ReferralPolicy = "optional"
	}
	cfg.RateLimit.PerHostQPS = 0
	cfg.API.Enabled = false
	cfg.Database.Enabled = false
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	opts := &options{}

	app := &cobra.Command{
		Use:           "whoisquery",
		Short:         "Query WHOIS servers and parse the answer",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "ERROR"
			if opts.debug {
				level = "DEBUG"
			}
			logging.Configure(logging.Config{Level: level})
		},
	}

	f := app.PersistentFlags()
	f.StringVar(&opts.root, "root", whois.DefaultRootServer, "Root WHOIS server (host[:port])")
	f.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Deadline for the whole lookup")
	f.StringVar(&opts.proxy, "proxy", "", "SOCKS5 proxy URL (socks5://[user:pass@]host:port)")
	f.Int64Var(&opts.maxBytes, "max-bytes", config.DefaultMaxResponseBytes, "Maximum response size per hop")
	f.StringVar(&opts.charset, "charset", "", "Fallback charset for non UTF-8 answers (utf-8, latin1)")
	f.BoolVar(&opts.optionalReferral, "optional-referral", false, "Accept the root answer when it names no referral")
	f.BoolVar(&opts.registrableOnly, "registrable", false, "Reduce names to their registrable domain")
	f.BoolVar(&opts.raw, "raw", false, "Print the raw response instead of the parsed record")
	f.BoolVar(&opts.json, "json", false, "Print JSON")
	f.BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	app.AddCommand(
		lookupEntry(opts),
		queryEntry(opts),
		referralEntry(opts),
		historyEntry(opts),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "whoisquery: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode distinguishes "the registry has no answer" (3) and bad input (2)
// from other failures (1).
func exitCode(err error) int {
	switch {
	case errors.Is(err, whois.ErrNoReferral):
		return 3
	case errors.Is(err, whois.ErrMalformedServer):
		return 2
	default:
		return 1
	}
}
