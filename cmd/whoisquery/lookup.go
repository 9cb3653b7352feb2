package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jroosing/hydrawhois/internal/server"
	"github.com/jroosing/hydrawhois/internal/whois"
)

func lookupEntry(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup [domain]",
		Short: "Ask the root server, follow its referral and parse the answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd.Context(), opts, server.LookupRequest{Domain: args[0]})
		},
	}
}

func queryEntry(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "query [server] [domain]",
		Short: "Query one server directly, without following a referral",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd.Context(), opts, server.LookupRequest{
				Server: whois.WithDefaultPort(args[0]),
				Domain: args[1],
				Direct: true,
			})
		},
	}
}

func referralEntry(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "referral [domain]",
		Short: "Show which server the root refers a domain to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReferral(cmd.Context(), opts, args[0])
		},
	}
}

func newService(opts *options) (*server.LookupService, error) {
	cfg, err := opts.config()
	if err != nil {
		return nil, err
	}
	client, err := server.NewClient(cfg, nil)
	if err != nil {
		return nil, err
	}
	return server.NewLookupService(server.LookupConfig{
		Resolver:        client,
		RootServer:      cfg.Whois.RootServer,
		Timeout:         cfg.Whois.Timeout,
		RegistrableOnly: cfg.Whois.RegistrableOnly,
		Logger:          slog.Default(),
	}), nil
}

func runLookup(ctx context.Context, opts *options, req server.LookupRequest) error {
	svc, err := newService(opts)
	if err != nil {
		return err
	}
	res, lookupErr := svc.Lookup(ctx, req)
	if res == nil {
		return lookupErr
	}
	if err := printResult(opts, res, lookupErr); err != nil {
		return err
	}
	return lookupErr
}

// runReferral performs hop 1 only and reports the referral it names.
func runReferral(ctx context.Context, opts *options, domain string) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}
	name, err := server.NormalizeDomain(domain, cfg.Whois.RegistrableOnly)
	if err != nil {
		return err
	}
	client, err := server.NewClient(cfg, nil)
	if err != nil {
		return err
	}
	_, rootPort, err := whois.SplitServer(cfg.Whois.RootServer)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Whois.Timeout)
	defer cancel()
	text, err := client.Query(ctx, cfg.Whois.RootServer, name)
	if err != nil {
		return err
	}
	ref, ok := whois.ExtractReferral(text)
	if !ok {
		return whois.NewError(whois.KindNoReferral, cfg.Whois.RootServer, nil)
	}

	target := whois.JoinServer(ref.Host, rootPort)
	if opts.json {
		return writeJSON(map[string]string{
			"domain":          name,
			"root_server":     cfg.Whois.RootServer,
			"referral_server": target,
			"line":            ref.Line,
		})
	}
	fmt.Println(target)
	if opts.raw {
		fmt.Println(ref.Line)
	}
	return nil
}
