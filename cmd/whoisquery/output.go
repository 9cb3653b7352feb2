package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/scylladb/termtables"

	"github.com/jroosing/hydrawhois/internal/server"
	"github.com/jroosing/hydrawhois/internal/whois"
)

type jsonResult struct {
	*server.LookupResult
	Raw        string `json:"raw,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
	Kind       string `json:"kind,omitempty"`
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printResult(opts *options, res *server.LookupResult, lookupErr error) error {
	if opts.json {
		out := jsonResult{LookupResult: res, DurationMs: res.Duration.Milliseconds()}
		if opts.raw {
			out.Raw = res.Raw
		}
		if lookupErr != nil {
			out.Error = lookupErr.Error()
			out.Kind = whois.KindOf(lookupErr).String()
		}
		return writeJSON(out)
	}

	// No known fields: print the raw text.
	if opts.raw || res.Record == nil || res.Record.IsEmpty() {
		fmt.Print(res.Raw)
		return nil
	}

	via := res.RootServer
	if res.ReferralServer != "" {
		via += " -> " + res.ReferralServer
	}
	fmt.Printf("%s (%s, %s)\n", res.Domain, via, res.Duration.Round(time.Millisecond))

	tbl := termtables.CreateTable()
	tbl.AddHeaders("Field", "Value")
	for _, r := range recordRows(res.Record) {
		tbl.AddRow(r[0], r[1])
	}
	fmt.Println(tbl.Render())
	return nil
}

// recordRows lists the fields present in rec, one row per name server.
func recordRows(rec *whois.Record) [][2]string {
	var rows [][2]string
	str := func(label string, v *string) {
		if v != nil {
			rows = append(rows, [2]string{label, *v})
		}
	}
	date := func(label string, v *time.Time) {
		if v != nil {
			rows = append(rows, [2]string{label, v.Format(time.RFC3339)})
		}
	}

	str("Domain Name", rec.DomainName)
	str("Registry Domain ID", rec.RegistryDomainID)
	str("Registrar", rec.Registrar)
	str("Registrar IANA ID", rec.RegistrarIANAID)
	str("Registrar WHOIS Server", rec.RegistrarWhoisServer)
	str("Registrar URL", rec.RegistrarURL)
	str("Abuse Email", rec.RegistrarAbuseEmail)
	str("Abuse Phone", rec.RegistrarAbusePhone)
	date("Created", rec.CreationDate)
	date("Updated", rec.UpdatedDate)
	date("Expires", rec.RegistryExpiryDate)
	str("Status", rec.DomainStatus)
	for _, ns := range rec.NameServers {
		rows = append(rows, [2]string{"Name Server", ns})
	}
	str("DNSSEC", rec.DNSSEC)
	return rows
}
