package whois

import "time"

// Record is the structured result of parsing a WHOIS response.
//
// Every field is optional: nil means the server did not report it. Dates are
// UTC instants. NameServers keeps the order in which the lines appeared and is
// nil (not empty) when no name server line was present.
//
// DomainStatus is single-valued: registries often repeat "Domain Status" once
// per EPP status and only the last line is kept.
type Record struct {
	DomainName           *string    `json:"domain_name,omitempty"`
	RegistryDomainID     *string    `json:"registry_domain_id,omitempty"`
	RegistrarWhoisServer *string    `json:"registrar_whois_server,omitempty"`
	RegistrarURL         *string    `json:"registrar_url,omitempty"`
	UpdatedDate          *time.Time `json:"updated_date,omitempty"`
	CreationDate         *time.Time `json:"creation_date,omitempty"`
	RegistryExpiryDate   *time.Time `json:"registry_expiry_date,omitempty"`
	Registrar            *string    `json:"registrar,omitempty"`
	RegistrarIANAID      *string    `json:"registrar_iana_id,omitempty"`
	RegistrarAbuseEmail  *string    `json:"registrar_abuse_contact_email,omitempty"`
	RegistrarAbusePhone  *string    `json:"registrar_abuse_contact_phone,omitempty"`
	DomainStatus         *string    `json:"domain_status,omitempty"`
	NameServers          []string   `json:"name_servers,omitempty"`
	DNSSEC               *string    `json:"dnssec,omitempty"`
}

// IsEmpty reports whether no known field was found.
func (r *Record) IsEmpty() bool {
	return r.DomainName == nil &&
		r.RegistryDomainID == nil &&
		r.RegistrarWhoisServer == nil &&
		r.RegistrarURL == nil &&
		r.UpdatedDate == nil &&
		r.CreationDate == nil &&
		r.RegistryExpiryDate == nil &&
		r.Registrar == nil &&
		r.RegistrarIANAID == nil &&
		r.RegistrarAbuseEmail == nil &&
		r.RegistrarAbusePhone == nil &&
		r.DomainStatus == nil &&
		r.NameServers == nil &&
		r.DNSSEC == nil
}

// Value returns the string stored at p, or "" when p is nil.
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
