package dto

import "github.com/remiblancher/cinema-pki/internal/chain"

// BuildChainRequest asks the server to generate the four-certificate
// hierarchy for a domain.
type BuildChainRequest struct {
	// Domain is the DNS-style identifier the hierarchy is built for.
	// Required, at least two dot-separated labels.
	Domain string `json:"domain"`

	// Organization overrides the subject O attribute.
	// Empty means the domain is used.
	Organization string `json:"organization,omitempty"`

	// OrganizationalUnit overrides the subject OU attribute.
	OrganizationalUnit string `json:"organizational_unit,omitempty"`

	// ValidityDays overrides the root certificate lifetime.
	ValidityDays int `json:"validity_days,omitempty"`

	// Passphrase encrypts the persisted private keys when set.
	Passphrase string `json:"passphrase,omitempty"`
}

// BuildChainResponse returns the hierarchy report after a build.
type BuildChainResponse struct {
	// Domain is the identifier the hierarchy was built for.
	Domain string `json:"domain"`

	// Serials maps each role to its allocated serial number.
	Serials map[string]string `json:"serials"`

	// Report carries the per-certificate details and the verification
	// outcome of both chain bundles.
	Report *chain.Report `json:"report"`

	// Path is the on-disk location of the generated hierarchy.
	Path string `json:"path"`
}

// ChainListResponse lists the domains with a generated hierarchy.
type ChainListResponse struct {
	Domains []string `json:"domains"`
}

// ChainReportResponse returns the re-verified report for an existing
// hierarchy.
type ChainReportResponse struct {
	Domain string        `json:"domain"`
	Report *chain.Report `json:"report"`
}
