package chain

import (
	"fmt"
	"regexp"

	"golang.org/x/net/publicsuffix"
)

// domainPattern accepts DNS-style names of at least two dot-separated
// labels: alphanumeric labels with interior hyphens, 63 octets max.
var domainPattern = regexp.MustCompile(
	`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?` +
		`(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)

// ValidateDomain checks the domain identifier a hierarchy is built for.
// It must look like a DNS name with at least two labels and must not be a
// bare public suffix.
func ValidateDomain(domain string) error {
	if domain == "" {
		return &InputError{Msg: "domain is required"}
	}

	if !domainPattern.MatchString(domain) {
		return &InputError{Msg: fmt.Sprintf("invalid domain %q: must be of the form <label>.<label>", domain)}
	}

	// Reject registry suffixes like "co.uk": a hierarchy for a public
	// suffix would name no organization at all.
	if suffix, icann := publicsuffix.PublicSuffix(domain); icann && suffix == domain {
		return &InputError{Msg: fmt.Sprintf("invalid domain %q: it is a public suffix", domain)}
	}

	return nil
}
