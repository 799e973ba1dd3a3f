// Package profile provides the issuance profile for a certificate
// hierarchy: the organization attributes and validity parameters shared by
// all four certificates. The cryptographic parameters are fixed by the
// SMPTE 430-2 profile and only validated here.
package profile

import (
	_ "embed"
	"fmt"

	pkicrypto "github.com/remiblancher/cinema-pki/internal/crypto"
)

//go:embed default.yaml
var defaultYAML []byte

// Profile defines the issuance parameters for one hierarchy build.
type Profile struct {
	// Name is the profile identifier.
	Name string `yaml:"name"`

	// Description provides a human-readable description.
	Description string `yaml:"description"`

	// Organization is the subject O attribute.
	// Empty means the build domain is used.
	Organization string `yaml:"organization"`

	// OrganizationalUnit is the subject OU attribute.
	// Empty means the organization is used.
	OrganizationalUnit string `yaml:"organizational_unit"`

	// RootValidityDays is the root certificate lifetime in days. Each
	// descendant gets one day less per level of depth.
	RootValidityDays int `yaml:"root_validity_days"`

	// KeyBits is the RSA modulus size. The profile mandates 2048; any
	// other value is rejected.
	KeyBits int `yaml:"key_bits"`
}

// Default returns the built-in SMPTE chain profile.
func Default() *Profile {
	p, err := LoadBytes(defaultYAML)
	if err != nil {
		// The embedded profile is part of the build; failing to parse
		// it is a programming error.
		panic(fmt.Sprintf("invalid embedded default profile: %v", err))
	}
	return p
}

// Validate checks that the profile configuration is usable.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}

	// Leaves sit at depth 2, so the root needs at least 3 days for the
	// leaf windows to stay positive.
	if p.RootValidityDays < 3 {
		return fmt.Errorf("root_validity_days must be at least 3, got %d", p.RootValidityDays)
	}

	if p.KeyBits != pkicrypto.KeyBits {
		return fmt.Errorf("key_bits must be %d per SMPTE 430-2, got %d", pkicrypto.KeyBits, p.KeyBits)
	}

	return nil
}
