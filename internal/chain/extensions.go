package chain

import (
	"crypto/x509"
	"fmt"
)

// ExtensionSet is the fixed per-role X.509v3 extension bundle. Subject and
// authority key identifiers are derived at issuance time from the key
// material and are not part of the static profile.
type ExtensionSet struct {
	// IsCA is the basicConstraints CA flag.
	IsCA bool

	// MaxPathLen is the basicConstraints path length for authorities.
	// Ignored for leaves.
	MaxPathLen int

	// KeyUsage is the keyUsage bit set.
	KeyUsage x509.KeyUsage
}

// ProfileFor returns the extension profile for a role, per the SMPTE 430-2
// table: authorities get CA:true with a descending path length and
// certificate-signing usage, leaves get CA:false with signature and
// encipherment usage.
func ProfileFor(role Role) ExtensionSet {
	switch role {
	case RoleRoot:
		return ExtensionSet{IsCA: true, MaxPathLen: 3, KeyUsage: x509.KeyUsageCertSign | x509.KeyUsageCRLSign}
	case RoleIntermediate:
		return ExtensionSet{IsCA: true, MaxPathLen: 2, KeyUsage: x509.KeyUsageCertSign | x509.KeyUsageCRLSign}
	default:
		return ExtensionSet{IsCA: false, MaxPathLen: -1, KeyUsage: x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment}
	}
}

// Apply sets the extension fields on a certificate template.
func (e ExtensionSet) Apply(template *x509.Certificate) {
	template.BasicConstraintsValid = true
	template.IsCA = e.IsCA
	template.KeyUsage = e.KeyUsage
	if e.IsCA {
		template.MaxPathLen = e.MaxPathLen
		template.MaxPathLenZero = e.MaxPathLen == 0
	}
}

// Check verifies that an issued certificate carries this extension set.
// Used during chain verification to catch a leaf carrying authority
// extensions (or the reverse).
func (e ExtensionSet) Check(cert *x509.Certificate) error {
	if !cert.BasicConstraintsValid {
		return fmt.Errorf("missing basicConstraints extension")
	}
	if cert.IsCA != e.IsCA {
		return fmt.Errorf("basicConstraints CA = %v, want %v", cert.IsCA, e.IsCA)
	}
	if e.IsCA && cert.MaxPathLen != e.MaxPathLen {
		return fmt.Errorf("basicConstraints pathlen = %d, want %d", cert.MaxPathLen, e.MaxPathLen)
	}
	if cert.KeyUsage != e.KeyUsage {
		return fmt.Errorf("keyUsage = %#x, want %#x", cert.KeyUsage, e.KeyUsage)
	}
	if len(cert.SubjectKeyId) == 0 {
		return fmt.Errorf("missing subjectKeyIdentifier extension")
	}
	if len(cert.AuthorityKeyId) == 0 {
		return fmt.Errorf("missing authorityKeyIdentifier extension")
	}
	return nil
}
