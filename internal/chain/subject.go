package chain

import (
	"crypto/x509/pkix"
	"encoding/asn1"

	pkicrypto "github.com/remiblancher/cinema-pki/internal/crypto"
)

// OIDDNQualifier is the dnQualifier attribute type (id-at-dnQualifier).
// SMPTE 430-2 requires it to equal the base64 thumbprint of the
// certificate's own public key.
var OIDDNQualifier = asn1.ObjectIdentifier{2, 5, 4, 46}

// SubjectParams carries the organization attributes shared by all four
// subjects of a hierarchy. Empty fields default to the domain itself.
type SubjectParams struct {
	Organization       string
	OrganizationalUnit string
}

// BuildSubject assembles the distinguished name for a role. The thumbprint
// travels as a structured ExtraNames attribute and is encoded by the ASN.1
// layer, so base64 characters like '+' and '/' never pass through any
// string quoting.
func BuildSubject(role Role, domain string, tp pkicrypto.Thumbprint, params SubjectParams) (pkix.Name, error) {
	org := params.Organization
	if org == "" {
		org = domain
	}
	ou := params.OrganizationalUnit
	if ou == "" {
		ou = org
	}

	name := pkix.Name{
		Organization:       []string{org},
		OrganizationalUnit: []string{ou},
		CommonName:         role.CommonName(domain),
		ExtraNames: []pkix.AttributeTypeAndValue{
			{Type: OIDDNQualifier, Value: tp.Base64()},
		},
	}

	// Encode once up front so a malformed attribute surfaces here, as a
	// DNEncodingError naming the subject, instead of deep inside signing.
	if _, err := asn1.Marshal(name.ToRDNSequence()); err != nil {
		return pkix.Name{}, &DNEncodingError{Attribute: "dnQualifier", Err: err}
	}

	return name, nil
}

// DNQualifier extracts the dnQualifier attribute from a distinguished name.
// It checks Names (populated when a certificate is parsed) before
// ExtraNames (populated on templates built by BuildSubject).
func DNQualifier(name pkix.Name) (string, bool) {
	for _, atv := range name.Names {
		if atv.Type.Equal(OIDDNQualifier) {
			if s, ok := atv.Value.(string); ok {
				return s, true
			}
		}
	}
	for _, atv := range name.ExtraNames {
		if atv.Type.Equal(OIDDNQualifier) {
			if s, ok := atv.Value.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}
