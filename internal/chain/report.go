package chain

import (
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"io"
	"time"

	pkicrypto "github.com/remiblancher/cinema-pki/internal/crypto"
)

// CertificateInfo is the reportable view of one issued certificate.
type CertificateInfo struct {
	Role        Role      `json:"role"`
	Subject     string    `json:"subject"`
	Issuer      string    `json:"issuer"`
	Serial      string    `json:"serial"`
	NotBefore   time.Time `json:"not_before"`
	NotAfter    time.Time `json:"not_after"`
	Thumbprint  string    `json:"thumbprint,omitempty"`
	DNQualifier string    `json:"dn_qualifier,omitempty"`
}

// ChainStatus records the verification outcome of one assembled bundle.
type ChainStatus struct {
	Leaf     Role   `json:"leaf"`
	Verified bool   `json:"verified"`
	Error    string `json:"error,omitempty"`
}

// Report is the human- and machine-readable summary of a hierarchy:
// each certificate's subject/issuer pair and the verification result of
// both chain bundles.
type Report struct {
	Domain       string            `json:"domain"`
	GeneratedAt  time.Time         `json:"generated_at"`
	Certificates []CertificateInfo `json:"certificates"`
	Chains       []ChainStatus     `json:"chains"`
}

// NewCertificateInfo extracts the reportable fields from a certificate.
func NewCertificateInfo(role Role, cert *x509.Certificate) CertificateInfo {
	info := CertificateInfo{
		Role:      role,
		Subject:   cert.Subject.String(),
		Issuer:    cert.Issuer.String(),
		Serial:    cert.SerialNumber.String(),
		NotBefore: cert.NotBefore,
		NotAfter:  cert.NotAfter,
	}
	if pub, ok := cert.PublicKey.(*rsa.PublicKey); ok {
		info.Thumbprint = pkicrypto.ComputeThumbprint(pub).Hex()
	}
	if q, ok := DNQualifier(cert.Subject); ok {
		info.DNQualifier = q
	}
	return info
}

// BuildReport assembles and verifies both chain bundles from the issued
// certificates and produces the report. The returned error is the first
// VerificationError, if any; the report is complete either way.
func BuildReport(domain string, certs map[Role]*x509.Certificate, at time.Time) (*Report, error) {
	report := &Report{
		Domain:      domain,
		GeneratedAt: at,
	}

	for _, role := range Order() {
		if cert, ok := certs[role]; ok && cert != nil {
			report.Certificates = append(report.Certificates, NewCertificateInfo(role, cert))
		}
	}

	var firstErr error
	for _, leaf := range Leaves() {
		status := ChainStatus{Leaf: leaf}

		ch, err := Assemble(certs, leaf)
		if err == nil {
			err = ch.Verify(at)
		}
		if err != nil {
			status.Error = err.Error()
			if firstErr == nil {
				firstErr = err
			}
		} else {
			status.Verified = true
		}

		report.Chains = append(report.Chains, status)
	}

	return report, firstErr
}

// Verified reports whether every chain bundle verified successfully.
func (r *Report) Verified() bool {
	if len(r.Chains) == 0 {
		return false
	}
	for _, status := range r.Chains {
		if !status.Verified {
			return false
		}
	}
	return true
}

// Render writes the report as text.
func (r *Report) Render(w io.Writer) {
	fmt.Fprintf(w, "Certificate hierarchy for %s\n", r.Domain)
	for _, info := range r.Certificates {
		fmt.Fprintf(w, "\n[%s]\n", info.Role)
		fmt.Fprintf(w, "  Subject:     %s\n", info.Subject)
		fmt.Fprintf(w, "  Issuer:      %s\n", info.Issuer)
		fmt.Fprintf(w, "  Serial:      %s\n", info.Serial)
		fmt.Fprintf(w, "  Validity:    %s to %s\n",
			info.NotBefore.UTC().Format(time.RFC3339),
			info.NotAfter.UTC().Format(time.RFC3339))
		if info.Thumbprint != "" {
			fmt.Fprintf(w, "  Thumbprint:  %s\n", info.Thumbprint)
		}
	}

	fmt.Fprintln(w)
	for _, status := range r.Chains {
		if status.Verified {
			fmt.Fprintf(w, "chain %s: OK\n", status.Leaf)
		} else {
			fmt.Fprintf(w, "chain %s: FAILED (%s)\n", status.Leaf, status.Error)
		}
	}
}
