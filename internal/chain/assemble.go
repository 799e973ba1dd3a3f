package chain

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"time"

	pkicrypto "github.com/remiblancher/cinema-pki/internal/crypto"
)

// Chain is an ordered root → intermediate → leaf certificate sequence.
type Chain struct {
	Leaf  Role
	Certs []*x509.Certificate
}

// chainRoles returns the role of each position in the chain.
func (c *Chain) chainRoles() []Role {
	return []Role{RoleRoot, RoleIntermediate, c.Leaf}
}

// Assemble orders the issued certificates into the bundle terminating at
// the given leaf role.
func Assemble(certs map[Role]*x509.Certificate, leaf Role) (*Chain, error) {
	if leaf != RoleSigner && leaf != RoleTarget {
		return nil, fmt.Errorf("role %s is not a leaf", leaf)
	}

	ordered := make([]*x509.Certificate, 0, 3)
	for _, role := range []Role{RoleRoot, RoleIntermediate, leaf} {
		cert, ok := certs[role]
		if !ok || cert == nil {
			return nil, fmt.Errorf("missing %s certificate", role)
		}
		ordered = append(ordered, cert)
	}

	return &Chain{Leaf: leaf, Certs: ordered}, nil
}

// EncodePEM concatenates the chain into a single PEM bundle, root first.
func (c *Chain) EncodePEM() []byte {
	var buf bytes.Buffer
	for _, cert := range c.Certs {
		_ = pem.Encode(&buf, &pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
	}
	return buf.Bytes()
}

// ParseChain decodes a PEM bundle written by EncodePEM back into a chain
// terminating at the given leaf role.
func ParseChain(data []byte, leaf Role) (*Chain, error) {
	var certs []*x509.Certificate
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate %d in bundle: %w", len(certs), err)
		}
		certs = append(certs, cert)
	}

	if len(certs) != 3 {
		return nil, fmt.Errorf("bundle contains %d certificates, want 3", len(certs))
	}

	return &Chain{Leaf: leaf, Certs: certs}, nil
}

// Verify validates the chain strictly incrementally: the root is checked
// as a self-signed, self-consistent anchor, then each subsequent
// certificate is verified against the already-validated prefix only.
// The first broken link aborts with a VerificationError identifying the
// failing certificate.
func (c *Chain) Verify(at time.Time) error {
	roles := c.chainRoles()
	if len(c.Certs) != len(roles) {
		return fmt.Errorf("chain has %d certificates, want %d", len(c.Certs), len(roles))
	}

	roots := x509.NewCertPool()
	intermediates := x509.NewCertPool()

	for i, cert := range c.Certs {
		role := roles[i]

		if err := checkCertificate(cert, role); err != nil {
			return &VerificationError{Role: role, Subject: cert.Subject.String(), Err: err}
		}

		if i == 0 {
			if !bytes.Equal(cert.RawIssuer, cert.RawSubject) {
				return &VerificationError{Role: role, Subject: cert.Subject.String(),
					Err: fmt.Errorf("root issuer does not equal its subject")}
			}
			if err := cert.CheckSignatureFrom(cert); err != nil {
				return &VerificationError{Role: role, Subject: cert.Subject.String(),
					Err: fmt.Errorf("root self-signature invalid: %w", err)}
			}
			roots.AddCert(cert)
			continue
		}

		parent := c.Certs[i-1]
		if !bytes.Equal(cert.RawIssuer, parent.RawSubject) {
			return &VerificationError{Role: role, Subject: cert.Subject.String(),
				Err: fmt.Errorf("issuer does not match subject of the %s certificate", roles[i-1])}
		}
		if cert.NotAfter.After(parent.NotAfter) {
			return &VerificationError{Role: role, Subject: cert.Subject.String(),
				Err: fmt.Errorf("certificate outlives its issuer")}
		}

		opts := x509.VerifyOptions{
			Roots:         roots,
			Intermediates: intermediates,
			CurrentTime:   at,
			KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
		}
		if _, err := cert.Verify(opts); err != nil {
			return &VerificationError{Role: role, Subject: cert.Subject.String(), Err: err}
		}

		if role.IsAuthority() {
			intermediates.AddCert(cert)
		}
	}

	return nil
}

// checkCertificate enforces the per-certificate profile invariants: serial
// range, role extension set, and the dnQualifier self-consistency check
// (SMPTE 430-2 Check 5).
func checkCertificate(cert *x509.Certificate, role Role) error {
	if cert.SerialNumber.Sign() < 0 || cert.SerialNumber.Cmp(serialBound) >= 0 {
		return fmt.Errorf("serial %s outside hardware range", cert.SerialNumber)
	}

	if err := ProfileFor(role).Check(cert); err != nil {
		return fmt.Errorf("extension profile mismatch for role %s: %w", role, err)
	}

	if err := CheckThumbprint(cert); err != nil {
		return err
	}

	return nil
}

// CheckThumbprint recomputes the certificate's public key thumbprint and
// compares it against the dnQualifier embedded in its subject.
func CheckThumbprint(cert *x509.Certificate) error {
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("public key is %T, want RSA", cert.PublicKey)
	}

	qualifier, ok := DNQualifier(cert.Subject)
	if !ok {
		return fmt.Errorf("subject has no dnQualifier attribute")
	}

	if want := pkicrypto.ComputeThumbprint(pub).Base64(); qualifier != want {
		return fmt.Errorf("dnQualifier %q does not match public key thumbprint %q", qualifier, want)
	}
	return nil
}
