package chain

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"time"

	pkicrypto "github.com/remiblancher/cinema-pki/internal/crypto"
)

// Issuer identifies the signing authority for an issuance: its certificate
// and the matching private key. A nil *Issuer means self-signed.
type Issuer struct {
	Certificate *x509.Certificate
	Key         *rsa.PrivateKey
}

// IssueRequest holds the parameters for issuing one certificate.
type IssueRequest struct {
	// Role identifies the certificate for error reporting.
	Role Role

	// KeyPair is the subject's key pair.
	KeyPair *pkicrypto.KeyPair

	// Subject is the distinguished name built by BuildSubject.
	Subject pkix.Name

	// Serial is the allocated serial number.
	Serial *big.Int

	// ValidityDays is the certificate lifetime in days. Must be positive
	// and must not outlive the issuer.
	ValidityDays int

	// Extensions is the role's extension profile.
	Extensions ExtensionSet

	// NotBefore is the start of the validity window.
	// Zero means the current time.
	NotBefore time.Time
}

// Issue signs a certificate with SHA-256. The subject key identifier is the
// SMPTE thumbprint of the subject's public key; the authority key
// identifier references the issuer's (its own, for the self-signed root).
func Issue(req IssueRequest, issuer *Issuer) (*x509.Certificate, error) {
	if req.KeyPair == nil {
		return nil, &IssuanceError{Role: req.Role, Reason: "no key pair provided"}
	}
	if req.ValidityDays <= 0 {
		return nil, &IssuanceError{Role: req.Role, Reason: "validity days must be positive"}
	}
	if req.Serial == nil || req.Serial.Sign() < 0 || req.Serial.Cmp(serialBound) >= 0 {
		return nil, &IssuanceError{Role: req.Role, Reason: "serial number outside hardware range"}
	}

	notBefore := req.NotBefore
	if notBefore.IsZero() {
		notBefore = time.Now().UTC()
	}

	template := &x509.Certificate{
		SerialNumber:       req.Serial,
		Subject:            req.Subject,
		NotBefore:          notBefore,
		NotAfter:           notBefore.AddDate(0, 0, req.ValidityDays),
		SignatureAlgorithm: x509.SHA256WithRSA,
	}
	req.Extensions.Apply(template)

	skid := pkicrypto.ComputeThumbprint(req.KeyPair.PublicKey)
	template.SubjectKeyId = skid.Bytes()

	parent := template
	signingKey := req.KeyPair.PrivateKey
	template.AuthorityKeyId = template.SubjectKeyId

	if issuer != nil {
		if issuer.Certificate == nil || issuer.Key == nil {
			return nil, &IssuanceError{Role: req.Role, Reason: "issuer certificate and key are required"}
		}

		issuerPub, ok := issuer.Certificate.PublicKey.(*rsa.PublicKey)
		if !ok || !issuer.Key.PublicKey.Equal(issuerPub) {
			return nil, &IssuanceError{Role: req.Role, Reason: "issuer private key does not match issuer certificate"}
		}

		// A child that outlives its parent cannot be verified for its
		// whole lifetime.
		if template.NotAfter.After(issuer.Certificate.NotAfter) {
			return nil, &IssuanceError{Role: req.Role, Reason: "certificate would outlive its issuer"}
		}

		parent = issuer.Certificate
		signingKey = issuer.Key
		template.AuthorityKeyId = parent.SubjectKeyId
	}

	der, err := x509.CreateCertificate(rand.Reader, template, parent, req.KeyPair.PublicKey, signingKey)
	if err != nil {
		return nil, &CryptoProviderError{Op: "sign " + string(req.Role) + " certificate", Err: err}
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, &CryptoProviderError{Op: "parse signed certificate", Err: err}
	}

	return cert, nil
}

// CreateCSR builds a DER-encoded PKCS#10 certificate request for a subject
// key pair, signed with SHA-256.
func CreateCSR(kp *pkicrypto.KeyPair, subject pkix.Name) ([]byte, error) {
	template := &x509.CertificateRequest{
		Subject:            subject,
		SignatureAlgorithm: x509.SHA256WithRSA,
	}

	der, err := x509.CreateCertificateRequest(rand.Reader, template, kp.PrivateKey)
	if err != nil {
		return nil, &CryptoProviderError{Op: "create certificate request", Err: err}
	}
	return der, nil
}
