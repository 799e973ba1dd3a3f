package chain

import (
	"context"
	"crypto/x509"
	"fmt"
	"math/big"
	"time"

	"github.com/remiblancher/cinema-pki/internal/audit"
	pkicrypto "github.com/remiblancher/cinema-pki/internal/crypto"
	"github.com/remiblancher/cinema-pki/internal/profile"
	"github.com/remiblancher/cinema-pki/internal/store"
)

// Builder runs the sequential hierarchy pipeline for one domain: allocate
// serials, then for each role in dependency order generate a key pair,
// compute its thumbprint, build the subject, apply the extension profile
// and issue — each non-root certificate signed by the previously issued
// authority. Chains are then assembled, persisted and verified.
//
// A Builder performs exactly one build. Independent builds for different
// domains share no state and may run concurrently.
type Builder struct {
	store      *store.Store
	profile    *profile.Profile
	passphrase []byte
}

// NewBuilder creates a builder writing to the given store.
func NewBuilder(st *store.Store, prof *profile.Profile) *Builder {
	return &Builder{store: st, profile: prof}
}

// WithPassphrase encrypts persisted private keys with the passphrase.
func (b *Builder) WithPassphrase(passphrase string) *Builder {
	b.passphrase = []byte(passphrase)
	return b
}

// BuildResult holds the artifacts of one hierarchy build.
type BuildResult struct {
	Domain       string
	Serials      SerialSet
	Certificates map[Role]*x509.Certificate
	SignerChain  *Chain
	TargetChain  *Chain
	Report       *Report
}

// Build generates the full four-certificate hierarchy for a domain.
//
// Any error aborts the remaining steps: each certificate is a hard
// dependency of the next, so there is no partial-chain continuation. On a
// verification failure the artifacts already written are left in place and
// the result carries the report alongside the error.
func (b *Builder) Build(ctx context.Context, domain string) (*BuildResult, error) {
	if err := ValidateDomain(domain); err != nil {
		return nil, err
	}

	if err := b.profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	if b.store.Exists(domain) {
		return nil, fmt.Errorf("hierarchy already exists for %s at %s", domain, b.store.DomainPath(domain))
	}

	if err := b.store.Init(domain); err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	serials, err := AllocateSerials()
	if err != nil {
		return nil, &CryptoProviderError{Op: "allocate serial numbers", Err: err}
	}

	params := SubjectParams{
		Organization:       b.profile.Organization,
		OrganizationalUnit: b.profile.OrganizationalUnit,
	}

	keys := make(map[Role]*pkicrypto.KeyPair, 4)
	certs := make(map[Role]*x509.Certificate, 4)

	for _, role := range Order() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build aborted before %s certificate: %w", role, err)
		}

		cert, err := b.issueRole(domain, role, serials[role], params, keys, certs)
		if err != nil {
			return nil, err
		}
		certs[role] = cert
	}

	result := &BuildResult{
		Domain:       domain,
		Serials:      serials,
		Certificates: certs,
	}

	for _, leaf := range Leaves() {
		ch, err := Assemble(certs, leaf)
		if err != nil {
			return nil, fmt.Errorf("failed to assemble %s chain: %w", leaf, err)
		}
		if err := b.store.SaveChain(domain, string(leaf), ch.EncodePEM()); err != nil {
			return nil, err
		}
		if err := audit.LogChainAssembled(domain, string(leaf), b.store.ChainPath(domain, string(leaf)), true); err != nil {
			return nil, err
		}

		switch leaf {
		case RoleSigner:
			result.SignerChain = ch
		case RoleTarget:
			result.TargetChain = ch
		}
	}

	report, verifyErr := BuildReport(domain, certs, time.Now().UTC())
	result.Report = report

	for _, status := range report.Chains {
		if err := audit.LogChainVerified(domain, string(status.Leaf), status.Verified, status.Error); err != nil {
			return nil, err
		}
	}

	if verifyErr != nil {
		return result, verifyErr
	}
	return result, nil
}

// Algorithm names recorded in the audit trail.
const (
	algorithmName = "rsa-2048"
	signatureName = "sha256-rsa"
)

// issueRole runs the per-role pipeline: key pair, thumbprint, subject,
// extension profile, issuance, persistence.
func (b *Builder) issueRole(
	domain string,
	role Role,
	serial *big.Int,
	params SubjectParams,
	keys map[Role]*pkicrypto.KeyPair,
	certs map[Role]*x509.Certificate,
) (*x509.Certificate, error) {
	kp, err := pkicrypto.GenerateKeyPair()
	if err != nil {
		_ = audit.LogKeyGenerated(domain, string(role), algorithmName, false)
		return nil, &CryptoProviderError{Op: "generate " + string(role) + " key pair", Err: err}
	}
	if err := audit.LogKeyGenerated(domain, string(role), algorithmName, true); err != nil {
		return nil, err
	}

	tp := pkicrypto.ComputeThumbprint(kp.PublicKey)

	subject, err := BuildSubject(role, domain, tp, params)
	if err != nil {
		return nil, err
	}

	var issuer *Issuer
	if role != RoleRoot {
		parent := role.IssuedBy()
		issuer = &Issuer{Certificate: certs[parent], Key: keys[parent].PrivateKey}
	}

	cert, err := Issue(IssueRequest{
		Role:         role,
		KeyPair:      kp,
		Subject:      subject,
		Serial:       serial,
		ValidityDays: b.profile.RootValidityDays - role.Depth(),
		Extensions:   ProfileFor(role),
	}, issuer)
	if err != nil {
		_ = audit.LogCertIssued(domain, string(role), "", subject.String(), signatureName, false)
		return nil, err
	}

	if err := audit.LogCertIssued(domain, string(role),
		cert.SerialNumber.String(), cert.Subject.String(), signatureName, true); err != nil {
		return nil, err
	}

	if err := b.store.SaveKey(domain, string(role), kp.PrivateKey, b.passphrase); err != nil {
		return nil, fmt.Errorf("failed to save %s key: %w", role, err)
	}
	if err := b.store.SaveCert(domain, string(role), cert); err != nil {
		return nil, fmt.Errorf("failed to save %s certificate: %w", role, err)
	}

	// Authorities sign their own CSR at issuance time; only non-root
	// roles produce a request artifact.
	if role != RoleRoot {
		csr, err := CreateCSR(kp, subject)
		if err != nil {
			_ = audit.LogCSRCreated(domain, string(role), false)
			return nil, err
		}
		if err := b.store.SaveCSR(domain, string(role), csr); err != nil {
			return nil, err
		}
		if err := audit.LogCSRCreated(domain, string(role), true); err != nil {
			return nil, err
		}
	}

	keys[role] = kp
	return cert, nil
}

// LoadCertificates reloads the four issued certificates of a domain from
// the store, for re-verification and reporting.
func LoadCertificates(st *store.Store, domain string) (map[Role]*x509.Certificate, error) {
	certs := make(map[Role]*x509.Certificate, 4)
	for _, role := range Order() {
		cert, err := st.LoadCert(domain, string(role))
		if err != nil {
			return nil, fmt.Errorf("failed to load %s certificate: %w", role, err)
		}
		certs[role] = cert
	}
	return certs, nil
}
