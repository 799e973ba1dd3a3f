// Package store manages on-disk persistence of the keys, certificates,
// CSRs and chain bundles of a certificate hierarchy.
package store

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	pkicrypto "github.com/remiblancher/cinema-pki/internal/crypto"
)

// Store manages hierarchy storage on the filesystem, one directory per
// domain. Directory structure:
//
//	{base}/{domain}/
//	  ├── private/         # Private keys (0600, optionally encrypted)
//	  │   └── {role}.key
//	  ├── certs/           # Issued certificates
//	  │   └── {role}.crt
//	  ├── csr/             # Certificate signing requests
//	  │   └── {role}.csr
//	  ├── chains/          # Assembled chain bundles
//	  │   └── {leaf}-chain.pem
//	  └── index.txt        # Issued certificate database (OpenSSL-like)
type Store struct {
	basePath string
}

// New creates a store rooted at the given base path.
func New(basePath string) *Store {
	return &Store{basePath: basePath}
}

// BasePath returns the base path of the store.
func (s *Store) BasePath() string {
	return s.basePath
}

// DomainPath returns the directory holding a domain's hierarchy.
func (s *Store) DomainPath(domain string) string {
	return filepath.Join(s.basePath, domain)
}

// Exists reports whether a hierarchy has already been generated for the
// domain (the root certificate is present).
func (s *Store) Exists(domain string) bool {
	_, err := os.Stat(s.CertPath(domain, "root"))
	return err == nil
}

// Init creates the directory structure for a domain.
func (s *Store) Init(domain string) error {
	base := s.DomainPath(domain)
	dirs := []string{
		base,
		filepath.Join(base, "private"),
		filepath.Join(base, "certs"),
		filepath.Join(base, "csr"),
		filepath.Join(base, "chains"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	indexPath := filepath.Join(base, "index.txt")
	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		if err := os.WriteFile(indexPath, []byte(""), 0644); err != nil {
			return fmt.Errorf("failed to create index file: %w", err)
		}
	}

	return nil
}

// KeyPath returns the path of a role's private key.
func (s *Store) KeyPath(domain, role string) string {
	return filepath.Join(s.DomainPath(domain), "private", role+".key")
}

// CertPath returns the path of a role's certificate.
func (s *Store) CertPath(domain, role string) string {
	return filepath.Join(s.DomainPath(domain), "certs", role+".crt")
}

// CSRPath returns the path of a role's certificate signing request.
func (s *Store) CSRPath(domain, role string) string {
	return filepath.Join(s.DomainPath(domain), "csr", role+".csr")
}

// ChainPath returns the path of the bundle terminating at a leaf role.
func (s *Store) ChainPath(domain, leaf string) string {
	return filepath.Join(s.DomainPath(domain), "chains", leaf+"-chain.pem")
}

// SaveKey saves a role's private key, optionally passphrase-encrypted.
func (s *Store) SaveKey(domain, role string, key *rsa.PrivateKey, passphrase []byte) error {
	return pkicrypto.SavePrivateKey(s.KeyPath(domain, role), key, passphrase)
}

// LoadKey loads a role's private key.
func (s *Store) LoadKey(domain, role string, passphrase []byte) (*rsa.PrivateKey, error) {
	return pkicrypto.LoadPrivateKey(s.KeyPath(domain, role), passphrase)
}

// SaveCert saves a role's certificate and records it in the index.
func (s *Store) SaveCert(domain, role string, cert *x509.Certificate) error {
	if err := writePEM(s.CertPath(domain, role), "CERTIFICATE", cert.Raw); err != nil {
		return err
	}
	return s.appendIndex(domain, cert)
}

// LoadCert loads a role's certificate.
func (s *Store) LoadCert(domain, role string) (*x509.Certificate, error) {
	path := s.CertPath(domain, role)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate file: %w", err)
	}

	block, _ := pem.Decode(data)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, fmt.Errorf("no certificate found in %s", path)
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	return cert, nil
}

// SaveCSR saves a role's DER-encoded certificate signing request.
func (s *Store) SaveCSR(domain, role string, der []byte) error {
	return writePEM(s.CSRPath(domain, role), "CERTIFICATE REQUEST", der)
}

// SaveChain saves an assembled PEM chain bundle.
func (s *Store) SaveChain(domain, leaf string, bundle []byte) error {
	path := s.ChainPath(domain, leaf)
	if err := os.WriteFile(path, bundle, 0644); err != nil {
		return fmt.Errorf("failed to write chain bundle: %w", err)
	}
	return nil
}

// LoadChain loads an assembled PEM chain bundle.
func (s *Store) LoadChain(domain, leaf string) ([]byte, error) {
	data, err := os.ReadFile(s.ChainPath(domain, leaf))
	if err != nil {
		return nil, fmt.Errorf("failed to read chain bundle: %w", err)
	}
	return data, nil
}

// writePEM writes a single PEM block to a file.
func writePEM(path, blockType string, der []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := pem.Encode(f, &pem.Block{Type: blockType, Bytes: der}); err != nil {
		return fmt.Errorf("failed to write PEM: %w", err)
	}

	return nil
}

// appendIndex appends a certificate entry to the domain's index file.
// Format: status\texpiry\trevocation\tserial\tunknown\tsubject
func (s *Store) appendIndex(domain string, cert *x509.Certificate) error {
	indexPath := filepath.Join(s.DomainPath(domain), "index.txt")
	f, err := os.OpenFile(indexPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open index file: %w", err)
	}
	defer func() { _ = f.Close() }()

	entry := fmt.Sprintf("V\t%s\t\t%s\tunknown\t%s\n",
		cert.NotAfter.UTC().Format("060102150405Z"),
		hex.EncodeToString(cert.SerialNumber.Bytes()),
		cert.Subject.String(),
	)

	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("failed to write index entry: %w", err)
	}

	return nil
}
