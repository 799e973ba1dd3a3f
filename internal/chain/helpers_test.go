package chain

import (
	"crypto/x509"
	"math/big"
	"sync"
	"testing"

	pkicrypto "github.com/remiblancher/cinema-pki/internal/crypto"
)

// Key generation dominates test time, so pairs are generated once and
// shared. Tests must not mutate the returned key material.
var (
	testKeysMu sync.Mutex
	testKeys   = map[int]*pkicrypto.KeyPair{}
)

func testKeyPair(t *testing.T, i int) *pkicrypto.KeyPair {
	t.Helper()

	testKeysMu.Lock()
	defer testKeysMu.Unlock()

	if kp, ok := testKeys[i]; ok {
		return kp
	}
	kp, err := pkicrypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}
	testKeys[i] = kp
	return kp
}

// testSerials returns a fixed, valid serial allocation.
func testSerials() SerialSet {
	return SerialSet{
		RoleRoot:         big.NewInt(100),
		RoleIntermediate: big.NewInt(200),
		RoleSigner:       big.NewInt(300),
		RoleTarget:       big.NewInt(400),
	}
}

// testHierarchy issues a full four-certificate hierarchy for the domain
// using shared test keys.
func testHierarchy(t *testing.T, domain string) (map[Role]*x509.Certificate, map[Role]*pkicrypto.KeyPair) {
	t.Helper()

	serials := testSerials()
	keys := make(map[Role]*pkicrypto.KeyPair, 4)
	certs := make(map[Role]*x509.Certificate, 4)

	for i, role := range Order() {
		kp := testKeyPair(t, i)
		keys[role] = kp

		subject, err := BuildSubject(role, domain, pkicrypto.ComputeThumbprint(kp.PublicKey), SubjectParams{})
		if err != nil {
			t.Fatalf("BuildSubject(%s) error = %v", role, err)
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
			Serial:       serials[role],
			ValidityDays: 3650 - role.Depth(),
			Extensions:   ProfileFor(role),
		}, issuer)
		if err != nil {
			t.Fatalf("Issue(%s) error = %v", role, err)
		}
		certs[role] = cert
	}

	return certs, keys
}
