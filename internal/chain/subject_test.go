package chain

import (
	"math/big"
	"strings"
	"testing"

	pkicrypto "github.com/remiblancher/cinema-pki/internal/crypto"
)

func TestBuildSubject(t *testing.T) {
	kp := testKeyPair(t, 0)
	tp := pkicrypto.ComputeThumbprint(kp.PublicKey)

	name, err := BuildSubject(RoleSigner, "example.org", tp, SubjectParams{
		Organization:       "Example Cinemas",
		OrganizationalUnit: "Operations",
	})
	if err != nil {
		t.Fatalf("BuildSubject() error = %v", err)
	}

	if got := name.CommonName; got != "CS.example.org" {
		t.Errorf("CommonName = %q, want %q", got, "CS.example.org")
	}
	if got := name.Organization[0]; got != "Example Cinemas" {
		t.Errorf("Organization = %q, want %q", got, "Example Cinemas")
	}
	if got := name.OrganizationalUnit[0]; got != "Operations" {
		t.Errorf("OrganizationalUnit = %q, want %q", got, "Operations")
	}

	q, ok := DNQualifier(name)
	if !ok {
		t.Fatal("DNQualifier() not found on built subject")
	}
	if q != tp.Base64() {
		t.Errorf("dnQualifier = %q, want %q", q, tp.Base64())
	}
}

func TestBuildSubject_Defaults(t *testing.T) {
	kp := testKeyPair(t, 0)
	tp := pkicrypto.ComputeThumbprint(kp.PublicKey)

	name, err := BuildSubject(RoleRoot, "example.org", tp, SubjectParams{})
	if err != nil {
		t.Fatalf("BuildSubject() error = %v", err)
	}

	// Both organization attributes fall back to the domain.
	if got := name.Organization[0]; got != "example.org" {
		t.Errorf("Organization = %q, want %q", got, "example.org")
	}
	if got := name.OrganizationalUnit[0]; got != "example.org" {
		t.Errorf("OrganizationalUnit = %q, want %q", got, "example.org")
	}
}

func TestCommonNames(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleRoot, ".ca0.example.org"},
		{RoleIntermediate, ".ca1.example.org"},
		{RoleSigner, "CS.example.org"},
		{RoleTarget, "SM.example.org"},
	}

	for _, tt := range tests {
		if got := tt.role.CommonName("example.org"); got != tt.want {
			t.Errorf("CommonName(%s) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

// A thumbprint whose base64 form leads with '+' used to be corrupted by
// string-level DN quoting. The attribute is structured now, so the value
// must survive issuance and reparsing byte for byte.
func TestDNQualifier_SurvivesBase64Specials(t *testing.T) {
	kp := testKeyPair(t, 0)

	// 0xF8 makes the first base64 character '+', 0xFF 0xFF makes '/'
	// appear later.
	tp := pkicrypto.Thumbprint{0xF8, 0xFF, 0xFF, 0xFF}
	crafted := tp.Base64()
	if !strings.HasPrefix(crafted, "+") || !strings.Contains(crafted, "/") {
		t.Fatalf("test thumbprint %q does not exercise '+' and '/'", crafted)
	}

	name, err := BuildSubject(RoleTarget, "example.org", tp, SubjectParams{})
	if err != nil {
		t.Fatalf("BuildSubject() error = %v", err)
	}

	cert, err := Issue(IssueRequest{
		Role:         RoleTarget,
		KeyPair:      kp,
		Subject:      name,
		Serial:       big.NewInt(42),
		ValidityDays: 30,
		Extensions:   ProfileFor(RoleTarget),
	}, nil)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	got, ok := DNQualifier(cert.Subject)
	if !ok {
		t.Fatal("parsed certificate has no dnQualifier")
	}
	if got != crafted {
		t.Errorf("parsed dnQualifier = %q, want %q", got, crafted)
	}
}
