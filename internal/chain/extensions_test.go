package chain

import (
	"crypto/x509"
	"testing"
)

func TestProfileFor(t *testing.T) {
	tests := []struct {
		role       Role
		isCA       bool
		maxPathLen int
		keyUsage   x509.KeyUsage
	}{
		{RoleRoot, true, 3, x509.KeyUsageCertSign | x509.KeyUsageCRLSign},
		{RoleIntermediate, true, 2, x509.KeyUsageCertSign | x509.KeyUsageCRLSign},
		{RoleSigner, false, -1, x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment},
		{RoleTarget, false, -1, x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			e := ProfileFor(tt.role)
			if e.IsCA != tt.isCA {
				t.Errorf("IsCA = %v, want %v", e.IsCA, tt.isCA)
			}
			if e.MaxPathLen != tt.maxPathLen {
				t.Errorf("MaxPathLen = %d, want %d", e.MaxPathLen, tt.maxPathLen)
			}
			if e.KeyUsage != tt.keyUsage {
				t.Errorf("KeyUsage = %#x, want %#x", e.KeyUsage, tt.keyUsage)
			}
		})
	}
}

func TestExtensionSet_Apply(t *testing.T) {
	var tmpl x509.Certificate
	ProfileFor(RoleIntermediate).Apply(&tmpl)

	if !tmpl.BasicConstraintsValid {
		t.Error("BasicConstraintsValid not set")
	}
	if !tmpl.IsCA {
		t.Error("IsCA not set")
	}
	if tmpl.MaxPathLen != 2 {
		t.Errorf("MaxPathLen = %d, want 2", tmpl.MaxPathLen)
	}
	if tmpl.MaxPathLenZero {
		t.Error("MaxPathLenZero set for non-zero path length")
	}

	var leaf x509.Certificate
	ProfileFor(RoleSigner).Apply(&leaf)
	if leaf.IsCA {
		t.Error("leaf template has IsCA set")
	}
	if leaf.MaxPathLen != 0 || leaf.MaxPathLenZero {
		t.Error("leaf template carries a path length constraint")
	}
}

func TestExtensionSet_Check(t *testing.T) {
	certs, _ := testHierarchy(t, "check.example.org")

	for _, role := range Order() {
		if err := ProfileFor(role).Check(certs[role]); err != nil {
			t.Errorf("Check(%s) error = %v", role, err)
		}
	}

	// A leaf checked against an authority profile must fail, and the
	// reverse too.
	if err := ProfileFor(RoleRoot).Check(certs[RoleSigner]); err == nil {
		t.Error("authority profile accepted a leaf certificate")
	}
	if err := ProfileFor(RoleTarget).Check(certs[RoleIntermediate]); err == nil {
		t.Error("leaf profile accepted an authority certificate")
	}

	// The two authorities differ only in path length.
	if err := ProfileFor(RoleRoot).Check(certs[RoleIntermediate]); err == nil {
		t.Error("root profile accepted the intermediate certificate")
	}
}
