// Package chain implements the SMPTE 430-2 digital cinema certificate
// hierarchy: a self-signed root authority, one intermediate authority and
// two leaf certificates (the CS content signer and the SM security manager
// used as KDM recipient), plus the assembly and verification of the two
// resulting trust chains.
package chain

import "fmt"

// Role identifies one of the four certificates in a hierarchy.
type Role string

const (
	// RoleRoot is the self-signed root authority.
	RoleRoot Role = "root"

	// RoleIntermediate is the subordinate authority signed by the root.
	RoleIntermediate Role = "intermediate"

	// RoleSigner is the CS leaf used for XML-signature verification.
	RoleSigner Role = "signer"

	// RoleTarget is the SM leaf used as a KDM recipient.
	RoleTarget Role = "target"
)

// Order returns the four roles in issuance order. Each non-root role is
// signed by the authority issued before it.
func Order() []Role {
	return []Role{RoleRoot, RoleIntermediate, RoleSigner, RoleTarget}
}

// Leaves returns the two terminal roles, one per chain bundle.
func Leaves() []Role {
	return []Role{RoleSigner, RoleTarget}
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleRoot, RoleIntermediate, RoleSigner, RoleTarget:
		return true
	}
	return false
}

// IsAuthority reports whether certificates of this role may sign others.
func (r Role) IsAuthority() bool {
	return r == RoleRoot || r == RoleIntermediate
}

// IssuedBy returns the role whose certificate signs this one.
// The root is self-signed and returns itself.
func (r Role) IssuedBy() Role {
	switch r {
	case RoleRoot:
		return RoleRoot
	case RoleIntermediate:
		return RoleRoot
	default:
		return RoleIntermediate
	}
}

// Depth is the distance from the root: 0 for the root itself, 1 for the
// intermediate, 2 for both leaves. Each certificate's validity is the root
// validity minus its depth in days, so no child outlives its parent.
func (r Role) Depth() int {
	switch r {
	case RoleRoot:
		return 0
	case RoleIntermediate:
		return 1
	default:
		return 2
	}
}

// CommonName returns the role-specific common name for a domain, per the
// SMPTE 430-2 naming convention used by cinema playback hardware.
func (r Role) CommonName(domain string) string {
	switch r {
	case RoleRoot:
		return ".ca0." + domain
	case RoleIntermediate:
		return ".ca1." + domain
	case RoleSigner:
		return "CS." + domain
	case RoleTarget:
		return "SM." + domain
	}
	return ""
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// ParseRole converts a string to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role: %q", s)
	}
	return r, nil
}
