package chain

import "testing"

func TestOrder(t *testing.T) {
	want := []Role{RoleRoot, RoleIntermediate, RoleSigner, RoleTarget}
	got := Order()
	if len(got) != len(want) {
		t.Fatalf("Order() returned %d roles, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Order()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRole_IssuedBy(t *testing.T) {
	tests := []struct {
		role   Role
		issuer Role
	}{
		{RoleRoot, RoleRoot},
		{RoleIntermediate, RoleRoot},
		{RoleSigner, RoleIntermediate},
		{RoleTarget, RoleIntermediate},
	}
	for _, tt := range tests {
		if got := tt.role.IssuedBy(); got != tt.issuer {
			t.Errorf("IssuedBy(%s) = %s, want %s", tt.role, got, tt.issuer)
		}
	}
}

func TestRole_Depth(t *testing.T) {
	tests := []struct {
		role  Role
		depth int
	}{
		{RoleRoot, 0},
		{RoleIntermediate, 1},
		{RoleSigner, 2},
		{RoleTarget, 2},
	}
	for _, tt := range tests {
		if got := tt.role.Depth(); got != tt.depth {
			t.Errorf("Depth(%s) = %d, want %d", tt.role, got, tt.depth)
		}
	}
}

func TestRole_IsAuthority(t *testing.T) {
	for _, role := range []Role{RoleRoot, RoleIntermediate} {
		if !role.IsAuthority() {
			t.Errorf("IsAuthority(%s) = false, want true", role)
		}
	}
	for _, role := range Leaves() {
		if role.IsAuthority() {
			t.Errorf("IsAuthority(%s) = true, want false", role)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, role := range Order() {
		got, err := ParseRole(string(role))
		if err != nil {
			t.Errorf("ParseRole(%q) error = %v", role, err)
		}
		if got != role {
			t.Errorf("ParseRole(%q) = %s", role, got)
		}
	}

	if _, err := ParseRole("leaf"); err == nil {
		t.Error("ParseRole() accepted an unknown role")
	}
}
