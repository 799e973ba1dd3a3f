package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// Gen Tests
// =============================================================================

func TestF_Gen_FullHierarchy(t *testing.T) {
	resetGenFlags()
	outDir := t.TempDir()

	output, err := executeCommand(rootCmd, "gen", "example.org", "--out", outDir)
	assertNoError(t, err)

	for _, want := range []string{
		"Certificate hierarchy for example.org",
		"CN=.ca0.example.org",
		"CN=.ca1.example.org",
		"CN=CS.example.org",
		"CN=SM.example.org",
		"chain signer: OK",
		"chain target: OK",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}

	// Artifacts on disk: keys, certs, chains; CSRs for non-root only.
	base := filepath.Join(outDir, "example.org")
	for _, rel := range []string{
		"private/root.key",
		"private/intermediate.key",
		"private/signer.key",
		"private/target.key",
		"certs/root.crt",
		"certs/intermediate.crt",
		"certs/signer.crt",
		"certs/target.crt",
		"csr/intermediate.csr",
		"csr/signer.csr",
		"csr/target.csr",
		"chains/signer-chain.pem",
		"chains/target-chain.pem",
		"index.txt",
	} {
		if _, err := os.Stat(filepath.Join(base, rel)); err != nil {
			t.Errorf("missing artifact %s: %v", rel, err)
		}
	}
	if _, err := os.Stat(filepath.Join(base, "csr/root.csr")); err == nil {
		t.Error("root has a CSR artifact")
	}

	// Verify and info work against the generated hierarchy.
	resetVerifyFlags()
	output, err = executeCommand(rootCmd, "verify", "example.org", "--out", outDir)
	assertNoError(t, err)
	if !strings.Contains(output, "chain signer: OK") {
		t.Errorf("verify output missing chain status:\n%s", output)
	}

	resetInfoFlags()
	output, err = executeCommand(rootCmd, "info", "example.org", "--out", outDir, "--json")
	assertNoError(t, err)
	if !strings.Contains(output, `"domain": "example.org"`) {
		t.Errorf("info --json output missing domain:\n%s", output)
	}

	// A second gen for the same domain must refuse.
	resetGenFlags()
	_, err = executeCommand(rootCmd, "gen", "example.org", "--out", outDir)
	assertError(t, err)
}

func TestF_Gen_MalformedDomain(t *testing.T) {
	tests := []string{
		"example",
		"",
		".example.org",
		"exa mple.org",
	}

	for _, domain := range tests {
		t.Run(domain, func(t *testing.T) {
			resetGenFlags()
			output, err := executeCommand(rootCmd, "gen", domain, "--out", t.TempDir())
			assertError(t, err)
			if !strings.Contains(output, "Usage:") {
				t.Errorf("malformed domain did not print usage:\n%s", output)
			}
		})
	}
}

func TestF_Gen_MissingDomain(t *testing.T) {
	resetGenFlags()
	output, err := executeCommand(rootCmd, "gen")
	assertError(t, err)
	if !strings.Contains(output, "Usage:") {
		t.Errorf("missing argument did not print usage:\n%s", output)
	}
}

func TestF_Gen_ExtraArguments(t *testing.T) {
	resetGenFlags()
	_, err := executeCommand(rootCmd, "gen", "example.org", "extra.org")
	assertError(t, err)
}

func TestF_Gen_BadProfile(t *testing.T) {
	resetGenFlags()
	profilePath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(profilePath, []byte("key_bits: 1024\n"), 0644); err != nil {
		t.Fatalf("writing profile: %v", err)
	}

	_, err := executeCommand(rootCmd, "gen", "example.org",
		"--out", t.TempDir(), "--profile", profilePath)
	assertError(t, err)
}

// =============================================================================
// Verify / Info Tests
// =============================================================================

func TestF_Verify_UnknownDomain(t *testing.T) {
	resetVerifyFlags()
	_, err := executeCommand(rootCmd, "verify", "missing.example.org", "--out", t.TempDir())
	assertError(t, err)
}

func TestF_Info_UnknownDomain(t *testing.T) {
	resetInfoFlags()
	_, err := executeCommand(rootCmd, "info", "missing.example.org", "--out", t.TempDir())
	assertError(t, err)
}
