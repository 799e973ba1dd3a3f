// Command dcpki generates and verifies SMPTE 430-2 digital cinema
// certificate hierarchies.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/remiblancher/cinema-pki/internal/audit"
)

// Build-time variables (injected by GoReleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var auditLogPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dcpki",
	Short: "Digital cinema PKI - SMPTE 430-2 certificate hierarchies",
	Long: `dcpki generates the certificate hierarchy a digital cinema installation
needs: a self-signed root authority, an intermediate authority and two leaf
certificates - the CS content signer used for XML signatures and the SM
security manager used as KDM recipient.

Each certificate carries the SMPTE 430-2 profile: RSA 2048 keys, SHA-256
signatures, role-specific basicConstraints and keyUsage extensions, and a
dnQualifier equal to the base64 SHA-1 thumbprint of its own public key.

Examples:
  # Generate the full hierarchy for a domain
  dcpki gen example.org

  # Generate with encrypted private keys and a custom organization
  dcpki gen example.org --org "Example Cinemas" --passphrase secret

  # Re-verify a previously generated hierarchy
  dcpki verify example.org

  # Start the REST API server
  dcpki serve --port 8443 --store-dir ./chains`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Check for audit log path from environment if not set via flag
		if auditLogPath == "" {
			auditLogPath = os.Getenv("DCPKI_AUDIT_LOG")
		}

		if auditLogPath != "" {
			if err := audit.InitFile(auditLogPath); err != nil {
				return fmt.Errorf("failed to initialize audit log: %w", err)
			}
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return audit.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&auditLogPath, "audit-log", "",
		"Path to audit log file (or set DCPKI_AUDIT_LOG env var)")
}
