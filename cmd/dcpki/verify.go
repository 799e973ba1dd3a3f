package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/remiblancher/cinema-pki/internal/audit"
	"github.com/remiblancher/cinema-pki/internal/chain"
	"github.com/remiblancher/cinema-pki/internal/store"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <domain>",
	Short: "Re-verify a generated hierarchy",
	Long: `Reload the certificates of a previously generated hierarchy and verify
both chain bundles incrementally: the root is checked as a self-signed
anchor, then each certificate against the already-validated prefix.

Per-certificate checks:
  - serial number within the hardware range
  - role extension profile (basicConstraints, keyUsage, key identifiers)
  - dnQualifier equals the SHA-1 thumbprint of the certificate's own key
  - issuer matches the parent subject, validity nested within the parent

Examples:
  dcpki verify example.org
  dcpki verify example.org --out /var/lib/dcpki`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(1)(cmd, args); err != nil {
			return err
		}
		return chain.ValidateDomain(args[0])
	},
	RunE:          runVerify,
	SilenceErrors: true,
}

var verifyOutDir string

func init() {
	verifyCmd.Flags().StringVar(&verifyOutDir, "out", "chains", "Directory holding generated hierarchies")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	domain := args[0]
	st := store.New(verifyOutDir)

	if !st.Exists(domain) {
		return fmt.Errorf("no hierarchy found for %s under %s", domain, verifyOutDir)
	}

	certs, err := chain.LoadCertificates(st, domain)
	if err != nil {
		return err
	}

	report, verifyErr := chain.BuildReport(domain, certs, time.Now().UTC())
	report.Render(cmd.OutOrStdout())

	for _, status := range report.Chains {
		_ = audit.LogChainVerified(domain, string(status.Leaf), status.Verified, status.Error)
	}

	return verifyErr
}
