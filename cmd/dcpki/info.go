package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/remiblancher/cinema-pki/internal/chain"
	"github.com/remiblancher/cinema-pki/internal/store"
)

var infoCmd = &cobra.Command{
	Use:   "info <domain>",
	Short: "Show the certificates of a generated hierarchy",
	Long: `Show subject, issuer, serial, validity and thumbprint of each
certificate in a generated hierarchy, plus the current verification status
of both chain bundles.

Unlike verify, info always exits successfully; it reports a broken chain
without failing.

Examples:
  dcpki info example.org
  dcpki info example.org --json`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(1)(cmd, args); err != nil {
			return err
		}
		return chain.ValidateDomain(args[0])
	},
	RunE:          runInfo,
	SilenceErrors: true,
}

var (
	infoOutDir string
	infoJSON   bool
)

func init() {
	infoCmd.Flags().StringVar(&infoOutDir, "out", "chains", "Directory holding generated hierarchies")
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "Output the report as JSON")

	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	domain := args[0]
	st := store.New(infoOutDir)

	if !st.Exists(domain) {
		return fmt.Errorf("no hierarchy found for %s under %s", domain, infoOutDir)
	}

	certs, err := chain.LoadCertificates(st, domain)
	if err != nil {
		return err
	}

	report, _ := chain.BuildReport(domain, certs, time.Now().UTC())

	if infoJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	report.Render(cmd.OutOrStdout())
	return nil
}
