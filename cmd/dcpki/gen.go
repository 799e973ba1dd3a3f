package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/remiblancher/cinema-pki/internal/chain"
	"github.com/remiblancher/cinema-pki/internal/profile"
	"github.com/remiblancher/cinema-pki/internal/store"
)

var genCmd = &cobra.Command{
	Use:   "gen <domain>",
	Short: "Generate the four-certificate hierarchy for a domain",
	Long: `Generate the SMPTE 430-2 certificate hierarchy for a domain.

Four certificates are issued in dependency order:
  root          self-signed authority        CN .ca0.<domain>
  intermediate  signed by the root           CN .ca1.<domain>
  signer        CS leaf, XML signatures      CN CS.<domain>
  target        SM leaf, KDM recipient       CN SM.<domain>

The keys, certificates, CSRs and the two assembled chain bundles
(root -> intermediate -> leaf) are written under the output directory,
and both chains are verified before the command reports success.

The domain must be a DNS-style name of at least two dot-separated labels.

Examples:
  # Generate under ./chains/example.org
  dcpki gen example.org

  # Custom output directory and encrypted private keys
  dcpki gen example.org --out /var/lib/dcpki --passphrase secret

  # Override the subject organization attributes
  dcpki gen example.org --org "Example Cinemas" --ou Operations

  # Issue with a custom profile
  dcpki gen example.org --profile smpte.yaml`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(1)(cmd, args); err != nil {
			return err
		}
		return chain.ValidateDomain(args[0])
	},
	RunE:          runGen,
	SilenceErrors: true,
}

var (
	genOutDir     string
	genProfile    string
	genOrg        string
	genOU         string
	genDays       int
	genPassphrase string
)

func init() {
	flags := genCmd.Flags()
	flags.StringVar(&genOutDir, "out", "chains", "Output directory for generated hierarchies")
	flags.StringVar(&genProfile, "profile", "", "Issuance profile file (YAML)")
	flags.StringVar(&genOrg, "org", "", "Subject organization (default: the domain)")
	flags.StringVar(&genOU, "ou", "", "Subject organizational unit (default: the organization)")
	flags.IntVar(&genDays, "days", 0, "Root certificate validity in days (default: from profile)")
	flags.StringVar(&genPassphrase, "passphrase", "", "Encrypt private keys with this passphrase")

	rootCmd.AddCommand(genCmd)
}

func runGen(cmd *cobra.Command, args []string) error {
	// Argument validation already passed; runtime failures should not
	// print usage.
	cmd.SilenceUsage = true

	domain := args[0]

	prof, err := loadProfile(genProfile)
	if err != nil {
		return err
	}
	if genOrg != "" {
		prof.Organization = genOrg
	}
	if genOU != "" {
		prof.OrganizationalUnit = genOU
	}
	if genDays > 0 {
		prof.RootValidityDays = genDays
	}

	b := chain.NewBuilder(store.New(genOutDir), prof)
	if genPassphrase != "" {
		b = b.WithPassphrase(genPassphrase)
	}

	result, err := b.Build(cmd.Context(), domain)
	if err != nil {
		// A verification failure still produced a report worth showing.
		if result != nil && result.Report != nil {
			result.Report.Render(cmd.OutOrStdout())
		}
		return err
	}

	result.Report.Render(cmd.OutOrStdout())
	fmt.Fprintf(cmd.OutOrStdout(), "\nhierarchy written to %s\n", store.New(genOutDir).DomainPath(domain))
	return nil
}

// loadProfile loads the profile file, or the built-in default when none is
// given.
func loadProfile(path string) (*profile.Profile, error) {
	if path == "" {
		return profile.Default(), nil
	}
	return profile.LoadFromFile(path)
}
