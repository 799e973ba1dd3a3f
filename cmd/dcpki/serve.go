package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/remiblancher/cinema-pki/internal/api/server"
)

// Serve command flags
var (
	servePort     int
	serveHost     string
	serveStoreDir string
	serveProfile  string
	serveTLSCert  string
	serveTLSKey   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the REST API server for hierarchy generation and inspection.

Endpoints:
  GET  /health                                - Health check
  GET  /ready                                 - Readiness check
  POST /api/v1/chains                         - Generate a hierarchy
  GET  /api/v1/chains                         - List hierarchies
  GET  /api/v1/chains/{domain}                - Hierarchy report
  GET  /api/v1/chains/{domain}/bundles/{leaf} - PEM chain bundle

Environment variables:
  DCPKI_PORT       Port to listen on
  DCPKI_STORE_DIR  Directory holding generated hierarchies
  DCPKI_TLS_CERT   TLS certificate file
  DCPKI_TLS_KEY    TLS private key file

Examples:
  # Start on the default port
  dcpki serve --store-dir ./chains

  # Start with TLS
  dcpki serve --port 8443 --tls-cert server.crt --tls-key server.key`,
	RunE:          runServe,
	SilenceErrors: true,
}

func init() {
	flags := serveCmd.Flags()
	flags.IntVar(&servePort, "port", 0, "Port to listen on (default: 8443)")
	flags.StringVar(&serveHost, "host", "", "Host to bind to (default: all interfaces)")
	flags.StringVar(&serveStoreDir, "store-dir", "", "Directory holding generated hierarchies (default: chains)")
	flags.StringVar(&serveProfile, "profile", "", "Issuance profile file (YAML)")
	flags.StringVar(&serveTLSCert, "tls-cert", "", "TLS certificate file")
	flags.StringVar(&serveTLSKey, "tls-key", "", "TLS private key file")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	applyServeEnvVars()

	prof, err := loadProfile(serveProfile)
	if err != nil {
		return err
	}

	cfg := server.DefaultConfig()
	if servePort != 0 {
		cfg.Port = servePort
	}
	cfg.Host = serveHost
	if serveStoreDir != "" {
		cfg.StoreDir = serveStoreDir
	}
	cfg.Profile = prof
	cfg.TLSCert = serveTLSCert
	cfg.TLSKey = serveTLSKey

	return server.New(cfg, version).Start()
}

func applyServeEnvVars() {
	if servePort == 0 {
		if v := os.Getenv("DCPKI_PORT"); v != "" {
			if p, err := strconv.Atoi(v); err == nil {
				servePort = p
			}
		}
	}
	if serveStoreDir == "" {
		serveStoreDir = os.Getenv("DCPKI_STORE_DIR")
	}
	if serveTLSCert == "" {
		serveTLSCert = os.Getenv("DCPKI_TLS_CERT")
	}
	if serveTLSKey == "" {
		serveTLSKey = os.Getenv("DCPKI_TLS_KEY")
	}
}
