// Package service provides business logic for the REST API.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/remiblancher/cinema-pki/internal/api/dto"
	"github.com/remiblancher/cinema-pki/internal/chain"
	"github.com/remiblancher/cinema-pki/internal/profile"
	"github.com/remiblancher/cinema-pki/internal/store"
)

// ErrHierarchyNotFound reports a request for a domain with no generated
// hierarchy.
var ErrHierarchyNotFound = errors.New("hierarchy not found")

// ChainService provides hierarchy operations for the REST API.
type ChainService struct {
	baseDir string
	profile *profile.Profile
}

// NewChainService creates a new ChainService rooted at baseDir.
func NewChainService(baseDir string, prof *profile.Profile) *ChainService {
	if prof == nil {
		prof = profile.Default()
	}
	return &ChainService{baseDir: baseDir, profile: prof}
}

// Build generates the full hierarchy for the requested domain.
func (s *ChainService) Build(ctx context.Context, req *dto.BuildChainRequest) (*dto.BuildChainResponse, error) {
	prof := *s.profile
	if req.Organization != "" {
		prof.Organization = req.Organization
	}
	if req.OrganizationalUnit != "" {
		prof.OrganizationalUnit = req.OrganizationalUnit
	}
	if req.ValidityDays > 0 {
		prof.RootValidityDays = req.ValidityDays
	}

	st := store.New(s.baseDir)
	b := chain.NewBuilder(st, &prof)
	if req.Passphrase != "" {
		b = b.WithPassphrase(req.Passphrase)
	}

	result, err := b.Build(ctx, req.Domain)
	if err != nil {
		return nil, err
	}

	serials := make(map[string]string, len(result.Serials))
	for role, serial := range result.Serials {
		serials[string(role)] = serial.String()
	}

	return &dto.BuildChainResponse{
		Domain:  result.Domain,
		Serials: serials,
		Report:  result.Report,
		Path:    st.DomainPath(result.Domain),
	}, nil
}

// List returns the domains with a generated hierarchy, sorted.
func (s *ChainService) List(ctx context.Context) (*dto.ChainListResponse, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return &dto.ChainListResponse{Domains: []string{}}, nil
		}
		return nil, fmt.Errorf("failed to read store directory: %w", err)
	}

	st := store.New(s.baseDir)
	domains := []string{}
	for _, entry := range entries {
		if entry.IsDir() && st.Exists(entry.Name()) {
			domains = append(domains, entry.Name())
		}
	}
	sort.Strings(domains)

	return &dto.ChainListResponse{Domains: domains}, nil
}

// Report reloads and re-verifies the hierarchy of a domain.
func (s *ChainService) Report(ctx context.Context, domain string) (*dto.ChainReportResponse, error) {
	if err := chain.ValidateDomain(domain); err != nil {
		return nil, err
	}

	st := store.New(s.baseDir)
	if !st.Exists(domain) {
		return nil, fmt.Errorf("%w for %s", ErrHierarchyNotFound, domain)
	}

	certs, err := chain.LoadCertificates(st, domain)
	if err != nil {
		return nil, err
	}

	// A verification failure is not an API error: the report carries the
	// per-chain failure reasons for the caller to inspect.
	report, _ := chain.BuildReport(domain, certs, time.Now().UTC())

	return &dto.ChainReportResponse{Domain: domain, Report: report}, nil
}

// Bundle returns the persisted PEM chain bundle for a leaf role.
func (s *ChainService) Bundle(ctx context.Context, domain, leaf string) ([]byte, error) {
	if err := chain.ValidateDomain(domain); err != nil {
		return nil, err
	}

	role, err := chain.ParseRole(leaf)
	if err != nil || role.IsAuthority() {
		return nil, &chain.InputError{Msg: fmt.Sprintf("%q is not a leaf role", leaf)}
	}

	st := store.New(s.baseDir)
	if !st.Exists(domain) {
		return nil, fmt.Errorf("%w for %s", ErrHierarchyNotFound, domain)
	}

	return st.LoadChain(domain, leaf)
}
