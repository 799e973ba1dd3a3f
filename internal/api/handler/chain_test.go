package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/remiblancher/cinema-pki/internal/api/dto"
	"github.com/remiblancher/cinema-pki/internal/api/router"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	return router.New(&router.Config{
		Version:  "test",
		StoreDir: t.TempDir(),
	})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	h := testRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /health status = %d, want 200", rec.Code)
	}
	var health dto.HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&health); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if health.Status != "ok" || health.Version != "test" {
		t.Errorf("health = %+v", health)
	}

	rec = doJSON(t, h, http.MethodGet, "/ready", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /ready status = %d, want 200", rec.Code)
	}
}

func TestChainLifecycle(t *testing.T) {
	h := testRouter(t)

	// Nothing generated yet.
	rec := doJSON(t, h, http.MethodGet, "/api/v1/chains", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/v1/chains status = %d, want 200", rec.Code)
	}
	var list dto.ChainListResponse
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decoding list response: %v", err)
	}
	if len(list.Domains) != 0 {
		t.Errorf("initial domains = %v, want none", list.Domains)
	}

	// Build a hierarchy.
	rec = doJSON(t, h, http.MethodPost, "/api/v1/chains",
		dto.BuildChainRequest{Domain: "example.org"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/v1/chains status = %d, want 201: %s", rec.Code, rec.Body)
	}
	var built dto.BuildChainResponse
	if err := json.NewDecoder(rec.Body).Decode(&built); err != nil {
		t.Fatalf("decoding build response: %v", err)
	}
	if built.Domain != "example.org" {
		t.Errorf("Domain = %q, want %q", built.Domain, "example.org")
	}
	if len(built.Serials) != 4 {
		t.Errorf("Serials has %d entries, want 4", len(built.Serials))
	}
	if built.Report == nil || !built.Report.Verified() {
		t.Error("build response carries an unverified report")
	}

	// A rebuild for the same domain conflicts.
	rec = doJSON(t, h, http.MethodPost, "/api/v1/chains",
		dto.BuildChainRequest{Domain: "example.org"})
	if rec.Code != http.StatusConflict {
		t.Errorf("rebuild status = %d, want 409", rec.Code)
	}

	// The domain now appears in the listing.
	rec = doJSON(t, h, http.MethodGet, "/api/v1/chains", nil)
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decoding list response: %v", err)
	}
	if len(list.Domains) != 1 || list.Domains[0] != "example.org" {
		t.Errorf("domains = %v, want [example.org]", list.Domains)
	}

	// The report endpoint re-verifies from disk.
	rec = doJSON(t, h, http.MethodGet, "/api/v1/chains/example.org", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET report status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var report dto.ChainReportResponse
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decoding report response: %v", err)
	}
	if !report.Report.Verified() {
		t.Errorf("reloaded report not verified: %+v", report.Report.Chains)
	}

	// Bundles download as PEM.
	rec = doJSON(t, h, http.MethodGet, "/api/v1/chains/example.org/bundles/signer", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET bundle status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/x-pem-file" {
		t.Errorf("bundle Content-Type = %q", ct)
	}
	if got := strings.Count(rec.Body.String(), "BEGIN CERTIFICATE"); got != 3 {
		t.Errorf("bundle has %d certificates, want 3", got)
	}
}

func TestChainErrors(t *testing.T) {
	h := testRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"missing domain", http.MethodPost, "/api/v1/chains", dto.BuildChainRequest{}, http.StatusBadRequest},
		{"malformed domain", http.MethodPost, "/api/v1/chains", dto.BuildChainRequest{Domain: "example"}, http.StatusBadRequest},
		{"unknown hierarchy", http.MethodGet, "/api/v1/chains/missing.example.org", nil, http.StatusNotFound},
		{"unknown bundle", http.MethodGet, "/api/v1/chains/missing.example.org/bundles/signer", nil, http.StatusNotFound},
		{"authority bundle", http.MethodGet, "/api/v1/chains/missing.example.org/bundles/root", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, tt.method, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Errorf("%s %s status = %d, want %d: %s", tt.method, tt.path, rec.Code, tt.status, rec.Body)
			}
		})
	}
}
