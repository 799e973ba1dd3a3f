package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/remiblancher/cinema-pki/internal/api/dto"
	apierrors "github.com/remiblancher/cinema-pki/internal/api/errors"
	"github.com/remiblancher/cinema-pki/internal/api/service"
)

// ChainHandler handles certificate hierarchy HTTP requests.
type ChainHandler struct {
	service *service.ChainService
}

// NewChainHandler creates a new ChainHandler.
func NewChainHandler(chainService *service.ChainService) *ChainHandler {
	return &ChainHandler{service: chainService}
}

// Build handles POST /api/v1/chains
func (h *ChainHandler) Build(w http.ResponseWriter, r *http.Request) {
	var req dto.BuildChainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, &dto.APIError{
			Code:    apierrors.CodeInvalidRequest,
			Message: "Invalid JSON request body",
			Details: map[string]string{"error": err.Error()},
		})
		return
	}

	if req.Domain == "" {
		respondError(w, http.StatusBadRequest, apierrors.NewBadRequest("domain is required"))
		return
	}

	resp, err := h.service.Build(r.Context(), &req)
	if err != nil {
		status, apiErr := apierrors.MapError(err)
		respondError(w, status, apiErr)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// List handles GET /api/v1/chains
func (h *ChainHandler) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.List(r.Context())
	if err != nil {
		status, apiErr := apierrors.MapError(err)
		respondError(w, status, apiErr)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/chains/{domain}
func (h *ChainHandler) Get(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	if domain == "" {
		respondError(w, http.StatusBadRequest, apierrors.NewBadRequest("domain is required"))
		return
	}

	resp, err := h.service.Report(r.Context(), domain)
	if err != nil {
		if errors.Is(err, service.ErrHierarchyNotFound) {
			respondError(w, http.StatusNotFound, apierrors.NewNotFound("hierarchy", domain))
			return
		}
		status, apiErr := apierrors.MapError(err)
		respondError(w, status, apiErr)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Bundle handles GET /api/v1/chains/{domain}/bundles/{leaf}
func (h *ChainHandler) Bundle(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	leaf := chi.URLParam(r, "leaf")

	bundle, err := h.service.Bundle(r.Context(), domain, leaf)
	if err != nil {
		if errors.Is(err, service.ErrHierarchyNotFound) {
			respondError(w, http.StatusNotFound, apierrors.NewNotFound("hierarchy", domain))
			return
		}
		status, apiErr := apierrors.MapError(err)
		respondError(w, status, apiErr)
		return
	}

	w.Header().Set("Content-Type", "application/x-pem-file")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(bundle)
}
