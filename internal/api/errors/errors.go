// Package errors provides error handling and HTTP status code mapping.
package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/remiblancher/cinema-pki/internal/api/dto"
	"github.com/remiblancher/cinema-pki/internal/chain"
)

// Error codes for API responses.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeNotFound       = "NOT_FOUND"
	CodeAlreadyExists  = "ALREADY_EXISTS"
	CodeIssuance       = "ISSUANCE_FAILED"
	CodeDNEncoding     = "DN_ENCODING_ERROR"
	CodeChainVerify    = "CHAIN_VERIFICATION_FAILED"
	CodeCryptoError    = "CRYPTO_ERROR"
	CodeInternal       = "INTERNAL_ERROR"
)

// MapError maps an internal error to an HTTP status code and APIError.
func MapError(err error) (int, *dto.APIError) {
	if err == nil {
		return http.StatusOK, nil
	}

	var inputErr *chain.InputError
	if errors.As(err, &inputErr) {
		return http.StatusBadRequest, &dto.APIError{
			Code:    CodeInvalidRequest,
			Message: inputErr.Error(),
		}
	}

	var issErr *chain.IssuanceError
	if errors.As(err, &issErr) {
		return http.StatusUnprocessableEntity, &dto.APIError{
			Code:    CodeIssuance,
			Message: issErr.Error(),
			Details: map[string]string{"role": string(issErr.Role)},
		}
	}

	var dnErr *chain.DNEncodingError
	if errors.As(err, &dnErr) {
		return http.StatusUnprocessableEntity, &dto.APIError{
			Code:    CodeDNEncoding,
			Message: dnErr.Error(),
			Details: map[string]string{"attribute": dnErr.Attribute},
		}
	}

	var verErr *chain.VerificationError
	if errors.As(err, &verErr) {
		return http.StatusUnprocessableEntity, &dto.APIError{
			Code:    CodeChainVerify,
			Message: verErr.Error(),
			Details: map[string]string{
				"role":    string(verErr.Role),
				"subject": verErr.Subject,
			},
		}
	}

	var cryptoErr *chain.CryptoProviderError
	if errors.As(err, &cryptoErr) {
		return http.StatusInternalServerError, &dto.APIError{
			Code:    CodeCryptoError,
			Message: cryptoErr.Error(),
			Details: map[string]string{"operation": cryptoErr.Op},
		}
	}

	if strings.Contains(err.Error(), "already exists") {
		return http.StatusConflict, &dto.APIError{
			Code:    CodeAlreadyExists,
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, &dto.APIError{
		Code:    CodeInternal,
		Message: "An internal error occurred",
	}
}

// NewBadRequest creates a bad request error.
func NewBadRequest(message string) *dto.APIError {
	return &dto.APIError{
		Code:    CodeInvalidRequest,
		Message: message,
	}
}

// NewNotFound creates a not found error.
func NewNotFound(resource, id string) *dto.APIError {
	return &dto.APIError{
		Code:    CodeNotFound,
		Message: resource + " not found",
		Details: map[string]string{"id": id},
	}
}
