package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/iho/ledgerbook/internal/adapter/http/dto"
	"github.com/iho/ledgerbook/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps a domain error to an HTTP response. Duplicate
// submissions carry the original transaction id in the body so callers can
// recover the outcome of their first attempt. Unexpected errors are logged
// and reported opaquely.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	var dup *domain.DuplicateTransactionError
	if errors.As(err, &dup) {
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{
			Error:                 message,
			Message:               err.Error(),
			OriginalTransactionID: dup.OriginalID,
		})
		return
	}

	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg(message)
		writeError(w, status, message, "internal error")
		return
	}

	writeError(w, status, message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateTransaction):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnbalancedTransaction):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrImmutableLedger):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrEmptyTransaction):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPrecisionExceeded):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCurrencyMismatch):
		return http.StatusBadRequest
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
