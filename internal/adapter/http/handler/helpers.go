package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/stockledger/internal/adapter/http/dto"
	"github.com/iho/stockledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes. Insufficient
// stock is 422 rather than 400: the request is well formed, the state
// just does not allow it. Conflicts are 409 and integrity breaks are
// 500; neither is the caller's fault.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrTransferNotFound),
		errors.Is(err, domain.ErrMovementNotFound),
		errors.Is(err, domain.ErrUnknownWarehouse),
		errors.Is(err, domain.ErrUnknownProduct):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusUnprocessableEntity
	case domain.IsConflict(err):
		return http.StatusConflict
	case domain.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseMovementID parses a movement ID path segment.
func parseMovementID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseInt64Query parses an int64 query parameter with a default value.
func parseInt64Query(r *http.Request, key string, defaultValue int64) int64 {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return defaultValue
	}
	return i
}
