package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

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

// writeDomainError writes err with the status its kind maps to.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(mapDomainError(err))
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Kind:    string(domain.KindOf(err)),
		Message: err.Error(),
	})
}

// mapDomainError maps domain error kinds to HTTP status codes.
func mapDomainError(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindInsufficientFunds:
		return http.StatusUnprocessableEntity
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindDuplicateUTR, domain.KindConflict:
		return http.StatusConflict
	case domain.KindPersistence:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeRequest decodes a JSON body into dst and validates it. Failures
// are written to w and reported as false.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}

	if err := dto.Validate(dst); err != nil {
		writeDomainError(w, "invalid request", err)
		return false
	}

	return true
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
