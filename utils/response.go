package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"bhraman/apperr"
)

type M map[string]any

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("respond: encode payload failed: %v", err)
	}
}

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, M{"error": msg})
}

// RespondError is the single place handler errors become HTTP responses.
// Server-side failures are logged and reported with a generic message.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", r.Method, r.URL.Path, err)
	}
	RespondWithError(w, status, apperr.Message(err))
}

// DecodeJSON reads a JSON body into dst, reporting malformed input as a
// validation error.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperr.Invalid("", "request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Invalid("", "invalid JSON body")
	}
	return nil
}
