// Package httpx holds the JSON response helpers shared by the API handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/wolfman30/primer-realty/internal/validation"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Retryable bool              `json:"retryable,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// WriteJSON encodes payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError writes {"error": msg}.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg})
}

// WriteRetryable writes an error the client may retry unchanged.
func WriteRetryable(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg, Retryable: true})
}

// WriteValidation writes 422 with field messages when err carries them and
// reports whether it handled the error.
func WriteValidation(w http.ResponseWriter, err error) bool {
	var verrs *validation.Errors
	if !errors.As(err, &verrs) {
		return false
	}
	WriteJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error:  "validation failed",
		Fields: verrs.Fields,
	})
	return true
}

// DecodeJSON reads a JSON request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
