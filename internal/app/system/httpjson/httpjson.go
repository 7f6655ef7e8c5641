// internal/app/system/httpjson/httpjson.go
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stampahq/stampa/internal/app/system/apperr"
)

// errorResponse is the uniform JSON error envelope. Only the user-facing
// message crosses the boundary; underlying causes stay in the logs.
type errorResponse struct {
	Error string `json:"error"`
}

// Write encodes v as the JSON response body with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err onto the error envelope. Known kinds keep their
// message and mapped status; anything else is reported as an opaque
// internal error.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		Write(w, appErr.Kind.HTTPStatus(), errorResponse{Error: appErr.Message})
		return
	}
	Write(w, http.StatusInternalServerError, errorResponse{Error: "an internal error occurred"})
}

// WriteErrorMessage reports a fixed message with an explicit status.
func WriteErrorMessage(w http.ResponseWriter, status int, message string) {
	Write(w, status, errorResponse{Error: message})
}

// Decode parses the request body into dst, reporting malformed JSON as an
// InvalidForm error.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Wrap(apperr.InvalidForm, err, "invalid request body")
	}
	return nil
}
