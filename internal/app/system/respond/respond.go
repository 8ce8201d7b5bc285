// Package respond writes JSON API responses.
package respond

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/dalemusser/deptnews/internal/app/system/limits"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Message string `json:"message"`
}

// JSON writes v as a JSON body with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"message": msg} with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Message: msg})
}

// DecodeJSON decodes a JSON request body into v, rejecting unknown fields.
// Bodies beyond limits.MaxJSONBody are truncated and fail to decode.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, limits.MaxJSONBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
