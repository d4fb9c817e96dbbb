// Package handler holds the JSON request and response helpers shared by the
// endpoint handlers.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// Decode reads the request body as JSON into v.
func Decode(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("handler: reading request body: %w", err)
	}
	if len(body) == 0 {
		return errors.New("handler: empty request body")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("handler: unmarshalling request body: %w", err)
	}
	return nil
}

// RespondJSON writes v as the JSON response body with the given status.
func RespondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.ErrorContext(r.Context(), "handler: marshalling response", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// RespondError writes an error response with the given status.
func RespondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	RespondJSON(w, r, status, errorResponse{Error: msg})
}
