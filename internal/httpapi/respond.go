// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/questlog/questlog/internal/auth"
	"github.com/questlog/questlog/internal/game"
	"github.com/questlog/questlog/pkg/errutil"
)

// envelope is the standard /api/* response wrapper.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // nothing sensible to do when the client is gone
	json.NewEncoder(w).Encode(v)
}

// writeData writes a success envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// writeError writes an error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}

// writeInternalError writes the fixed 500 body. The shape is flat, not the
// envelope.
func writeInternalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}

// writeRouteNotFound writes the fixed body for unmatched routes. The shape
// is flat, not the envelope.
func writeRouteNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Resource not found"})
}

// writeDomainError maps a domain error to its HTTP response. entity names
// the resource for 404 messages ("Player not found" etc). Unrecognized
// errors are logged and reduced to the fixed 500 body.
func writeDomainError(w http.ResponseWriter, err error, entity string) {
	switch {
	case errors.Is(err, game.ErrNotFound):
		writeError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, game.ErrConflict):
		writeError(w, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, game.ErrValidation):
		writeError(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, "Admin privileges required")
	default:
		errutil.LogError(slog.Default(), "request failed", err)
		writeInternalError(w)
	}
}

// validationMessage strips the wrapped sentinel from a validation error so
// only the human-readable part reaches the client.
func validationMessage(err error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+game.ErrValidation.Error())
	if msg == "" || msg == game.ErrValidation.Error() {
		return "Invalid input"
	}
	return msg
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// pathULID parses the named path segment as a ULID.
func pathULID(r *http.Request, name string) (ulid.ULID, bool) {
	id, err := ulid.Parse(r.PathValue(name))
	return id, err == nil
}
