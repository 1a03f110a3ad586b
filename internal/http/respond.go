// Package http provides the JSON API server and handlers.
//
// This file implements the response writing helpers shared by all
// handlers: JSON encoding and the mapping from domain errors to HTTP
// status codes.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Message string `json:"message"`
}

// writeJSON encodes v with the given status. Encoding failures are logged
// rather than surfaced; headers are already on the wire by then.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "Response encoding failed",
			applog.FieldError, err, applog.FieldPath, r.URL.Path)
	}
}

// writeError maps domain errors onto the API's error taxonomy: NotFound,
// Unauthorized (ownership mismatch), Validation, and a generic Internal
// for everything else. Internal errors never leak their cause to clients.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, r, http.StatusNotFound, errorBody{Message: "not found"})
	case errors.Is(err, core.ErrUnauthorized):
		writeJSON(w, r, http.StatusUnauthorized, errorBody{Message: "not authorized"})
	case errors.Is(err, core.ErrUsernameTaken):
		writeJSON(w, r, http.StatusConflict, errorBody{Message: err.Error()})
	case isValidationError(err):
		writeJSON(w, r, http.StatusUnprocessableEntity, errorBody{Message: err.Error()})
	default:
		slog.ErrorContext(r.Context(), "Internal error",
			applog.FieldError, err, applog.FieldPath, r.URL.Path)
		writeJSON(w, r, http.StatusInternalServerError, errorBody{Message: "internal server error"})
	}
}

// writeValidationError reports a 422 with the given message.
func writeValidationError(w http.ResponseWriter, r *http.Request, msg string) {
	writeJSON(w, r, http.StatusUnprocessableEntity, errorBody{Message: msg})
}

// writeBadRequest reports a 400, used for undecodable request bodies.
func writeBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	writeJSON(w, r, http.StatusBadRequest, errorBody{Message: msg})
}

var validationErrors = []error{
	core.ErrInvalidAmount,
	core.ErrInvalidCategory,
	core.ErrInvalidSource,
	core.ErrInvalidDueDay,
	core.ErrEmptyTitle,
	core.ErrEmptyUsername,
	core.ErrInvalidDate,
}

func isValidationError(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
