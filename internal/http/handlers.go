// This file holds the request decoding helpers and the auth endpoints.
package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/core"
)

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, core.ErrNotFound
	}
	return id, nil
}

// requestUser extracts the authenticated user id; the auth middleware
// guarantees it is present on protected routes.
func requestUser(r *http.Request) (int64, error) {
	return auth.UserIDFromContext(r.Context())
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}

// sanitize trims whitespace and strips control characters from user text.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}
	req.Username = sanitize(req.Username)
	if req.Username == "" {
		writeValidationError(w, r, core.ErrEmptyUsername.Error())
		return
	}
	if len(req.Password) < 8 {
		writeValidationError(w, r, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user := core.User{Username: req.Username, PasswordHash: hash}
	if err := user.Validate(); err != nil {
		writeValidationError(w, r, err.Error())
		return
	}
	if err := s.store.CreateUser(r.Context(), &user); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := s.auth.IssueToken(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, tokenResponse{Token: token, UserID: user.ID, Username: user.Username})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), sanitize(req.Username))
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		// Same response for unknown user and bad password.
		writeJSON(w, r, http.StatusUnauthorized, errorBody{Message: "invalid credentials"})
		return
	}

	token, err := s.auth.IssueToken(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, tokenResponse{Token: token, UserID: user.ID, Username: user.Username})
}

// zeroTime stands in for "no date given" when a field is optional.
var zeroTime time.Time

// parseDate accepts RFC 3339 or plain yyyy-mm-dd; empty input falls back
// to the given default.
func parseDate(raw string, fallback time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, core.ErrInvalidDate
}
