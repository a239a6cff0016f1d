package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mwhitfield/recordvault/internal/auth"
)

// handleListUsers returns all stored user records, newest first.
// Password hashes are excluded by the User JSON encoding.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.logger.Error("list users failed", "error", err)
		writeInternalError(w, "failed to list users")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users":   users,
		"total":   len(users),
		"message": fmt.Sprintf("retrieved %d users", len(users)),
	})
}

// handleGetUser returns a single user record by ID.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeNotFound(w, "user not found")
			return
		}
		s.logger.Error("get user failed", "error", err, "user_id", id)
		writeInternalError(w, "failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
