package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mwhitfield/recordvault/internal/auth"
)

// registerRequest is the request body for POST /auth/register.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// loginRequest is the request body for POST /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the response body for successful register and login calls.
type authResponse struct {
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    *auth.User `json:"user"`
}

// handleRegister creates a new credential record and returns a session token.
//
// Duplicates are checked both before the insert (for a clean 409) and at the
// UNIQUE constraints (so a concurrent register of the same identity cannot
// slip through the gap).
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" || req.FullName == "" {
		writeBadRequest(w, "all fields are required")
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		writeBadRequest(w, "password must be at least 6 characters")
		return
	}
	if !auth.IsValidUsername(req.Username) {
		writeBadRequest(w, "username may only contain letters, digits, dots, underscores, and hyphens")
		return
	}

	ctx := r.Context()

	// Pre-insert check gives the common case a clean answer.
	_, err := s.users.FindByEmailOrUsername(ctx, req.Email, req.Username)
	switch {
	case err == nil:
		writeConflict(w, auth.ErrDuplicateUser.Error())
		return
	case !errors.Is(err, auth.ErrUserNotFound):
		s.logger.Error("duplicate lookup failed", "error", err)
		writeInternalError(w, "registration failed")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("password hashing failed", "error", err)
		writeInternalError(w, "registration failed")
		return
	}

	user := &auth.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, auth.ErrDuplicateUser) {
			// Lost the race against a concurrent register.
			writeConflict(w, auth.ErrDuplicateUser.Error())
			return
		}
		s.logger.Error("user creation failed", "error", err)
		writeInternalError(w, "registration failed")
		return
	}

	token, err := auth.IssueToken(user, s.secCfg.JWT.Secret, s.tokenTTL)
	if err != nil {
		s.logger.Error("token issue failed", "error", err, "user_id", user.ID)
		writeInternalError(w, "registration failed")
		return
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)

	writeJSON(w, http.StatusCreated, authResponse{
		Message: "user registered successfully",
		Token:   token,
		User:    user,
	})
}

// handleLogin authenticates a credential pair and returns a session token.
//
// Unknown email and wrong password produce the same response, so the
// endpoint cannot be used to enumerate registered accounts.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeBadRequest(w, "email and password are required")
		return
	}

	user, err := s.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeUnauthorized(w, auth.ErrInvalidCredentials.Error())
			return
		}
		s.logger.Error("login lookup failed", "error", err)
		writeInternalError(w, "login failed")
		return
	}

	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		writeUnauthorized(w, auth.ErrInvalidCredentials.Error())
		return
	}

	token, err := auth.IssueToken(user, s.secCfg.JWT.Secret, s.tokenTTL)
	if err != nil {
		s.logger.Error("token issue failed", "error", err, "user_id", user.ID)
		writeInternalError(w, "login failed")
		return
	}

	s.logger.Info("user logged in", "user_id", user.ID, "username", user.Username)

	writeJSON(w, http.StatusOK, authResponse{
		Message: "login successful",
		Token:   token,
		User:    user,
	})
}
