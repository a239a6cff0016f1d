package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Health check stays reachable even when the database is down.
	r.Get("/health", s.handleHealth)

	// API v1 routes — everything below touches the store.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireStorageMiddleware)

		// Credential endpoints (no token required)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		// Basic stats (no token required for monitoring)
		r.Get("/stats", s.handleStats)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", s.handleListUsers)
				r.Get("/{id}", s.handleGetUser)
			})
		})
	})

	return r
}
