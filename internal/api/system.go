package api

import (
	"net/http"
	"path/filepath"
	"time"
)

// handleHealth reports process liveness and storage reachability. It never
// fails: a down database shows up in the payload, not in the status code,
// so monitors can tell "service down" from "storage down".
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "disconnected"
	if s.db != nil && s.db.HealthCheck(r.Context()) == nil {
		dbStatus = "connected"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"database":  dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   s.version,
	})
}

// handleStats returns basic storage statistics. Only the database file name
// is reported, never its full path.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	count, err := s.users.Count(r.Context())
	if err != nil {
		s.logger.Error("stats query failed", "error", err)
		writeInternalError(w, "failed to load stats")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalUsers": count,
		"database":   filepath.Base(s.db.Path()),
	})
}
