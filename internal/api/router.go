package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// healthCheckTimeout bounds the database ping behind /api/health.
const healthCheckTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeKO(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeKO(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/users", s.handleCreateUser)
		r.Post("/auth", s.handleLogin)

		r.Route("/users/{userId}", func(r chi.Router) {
			session := r.With(s.requireAccount)

			session.Get("/", s.handleGetUser)
			session.Patch("/", s.handleUpdateUser)
			session.Delete("/", s.handleDeleteUser)

			r.Route("/arduinos", func(r chi.Router) {
				session := r.With(s.requireAccount)

				session.Get("/", s.handleListDevices)
				session.Post("/", s.handleAddDevice)

				r.Route("/{arduId}", func(r chi.Router) {
					session := r.With(s.requireAccount)

					session.Get("/", s.handleGetDevice)
					session.Patch("/", s.handleUpdateDevice)
					session.Delete("/", s.handleRemoveDevice)

					// Device-side ingestion, no session
					r.Post("/data", s.handleAppendSample)
					r.Get("/data/stream", s.handleSampleStream)

					session.Get("/data", s.handleListSamples)
					session.Delete("/data", s.handleClearSamples)

					session.Get("/control", s.handleControl)
					session.Get("/control/pin", s.handleSetPin)
				})
			})
		})
	})

	return r
}

// handleHealth reports the server version and database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := s.db.HealthCheck(ctx); err != nil {
		s.logger.Warn("health check failed", "error", err)
		writeKO(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	writeOK(w, http.StatusOK, map[string]any{
		"version": s.version,
	})
}
