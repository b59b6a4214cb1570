package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	catalog "github.com/fluxstack/catalog"
	"github.com/fluxstack/catalog/enrich"
)

// Server represents the API server
type Server struct {
	service     *catalog.Service
	enricher    *enrich.Service
	store       catalog.Store
	addr        string
	server      *http.Server
	mux         *http.ServeMux
	corsEnabled bool
	adminToken  string
}

// Config contains server configuration
type Config struct {
	Addr        string
	AdminToken  string
	CORSEnabled bool
}

// NewServer creates a new API server on top of an already-opened store.
func NewServer(config Config, store catalog.Store, enricher *enrich.Service) *Server {
	s := &Server{
		service:     catalog.NewService(store),
		enricher:    enricher,
		store:       store,
		addr:        config.Addr,
		mux:         http.NewServeMux(),
		corsEnabled: config.CORSEnabled,
		adminToken:  config.AdminToken,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         config.Addr,
		Handler:      otelhttp.NewHandler(s.middleware(s.mux), "catalog-api"),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// registerRoutes sets up all API routes
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/api/tools", s.handleTools)
	s.mux.HandleFunc("/api/tools/", s.handleTool) // Handles /api/tools/{id} and /api/tools/{id}/vote
	s.mux.HandleFunc("/api/assistant", s.handleAssistant)
	s.mux.HandleFunc("/api/submissions", s.handleSubmissions)
	s.mux.HandleFunc("/api/submissions/", s.handleSubmissionDecision) // Handles /api/submissions/{id}/approve|reject
	s.mux.HandleFunc("/api/enrich", s.handleEnrich)
}

// Handler returns the fully wrapped HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the API server
func (s *Server) Start() error {
	log.Printf("Starting API server on %s", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server and closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down API server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	return s.store.Close()
}

// middleware applies common middleware to all routes
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.corsEnabled {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Admin-Token")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
		}

		// Logging (skip health checks and metrics scrapes to reduce noise)
		quiet := r.URL.Path == "/health" || r.URL.Path == "/metrics"
		start := time.Now()
		if !quiet {
			log.Printf("%s %s", r.Method, r.URL.Path)
		}

		next.ServeHTTP(w, r)

		if !quiet {
			log.Printf("%s %s - completed in %v", r.Method, r.URL.Path, time.Since(start))
		}
	})
}

// isAdmin checks the shared-secret admin token. The comparison is constant
// time; an unset server token rejects everything.
func (s *Server) isAdmin(r *http.Request) bool {
	if s.adminToken == "" {
		return false
	}
	provided := r.Header.Get("X-Admin-Token")
	return subtle.ConstantTimeCompare([]byte(provided), []byte(s.adminToken)) == 1
}

// requireAdmin writes a 401 and returns false when the request lacks a valid
// admin token.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if !s.isAdmin(r) {
		respondError(w, http.StatusUnauthorized, "admin token required")
		return false
	}
	return true
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	tools, submissions, err := s.service.Counts(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"tools":       tools,
		"submissions": submissions,
		"time":        time.Now(),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondDomainError maps catalog errors onto HTTP statuses. Validation and
// not-found failures carry their specific reason; anything else is treated as
// the backend being unavailable and reported without internal detail.
func respondDomainError(w http.ResponseWriter, err error) {
	var validationErr *catalog.ValidationError
	var notFoundErr *catalog.NotFoundError
	switch {
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &notFoundErr):
		respondError(w, http.StatusNotFound, notFoundErr.Error())
	default:
		log.Printf("storage error: %v", err)
		respondError(w, http.StatusServiceUnavailable, "storage unavailable")
	}
}
