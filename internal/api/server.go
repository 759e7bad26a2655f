package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dgallion1/docsearch/internal/config"
	"github.com/dgallion1/docsearch/internal/pipeline"
	"github.com/dgallion1/docsearch/internal/stats"
	"github.com/dgallion1/docsearch/internal/textindex"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docsearch.
type Server struct {
	router       chi.Router
	index        *textindex.Index
	orchestrator *pipeline.Orchestrator
	latency      *stats.Latency
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(index *textindex.Index, orch *pipeline.Orchestrator, latency *stats.Latency, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		index:        index,
		orchestrator: orch,
		latency:      latency,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/document", s.handleUpload)
		r.Get("/api/document/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/document", s.handleInfo)
		r.Get("/api/document/text", s.handleFullText)
		r.Get("/api/document/validate", s.handleValidate)

		r.With(s.timed("contains")).Get("/api/search", s.handleContains)
		r.With(s.timed("contains_any")).Post("/api/search/any", s.handleContainsAny)
		r.With(s.timed("context")).Get("/api/search/context", s.handleSearchContext)

		r.Get("/api/stats/search", s.handleSearchStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"loaded": s.index.Loaded(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
