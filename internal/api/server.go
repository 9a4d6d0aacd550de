package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dgallion1/topicserve/internal/config"
	"github.com/dgallion1/topicserve/internal/importer"
	"github.com/dgallion1/topicserve/internal/stats"
	"github.com/dgallion1/topicserve/internal/store"
)

// Server is the HTTP API server for topicserve.
type Server struct {
	router      chi.Router
	store       *store.Store
	searchStats *stats.LatencyStats
	mcp         http.Handler
	log         *slog.Logger
	cfg         config.Config
}

// NewServer creates and configures the HTTP server. mcpHandler is mounted at
// /mcp when non-nil.
func NewServer(st *store.Store, searchStats *stats.LatencyStats, mcpHandler http.Handler, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store:       st,
		searchStats: searchStats,
		mcp:         mcpHandler,
		log:         log,
		cfg:         cfg,
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
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/api/document", s.handleGetDocument)
	r.Get("/api/topics", s.handleListTopics)
	r.Get("/api/topics/{id}", s.handleGetTopic)
	r.Get("/api/search", s.handleSearch)
	r.Get("/api/stats/search", s.handleSearchStats)

	if s.mcp != nil {
		r.Handle("/mcp", s.mcp)
	}

	// Authenticated endpoints.
	if s.cfg.WritesEnabled() {
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

			r.Put("/api/document", s.handleReplaceDocument)
			r.Post("/api/reload", s.handleReload)
			r.Post("/api/import", s.handleImport)
		})
	} else {
		s.log.Info("API_KEY not set, write endpoints disabled")
	}

	s.router = r
}

func (s *Server) importOptions() importer.Options {
	return importer.Options{PDFFallbackPdftotext: s.cfg.PDFFallbackPdftotext}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
