package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmoralesc/actalyzer/internal/config"
	"github.com/dmoralesc/actalyzer/internal/llm"
	"github.com/dmoralesc/actalyzer/internal/pipeline"
	"github.com/dmoralesc/actalyzer/internal/store"
)

// Server is the HTTP API for the acta analysis service.
type Server struct {
	router       chi.Router
	processor    *pipeline.Processor
	orchestrator *pipeline.Orchestrator
	store        *store.Store
	llmClient    *llm.Client
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(processor *pipeline.Processor, orch *pipeline.Orchestrator, st *store.Store, llmClient *llm.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		processor:    processor,
		orchestrator: orch,
		store:        st,
		llmClient:    llmClient,
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
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/documents/analyze", s.handleAnalyze)
		r.Post("/api/documents/analyze/async", s.handleAnalyzeAsync)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)

		r.Get("/api/analyses", s.handleListAnalyses)
		r.Get("/api/analyses/{analysisID}", s.handleGetAnalysis)

		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok","service":"actalyzer"}`))
}
