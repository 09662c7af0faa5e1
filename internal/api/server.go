package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/apidoc/internal/config"
	"github.com/dgallion1/apidoc/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for apidoc.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
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

	// Rendered documentation is public read-only.
	r.Handle("/docs/*", http.StripPrefix("/docs/", http.FileServer(http.Dir(s.cfg.OutputDir))))

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/render", s.handleRender)
		r.Get("/api/render/{jobID}/status", s.handleRenderStatus)
		r.Get("/api/stats/render", s.handleRenderStats)

		r.Get("/api/modules", s.handleListModules)
		r.Get("/api/modules/{module}", s.handleModuleDetail)
		r.Get("/api/symbols", s.handleSymbolLookup)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
