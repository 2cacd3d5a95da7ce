package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/readmedraft/readmed/internal/config"
	"github.com/readmedraft/readmed/internal/draft"
	"github.com/readmedraft/readmed/internal/pipeline"
	"github.com/readmedraft/readmed/internal/storage"
	"github.com/readmedraft/readmed/internal/templates"
)

// Server is the HTTP API server for readmed.
type Server struct {
	router       chi.Router
	store        *draft.Store
	orchestrator *pipeline.Orchestrator
	catalog      *templates.Catalog
	backend      storage.Backend
	renderer     goldmark.Markdown
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(store *draft.Store, orch *pipeline.Orchestrator, catalog *templates.Catalog, backend storage.Backend, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store:        store,
		orchestrator: orch,
		catalog:      catalog,
		backend:      backend,
		renderer:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
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

		r.Get("/api/draft", s.handleGetDraft)
		r.Put("/api/draft", s.handleSetDraft)
		r.Post("/api/draft/reset", s.handleResetDraft)
		r.Post("/api/draft/save", s.handleSaveDraft)
		r.Post("/api/draft/save-status/reset", s.handleResetSaveStatus)

		r.Post("/api/draft/sections", s.handleAddSection)
		r.Patch("/api/draft/sections/{sectionID}", s.handleUpdateSection)
		r.Delete("/api/draft/sections/{sectionID}", s.handleDeleteSection)

		r.Post("/api/draft/selections/{sectionID}", s.handleToggleSelection)
		r.Put("/api/draft/selections", s.handleReorderSelections)
		r.Put("/api/draft/title", s.handleSetTitle)

		r.Post("/api/draft/markdown", s.handleSyncMarkdown)
		r.Get("/api/draft/markdown", s.handleExportMarkdown)
		r.Get("/api/draft/preview", s.handlePreview)

		r.Get("/api/templates", s.handleListTemplates)

		r.Get("/api/settings", s.handleGetSettings)
		r.Put("/api/settings", s.handlePutSettings)

		r.Post("/api/import", s.handleImport)
		r.Get("/api/import/{jobID}/status", s.handleImportStatus)
		r.Post("/api/import/{jobID}/apply", s.handleImportApply)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
