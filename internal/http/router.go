// Package http wires the chi router and request middleware.
package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"askdocs/internal/handlers"
	"askdocs/internal/memory"
	"askdocs/internal/rag"
	"askdocs/internal/retrieval"
	"askdocs/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Retriever handlers.Retriever
	Engine    rag.Engine
	Pipeline  handlers.Rebuilder
	Manager   *retrieval.Manager
	FactStore storage.FactStore
	Recorder  *memory.Recorder
	DB        *sql.DB
	SourceDir string
	TopK      int
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)
	r.Use(CORS)

	askHandler := handlers.NewAskHandler(deps.Retriever, deps.Engine, deps.Recorder, deps.TopK)
	reindexHandler := handlers.NewReindexHandler(deps.Pipeline, deps.Manager, deps.SourceDir)
	healthHandler := handlers.NewHealthHandler(deps.Manager, deps.DB)
	memoryHandler := handlers.NewMemoryHandler(deps.FactStore)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/ask", askHandler)
		r.Method(http.MethodPost, "/reindex", reindexHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Method(http.MethodGet, "/memory", memoryHandler)
	})

	return r
}
