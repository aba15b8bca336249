package http

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"notebase/internal/handlers"
	"notebase/internal/ingest"
	"notebase/internal/rag"
	"notebase/internal/search"
	"notebase/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	DB          *sql.DB
	Items       storage.ItemStore
	Notebooks   storage.NotebookStore
	Usage       storage.UsageStore
	Ingest      *ingest.Service
	Ranker      *search.Ranker
	Engine      *rag.Engine
	CheckVector func(ctx context.Context) error
}

// NewRouter creates the HTTP router with all routes mounted.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	itemHandler := handlers.NewItemHandler(deps.Ingest, deps.Items)
	searchHandler := handlers.NewSearchHandler(deps.Ranker)
	notebookHandler := handlers.NewNotebookHandler(deps.Notebooks, deps.Items, deps.Engine)
	usageHandler := handlers.NewUsageHandler(deps.Usage)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.CheckVector)

	r.Route("/api", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Post("/", itemHandler.Create)
			r.Post("/upload", itemHandler.Upload)
			r.Post("/scrape", itemHandler.Scrape)
			r.Get("/", itemHandler.List)
			r.Get("/{id}", itemHandler.Get)
			r.Delete("/{id}", itemHandler.Delete)
		})

		r.Post("/search", searchHandler.Search)

		r.Route("/notebooks", func(r chi.Router) {
			r.Post("/", notebookHandler.Create)
			r.Get("/", notebookHandler.List)
			r.Get("/{id}", notebookHandler.Get)
			r.Put("/{id}", notebookHandler.Update)
			r.Delete("/{id}", notebookHandler.Delete)
			r.Post("/{id}/items/{itemID}", notebookHandler.AddItem)
			r.Delete("/{id}/items/{itemID}", notebookHandler.RemoveItem)
			r.Post("/{id}/ask", notebookHandler.Ask)
		})

		r.Get("/usage", usageHandler.Usage)
	})

	r.Method(http.MethodGet, "/healthz", healthHandler)

	return r
}
