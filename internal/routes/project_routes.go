package routes

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/a10interiors/a10-backend/internal/handlers"
	"github.com/a10interiors/a10-backend/internal/repository"
	"github.com/a10interiors/a10-backend/internal/services"
	"github.com/a10interiors/a10-backend/internal/uploads"
)

func RegisterProjectRoutes(router chi.Router, db *sql.DB, store uploads.Store, authn, adminOnly func(http.Handler) http.Handler) {
	projectRepo := repository.NewProjectRepository(db)
	projectHandler := handlers.NewProjectHandler(projectRepo)
	importHandler := handlers.NewImportHandler(services.NewImporter(projectRepo, store))

	router.Route("/projects", func(r chi.Router) {
		r.Get("/", projectHandler.List)
		r.Get("/{idOrSlug}", projectHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authn, adminOnly)
			r.Post("/", projectHandler.Create)
			r.Put("/{id}", projectHandler.Update)
			r.Delete("/{id}", projectHandler.Delete)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(authn, adminOnly)
		r.Post("/import-projects", importHandler.ImportProjects)
	})
}
