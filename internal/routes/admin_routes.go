package routes

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/a10interiors/a10-backend/internal/handlers"
	"github.com/a10interiors/a10-backend/internal/repository"
)

func RegisterAdminRoutes(router chi.Router, db *sql.DB, authn, adminOnly func(http.Handler) http.Handler) {
	adminHandler := handlers.NewAdminHandler(repository.NewAdminRepository(db))

	router.Route("/admins", func(r chi.Router) {
		r.Use(authn, adminOnly)
		r.Get("/", adminHandler.List)
		r.Post("/", adminHandler.Create)
		r.Put("/{id}", adminHandler.Update)
		r.Delete("/{id}", adminHandler.Delete)
	})
}
