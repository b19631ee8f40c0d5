package routes

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/a10interiors/a10-backend/internal/handlers"
	"github.com/a10interiors/a10-backend/internal/repository"
)

func RegisterAuthRoutes(router chi.Router, db *sql.DB, authn func(http.Handler) http.Handler) {
	authHandler := handlers.NewAuthHandler(
		repository.NewUserRepository(db),
		repository.NewAdminRepository(db),
	)

	router.Group(func(r chi.Router) {
		r.Use(authn)
		r.Post("/auth", authHandler.Exchange)
	})
}
