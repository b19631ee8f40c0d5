package routes

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/a10interiors/a10-backend/internal/handlers"
	"github.com/a10interiors/a10-backend/internal/repository"
)

func RegisterTestimonialRoutes(router chi.Router, db *sql.DB, authn, adminOnly func(http.Handler) http.Handler) {
	testimonialHandler := handlers.NewTestimonialHandler(repository.NewTestimonialRepository(db))

	router.Route("/testimonials", func(r chi.Router) {
		r.Get("/", testimonialHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(authn, adminOnly)
			r.Post("/", testimonialHandler.Create)
			r.Put("/{id}", testimonialHandler.Update)
			r.Delete("/{id}", testimonialHandler.Delete)
		})
	})
}
