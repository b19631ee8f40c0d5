package routes

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/a10interiors/a10-backend/internal/handlers"
	"github.com/a10interiors/a10-backend/internal/repository"
)

func RegisterEnquiryRoutes(router chi.Router, db *sql.DB, authn, adminOnly func(http.Handler) http.Handler) {
	enquiryHandler := handlers.NewEnquiryHandler(repository.NewEnquiryRepository(db))

	// Website forms post without credentials.
	router.Post("/enquiries", enquiryHandler.CreateHome)
	router.Post("/kb_enquiries", enquiryHandler.CreateKB)
	router.Post("/custom_enquiries", enquiryHandler.CreateCustom)

	router.Group(func(r chi.Router) {
		r.Use(authn, adminOnly)
		r.Get("/enquiries", enquiryHandler.List)
		r.Get("/enquiries/related", enquiryHandler.Related)
		r.Put("/enquiries/{table}/{id}", enquiryHandler.Update)
		r.Delete("/enquiries/{table}/{id}", enquiryHandler.Delete)
	})
}
