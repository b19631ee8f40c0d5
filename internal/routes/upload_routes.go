package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/a10interiors/a10-backend/internal/handlers"
	"github.com/a10interiors/a10-backend/internal/uploads"
)

func RegisterUploadRoutes(router chi.Router, store uploads.Store, authn, adminOnly func(http.Handler) http.Handler) {
	uploadHandler := handlers.NewUploadHandler(store)

	router.Post("/uploads", uploadHandler.Upload)

	router.Group(func(r chi.Router) {
		r.Use(authn, adminOnly)
		r.Get("/uploads", uploadHandler.List)
		r.Post("/import-images", uploadHandler.ImportImages)
	})
}
