package routes

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/a10interiors/a10-backend/internal/config"
	"github.com/a10interiors/a10-backend/internal/handlers"
	"github.com/a10interiors/a10-backend/internal/middleware"
	"github.com/a10interiors/a10-backend/internal/repository"
	"github.com/a10interiors/a10-backend/internal/services"
	"github.com/a10interiors/a10-backend/internal/uploads"
)

// SetupRoutes wires every handler onto a chi router. Public routes
// (project reads, enquiry creation, uploads) sit alongside an
// admin-only group gated by token verification plus the admin
// phone allow-list.
func SetupRoutes(db *sql.DB, cfg *config.Config, store uploads.Store, verifier services.TokenVerifier) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteJSON(w, http.StatusOK, map[string]string{"message": "a10 backend is running"})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{"status": "ok"}
		dbStatus := map[string]string{"status": "ok"}
		if err := db.PingContext(r.Context()); err != nil {
			resp["status"] = "degraded"
			dbStatus["status"] = "down"
			dbStatus["error"] = err.Error()
		}
		resp["db"] = dbStatus
		handlers.WriteJSON(w, http.StatusOK, resp)
	})

	admins := repository.NewAdminRepository(db)
	authn := middleware.Authenticate(verifier)
	adminOnly := middleware.RequireAdmin(admins)

	r.Route("/api", func(r chi.Router) {
		RegisterAuthRoutes(r, db, authn)
		RegisterProjectRoutes(r, db, store, authn, adminOnly)
		RegisterAdminRoutes(r, db, authn, adminOnly)
		RegisterEnquiryRoutes(r, db, authn, adminOnly)
		RegisterTestimonialRoutes(r, db, authn, adminOnly)
		RegisterUploadRoutes(r, store, authn, adminOnly)
	})

	// Disk-backed uploads are served straight from the filesystem.
	if disk, ok := store.(*uploads.DiskStore); ok {
		registerStaticUploads(r, disk)
	}

	return r
}

func registerStaticUploads(r chi.Router, disk *uploads.DiskStore) {
	fs := http.StripPrefix(uploads.PathPrefix+"/", http.FileServer(http.Dir(disk.Dir())))
	r.Get(uploads.PathPrefix+"/*", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		fs.ServeHTTP(w, req)
	})
}
