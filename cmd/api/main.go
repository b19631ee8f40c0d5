package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/a10interiors/a10-backend/internal/config"
	"github.com/a10interiors/a10-backend/internal/db"
	"github.com/a10interiors/a10-backend/internal/db/migrations"
	"github.com/a10interiors/a10-backend/internal/routes"
	"github.com/a10interiors/a10-backend/internal/services"
	"github.com/a10interiors/a10-backend/internal/uploads"
)

func main() {
	cfg := config.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("failed to open database")
	}
	defer database.Close()

	if err := migrations.RunMigrations(database.DB); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	store, err := newUploadStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.UploadBackend).Msg("failed to initialize upload store")
	}

	verifier := services.NewVerifier(cfg)

	router := routes.SetupRoutes(database.DB, cfg, store, verifier)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	// Give in-flight requests 5 seconds to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
}

func newUploadStore(cfg *config.Config) (uploads.Store, error) {
	if cfg.UploadBackend == "s3" {
		s3cfg, err := config.NewS3Config(context.Background())
		if err != nil {
			return nil, err
		}
		return uploads.NewS3Store(s3cfg), nil
	}
	return uploads.NewDiskStore(cfg.UploadsDir)
}
