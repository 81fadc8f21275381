package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/seo-dashboard-api/internal/ai"
	"github.com/seo-dashboard-api/internal/airtable"
	"github.com/seo-dashboard-api/internal/api"
	"github.com/seo-dashboard-api/internal/config"
	"github.com/seo-dashboard-api/internal/repository"
	"github.com/seo-dashboard-api/internal/service"
	"github.com/seo-dashboard-api/pkg/logger"
)

func main() {
	// Local development convenience; no-op when the file is absent
	_ = godotenv.Load()

	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting SEO dashboard API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize repositories: the external record store when configured,
	// the in-memory fallback otherwise (demo mode)
	var repos *repository.Repositories
	if cfg.Airtable.Enabled() {
		client := airtable.NewClient(
			airtable.DefaultBaseURL,
			cfg.Airtable.APIKey,
			cfg.Airtable.BaseID,
			cfg.Airtable.RequestTimeout,
			log,
		)
		repos = repository.NewAirtable(client, &cfg.Airtable, log)
		log.Info().Str("base", cfg.Airtable.BaseID).Msg("Using external record store")
	} else {
		repos = repository.NewMemory()
		log.Warn().Msg("No record store configured; using in-memory fallback store")
	}

	// Initialize the completion/image client
	aiClient := ai.NewOpenAI(
		cfg.OpenAI.Endpoint,
		cfg.OpenAI.APIKey,
		cfg.OpenAI.ChatModel,
		cfg.OpenAI.ImageModel,
		cfg.OpenAI.RequestTimeout,
		log,
	)

	// Initialize services
	services := service.NewServices(repos, aiClient, cfg, log)

	// Initialize router
	router := api.NewRouter(services, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
