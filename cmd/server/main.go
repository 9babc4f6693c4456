package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mirrorworld/mirror-api/internal/api"
	"github.com/mirrorworld/mirror-api/internal/config"
	"github.com/mirrorworld/mirror-api/internal/core"
	"github.com/mirrorworld/mirror-api/internal/store"
)

func main() {
	cfg := config.LoadConfig()
	setupLogging(cfg)

	dbStore := store.Open(store.Options{
		Backend:     cfg.StorageBackend,
		DatabaseURL: cfg.DatabaseURL,
		Debug:       cfg.LogLevel == "DEBUG",
	})
	defer func() {
		if err := dbStore.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing store")
		}
	}()

	generator, err := core.NewGenerator(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize model client")
	}
	defer func() {
		if err := generator.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing model client")
		}
	}()

	analysisService := core.NewAnalysisService(generator, cfg.LLMTimeout)
	mirrorService := core.NewMirrorService(dbStore, analysisService)

	apiHandler := api.NewAPIHandler(mirrorService)
	router := api.NewRouter(apiHandler)

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 30*time.Second, // model calls dominate
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Str("provider", cfg.LLMProvider).Str("model", cfg.Model()).Msg("Starting server. Press Ctrl+C to quit.")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Str("addr", serverAddr).Msg("Could not listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}
	log.Info().Msg("Server exiting gracefully")
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if cfg.LogFormat != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
