package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jwebster45206/scene-forge/internal/composer"
	"github.com/jwebster45206/scene-forge/internal/config"
	"github.com/jwebster45206/scene-forge/internal/handlers"
	"github.com/jwebster45206/scene-forge/internal/logger"
	"github.com/jwebster45206/scene-forge/internal/middleware"
	"github.com/jwebster45206/scene-forge/internal/services"
	"github.com/jwebster45206/scene-forge/internal/storage"
	"github.com/jwebster45206/scene-forge/pkg/quality"
	"github.com/jwebster45206/scene-forge/pkg/template"
)

func main() {
	// Local development convenience; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting Scene Forge API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"data_dir", cfg.DataDir)

	scenes := storage.NewRedisStore(cfg.RedisURL, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := scenes.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to scene cache", "error", err)
		os.Exit(1)
	}

	presets, err := quality.Load(cfg.PresetsFile)
	if err != nil {
		log.Error("Failed to load quality presets", "error", err, "path", cfg.PresetsFile)
		os.Exit(1)
	}

	templates := template.NewStore(cfg.TemplateDir(), log)
	if len(templates.Names()) == 0 {
		log.Error("No scene templates loaded", "dir", cfg.TemplateDir())
		os.Exit(1)
	}

	locations := services.NewFileLocationProvider(cfg.DataDir, log)
	assets := services.NewFileAssetRegistry(cfg.DataDir, log)

	c := composer.New(templates, locations, assets, scenes, presets, composer.DefaultOptions(), log)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(scenes, log)
	mux.Handle("/health", healthHandler)

	templatesHandler := handlers.NewTemplatesHandler(c, log)
	mux.Handle("/v1/templates", templatesHandler)

	sceneHandler := handlers.NewSceneHandler(c, log)
	mux.Handle("/v1/scenes", sceneHandler)
	mux.Handle("/v1/scenes/", sceneHandler)

	handler := middleware.Logging(log, mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := scenes.Close(); err != nil {
		log.Error("Error closing scene cache connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
