package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/savegress/wagerwatch/internal/api"
	"github.com/savegress/wagerwatch/internal/config"
	"github.com/savegress/wagerwatch/internal/ingest"
	"github.com/savegress/wagerwatch/internal/report"
)

func main() {
	log.Println("Starting WagerWatch...")

	// Load configuration
	cfg := loadConfig()

	// Load the input snapshot. Schema errors fail here, before any
	// analytics run.
	snapshot, err := ingest.LoadSnapshot(cfg.Data.ProfilePath, cfg.Data.UsagePath)
	if err != nil {
		log.Fatalf("Failed to load snapshot: %v", err)
	}
	log.Printf("Loaded snapshot: %d profiles, %d usage records (hash %.12s)",
		len(snapshot.Profiles), len(snapshot.Usage), snapshot.Hash)

	// Build the report assembler
	assembler := report.NewAssembler(cfg)

	// Create API server
	server := api.NewServer(cfg, snapshot, assembler)

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("WagerWatch API listening on port %d", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down WagerWatch...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("WagerWatch stopped")
}

func loadConfig() *config.Config {
	configPath := os.Getenv("WAGERWATCH_CONFIG")
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			log.Printf("Failed to load config from %s: %v, using defaults", configPath, err)
			return config.LoadFromEnv()
		}
		return cfg
	}
	return config.LoadFromEnv()
}
