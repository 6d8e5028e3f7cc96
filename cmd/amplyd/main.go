package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"amply-reservation-client/config"
	"amply-reservation-client/internal/api"
	"amply-reservation-client/internal/auth"
	"amply-reservation-client/internal/db"
	"amply-reservation-client/internal/gateway"
	"amply-reservation-client/internal/offline"
	"amply-reservation-client/internal/store"
	"amply-reservation-client/internal/sync"
)

func main() {
	logger := log.New(os.Stdout, "amplyd ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Remote.BaseURL == "" {
		logger.Fatalf("remote.base_url must be configured")
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize cache database: %v", err)
	}
	logger.Println("cache database initialized successfully")

	appStore := store.NewGormStore(gormDB)
	gw := gateway.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout)
	syncer := sync.NewSynchronizer(gw, appStore, cfg.Sync.Interval)
	writer := offline.NewWriter(gw, appStore)
	authSvc := auth.NewService(gw, appStore, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Resume syncing for a user who was logged in before the restart.
	startCtx, startCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if profile, err := appStore.GetLoggedInUser(startCtx); err != nil {
		logger.Printf("could not read logged-in user: %v", err)
	} else if profile != nil {
		logger.Printf("resuming reservation sync for %s", profile.Email)
		syncer.Start(profile.NIC)
	}
	startCancel()

	router := api.NewRouter(cfg, appStore, syncer, writer, authSvc, gw)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	syncer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
