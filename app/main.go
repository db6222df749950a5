package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/feed-digest/app/activity"
	"github.com/lysyi3m/feed-digest/app/api"
	"github.com/lysyi3m/feed-digest/app/cfg"
	"github.com/lysyi3m/feed-digest/app/config"
	"github.com/lysyi3m/feed-digest/app/database"
	"github.com/lysyi3m/feed-digest/app/feed"
	"github.com/lysyi3m/feed-digest/app/publisher"
	"github.com/lysyi3m/feed-digest/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Feed Digest", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	migrationVersion, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", migrationVersion, "dirty", dirty)

	digestRepo := database.NewDigestRepository(db)
	historyRepo := database.NewHistoryRepository(db)

	configCache := config.NewConfigCache(appCfg.DigestsDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load digest configurations", "dir", appCfg.DigestsDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Digest configurations loaded", "count", configCache.GetConfigCount(), "dir", appCfg.DigestsDir)

	for _, digestConfig := range configCache.GetConfigs() {
		if err := digestRepo.UpsertDigest(digestConfig.Name, digestConfig.URL); err != nil {
			slog.Warn("Failed to register digest", "digest", digestConfig.Name, "error", err)
		}
	}

	httpClient := &http.Client{}
	fetcher := feed.NewFetcher(httpClient, appCfg.UserAgent)

	var pub publisher.Publisher
	if appCfg.SinkURL != "" {
		pub = publisher.NewCMSPublisher(httpClient, appCfg.SinkURL, appCfg.SinkToken, appCfg.UserAgent)
		slog.Info("Publishing to CMS", "url", appCfg.SinkURL)
	} else {
		pub = publisher.NewStdoutPublisher()
		slog.Info("Publishing to stdout (SINK_URL not set)")
	}

	activityLog := activity.NewLog(activity.DefaultCapacity)

	scheduler := tasks.NewScheduler(configCache, digestRepo, historyRepo,
		fetcher, pub, activityLog, appCfg.Location())
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(configCache, digestRepo, historyRepo, activityLog, scheduler)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
