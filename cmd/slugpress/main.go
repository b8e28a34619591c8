// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the slugpress server.
// It loads configuration, connects to services, starts the change event
// subscriber, and serves the JSON API with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slugpress/internal/cache"
	"slugpress/internal/config"
	"slugpress/internal/database"
	"slugpress/internal/events"
	"slugpress/internal/handlers"
	"slugpress/internal/resolve"
	"slugpress/internal/router"
	"slugpress/internal/slug"
	"slugpress/internal/store"
	"slugpress/internal/watch"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"debounce", cfg.Debounce,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (event channel + term cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Initialize data stores.
	contentStore := store.NewContentStore(db)
	taxonomyStore := store.NewTaxonomyStore(db)
	templateStore := store.NewSlugTemplateStore(db)

	// Wire the slug engine: term cache, data resolver, formatter, watcher.
	termCache := cache.NewTermCache(valkeyClient, cfg.TermTTL)
	resolver := resolve.New(contentStore, taxonomyStore, termCache)
	formatter := slug.NewFormatter(slug.FormatPHPDate)
	watcher := watch.New(templateStore, contentStore, resolver, formatter, cfg.Debounce)
	defer watcher.Close()

	// Subscribe to the change event channel. The subscriber lives until
	// the root context is canceled at shutdown.
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	subscriber := events.NewSubscriber(valkeyClient, watcher.HandleEvent)
	go func() {
		if err := subscriber.Run(ctx); err != nil {
			slog.Error("event subscriber failed", "error", err)
		}
	}()

	// Create the API handlers and router.
	publisher := events.NewPublisher(valkeyClient)
	api := handlers.NewAPI(contentStore, templateStore, resolver, formatter, publisher)
	r := router.New(api, cfg.APIKeyHash)

	if cfg.APIKeyHash == "" {
		slog.Warn("API_KEY_HASH not set, /api endpoints are unauthenticated")
	}

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Stop consuming events and cancel pending slug recomputes before
	// draining HTTP connections.
	stop()
	watcher.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
