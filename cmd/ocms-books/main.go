// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package main is the entry point for the oCMS Books server.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/ocms-books/internal/config"
	"github.com/olegiv/ocms-books/internal/handler"
	"github.com/olegiv/ocms-books/internal/handler/api"
	"github.com/olegiv/ocms-books/internal/lang"
	"github.com/olegiv/ocms-books/internal/logging"
	"github.com/olegiv/ocms-books/internal/metrics"
	"github.com/olegiv/ocms-books/internal/middleware"
	"github.com/olegiv/ocms-books/internal/seo"
	"github.com/olegiv/ocms-books/internal/service"
	"github.com/olegiv/ocms-books/internal/store"
	"github.com/olegiv/ocms-books/internal/version"
)

// Build-time variables injected via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "oCMS Books - localized catalog and publication API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_DB_PATH           SQLite database path (default: ./data/ocms-books.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_LANGUAGES         Supported languages (default: en,es,fr,pt)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_DEFAULT_LANGUAGE  Fallback language (default: en)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_PUBLIC_BASE_URL   Base of canonical URLs (default: http://localhost:8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_ADMIN_TOKEN       Bearer token of the admin API (admin API disabled when empty)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_DO_SEED           Seed the demo catalog on an empty database (default: false)\n")
	}

	flag.Parse()

	buildInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	// Handle -h/-help flag
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	// Handle -v/-version flag
	if *showVersion {
		_, _ = fmt.Printf("ocms-books %s\n", buildInfo)
		os.Exit(0)
	}

	if err := run(buildInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(buildInfo version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(textHandler)
	slog.SetDefault(logger)

	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Persist WARN and ERROR records to the event log as well
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	negotiator, err := lang.NewNegotiator(cfg.Languages, cfg.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("configuring languages: %w", err)
	}
	slog.Info("language negotiation configured", "languages", negotiator.Languages(), "default", negotiator.Default())

	site := seo.SiteConfig{
		SiteName:       cfg.SiteName,
		BaseURL:        cfg.PublicBaseURL,
		DefaultOGImage: cfg.DefaultOGImage,
		TwitterHandle:  cfg.TwitterHandle,
	}
	catalog := service.NewCatalog(db, negotiator, service.CatalogConfig{
		Site:              site,
		MaxHierarchyDepth: cfg.MaxHierarchyDepth,
	})

	m := metrics.New()
	m.SetBuildInfo(buildInfo)

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)                        // Handle HEAD requests for uptime monitoring
	r.Use(middleware.Timeout(30 * time.Second)) // 30 second request timeout
	if cfg.MetricsEnabled {
		r.Use(m.Middleware)
	}

	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))
	slog.Info("security headers middleware initialized", "hsts", !cfg.IsDevelopment())

	healthHandler := handler.NewHealthHandler(db, handler.HealthConfig{
		DataDir:    dbDir,
		AdminToken: cfg.AdminToken,
		Version:    buildInfo,
		Languages:  negotiator,
	})
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	if cfg.MetricsEnabled {
		r.Handle("/metrics", m.Handler())
	}

	rateLimiter := middleware.NewGlobalRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m.IncRateLimited)

	opts := []api.Option{api.WithObserver(m)}
	if !cfg.IsDevelopment() && cfg.Env != "production" {
		// Staging and other non-production deployments stay out of search indexes
		opts = append(opts, api.WithRobots(seo.RobotsConfig{DisallowAll: true}))
	}
	apiHandler := api.NewHandler(catalog, opts...)
	apiHandler.Mount(r, api.RouterConfig{
		Languages:   negotiator,
		OnNegotiate: m.ObserveNegotiation,
		AdminToken:  cfg.AdminToken,
		RateLimit:   rateLimiter.Middleware(),
	})
	if cfg.AdminEnabled() {
		slog.Info("admin API enabled", "prefix", "/api/v1/admin")
	} else {
		slog.Warn("OCMS_ADMIN_TOKEN is empty, admin API disabled")
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		api.WriteNotFound(w, "Not found")
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", buildInfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
