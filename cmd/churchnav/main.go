// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/olegiv/churchnav/internal/cache"
	"github.com/olegiv/churchnav/internal/config"
	"github.com/olegiv/churchnav/internal/handler"
	"github.com/olegiv/churchnav/internal/logging"
	"github.com/olegiv/churchnav/internal/render"
	"github.com/olegiv/churchnav/internal/scheduler"
	"github.com/olegiv/churchnav/internal/service"
	"github.com/olegiv/churchnav/internal/store"
	"github.com/olegiv/churchnav/internal/version"
	"github.com/olegiv/churchnav/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

const shutdownTimeout = 30 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "churchnav - church website navigation menu service\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCHNAV_DB_PATH        SQLite database path (default: ./data/churchnav.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCHNAV_DB_DRIVER      sqlite (pure Go) or sqlite3 (cgo) (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCHNAV_SERVER_PORT    Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCHNAV_ENV            Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCHNAV_REDIS_URL      Redis URL for a shared menu cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CHURCHNAV_SEED_CHURCH    Create the location menus of this church on startup (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Printf("churchnav %s\n", info)
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := logging.ParseLevel(cfg.LogLevel)
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(textHandler))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath, "driver", cfg.DBDriver)
	dbCfg := store.DefaultDBConfig()
	dbCfg.Driver = cfg.DBDriver
	db, err := store.NewDBWithConfig(cfg.DBPath, dbCfg)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	st := store.NewStore(db)

	// From here on WARN and ERROR records also land in the event log.
	slog.SetDefault(slog.New(logging.NewEventLogHandler(textHandler, st.Queries)))
	slog.Info("database ready", "event_log_min_level", "warn")

	backend, backendName := cache.NewCache(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheTTLDuration(),
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	})
	defer func() {
		if err := backend.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	slog.Info("menu cache ready", "backend", backendName, "ttl", cfg.CacheTTLDuration())

	menus := service.NewMenuService(st, backend, service.MenuOptions{CacheTTL: cfg.CacheTTLDuration()})
	events := service.NewEventService(st.Queries)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SeedChurch != "" {
		seeded, err := menus.EnsureMenus(ctx, cfg.SeedChurch)
		if err != nil {
			return fmt.Errorf("seeding menus: %w", err)
		}
		slog.Info("church menus ready", "church_id", cfg.SeedChurch, "menus", len(seeded))
	}

	sched := scheduler.New(slog.Default(), time.Minute)
	if err := sched.Add("warm-cache", "Preload every menu tree into the cache",
		cfg.CacheWarmSchedule, scheduler.WarmCache(menus, slog.Default())); err != nil {
		return err
	}
	if err := sched.Add("prune-events", "Delete event log entries past retention",
		"@daily", scheduler.PruneEvents(events, cfg.EventRetention, slog.Default())); err != nil {
		return err
	}
	if err := sched.TriggerNow("warm-cache"); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	renderer, err := render.New(render.Config{TemplatesFS: web.Templates})
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}

	router := handler.NewRouter(handler.RouterConfig{
		Menus:          menus,
		Events:         events,
		Renderer:       renderer,
		DB:             st,
		Cache:          backend,
		Version:        info.Version,
		IsDevelopment:  cfg.IsDevelopment(),
		RequestTimeout: cfg.RequestTimeout,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		AccessLog:      cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}
