// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers of the menu API and the public
// navigation endpoints.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olegiv/churchnav/internal/middleware"
	"github.com/olegiv/churchnav/internal/render"
	"github.com/olegiv/churchnav/internal/service"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Menus    *service.MenuService
	Events   *service.EventService
	Renderer *render.Renderer
	DB       Pinger
	Cache    Pinger
	Version  string

	IsDevelopment  bool
	RequestTimeout time.Duration
	// RateLimitRPS throttles mutations per client; zero disables it.
	RateLimitRPS   float64
	RateLimitBurst int
	// AccessLog enables chi's request logger.
	AccessLog bool
}

// NewRouter builds the HTTP handler of the service.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.AccessLog {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.Instrument)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment)))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	r.Get("/health", NewHealthHandler(cfg.DB, cfg.Cache, cfg.Version).Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/events", NewEventsHandler(cfg.Events).List)
	if backend, ok := cfg.Cache.(CacheBackend); ok {
		r.Route("/cache", NewCacheHandler(backend).Routes)
	}

	r.Route("/menus", func(r chi.Router) {
		if cfg.RateLimitRPS > 0 {
			limiter := middleware.NewClientRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
			r.Use(middleware.MutationsOnly(limiter.Middleware()))
		}
		NewMenusHandler(cfg.Menus).Routes(r)
	})
	r.Route("/public", NewPublicHandler(cfg.Menus, cfg.Renderer).Routes)

	return r
}
