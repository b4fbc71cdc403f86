// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/churchnav/internal/cache"
	"github.com/olegiv/churchnav/internal/model"
)

// CacheBackend is a cache that counts its traffic and can be emptied.
type CacheBackend interface {
	cache.StatsProvider
	Clear(ctx context.Context) error
}

// CacheHandler reports and resets the menu cache.
type CacheHandler struct {
	backend CacheBackend
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(backend CacheBackend) *CacheHandler {
	return &CacheHandler{backend: backend}
}

// Routes mounts the cache routes.
func (h *CacheHandler) Routes(r chi.Router) {
	r.Get("/", h.Stats)
	r.Delete("/", h.Clear)
}

// Stats handles GET /cache.
func (h *CacheHandler) Stats(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, h.backend.Stats())
}

// Clear handles DELETE /cache. It drops every cached menu and zeroes the
// counters; menus are reloaded from the database on their next read.
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.Clear(r.Context()); err != nil {
		slog.Warn("clearing menu cache failed", "category", model.EventCategoryCache, "error", err)
		writeServiceError(w, r, err)
		return
	}
	h.backend.ResetStats()
	slog.Info("menu cache cleared", "request_id", chimw.GetReqID(r.Context()))
	writeData(w, http.StatusOK, h.backend.Stats())
}
