// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/olegiv/churchnav/internal/cache"
	"github.com/olegiv/churchnav/internal/model"
)

// Health check statuses.
const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
)

// healthCheckTimeout bounds each dependency check.
const healthCheckTimeout = 2 * time.Second

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        Pinger
	cache     Pinger
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new health handler. cache may be nil.
func NewHealthHandler(db, cache Pinger, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		cache:     cache,
		version:   version,
		startTime: time.Now(),
	}
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version,omitempty"`
	Checks    map[string]Check `json:"checks"`

	// CacheStats is set when the cache counts its traffic.
	CacheStats *cache.Stats `json:"cacheStats,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Health handles GET /health. A failing database makes the service
// unhealthy (503); a failing cache only degrades it since menus can still
// be read from the database.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"database": h.check(r.Context(), h.db),
	}
	if h.cache != nil {
		checks["cache"] = h.check(r.Context(), h.cache)
	}

	status := HealthStatus{
		Status:    statusHealthy,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    checks,
	}
	if sp, ok := h.cache.(cache.StatsProvider); ok {
		stats := sp.Stats()
		status.CacheStats = &stats
	}
	code := http.StatusOK
	switch {
	case checks["database"].Status != statusHealthy:
		status.Status = statusUnhealthy
		code = http.StatusServiceUnavailable
	case h.cache != nil && checks["cache"].Status != statusHealthy:
		status.Status = statusDegraded
	}

	writeJSON(w, code, model.Envelope[HealthStatus]{Success: code == http.StatusOK, Data: status})
}

func (h *HealthHandler) check(ctx context.Context, p Pinger) Check {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	if err := p.Ping(ctx); err != nil {
		return Check{
			Status:  statusUnhealthy,
			Message: err.Error(),
		}
	}
	return Check{
		Status:  statusHealthy,
		Latency: time.Since(start).Round(time.Microsecond).String(),
	}
}
