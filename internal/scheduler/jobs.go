// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Job names.
const (
	JobWarmCache   = "warm-menu-cache"
	JobPruneEvents = "prune-events"
)

// Preloader loads every menu into the cache.
type Preloader interface {
	Preload(ctx context.Context) (int, error)
}

// EventPruner deletes old event log entries.
type EventPruner interface {
	DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error)
}

// WarmCache returns a job that preloads every menu tree.
func WarmCache(menus Preloader, logger *slog.Logger) JobFunc {
	return func(ctx context.Context) error {
		n, err := menus.Preload(ctx)
		if err != nil {
			return err
		}
		logger.Debug("menu cache warmed", "menus", n)
		return nil
	}
}

// PruneEvents returns a job that deletes events older than retention.
func PruneEvents(events EventPruner, retention time.Duration, logger *slog.Logger) JobFunc {
	return func(ctx context.Context) error {
		n, err := events.DeleteOldEvents(ctx, retention)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("pruned old events", "count", n, "retention", retention)
		}
		return nil
	}
}
