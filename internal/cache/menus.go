// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/olegiv/churchnav/internal/model"
)

const menuKeyPrefix = "menu:"

// MenuLoader loads a menu with its item tree from the source of truth.
type MenuLoader func(ctx context.Context, menuID string) (model.Menu, error)

// MenuCache caches assembled menu trees keyed by menu id. Concurrent
// misses for the same menu share one load.
type MenuCache struct {
	backend Cacher
	ttl     time.Duration
	load    MenuLoader
	group   singleflight.Group

	onHit  func()
	onMiss func()
}

// NewMenuCache wraps backend. A zero ttl uses the backend default.
func NewMenuCache(backend Cacher, ttl time.Duration, load MenuLoader) *MenuCache {
	return &MenuCache{
		backend: backend,
		ttl:     ttl,
		load:    load,
		onHit:   func() {},
		onMiss:  func() {},
	}
}

// Observe registers hit and miss callbacks, typically metric counters.
func (c *MenuCache) Observe(onHit, onMiss func()) {
	if onHit != nil {
		c.onHit = onHit
	}
	if onMiss != nil {
		c.onMiss = onMiss
	}
}

func menuKey(id string) string {
	return menuKeyPrefix + id
}

// Get returns the cached menu, loading and storing it on a miss. Backend
// failures degrade to a direct load.
func (c *MenuCache) Get(ctx context.Context, menuID string) (model.Menu, error) {
	data, err := c.backend.Get(ctx, menuKey(menuID))
	if err == nil {
		var m model.Menu
		if err := json.Unmarshal(data, &m); err == nil {
			c.onHit()
			return m, nil
		}
		slog.Warn("discarding corrupt menu cache entry", "category", model.EventCategoryCache, "menu_id", menuID)
		_ = c.backend.Delete(ctx, menuKey(menuID))
	} else if !errors.Is(err, ErrCacheMiss) {
		slog.Warn("menu cache read failed", "category", model.EventCategoryCache, "menu_id", menuID, "error", err)
	}
	c.onMiss()

	v, err, _ := c.group.Do(menuID, func() (any, error) {
		m, err := c.load(ctx, menuID)
		if err != nil {
			return model.Menu{}, err
		}
		c.store(ctx, m)
		return m, nil
	})
	if err != nil {
		return model.Menu{}, err
	}
	return v.(model.Menu), nil
}

func (c *MenuCache) store(ctx context.Context, m model.Menu) {
	data, err := json.Marshal(m)
	if err != nil {
		slog.Warn("encoding menu for cache failed", "category", model.EventCategoryCache, "menu_id", m.ID, "error", err)
		return
	}
	if err := c.backend.Set(ctx, menuKey(m.ID), data, c.ttl); err != nil {
		slog.Warn("menu cache write failed", "category", model.EventCategoryCache, "menu_id", m.ID, "error", err)
	}
}

// Invalidate drops one menu so the next Get reloads it.
func (c *MenuCache) Invalidate(ctx context.Context, menuID string) error {
	c.group.Forget(menuID)
	return c.backend.Delete(ctx, menuKey(menuID))
}

// InvalidateAll drops every cached menu.
func (c *MenuCache) InvalidateAll(ctx context.Context) error {
	return c.backend.DeleteByPrefix(ctx, menuKeyPrefix)
}

// Preload loads the given menus into the cache with at most parallel
// loads in flight. The first load error cancels the rest.
func (c *MenuCache) Preload(ctx context.Context, menuIDs []string, parallel int) error {
	if parallel <= 0 {
		parallel = 4
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, id := range menuIDs {
		g.Go(func() error {
			m, err := c.load(gctx, id)
			if err != nil {
				return err
			}
			c.store(gctx, m)
			return nil
		})
	}
	return g.Wait()
}
