// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the menu business rules: it loads item trees
// through the cache and applies every mutation inside a transaction after
// checking the tree invariants.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/churchnav/internal/cache"
	"github.com/olegiv/churchnav/internal/metrics"
	"github.com/olegiv/churchnav/internal/model"
	"github.com/olegiv/churchnav/internal/navigation"
	"github.com/olegiv/churchnav/internal/store"
	"github.com/olegiv/churchnav/internal/util"
	"github.com/olegiv/churchnav/internal/validation"
)

// Mutation operation names, used for metrics and logs.
const (
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpReorder = "reorder"
)

// MenuOptions tunes a MenuService.
type MenuOptions struct {
	CacheTTL time.Duration
	Icons    navigation.IconRegistry
	// PreloadParallelism bounds concurrent loads during Preload.
	PreloadParallelism int
}

// MenuService provides menu reads through the tree cache and validated
// item mutations.
type MenuService struct {
	store *store.Store
	cache *cache.MenuCache
	icons navigation.IconRegistry
	opts  MenuOptions
	now   func() time.Time
}

// NewMenuService creates a MenuService caching trees in backend.
func NewMenuService(st *store.Store, backend cache.Cacher, opts MenuOptions) *MenuService {
	if opts.Icons == nil {
		opts.Icons = navigation.DefaultIcons()
	}
	s := &MenuService{
		store: st,
		icons: opts.Icons,
		opts:  opts,
		now:   time.Now,
	}
	s.cache = cache.NewMenuCache(backend, opts.CacheTTL, s.loadMenu)
	s.cache.Observe(metrics.CacheHits.Inc, metrics.CacheMisses.Inc)
	return s
}

// Icons returns the registry used to resolve item icons.
func (s *MenuService) Icons() navigation.IconRegistry {
	return s.icons
}

// loadMenu reads a menu and assembles its tree. Rows that break the depth
// rule are logged and left out.
func (s *MenuService) loadMenu(ctx context.Context, menuID string) (model.Menu, error) {
	menu, err := s.store.GetMenu(ctx, menuID)
	if err != nil {
		return model.Menu{}, err
	}
	items, err := s.store.ListItems(ctx, menuID)
	if err != nil {
		return model.Menu{}, err
	}
	tree, problems := navigation.Assemble(items)
	for _, p := range problems {
		slog.Warn("skipping misplaced menu item",
			"category", model.EventCategoryMenu,
			"menu_id", menuID,
			"item_id", p.Item.ID,
			"error", p.Err)
	}
	if tree == nil {
		tree = []model.TopLevelItem{}
	}
	menu.Items = tree
	return menu, nil
}

// ListMenus returns menus without items. An empty churchID lists all.
func (s *MenuService) ListMenus(ctx context.Context, churchID string) ([]model.Menu, error) {
	return s.store.ListMenus(ctx, churchID)
}

// GetMenu returns a menu with its full item tree, hidden items included.
func (s *MenuService) GetMenu(ctx context.Context, menuID string) (model.Menu, error) {
	return s.cache.Get(ctx, menuID)
}

// GetMenuByLocation returns the church's menu for a location with its tree.
func (s *MenuService) GetMenuByLocation(ctx context.Context, churchID string, loc model.Location) (model.Menu, error) {
	m, err := s.store.GetMenuByLocation(ctx, churchID, loc)
	if err != nil {
		return model.Menu{}, err
	}
	return s.GetMenu(ctx, m.ID)
}

// Navigation returns the public, visible-only navigation of a location.
func (s *MenuService) Navigation(ctx context.Context, churchID string, loc model.Location) (model.Menu, []navigation.NavEntry, error) {
	menu, err := s.GetMenuByLocation(ctx, churchID, loc)
	if err != nil {
		return model.Menu{}, nil, err
	}
	return menu, navigation.BuildNavigation(menu.Items, s.icons), nil
}

// Dropdown derives the dropdown of one top-level item, hidden children
// included, for editor previews.
func (s *MenuService) Dropdown(ctx context.Context, menuID, itemID string) (navigation.DropdownData, error) {
	menu, err := s.GetMenu(ctx, menuID)
	if err != nil {
		return navigation.DropdownData{}, err
	}
	for _, top := range menu.Items {
		if top.ID == itemID {
			return navigation.BuildDropdownData(top), nil
		}
	}
	if _, ok := menu.FindItem(itemID); ok {
		return navigation.DropdownData{}, fmt.Errorf("%w: item %s is a child and has no dropdown", model.ErrValidation, itemID)
	}
	return navigation.DropdownData{}, fmt.Errorf("menu item %s: %w", itemID, model.ErrNotFound)
}

// CreateItem adds an item to a menu. The server assigns the id and appends
// the item to its sibling set.
func (s *MenuService) CreateItem(ctx context.Context, menuID string, in model.ItemInput) (item model.MenuItem, err error) {
	defer func() { s.finish(ctx, OpCreate, menuID, err) }()

	in.Normalize()
	if err := validation.Struct(in); err != nil {
		return model.MenuItem{}, err
	}

	err = s.store.InTx(ctx, func(q *store.Queries) error {
		if _, err := q.GetMenu(ctx, menuID); err != nil {
			return err
		}
		items, err := q.ListItems(ctx, menuID)
		if err != nil {
			return err
		}
		if err := navigation.ValidateParent(items, "", in.ParentID); err != nil {
			return err
		}

		item = in.ToItem(menuID)
		orders, err := q.SiblingSortOrders(ctx, menuID, item.ParentID)
		if err != nil {
			return err
		}
		item.SortOrder, err = navigation.NextSortOrder(orders, placementKind(item))
		if err != nil {
			return err
		}
		now := s.now().UTC()
		item.CreatedAt, item.UpdatedAt = now, now

		item, err = q.CreateItem(ctx, item)
		if err != nil {
			return err
		}
		return q.TouchMenu(ctx, menuID, now)
	})
	if err != nil {
		return model.MenuItem{}, err
	}
	return item, nil
}

// UpdateItem applies a partial update. Moving an item to another parent
// re-checks the depth rule and appends it to the new sibling set unless
// the patch also sets a sort order.
func (s *MenuService) UpdateItem(ctx context.Context, menuID, itemID string, patch model.ItemPatch) (item model.MenuItem, err error) {
	defer func() { s.finish(ctx, OpUpdate, menuID, err) }()

	if err := validation.Patch(patch); err != nil {
		return model.MenuItem{}, err
	}

	err = s.store.InTx(ctx, func(q *store.Queries) error {
		items, err := q.ListItems(ctx, menuID)
		if err != nil {
			return err
		}
		idx := -1
		for i := range items {
			if items[i].ID == itemID {
				idx = i
				break
			}
		}
		if idx < 0 {
			if _, err := q.GetMenu(ctx, menuID); err != nil {
				return err
			}
			return fmt.Errorf("menu item %s: %w", itemID, model.ErrNotFound)
		}

		item = items[idx]
		patch.Apply(&item)

		if patch.ParentID.Set {
			newParent := patch.ParentID.Value
			if newParent != nil && *newParent == "" {
				newParent = nil
			}
			if model.StringValue(newParent) != model.StringValue(item.ParentID) {
				if err := navigation.ValidateParent(items, itemID, newParent); err != nil {
					return err
				}
				item.ParentID = newParent
				orders, err := q.SiblingSortOrders(ctx, menuID, newParent)
				if err != nil {
					return err
				}
				item.SortOrder, err = navigation.NextSortOrder(orders, placementKind(item))
				if err != nil {
					return err
				}
			}
		}
		if patch.SortOrder.Set && patch.SortOrder.Value != nil {
			item.SortOrder = *patch.SortOrder.Value
			for _, sib := range items {
				if sib.ID != itemID && sib.SortOrder == item.SortOrder &&
					model.StringValue(sib.ParentID) == model.StringValue(item.ParentID) {
					return fmt.Errorf("%w: sort order %d is taken by %q", model.ErrConflict, item.SortOrder, sib.Label)
				}
			}
		}

		now := s.now().UTC()
		item.UpdatedAt = now
		if err := q.UpdateItem(ctx, item); err != nil {
			return err
		}
		return q.TouchMenu(ctx, menuID, now)
	})
	if err != nil {
		return model.MenuItem{}, err
	}
	return item, nil
}

// placementKind is the kind an item is appended by. Only children are ever
// read as overview links, so a top-level item of inferred kind places as a
// regular one.
func placementKind(item model.MenuItem) model.ItemKind {
	if item.IsTopLevel() && item.Kind == model.KindInferred {
		return model.KindRegular
	}
	return item.Kind
}

// DeleteItem removes an item and its children and returns the removed ids.
func (s *MenuService) DeleteItem(ctx context.Context, menuID, itemID string) (removed []string, err error) {
	defer func() { s.finish(ctx, OpDelete, menuID, err) }()

	err = s.store.InTx(ctx, func(q *store.Queries) error {
		removed, err = q.DeleteItem(ctx, menuID, itemID)
		if err != nil {
			return err
		}
		return q.TouchMenu(ctx, menuID, s.now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// Reorder rewrites the sort order of the menu's top-level items to their
// position in itemIDs. The list must name every top-level item exactly
// once; children cannot be reordered this way. Submitting the current
// order again changes nothing.
func (s *MenuService) Reorder(ctx context.Context, menuID string, itemIDs []string) (menu model.Menu, err error) {
	defer func() { s.finish(ctx, OpReorder, menuID, err) }()

	if err := validation.Struct(model.ReorderRequest{ItemIDs: itemIDs}); err != nil {
		return model.Menu{}, err
	}

	err = s.store.InTx(ctx, func(q *store.Queries) error {
		if _, err := q.GetMenu(ctx, menuID); err != nil {
			return err
		}
		items, err := q.ListItems(ctx, menuID)
		if err != nil {
			return err
		}

		byID := make(map[string]model.MenuItem, len(items))
		var current []string
		for _, it := range items {
			byID[it.ID] = it
			if it.IsTopLevel() {
				current = append(current, it.ID)
			}
		}
		for _, id := range itemIDs {
			if it, ok := byID[id]; ok && !it.IsTopLevel() {
				return fmt.Errorf("%w: item %s is a child; only top-level items can be reordered", model.ErrValidation, id)
			}
		}
		if err := navigation.CheckPermutation(current, itemIDs); err != nil {
			return err
		}

		now := s.now()
		changed := false
		for id, order := range navigation.AssignSortOrder(itemIDs) {
			if byID[id].SortOrder == order {
				continue
			}
			if err := q.SetSortOrder(ctx, menuID, id, order, now); err != nil {
				return err
			}
			changed = true
		}
		if changed {
			return q.TouchMenu(ctx, menuID, now)
		}
		return nil
	})
	if err != nil {
		return model.Menu{}, err
	}
	return s.loadMenu(ctx, menuID)
}

// CreateMenu adds a menu to a church. A church has at most one menu per
// location and unique slugs; duplicates are ErrConflict.
func (s *MenuService) CreateMenu(ctx context.Context, in model.MenuInput) (model.Menu, error) {
	in.Normalize()
	if in.Slug == "" {
		in.Slug = util.Slugify(in.Name)
	}
	if err := validation.Struct(in); err != nil {
		return model.Menu{}, err
	}
	m, err := s.store.CreateMenu(ctx, model.Menu{
		ChurchID: in.ChurchID,
		Name:     in.Name,
		Slug:     in.Slug,
		Location: in.Location,
	})
	if err != nil {
		return model.Menu{}, err
	}
	slog.Info("menu created", "church_id", m.ChurchID, "menu_id", m.ID, "location", m.Location)
	return m, nil
}

// EnsureMenus creates the missing location menus of a church.
func (s *MenuService) EnsureMenus(ctx context.Context, churchID string) ([]model.Menu, error) {
	return store.SeedMenus(ctx, s.store.Queries, churchID)
}

// Preload warms the cache with every menu.
func (s *MenuService) Preload(ctx context.Context) (int, error) {
	menus, err := s.store.ListMenus(ctx, "")
	if err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(menus))
	for _, m := range menus {
		ids = append(ids, m.ID)
	}
	if err := s.cache.Preload(ctx, ids, s.opts.PreloadParallelism); err != nil {
		return 0, fmt.Errorf("preloading menus: %w", err)
	}
	return len(ids), nil
}

// InvalidateAll drops every cached tree.
func (s *MenuService) InvalidateAll(ctx context.Context) error {
	return s.cache.InvalidateAll(ctx)
}

// finish runs after every mutation: it counts the outcome and, on success,
// drops the cached tree.
func (s *MenuService) finish(ctx context.Context, op, menuID string, err error) {
	metrics.RecordMutation(op, err)
	if err != nil {
		slog.Debug("menu mutation rejected", "operation", op, "menu_id", menuID, "error", err)
		return
	}
	if cerr := s.cache.Invalidate(context.WithoutCancel(ctx), menuID); cerr != nil {
		slog.Warn("menu cache invalidation failed", "category", model.EventCategoryCache, "menu_id", menuID, "error", cerr)
	}
	slog.Info("menu updated", "operation", op, "menu_id", menuID)
}
