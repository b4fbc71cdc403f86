// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/olegiv/churchnav/internal/model"
	"github.com/olegiv/churchnav/internal/util"
)

// SeedMenus makes sure the church has one menu per location. Existing
// menus are left alone. It returns the menus it created.
func SeedMenus(ctx context.Context, q *Queries, churchID string) ([]model.Menu, error) {
	churchID = strings.TrimSpace(churchID)
	if churchID == "" {
		return nil, fmt.Errorf("%w: church id is required", model.ErrValidation)
	}

	var created []model.Menu
	for _, loc := range model.Locations {
		_, err := q.GetMenuByLocation(ctx, churchID, loc)
		if err == nil {
			continue
		}
		if !errors.Is(err, model.ErrNotFound) {
			return created, err
		}

		name := menuName(loc)
		base := util.Slugify(name)
		var lookupErr error
		slug := util.UniqueSlug(base, func(s string) bool {
			exists, err := q.MenuSlugExists(ctx, churchID, s)
			if err != nil {
				lookupErr = err
				return false
			}
			return exists
		})
		if lookupErr != nil {
			return created, lookupErr
		}

		m, err := q.CreateMenu(ctx, model.Menu{ChurchID: churchID, Name: name, Slug: slug, Location: loc})
		if err != nil {
			return created, fmt.Errorf("seeding %s menu: %w", loc, err)
		}
		slog.Info("created menu", "church_id", churchID, "menu_id", m.ID, "location", loc)
		created = append(created, m)
	}

	if len(created) == 0 {
		slog.Info("menus already exist, skipping seed", "church_id", churchID)
	}
	return created, nil
}

func menuName(loc model.Location) string {
	s := strings.ToLower(string(loc))
	return strings.ToUpper(s[:1]) + s[1:] + " Menu"
}
