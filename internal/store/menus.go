// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/churchnav/internal/model"
)

const menuColumns = `id, church_id, name, slug, location, created_at, updated_at`

func scanMenu(row scanner) (model.Menu, error) {
	var m model.Menu
	var location string
	if err := row.Scan(&m.ID, &m.ChurchID, &m.Name, &m.Slug, &location, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return model.Menu{}, err
	}
	m.Location = model.Location(location)
	return m, nil
}

// CreateMenu inserts a menu. The id and timestamps are filled in when empty.
// A duplicate slug or location for the church is ErrConflict.
func (q *Queries) CreateMenu(ctx context.Context, m model.Menu) (model.Menu, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}

	_, err := q.db.ExecContext(ctx, `
		INSERT INTO menus (`+menuColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.ChurchID, m.Name, m.Slug, string(m.Location), m.CreatedAt, m.UpdatedAt)
	if isUniqueViolation(err) {
		return model.Menu{}, fmt.Errorf("%w: church %s already has menu %q at %s", model.ErrConflict, m.ChurchID, m.Slug, m.Location)
	}
	if err != nil {
		return model.Menu{}, fmt.Errorf("inserting menu: %w", err)
	}
	return m, nil
}

// GetMenu returns a menu without items.
func (q *Queries) GetMenu(ctx context.Context, id string) (model.Menu, error) {
	m, err := scanMenu(q.db.QueryRowContext(ctx, `SELECT `+menuColumns+` FROM menus WHERE id = ?`, id))
	if isNoRows(err) {
		return model.Menu{}, fmt.Errorf("menu %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return model.Menu{}, fmt.Errorf("loading menu %s: %w", id, err)
	}
	return m, nil
}

// GetMenuByLocation returns the church's menu for a location.
func (q *Queries) GetMenuByLocation(ctx context.Context, churchID string, loc model.Location) (model.Menu, error) {
	m, err := scanMenu(q.db.QueryRowContext(ctx, `
		SELECT `+menuColumns+` FROM menus WHERE church_id = ? AND location = ?
	`, churchID, string(loc)))
	if isNoRows(err) {
		return model.Menu{}, fmt.Errorf("church %s menu %s: %w", churchID, loc, model.ErrNotFound)
	}
	if err != nil {
		return model.Menu{}, fmt.Errorf("loading menu %s/%s: %w", churchID, loc, err)
	}
	return m, nil
}

// ListMenus returns menus in location order. An empty churchID lists every
// church.
func (q *Queries) ListMenus(ctx context.Context, churchID string) ([]model.Menu, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+menuColumns+` FROM menus
		WHERE ? = '' OR church_id = ?
		ORDER BY church_id,
			CASE location WHEN 'HEADER' THEN 0 WHEN 'FOOTER' THEN 1 WHEN 'MOBILE' THEN 2 ELSE 3 END,
			slug
	`, churchID, churchID)
	if err != nil {
		return nil, fmt.Errorf("listing menus: %w", err)
	}
	defer func() { _ = rows.Close() }()

	menus := []model.Menu{}
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning menu: %w", err)
		}
		menus = append(menus, m)
	}
	return menus, rows.Err()
}

// MenuSlugExists reports whether the church already uses slug.
func (q *Queries) MenuSlugExists(ctx context.Context, churchID, slug string) (bool, error) {
	var n int
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM menus WHERE church_id = ? AND slug = ?`, churchID, slug).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking menu slug: %w", err)
	}
	return n > 0, nil
}

// TouchMenu bumps the menu's updated_at.
func (q *Queries) TouchMenu(ctx context.Context, id string, at time.Time) error {
	_, err := q.db.ExecContext(ctx, `UPDATE menus SET updated_at = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("touching menu %s: %w", id, err)
	}
	return nil
}
