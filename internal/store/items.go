// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/churchnav/internal/model"
)

const itemColumns = `id, menu_id, parent_id, label, href, description, icon_name,
	open_in_new_tab, is_external, group_label, sort_order, is_visible,
	featured_image, featured_title, featured_description, featured_href,
	kind, group_layouts, created_at, updated_at`

func scanItem(row scanner) (model.MenuItem, error) {
	var (
		it                                        model.MenuItem
		parentID, href, description, iconName     sql.NullString
		groupLabel, featuredImage, featuredTitle  sql.NullString
		featuredDescription, featuredHref, layout sql.NullString
		kind                                      string
	)
	err := row.Scan(
		&it.ID, &it.MenuID, &parentID, &it.Label, &href, &description, &iconName,
		&it.OpenInNewTab, &it.IsExternal, &groupLabel, &it.SortOrder, &it.IsVisible,
		&featuredImage, &featuredTitle, &featuredDescription, &featuredHref,
		&kind, &layout, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return model.MenuItem{}, err
	}

	it.ParentID = stringPtr(parentID)
	it.Href = stringPtr(href)
	it.Description = stringPtr(description)
	it.IconName = stringPtr(iconName)
	it.GroupLabel = stringPtr(groupLabel)
	it.FeaturedImage = stringPtr(featuredImage)
	it.FeaturedTitle = stringPtr(featuredTitle)
	it.FeaturedDescription = stringPtr(featuredDescription)
	it.FeaturedHref = stringPtr(featuredHref)
	it.Kind = model.ItemKind(kind)
	if layout.Valid && layout.String != "" {
		if err := json.Unmarshal([]byte(layout.String), &it.GroupLayouts); err != nil {
			return model.MenuItem{}, fmt.Errorf("decoding group layouts of item %s: %w", it.ID, err)
		}
	}
	return it, nil
}

func encodeLayouts(layouts map[string]model.LayoutHint) (sql.NullString, error) {
	if len(layouts) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(layouts)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encoding group layouts: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

// ListItems returns every item of a menu, hidden ones included, ordered by
// sort order.
func (q *Queries) ListItems(ctx context.Context, menuID string) ([]model.MenuItem, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+itemColumns+` FROM menu_items
		WHERE menu_id = ?
		ORDER BY sort_order, id
	`, menuID)
	if err != nil {
		return nil, fmt.Errorf("listing items of menu %s: %w", menuID, err)
	}
	defer func() { _ = rows.Close() }()

	items := []model.MenuItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning menu item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetItem returns one item of a menu.
func (q *Queries) GetItem(ctx context.Context, menuID, itemID string) (model.MenuItem, error) {
	it, err := scanItem(q.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM menu_items WHERE menu_id = ? AND id = ?
	`, menuID, itemID))
	if isNoRows(err) {
		return model.MenuItem{}, fmt.Errorf("menu item %s: %w", itemID, model.ErrNotFound)
	}
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("loading menu item %s: %w", itemID, err)
	}
	return it, nil
}

// CreateItem inserts an item. The id and timestamps are filled in when empty.
func (q *Queries) CreateItem(ctx context.Context, it model.MenuItem) (model.MenuItem, error) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if it.CreatedAt.IsZero() {
		it.CreatedAt = now
	}
	if it.UpdatedAt.IsZero() {
		it.UpdatedAt = now
	}
	layouts, err := encodeLayouts(it.GroupLayouts)
	if err != nil {
		return model.MenuItem{}, err
	}

	_, err = q.db.ExecContext(ctx, `
		INSERT INTO menu_items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		it.ID, it.MenuID, nullString(it.ParentID), it.Label, nullString(it.Href),
		nullString(it.Description), nullString(it.IconName), it.OpenInNewTab, it.IsExternal,
		nullString(it.GroupLabel), it.SortOrder, it.IsVisible, nullString(it.FeaturedImage),
		nullString(it.FeaturedTitle), nullString(it.FeaturedDescription), nullString(it.FeaturedHref),
		string(it.Kind), layouts, it.CreatedAt, it.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return model.MenuItem{}, fmt.Errorf("%w: menu item %s already exists", model.ErrConflict, it.ID)
	}
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("inserting menu item: %w", err)
	}
	return it, nil
}

// UpdateItem overwrites every mutable column of an item.
func (q *Queries) UpdateItem(ctx context.Context, it model.MenuItem) error {
	layouts, err := encodeLayouts(it.GroupLayouts)
	if err != nil {
		return err
	}
	if it.UpdatedAt.IsZero() {
		it.UpdatedAt = time.Now().UTC()
	}

	res, err := q.db.ExecContext(ctx, `
		UPDATE menu_items SET
			parent_id = ?,
			label = ?,
			href = ?,
			description = ?,
			icon_name = ?,
			open_in_new_tab = ?,
			is_external = ?,
			group_label = ?,
			sort_order = ?,
			is_visible = ?,
			featured_image = ?,
			featured_title = ?,
			featured_description = ?,
			featured_href = ?,
			kind = ?,
			group_layouts = ?,
			updated_at = ?
		WHERE menu_id = ? AND id = ?
	`,
		nullString(it.ParentID), it.Label, nullString(it.Href), nullString(it.Description),
		nullString(it.IconName), it.OpenInNewTab, it.IsExternal, nullString(it.GroupLabel),
		it.SortOrder, it.IsVisible, nullString(it.FeaturedImage), nullString(it.FeaturedTitle),
		nullString(it.FeaturedDescription), nullString(it.FeaturedHref), string(it.Kind), layouts,
		it.UpdatedAt, it.MenuID, it.ID,
	)
	if err != nil {
		return fmt.Errorf("updating menu item %s: %w", it.ID, err)
	}
	return expectRow(res, it.ID)
}

// SetSortOrder moves one item to position order.
func (q *Queries) SetSortOrder(ctx context.Context, menuID, itemID string, order int, at time.Time) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE menu_items SET sort_order = ?, updated_at = ? WHERE menu_id = ? AND id = ?
	`, order, at.UTC(), menuID, itemID)
	if err != nil {
		return fmt.Errorf("setting sort order of %s: %w", itemID, err)
	}
	return expectRow(res, itemID)
}

// SiblingSortOrders returns the sort orders of the items sharing parentID,
// nil meaning the top level.
func (q *Queries) SiblingSortOrders(ctx context.Context, menuID string, parentID *string) ([]int, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT sort_order FROM menu_items WHERE menu_id = ? AND parent_id IS ? ORDER BY sort_order
	`, menuID, nullString(parentID))
	if err != nil {
		return nil, fmt.Errorf("listing sibling sort orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var orders []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning sort order: %w", err)
		}
		orders = append(orders, n)
	}
	return orders, rows.Err()
}

// DeleteItem removes an item and its children and returns the removed ids.
// Children are deleted explicitly so the result does not depend on the
// connection's foreign key setting.
func (q *Queries) DeleteItem(ctx context.Context, menuID, itemID string) ([]string, error) {
	if _, err := q.GetItem(ctx, menuID, itemID); err != nil {
		return nil, err
	}

	rows, err := q.db.QueryContext(ctx, `
		SELECT id FROM menu_items WHERE menu_id = ? AND parent_id = ? ORDER BY sort_order, id
	`, menuID, itemID)
	if err != nil {
		return nil, fmt.Errorf("listing children of %s: %w", itemID, err)
	}
	removed := []string{itemID}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scanning child id: %w", err)
		}
		removed = append(removed, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	if _, err := q.db.ExecContext(ctx, `DELETE FROM menu_items WHERE menu_id = ? AND parent_id = ?`, menuID, itemID); err != nil {
		return nil, fmt.Errorf("deleting children of %s: %w", itemID, err)
	}
	if _, err := q.db.ExecContext(ctx, `DELETE FROM menu_items WHERE menu_id = ? AND id = ?`, menuID, itemID); err != nil {
		return nil, fmt.Errorf("deleting menu item %s: %w", itemID, err)
	}
	return removed, nil
}

func expectRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("menu item %s: %w", id, model.ErrNotFound)
	}
	return nil
}
