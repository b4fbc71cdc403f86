// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package editor models the menu editing surface: a session holding one
// menu tree, the add/edit draft flow, the confirm-then-delete flow and
// optimistic visibility and order changes.
package editor

import (
	"context"
	"errors"
	"maps"

	"github.com/olegiv/churchnav/internal/model"
	"github.com/olegiv/churchnav/internal/navigation"
)

// State is the state of an editing session.
type State int

// Session states.
const (
	StateViewing State = iota
	StateEditing
	StateConfirmPending
)

func (s State) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	case StateConfirmPending:
		return "confirm-pending"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidState is returned for operations the current state does not allow.
	ErrInvalidState = errors.New("operation not allowed in current state")
	// ErrClosed is returned once the session is closed.
	ErrClosed = errors.New("editor session closed")
)

// Repository persists menus. *service.MenuService and *client.Client both
// implement it.
type Repository interface {
	GetMenu(ctx context.Context, menuID string) (model.Menu, error)
	CreateItem(ctx context.Context, menuID string, in model.ItemInput) (model.MenuItem, error)
	UpdateItem(ctx context.Context, menuID, itemID string, patch model.ItemPatch) (model.MenuItem, error)
	DeleteItem(ctx context.Context, menuID, itemID string) ([]string, error)
	Reorder(ctx context.Context, menuID string, itemIDs []string) (model.Menu, error)
}

// Draft is the item being added or edited.
type Draft struct {
	Item model.MenuItem
	// base is the item as it was when editing began; zero for new items.
	base model.MenuItem
}

// IsNew reports whether saving the draft creates an item.
func (d Draft) IsNew() bool {
	return d.base.ID == ""
}

// Snapshot is a copy of the session state, safe to keep and read.
type Snapshot struct {
	State         State
	Menu          model.Menu
	Draft         *Draft
	PendingDelete string
	LastError     error
}

// Dropdown derives the dropdown preview of a top-level item in the snapshot.
func (s Snapshot) Dropdown(itemID string) (navigation.DropdownData, bool) {
	for _, top := range s.Menu.Items {
		if top.ID == itemID {
			return navigation.BuildDropdownData(top), true
		}
	}
	return navigation.DropdownData{}, false
}

func cloneMenu(m model.Menu) model.Menu {
	if m.Items == nil {
		return m
	}
	items := make([]model.TopLevelItem, len(m.Items))
	for i, top := range m.Items {
		top.MenuItem = cloneItem(top.MenuItem)
		kids := make([]model.ChildItem, len(top.Children))
		for j, child := range top.Children {
			kids[j] = model.ChildItem{MenuItem: cloneItem(child.MenuItem)}
		}
		top.Children = kids
		items[i] = top
	}
	m.Items = items
	return m
}

func cloneItem(it model.MenuItem) model.MenuItem {
	it.ParentID = cloneString(it.ParentID)
	it.Href = cloneString(it.Href)
	it.Description = cloneString(it.Description)
	it.IconName = cloneString(it.IconName)
	it.GroupLabel = cloneString(it.GroupLabel)
	it.FeaturedImage = cloneString(it.FeaturedImage)
	it.FeaturedTitle = cloneString(it.FeaturedTitle)
	it.FeaturedDescription = cloneString(it.FeaturedDescription)
	it.FeaturedHref = cloneString(it.FeaturedHref)
	it.GroupLayouts = maps.Clone(it.GroupLayouts)
	return it
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneDraft(d *Draft) *Draft {
	if d == nil {
		return nil
	}
	return &Draft{Item: cloneItem(d.Item), base: cloneItem(d.base)}
}
