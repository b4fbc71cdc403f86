// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package navigation holds the pure menu algorithms: assembling the
// two-level item tree, deriving dropdown sections, resolving icons and
// computing reorders. Nothing here performs I/O.
package navigation

import (
	"fmt"
	"sort"

	"github.com/olegiv/churchnav/internal/model"
)

// Problem describes a flat row that could not be placed in the tree.
type Problem struct {
	Item model.MenuItem
	Err  error
}

// Assemble converts flat items into a tree ordered by sort order. Rows
// whose parent is missing or is itself a child are returned as problems
// instead of being placed.
func Assemble(items []model.MenuItem) ([]model.TopLevelItem, []Problem) {
	byID := make(map[string]model.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	var problems []Problem
	var tops []model.TopLevelItem
	children := make(map[string][]model.ChildItem)

	for _, item := range items {
		if item.IsTopLevel() {
			item.ParentID = nil
			tops = append(tops, model.TopLevelItem{MenuItem: item})
			continue
		}
		parent, ok := byID[*item.ParentID]
		switch {
		case !ok:
			problems = append(problems, Problem{Item: item, Err: model.ErrOrphanItem})
		case !parent.IsTopLevel():
			problems = append(problems, Problem{Item: item, Err: model.ErrDepthExceeded})
		default:
			children[parent.ID] = append(children[parent.ID], model.ChildItem{MenuItem: item})
		}
	}

	sortTopLevel(tops)
	for i := range tops {
		kids := children[tops[i].ID]
		sortChildren(kids)
		if kids == nil {
			kids = []model.ChildItem{}
		}
		tops[i].Children = kids
	}

	return tops, problems
}

// BuildTree is the strict form of Assemble: any misplaced row is an error.
func BuildTree(items []model.MenuItem) ([]model.TopLevelItem, error) {
	tree, problems := Assemble(items)
	if len(problems) > 0 {
		p := problems[0]
		return nil, fmt.Errorf("item %s: %w", p.Item.ID, p.Err)
	}
	return tree, nil
}

// Flatten is the inverse of Assemble.
func Flatten(tree []model.TopLevelItem) []model.MenuItem {
	return model.Menu{Items: tree}.Flatten()
}

// ValidateParent checks that placing itemID under parentID keeps the tree
// two levels deep. itemID is empty for items that do not exist yet.
func ValidateParent(items []model.MenuItem, itemID string, parentID *string) error {
	if parentID == nil || *parentID == "" {
		return nil
	}
	if *parentID == itemID {
		return fmt.Errorf("%w: an item cannot be its own parent", model.ErrDepthExceeded)
	}

	var parent *model.MenuItem
	for i := range items {
		if items[i].ID == *parentID {
			parent = &items[i]
			break
		}
	}
	if parent == nil {
		return fmt.Errorf("parent %s: %w", *parentID, model.ErrOrphanItem)
	}
	if !parent.IsTopLevel() {
		return fmt.Errorf("%w: parent %s is already a child", model.ErrDepthExceeded, parent.ID)
	}

	if itemID != "" {
		for _, item := range items {
			if item.ParentID != nil && *item.ParentID == itemID {
				return fmt.Errorf("%w: item %s has children and cannot be nested", model.ErrDepthExceeded, itemID)
			}
		}
	}
	return nil
}

// VisibleOnly drops hidden items. Children of a hidden parent go with it.
func VisibleOnly(tree []model.TopLevelItem) []model.TopLevelItem {
	out := make([]model.TopLevelItem, 0, len(tree))
	for _, top := range tree {
		if !top.IsVisible {
			continue
		}
		kids := make([]model.ChildItem, 0, len(top.Children))
		for _, child := range top.Children {
			if child.IsVisible {
				kids = append(kids, child)
			}
		}
		top.Children = kids
		out = append(out, top)
	}
	return out
}

// RemoveItem deletes id from the tree together with any children and
// returns every removed id. The input is not modified.
func RemoveItem(tree []model.TopLevelItem, id string) ([]model.TopLevelItem, []string) {
	out := make([]model.TopLevelItem, 0, len(tree))
	var removed []string
	for _, top := range tree {
		if top.ID == id {
			removed = append(removed, top.ID)
			for _, child := range top.Children {
				removed = append(removed, child.ID)
			}
			continue
		}
		kids := make([]model.ChildItem, 0, len(top.Children))
		for _, child := range top.Children {
			if child.ID == id {
				removed = append(removed, child.ID)
				continue
			}
			kids = append(kids, child)
		}
		top.Children = kids
		out = append(out, top)
	}
	return out, removed
}

// UpsertItem inserts or replaces item and returns the re-assembled tree.
// A changed parent moves the item to its new sibling set.
func UpsertItem(tree []model.TopLevelItem, item model.MenuItem) []model.TopLevelItem {
	flat := Flatten(tree)
	replaced := false
	for i := range flat {
		if flat[i].ID == item.ID {
			flat[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		flat = append(flat, item)
	}
	out, _ := Assemble(flat)
	return out
}

// SetVisibility returns a copy of the tree with the item's visibility changed.
func SetVisibility(tree []model.TopLevelItem, id string, visible bool) []model.TopLevelItem {
	out := make([]model.TopLevelItem, len(tree))
	for i, top := range tree {
		if top.ID == id {
			top.IsVisible = visible
		}
		kids := make([]model.ChildItem, len(top.Children))
		for j, child := range top.Children {
			if child.ID == id {
				child.IsVisible = visible
			}
			kids[j] = child
		}
		top.Children = kids
		out[i] = top
	}
	return out
}

func sortTopLevel(items []model.TopLevelItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return items[i].ID < items[j].ID
	})
}

func sortChildren(items []model.ChildItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return items[i].ID < items[j].ID
	})
}
