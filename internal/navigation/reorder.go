// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package navigation

import (
	"fmt"

	"github.com/olegiv/churchnav/internal/model"
)

// Move removes the element at from and reinserts it at to, clamped to the
// slice bounds. It returns a new slice and whether the order changed; an
// out of range source or a move onto itself reports false.
func Move(ids []string, from, to int) ([]string, bool) {
	if from < 0 || from >= len(ids) {
		return ids, false
	}
	if to < 0 {
		to = 0
	}
	if to > len(ids)-1 {
		to = len(ids) - 1
	}
	if from == to {
		return ids, false
	}

	out := make([]string, 0, len(ids))
	moved := ids[from]
	for i, id := range ids {
		if i != from {
			out = append(out, id)
		}
	}
	out = append(out[:to], append([]string{moved}, out[to:]...)...)
	return out, true
}

// MoveUp moves the element at index one position towards the front.
func MoveUp(ids []string, index int) ([]string, bool) {
	if index <= 0 {
		return ids, false
	}
	return Move(ids, index, index-1)
}

// MoveDown moves the element at index one position towards the back.
func MoveDown(ids []string, index int) ([]string, bool) {
	if index < 0 || index >= len(ids)-1 {
		return ids, false
	}
	return Move(ids, index, index+1)
}

// IndexOf returns the position of id, or -1.
func IndexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// AssignSortOrder maps every id to its position in the list.
func AssignSortOrder(ids []string) map[string]int {
	out := make(map[string]int, len(ids))
	for i, id := range ids {
		out[id] = i
	}
	return out
}

// CheckPermutation verifies that submitted contains exactly the ids in
// current, each once.
func CheckPermutation(current, submitted []string) error {
	if len(current) != len(submitted) {
		return fmt.Errorf("%w: expected %d item ids, got %d", model.ErrValidation, len(current), len(submitted))
	}
	known := make(map[string]bool, len(current))
	for _, id := range current {
		known[id] = true
	}
	seen := make(map[string]bool, len(submitted))
	for _, id := range submitted {
		if !known[id] {
			return fmt.Errorf("%w: item %s is not in this sibling set", model.ErrValidation, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: item %s listed twice", model.ErrValidation, id)
		}
		seen[id] = true
	}
	return nil
}

// ApplyOrder returns the tree with its top-level items in the order of ids
// and their sort order set to their new index. Children are untouched.
func ApplyOrder(tree []model.TopLevelItem, ids []string) ([]model.TopLevelItem, error) {
	current := make([]string, 0, len(tree))
	byID := make(map[string]model.TopLevelItem, len(tree))
	for _, top := range tree {
		current = append(current, top.ID)
		byID[top.ID] = top
	}
	if err := CheckPermutation(current, ids); err != nil {
		return nil, err
	}

	out := make([]model.TopLevelItem, 0, len(ids))
	for i, id := range ids {
		top := byID[id]
		top.SortOrder = i
		out = append(out, top)
	}
	return out, nil
}

// NextSortOrder returns the sort order that appends a new item to a sibling
// set. Regular items go after the last sibling below the overview range;
// overview links go after every sibling and never below OverviewSortOrder.
// Once the range below OverviewSortOrder is used up, an explicit regular
// item goes after every sibling, while an item of inferred kind is refused:
// with featured fields it would be read as an overview link.
func NextSortOrder(siblings []int, kind model.ItemKind) (int, error) {
	if kind == model.KindOverviewLink {
		return after(siblings, model.OverviewSortOrder), nil
	}
	next := 0
	for _, n := range siblings {
		if n < model.OverviewSortOrder && n >= next {
			next = n + 1
		}
	}
	if next < model.OverviewSortOrder {
		return next, nil
	}
	if kind == model.KindRegular {
		return after(siblings, next), nil
	}
	return 0, fmt.Errorf("%w: sort orders below %d are used up; create the item with kind %q",
		model.ErrValidation, model.OverviewSortOrder, model.KindRegular)
}

func after(siblings []int, floor int) int {
	next := floor
	for _, n := range siblings {
		if n >= next {
			next = n + 1
		}
	}
	return next
}
