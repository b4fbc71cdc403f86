// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/churchnav/internal/model"
)

func TestMoveUp(t *testing.T) {
	ids := []string{"A", "B", "C"}

	got, changed := MoveUp(ids, 1)
	assert.True(t, changed)
	assert.Equal(t, []string{"B", "A", "C"}, got)
	assert.Equal(t, []string{"A", "B", "C"}, ids, "input is untouched")

	got, changed = MoveUp(ids, 0)
	assert.False(t, changed)
	assert.Equal(t, ids, got)
}

func TestMoveDown(t *testing.T) {
	ids := []string{"A", "B", "C"}

	got, changed := MoveDown(ids, 0)
	assert.True(t, changed)
	assert.Equal(t, []string{"B", "A", "C"}, got)

	_, changed = MoveDown(ids, 2)
	assert.False(t, changed)
	_, changed = MoveDown(ids, -1)
	assert.False(t, changed)
}

func TestMove(t *testing.T) {
	tests := []struct {
		name        string
		from, to    int
		want        []string
		wantChanged bool
	}{
		{"front to back", 0, 3, []string{"B", "C", "D", "A"}, true},
		{"back to front", 3, 0, []string{"D", "A", "B", "C"}, true},
		{"clamped high", 1, 10, []string{"A", "C", "D", "B"}, true},
		{"clamped low", 2, -4, []string{"C", "A", "B", "D"}, true},
		{"same index", 2, 2, []string{"A", "B", "C", "D"}, false},
		{"source out of range", 7, 0, []string{"A", "B", "C", "D"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := Move([]string{"A", "B", "C", "D"}, tt.from, tt.to)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestAssignSortOrder(t *testing.T) {
	assert.Equal(t, map[string]int{"B": 0, "A": 1, "C": 2}, AssignSortOrder([]string{"B", "A", "C"}))
	assert.Equal(t, 1, IndexOf([]string{"B", "A"}, "A"))
	assert.Equal(t, -1, IndexOf([]string{"B", "A"}, "Z"))
}

func TestCheckPermutation(t *testing.T) {
	current := []string{"A", "B", "C"}

	assert.NoError(t, CheckPermutation(current, []string{"C", "A", "B"}))
	assert.ErrorIs(t, CheckPermutation(current, []string{"A", "B"}), model.ErrValidation)
	assert.ErrorIs(t, CheckPermutation(current, []string{"A", "B", "X"}), model.ErrValidation)
	assert.ErrorIs(t, CheckPermutation(current, []string{"A", "A", "B"}), model.ErrValidation)
}

func TestApplyOrder(t *testing.T) {
	tree, err := BuildTree([]model.MenuItem{
		flatItem("A", "", 0),
		flatItem("B", "", 1),
		flatItem("B1", "B", 4),
		flatItem("C", "", 2),
	})
	require.NoError(t, err)

	ids, _ := MoveUp([]string{"A", "B", "C"}, 1)
	got, err := ApplyOrder(tree, ids)
	require.NoError(t, err)

	require.Len(t, got, 3)
	for i, want := range []string{"B", "A", "C"} {
		assert.Equal(t, want, got[i].ID)
		assert.Equal(t, i, got[i].SortOrder)
	}
	assert.Equal(t, 4, got[0].Children[0].SortOrder, "children keep their order")

	again, err := ApplyOrder(got, ids)
	require.NoError(t, err)
	assert.Equal(t, got, again, "applying the same order twice is a no-op")

	_, err = ApplyOrder(tree, []string{"A", "B"})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestNextSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		siblings []int
		kind     model.ItemKind
		want     int
	}{
		{"empty", nil, model.KindInferred, 0},
		{"append", []int{0, 1, 2}, model.KindInferred, 3},
		{"gap", []int{0, 5}, model.KindRegular, 6},
		{"skips overview range", []int{0, 1, 99}, model.KindInferred, 2},
		{"overview on empty", nil, model.KindOverviewLink, 99},
		{"overview below range", []int{0, 3}, model.KindOverviewLink, 99},
		{"overview after overview", []int{0, 99, 104}, model.KindOverviewLink, 105},
		{"regular past a full range", []int{0, 98, 99}, model.KindRegular, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextSortOrder(tt.siblings, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextSortOrder_FullSiblingSet(t *testing.T) {
	var inferred, regular []int
	for range 150 {
		n, err := NextSortOrder(inferred, model.KindInferred)
		if err != nil {
			assert.ErrorIs(t, err, model.ErrValidation)
			break
		}
		inferred = append(inferred, n)
	}
	require.Len(t, inferred, model.OverviewSortOrder)
	assert.Equal(t, model.OverviewSortOrder-1, inferred[len(inferred)-1])

	for range 150 {
		n, err := NextSortOrder(regular, model.KindRegular)
		require.NoError(t, err)
		regular = append(regular, n)
	}
	seen := make(map[int]bool, len(regular))
	for _, n := range regular {
		assert.False(t, seen[n], "sort order %d handed out twice", n)
		seen[n] = true
	}
	assert.Equal(t, 149, regular[len(regular)-1])
}
