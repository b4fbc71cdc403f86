// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/churchnav/internal/cache"
	"github.com/olegiv/churchnav/internal/model"
	"github.com/olegiv/churchnav/internal/testutil"
)

type fixture struct {
	svc    *MenuService
	menuID string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	st := testutil.TestStore(t)
	backend := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = backend.Close() })

	svc := NewMenuService(st, backend, MenuOptions{})
	menus, err := svc.EnsureMenus(context.Background(), "grace")
	require.NoError(t, err)
	require.Len(t, menus, 4)
	return fixture{svc: svc, menuID: menus[0].ID}
}

func (f fixture) create(t *testing.T, in model.ItemInput) model.MenuItem {
	t.Helper()
	it, err := f.svc.CreateItem(context.Background(), f.menuID, in)
	require.NoError(t, err)
	return it
}

func sp(s string) *string { return &s }

func topIDs(m model.Menu) []string {
	return m.TopLevelIDs()
}

func TestCreateItem_AssignsSortOrder(t *testing.T) {
	f := newFixture(t)

	a := f.create(t, model.ItemInput{Label: "  Home  ", Href: sp("/")})
	b := f.create(t, model.ItemInput{Label: "Visit"})
	child := f.create(t, model.ItemInput{Label: "Plan", ParentID: &b.ID})
	overview := f.create(t, model.ItemInput{
		Label:         "Overview",
		ParentID:      &b.ID,
		Kind:          model.KindOverviewLink,
		FeaturedTitle: sp("Plan your visit"),
		FeaturedHref:  sp("/visit"),
	})
	second := f.create(t, model.ItemInput{Label: "Times", ParentID: &b.ID})

	assert.Equal(t, "Home", a.Label)
	assert.True(t, a.IsVisible, "items are visible by default")
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, 0, a.SortOrder)
	assert.Equal(t, 1, b.SortOrder)
	assert.Equal(t, 0, child.SortOrder)
	assert.Equal(t, 99, overview.SortOrder)
	assert.Equal(t, 1, second.SortOrder, "regular items stay below the overview range")

	menu, err := f.svc.GetMenu(context.Background(), f.menuID)
	require.NoError(t, err)
	require.Len(t, menu.Items, 2)
	require.Len(t, menu.Items[1].Children, 3)
	assert.Equal(t, []string{"Plan", "Times", "Overview"}, []string{
		menu.Items[1].Children[0].Label,
		menu.Items[1].Children[1].Label,
		menu.Items[1].Children[2].Label,
	})
}

func TestCreateItem_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	top := f.create(t, model.ItemInput{Label: "Visit"})
	child := f.create(t, model.ItemInput{Label: "Plan", ParentID: &top.ID})

	_, err := f.svc.CreateItem(ctx, f.menuID, model.ItemInput{Label: "Deep", ParentID: &child.ID})
	assert.ErrorIs(t, err, model.ErrDepthExceeded)

	ghost := uuid.NewString()
	_, err = f.svc.CreateItem(ctx, f.menuID, model.ItemInput{Label: "Orphan", ParentID: &ghost})
	assert.ErrorIs(t, err, model.ErrOrphanItem)

	_, err = f.svc.CreateItem(ctx, f.menuID, model.ItemInput{Label: "   "})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = f.svc.CreateItem(ctx, f.menuID, model.ItemInput{Label: "Icon", IconName: sp("Not Kebab")})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = f.svc.CreateItem(ctx, uuid.NewString(), model.ItemInput{Label: "Lost"})
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = f.svc.CreateItem(ctx, f.menuID, model.ItemInput{Label: "Empty parent", ParentID: sp("")})
	assert.NoError(t, err, "an empty parent id means top level")
}

func TestGetMenu_SeesMutationsThroughCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.create(t, model.ItemInput{Label: "Home"})
	m, err := f.svc.GetMenu(ctx, f.menuID)
	require.NoError(t, err)
	require.Len(t, m.Items, 1)

	f.create(t, model.ItemInput{Label: "Give"})
	m, err = f.svc.GetMenu(ctx, f.menuID)
	require.NoError(t, err)
	assert.Len(t, m.Items, 2)
}

func TestUpdateItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	give := f.create(t, model.ItemInput{Label: "Give", Href: sp("/give"), IconName: sp("gift")})

	updated, err := f.svc.UpdateItem(ctx, f.menuID, give.ID, model.ItemPatch{
		Label:        model.Some("Giving"),
		Href:         model.Null[string](),
		OpenInNewTab: model.Some(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Giving", updated.Label)
	assert.Nil(t, updated.Href)
	assert.Equal(t, "gift", model.StringValue(updated.IconName), "absent fields are unchanged")
	assert.True(t, updated.OpenInNewTab)

	menu, err := f.svc.GetMenu(ctx, f.menuID)
	require.NoError(t, err)
	assert.Equal(t, "Giving", menu.Items[0].Label)

	_, err = f.svc.UpdateItem(ctx, f.menuID, give.ID, model.ItemPatch{Label: model.Null[string]()})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = f.svc.UpdateItem(ctx, f.menuID, uuid.NewString(), model.ItemPatch{Label: model.Some("x")})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdateItem_MoveBetweenParents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	about := f.create(t, model.ItemInput{Label: "About"})
	visit := f.create(t, model.ItemInput{Label: "Visit"})
	f.create(t, model.ItemInput{Label: "Plan", ParentID: &visit.ID})
	staff := f.create(t, model.ItemInput{Label: "Staff", ParentID: &about.ID})

	moved, err := f.svc.UpdateItem(ctx, f.menuID, staff.ID, model.ItemPatch{ParentID: model.Some(visit.ID)})
	require.NoError(t, err)
	assert.Equal(t, visit.ID, model.StringValue(moved.ParentID))
	assert.Equal(t, 1, moved.SortOrder, "moved items are appended")

	promoted, err := f.svc.UpdateItem(ctx, f.menuID, staff.ID, model.ItemPatch{ParentID: model.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, promoted.ParentID)
	assert.Equal(t, 2, promoted.SortOrder)

	_, err = f.svc.UpdateItem(ctx, f.menuID, visit.ID, model.ItemPatch{ParentID: model.Some(about.ID)})
	assert.ErrorIs(t, err, model.ErrDepthExceeded, "an item with children cannot become a child")

	_, err = f.svc.UpdateItem(ctx, f.menuID, about.ID, model.ItemPatch{ParentID: model.Some(about.ID)})
	assert.ErrorIs(t, err, model.ErrDepthExceeded)
}

func TestUpdateItem_SortOrderMustBeFree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.create(t, model.ItemInput{Label: "A"})
	b := f.create(t, model.ItemInput{Label: "B"})
	staff := f.create(t, model.ItemInput{Label: "Staff", ParentID: &a.ID})

	_, err := f.svc.UpdateItem(ctx, f.menuID, b.ID, model.ItemPatch{SortOrder: model.Some(a.SortOrder)})
	assert.ErrorIs(t, err, model.ErrConflict)

	moved, err := f.svc.UpdateItem(ctx, f.menuID, b.ID, model.ItemPatch{SortOrder: model.Some(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, moved.SortOrder)

	_, err = f.svc.UpdateItem(ctx, f.menuID, b.ID, model.ItemPatch{SortOrder: model.Some(5), Label: model.Some("Bee")})
	assert.NoError(t, err, "an item keeps its own sort order")

	_, err = f.svc.UpdateItem(ctx, f.menuID, staff.ID, model.ItemPatch{SortOrder: model.Some(5)})
	assert.NoError(t, err, "sort orders are only unique among siblings")

	_, err = f.svc.UpdateItem(ctx, f.menuID, b.ID, model.ItemPatch{
		ParentID:  model.Some(a.ID),
		SortOrder: model.Some(5),
	})
	assert.ErrorIs(t, err, model.ErrConflict, "the new sibling set is checked")

	menu, err := f.svc.GetMenu(ctx, f.menuID)
	require.NoError(t, err)
	require.Len(t, menu.Items, 2)
	assert.Equal(t, []int{0, 5}, []int{menu.Items[0].SortOrder, menu.Items[1].SortOrder})
}

func TestCreateItem_FullChildSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	parent := f.create(t, model.ItemInput{Label: "Ministries"})
	for i := range model.OverviewSortOrder {
		f.create(t, model.ItemInput{Label: fmt.Sprintf("Group %d", i), ParentID: &parent.ID})
	}

	_, err := f.svc.CreateItem(ctx, f.menuID, model.ItemInput{
		Label:         "Latecomer",
		ParentID:      &parent.ID,
		FeaturedTitle: sp("Would read as an overview"),
		FeaturedHref:  sp("/ministries"),
	})
	assert.ErrorIs(t, err, model.ErrValidation)

	regular := f.create(t, model.ItemInput{Label: "Latecomer", ParentID: &parent.ID, Kind: model.KindRegular})
	assert.Equal(t, model.OverviewSortOrder, regular.SortOrder)
	next := f.create(t, model.ItemInput{Label: "Another", ParentID: &parent.ID, Kind: model.KindRegular})
	assert.Equal(t, model.OverviewSortOrder+1, next.SortOrder)

	for i := range model.OverviewSortOrder {
		f.create(t, model.ItemInput{Label: fmt.Sprintf("Top %d", i)})
	}
	top := f.create(t, model.ItemInput{Label: "Top level is never an overview"})
	assert.Equal(t, model.OverviewSortOrder+1, top.SortOrder)
}

func TestDeleteItem_Cascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	give := f.create(t, model.ItemInput{Label: "Give"})
	f.create(t, model.ItemInput{Label: "Online", ParentID: &give.ID})
	f.create(t, model.ItemInput{Label: "Text", ParentID: &give.ID})
	f.create(t, model.ItemInput{Label: "About"})

	_, err := f.svc.GetMenu(ctx, f.menuID)
	require.NoError(t, err)

	removed, err := f.svc.DeleteItem(ctx, f.menuID, give.ID)
	require.NoError(t, err)
	assert.Len(t, removed, 3)

	menu, err := f.svc.GetMenu(ctx, f.menuID)
	require.NoError(t, err)
	require.Len(t, menu.Items, 1)
	assert.Equal(t, "About", menu.Items[0].Label)
	assert.Len(t, menu.Flatten(), 1)

	_, err = f.svc.DeleteItem(ctx, f.menuID, give.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteItem_TouchesMenu(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	give := f.create(t, model.ItemInput{Label: "Give"})
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	f.svc.now = func() time.Time { return at }

	_, err := f.svc.DeleteItem(ctx, f.menuID, give.ID)
	require.NoError(t, err)

	menu, err := f.svc.GetMenu(ctx, f.menuID)
	require.NoError(t, err)
	assert.True(t, menu.UpdatedAt.Equal(at), "updatedAt = %v, want %v", menu.UpdatedAt, at.UTC())
}

func TestReorder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.create(t, model.ItemInput{Label: "A"})
	b := f.create(t, model.ItemInput{Label: "B"})
	c := f.create(t, model.ItemInput{Label: "C"})
	child := f.create(t, model.ItemInput{Label: "B1", ParentID: &b.ID})

	menu, err := f.svc.Reorder(ctx, f.menuID, []string{b.ID, a.ID, c.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID, a.ID, c.ID}, topIDs(menu))
	for i, top := range menu.Items {
		assert.Equal(t, i, top.SortOrder)
	}
	require.Len(t, menu.Items[0].Children, 1)

	again, err := f.svc.Reorder(ctx, f.menuID, []string{b.ID, a.ID, c.ID})
	require.NoError(t, err)
	assert.Equal(t, topIDs(menu), topIDs(again))

	cached, err := f.svc.GetMenu(ctx, f.menuID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID, a.ID, c.ID}, topIDs(cached))

	_, err = f.svc.Reorder(ctx, f.menuID, []string{a.ID, b.ID})
	assert.ErrorIs(t, err, model.ErrValidation, "partial lists are rejected")

	_, err = f.svc.Reorder(ctx, f.menuID, []string{a.ID, b.ID, child.ID})
	assert.ErrorIs(t, err, model.ErrValidation, "children cannot be reordered")

	_, err = f.svc.Reorder(ctx, f.menuID, []string{a.ID, a.ID, c.ID})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = f.svc.Reorder(ctx, uuid.NewString(), []string{a.ID})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestNavigationAndDropdown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	visit := f.create(t, model.ItemInput{Label: "Visit", IconName: sp("map-pin")})
	hidden := false
	f.create(t, model.ItemInput{Label: "Secret", IsVisible: &hidden})
	plan := f.create(t, model.ItemInput{Label: "Plan", ParentID: &visit.ID, GroupLabel: sp("Quick Links"), Href: sp("/plan")})
	f.create(t, model.ItemInput{Label: "Draft", ParentID: &visit.ID, IsVisible: &hidden})
	f.create(t, model.ItemInput{
		Label:         "Overview",
		ParentID:      &visit.ID,
		Kind:          model.KindOverviewLink,
		FeaturedTitle: sp("Everything about visiting"),
		FeaturedHref:  sp("/visit"),
	})

	_, nav, err := f.svc.Navigation(ctx, "grace", model.LocationHeader)
	require.NoError(t, err)
	require.Len(t, nav, 1)
	require.NotNil(t, nav[0].Icon)
	require.Len(t, nav[0].Sections, 1)
	assert.Len(t, nav[0].Sections[0].Links, 1)
	require.NotNil(t, nav[0].OverviewLink)
	assert.Equal(t, "/visit", nav[0].OverviewLink.Href)

	dd, err := f.svc.Dropdown(ctx, f.menuID, visit.ID)
	require.NoError(t, err)
	require.Len(t, dd.Sections, 2, "the editor preview includes hidden children")

	_, err = f.svc.Dropdown(ctx, f.menuID, plan.ID)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = f.svc.Dropdown(ctx, f.menuID, uuid.NewString())
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, _, err = f.svc.Navigation(ctx, "unknown-church", model.LocationHeader)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPreload(t *testing.T) {
	f := newFixture(t)

	n, err := f.svc.Preload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	require.NoError(t, f.svc.InvalidateAll(context.Background()))
}

func TestEventService(t *testing.T) {
	st := testutil.TestStore(t)
	ctx := context.Background()
	events := NewEventService(st.Queries)

	_, err := st.CreateEvent(ctx, model.Event{Level: model.EventLevelWarning, Category: model.EventCategoryMenu, Message: "old", CreatedAt: time.Now().Add(-72 * time.Hour)})
	require.NoError(t, err)
	_, err = st.CreateEvent(ctx, model.Event{Level: model.EventLevelError, Category: model.EventCategoryMenu, Message: "new"})
	require.NoError(t, err)

	recent, err := events.Recent(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	n, err := events.DeleteOldEvents(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
