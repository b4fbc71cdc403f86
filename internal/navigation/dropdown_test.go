// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package navigation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/churchnav/internal/model"
)

func str(s string) *string { return &s }

func child(id, label, group string, sortOrder int) model.ChildItem {
	parent := "parent"
	item := model.MenuItem{ID: id, ParentID: &parent, Label: label, SortOrder: sortOrder, IsVisible: true}
	if group != "" {
		item.GroupLabel = str(group)
	}
	return model.ChildItem{MenuItem: item}
}

func overview(id, title, href string, sortOrder int) model.ChildItem {
	c := child(id, "Overview item", "", sortOrder)
	c.FeaturedTitle = str(title)
	c.FeaturedHref = str(href)
	return c
}

func TestBuildDropdownData_OverviewAndQuickLinks(t *testing.T) {
	a := child("a", "Plan a Visit", "Quick Links", 0)
	b := child("b", "Service Times", "Quick Links", 1)
	item := model.TopLevelItem{
		MenuItem: model.MenuItem{ID: "parent", Label: "Visit"},
		Children: []model.ChildItem{a, overview("o", "Overview", "/x", 99), b},
	}

	got := BuildDropdownData(item)

	want := DropdownData{
		Sections: []DropdownSection{{
			Title:   "Quick Links",
			Compact: true,
			Columns: 1,
			Layout:  model.LayoutCompact,
			Items:   []model.ChildItem{a, b},
		}},
		OverviewLink: &OverviewLink{Label: "Overview", Description: "", Href: "/x"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildDropdownData mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDropdownData_Empty(t *testing.T) {
	got := BuildDropdownData(model.TopLevelItem{MenuItem: model.MenuItem{ID: "p", Label: "Home"}})

	require.NotNil(t, got.Sections)
	assert.Empty(t, got.Sections)
	assert.Nil(t, got.OverviewLink)
	assert.Nil(t, got.FeaturedCard)
	assert.True(t, got.IsEmpty())
}

func TestBuildDropdownData_GroupOrderIsFirstOccurrence(t *testing.T) {
	item := model.TopLevelItem{
		MenuItem: model.MenuItem{ID: "parent", Label: "Ministries"},
		Children: []model.ChildItem{
			child("1", "Kids", "Families", 0),
			child("2", "Bible Study", "", 1),
			child("3", "Youth", "Families", 2),
			child("4", "North Campus", "Our Campuses", 3),
			child("5", "Prayer", "", 4),
		},
	}

	got := BuildDropdownData(item)

	titles := make([]string, 0, len(got.Sections))
	for _, s := range got.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"Families", "", "Our Campuses"}, titles)
	assert.Len(t, got.Sections[0].Items, 2)
	assert.Equal(t, "Youth", got.Sections[0].Items[1].Label)
	assert.Len(t, got.Sections[1].Items, 2)

	campus := got.Sections[2]
	assert.Equal(t, 2, campus.Columns)
	assert.False(t, campus.Compact)
	assert.Equal(t, model.LayoutGrid2, campus.Layout)

	ungrouped := got.Sections[1]
	assert.Equal(t, 1, ungrouped.Columns)
	assert.Equal(t, model.LayoutDefault, ungrouped.Layout)
}

func TestBuildDropdownData_FirstOverviewWins(t *testing.T) {
	item := model.TopLevelItem{
		MenuItem: model.MenuItem{ID: "parent", Label: "Give"},
		Children: []model.ChildItem{
			child("a", "Online", "", 0),
			overview("o1", "All giving options", "/give", 99),
			overview("o2", "Second overview", "/give-2", 100),
		},
	}

	got := BuildDropdownData(item)

	require.NotNil(t, got.OverviewLink)
	assert.Equal(t, "All giving options", got.OverviewLink.Label)
	assert.Equal(t, "/give", got.OverviewLink.Href)
	require.Len(t, got.Sections, 1)
	assert.Len(t, got.Sections[0].Items, 1, "later overview matches must not become regular items")
}

func TestBuildDropdownData_SentinelNeedsAllConditions(t *testing.T) {
	lowOrder := overview("low", "Overview", "/x", 98)
	noHref := child("nohref", "Missing href", "", 120)
	noHref.FeaturedTitle = str("Overview")
	emptyTitle := overview("empty", "", "/x", 99)

	item := model.TopLevelItem{
		MenuItem: model.MenuItem{ID: "parent", Label: "About"},
		Children: []model.ChildItem{lowOrder, noHref, emptyTitle},
	}

	got := BuildDropdownData(item)

	assert.Nil(t, got.OverviewLink)
	require.Len(t, got.Sections, 1)
	assert.Len(t, got.Sections[0].Items, 3)
}

func TestBuildDropdownData_ExplicitKind(t *testing.T) {
	explicit := overview("o", "Learn more", "/about", 2)
	explicit.Kind = model.KindOverviewLink
	optOut := overview("r", "Not an overview", "/r", 150)
	optOut.Kind = model.KindRegular

	item := model.TopLevelItem{
		MenuItem: model.MenuItem{ID: "parent", Label: "About"},
		Children: []model.ChildItem{explicit, optOut},
	}

	got := BuildDropdownData(item)

	require.NotNil(t, got.OverviewLink)
	assert.Equal(t, "Learn more", got.OverviewLink.Label)
	require.Len(t, got.Sections, 1)
	assert.Equal(t, "r", got.Sections[0].Items[0].ID)
}

func TestBuildDropdownData_FeaturedCard(t *testing.T) {
	item := model.TopLevelItem{MenuItem: model.MenuItem{
		ID:                  "parent",
		Label:               "Sermons",
		FeaturedImage:       str("/img/series.jpg"),
		FeaturedTitle:       str("Current Series"),
		FeaturedDescription: str("Walking through *Romans*"),
		FeaturedHref:        str("/series/romans"),
	}}

	got := BuildDropdownData(item)

	require.NotNil(t, got.FeaturedCard)
	assert.Equal(t, FeaturedCard{
		Image:       "/img/series.jpg",
		Title:       "Current Series",
		Description: "Walking through *Romans*",
		Href:        "/series/romans",
	}, *got.FeaturedCard)

	item.FeaturedImage = str("")
	assert.Nil(t, BuildDropdownData(item).FeaturedCard, "empty image drops the card")
}

func TestBuildDropdownData_DoesNotMutateInput(t *testing.T) {
	children := []model.ChildItem{
		child("b", "B", "Two", 0),
		child("a", "A", "One", 1),
		overview("o", "Overview", "/o", 99),
	}
	item := model.TopLevelItem{MenuItem: model.MenuItem{ID: "parent"}, Children: children}
	before := append([]model.ChildItem(nil), children...)

	first := BuildDropdownData(item)
	second := BuildDropdownData(item)

	assert.Equal(t, before, item.Children)
	assert.Equal(t, first, second)
}

func TestLayoutFor(t *testing.T) {
	tests := []struct {
		title    string
		explicit map[string]model.LayoutHint
		want     model.LayoutHint
	}{
		{"Quick Links", nil, model.LayoutCompact},
		{"QUICK LINKS", nil, model.LayoutCompact},
		{"Quick Links and More", nil, model.LayoutDefault},
		{"Our Campuses", nil, model.LayoutGrid2},
		{"CAMPUS", nil, model.LayoutGrid2},
		{"", nil, model.LayoutDefault},
		{"Quick Links", map[string]model.LayoutHint{"Quick Links": model.LayoutDefault}, model.LayoutDefault},
		{"Ministries", map[string]model.LayoutHint{"Ministries": model.LayoutGrid2}, model.LayoutGrid2},
		{"Campuses", map[string]model.LayoutHint{"Campuses": "bogus"}, model.LayoutGrid2},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, LayoutFor(tt.title, tt.explicit))
		})
	}
}
