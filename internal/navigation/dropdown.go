// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package navigation

import (
	"strings"

	"github.com/olegiv/churchnav/internal/model"
)

// DropdownSection is one titled column of a dropdown. An empty title means
// the items are ungrouped and rendered without a heading.
type DropdownSection struct {
	Title   string            `json:"title"`
	Compact bool              `json:"compact"`
	Columns int               `json:"columns"`
	Layout  model.LayoutHint  `json:"layout"`
	Items   []model.ChildItem `json:"items"`
}

// OverviewLink is the trailing call-to-action of a dropdown.
type OverviewLink struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Href        string `json:"href"`
}

// FeaturedCard is the promotional panel rendered beside the sections.
type FeaturedCard struct {
	Image       string `json:"image"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Href        string `json:"href"`
}

// DropdownData is the render-ready form of a top-level item's children.
type DropdownData struct {
	Sections     []DropdownSection `json:"sections"`
	OverviewLink *OverviewLink     `json:"overviewLink"`
	FeaturedCard *FeaturedCard     `json:"featuredCard"`
}

// IsEmpty reports whether there is nothing to render.
func (d DropdownData) IsEmpty() bool {
	return len(d.Sections) == 0 && d.OverviewLink == nil && d.FeaturedCard == nil
}

// IsOverviewLink reports whether a child is the dropdown's overview link.
// An explicit kind wins; otherwise the legacy rule applies: featured title
// and href present and a sort order in the reserved range.
func IsOverviewLink(child model.MenuItem) bool {
	hasTarget := model.StringValue(child.FeaturedTitle) != "" && model.StringValue(child.FeaturedHref) != ""
	switch child.Kind {
	case model.KindOverviewLink:
		return hasTarget
	case model.KindRegular:
		return false
	default:
		return hasTarget && child.SortOrder >= model.OverviewSortOrder
	}
}

// LayoutFor picks the layout of a group. An explicit hint stored on the
// parent wins over the title convention: "quick links" is compact and any
// title containing "campus" is a two-column grid.
func LayoutFor(title string, explicit map[string]model.LayoutHint) model.LayoutHint {
	if hint, ok := explicit[title]; ok && hint.IsValid() {
		return hint
	}
	lower := strings.ToLower(strings.TrimSpace(title))
	switch {
	case lower == "quick links":
		return model.LayoutCompact
	case strings.Contains(lower, "campus"):
		return model.LayoutGrid2
	default:
		return model.LayoutDefault
	}
}

// BuildDropdownData derives the dropdown of a top-level item. Children are
// consumed in their given order and the input is never modified. Missing
// or empty fields only drop the derived piece they feed.
func BuildDropdownData(item model.TopLevelItem) DropdownData {
	data := DropdownData{Sections: []DropdownSection{}}

	var regular []model.ChildItem
	for _, child := range item.Children {
		if !IsOverviewLink(child.MenuItem) {
			regular = append(regular, child)
			continue
		}
		// First match wins; later matches stay out of the regular groups.
		if data.OverviewLink == nil {
			data.OverviewLink = &OverviewLink{
				Label:       model.StringValue(child.FeaturedTitle),
				Description: model.StringValue(child.FeaturedDescription),
				Href:        model.StringValue(child.FeaturedHref),
			}
		}
	}

	image := model.StringValue(item.FeaturedImage)
	title := model.StringValue(item.FeaturedTitle)
	href := model.StringValue(item.FeaturedHref)
	if image != "" && title != "" && href != "" {
		data.FeaturedCard = &FeaturedCard{
			Image:       image,
			Title:       title,
			Description: model.StringValue(item.FeaturedDescription),
			Href:        href,
		}
	}

	order := make([]string, 0)
	groups := make(map[string][]model.ChildItem)
	for _, child := range regular {
		key := child.Group()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], child)
	}

	for _, key := range order {
		layout := LayoutFor(key, item.GroupLayouts)
		section := DropdownSection{
			Title:   key,
			Layout:  layout,
			Compact: layout == model.LayoutCompact,
			Columns: 1,
			Items:   groups[key],
		}
		if layout == model.LayoutGrid2 {
			section.Columns = 2
		}
		data.Sections = append(data.Sections, section)
	}

	return data
}
