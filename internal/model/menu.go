// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the navigation menu data contract shared by the
// API, the storage layer, the renderers and the editing client.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Location identifies where a menu is rendered on the church website.
type Location string

// Menu locations. Each church has at most one menu per location.
const (
	LocationHeader  Location = "HEADER"
	LocationFooter  Location = "FOOTER"
	LocationMobile  Location = "MOBILE"
	LocationSidebar Location = "SIDEBAR"
)

// Locations lists every valid location in display order.
var Locations = []Location{LocationHeader, LocationFooter, LocationMobile, LocationSidebar}

// ParseLocation parses a location case-insensitively.
func ParseLocation(s string) (Location, error) {
	loc := Location(strings.ToUpper(strings.TrimSpace(s)))
	if !loc.IsValid() {
		return "", fmt.Errorf("%w: unknown menu location %q", ErrValidation, s)
	}
	return loc, nil
}

// IsValid reports whether l is one of the known locations.
func (l Location) IsValid() bool {
	for _, v := range Locations {
		if v == l {
			return true
		}
	}
	return false
}

// OverviewSortOrder is the lowest sort order reserved for overview links.
// A child whose kind is not set, with featured title and href and a sort
// order at or above this value, is rendered as the dropdown's trailing
// call-to-action instead of a regular entry.
const OverviewSortOrder = 99

// ItemKind is the explicit role of a menu item inside a dropdown.
type ItemKind string

// Item kinds. KindInferred keeps the legacy sort order convention.
const (
	KindInferred     ItemKind = ""
	KindRegular      ItemKind = "regular"
	KindOverviewLink ItemKind = "overview_link"
)

// IsValid reports whether k is a known kind.
func (k ItemKind) IsValid() bool {
	return k == KindInferred || k == KindRegular || k == KindOverviewLink
}

// LayoutHint controls how a dropdown group is laid out.
type LayoutHint string

// Layout hints for dropdown groups.
const (
	LayoutDefault LayoutHint = "default"
	LayoutCompact LayoutHint = "compact"
	LayoutGrid2   LayoutHint = "grid2"
)

// IsValid reports whether h is a known layout hint.
func (h LayoutHint) IsValid() bool {
	return h == LayoutDefault || h == LayoutCompact || h == LayoutGrid2
}

// Link rel and target values.
const (
	TargetSelf  = "_self"
	TargetBlank = "_blank"
	RelExternal = "noopener noreferrer"
)

// Menu is the container for one navigation location of a church.
type Menu struct {
	ID        string         `json:"id"`
	ChurchID  string         `json:"churchId"`
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	Location  Location       `json:"location"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Items     []TopLevelItem `json:"items,omitempty"`
}

// MenuItem holds the fields common to top-level items and children.
//
// OpenInNewTab and IsExternal are independent. The link target is _blank
// when either is set, rel=noopener is driven by IsExternal alone, and the
// external affordance is shown when either is set.
type MenuItem struct {
	ID                  string                `json:"id"`
	MenuID              string                `json:"menuId"`
	ParentID            *string               `json:"parentId"`
	Label               string                `json:"label"`
	Href                *string               `json:"href"`
	Description         *string               `json:"description"`
	IconName            *string               `json:"iconName"`
	OpenInNewTab        bool                  `json:"openInNewTab"`
	IsExternal          bool                  `json:"isExternal"`
	GroupLabel          *string               `json:"groupLabel"`
	SortOrder           int                   `json:"sortOrder"`
	IsVisible           bool                  `json:"isVisible"`
	FeaturedImage       *string               `json:"featuredImage"`
	FeaturedTitle       *string               `json:"featuredTitle"`
	FeaturedDescription *string               `json:"featuredDescription"`
	FeaturedHref        *string               `json:"featuredHref"`
	Kind                ItemKind              `json:"kind,omitempty"`
	GroupLayouts        map[string]LayoutHint `json:"groupLayouts,omitempty"`
	CreatedAt           time.Time             `json:"createdAt"`
	UpdatedAt           time.Time             `json:"updatedAt"`
}

// TopLevelItem is a menu item without a parent. Only top-level items carry
// children, so the two-level depth limit holds by construction.
type TopLevelItem struct {
	MenuItem
	Children []ChildItem `json:"children"`
}

// ChildItem is a menu item nested under a top-level item.
type ChildItem struct {
	MenuItem
}

// IsTopLevel reports whether the item has no parent.
func (i MenuItem) IsTopLevel() bool {
	return i.ParentID == nil || *i.ParentID == ""
}

// IsNavigable reports whether the item links somewhere. Items without an
// href are dropdown triggers.
func (i MenuItem) IsNavigable() bool {
	return StringValue(i.Href) != ""
}

// Target returns the link target attribute value.
func (i MenuItem) Target() string {
	if i.OpenInNewTab || i.IsExternal {
		return TargetBlank
	}
	return TargetSelf
}

// Rel returns the link rel attribute value, empty for internal links.
func (i MenuItem) Rel() string {
	if i.IsExternal {
		return RelExternal
	}
	return ""
}

// ShowsExternalAffordance reports whether the UI should mark the link as external.
func (i MenuItem) ShowsExternalAffordance() bool {
	return i.OpenInNewTab || i.IsExternal
}

// Group returns the group key, "" for ungrouped items.
func (i MenuItem) Group() string {
	return StringValue(i.GroupLabel)
}

// Flatten returns the top-level items followed by their children, in tree order.
func (m Menu) Flatten() []MenuItem {
	var out []MenuItem
	for _, top := range m.Items {
		out = append(out, top.MenuItem)
		for _, child := range top.Children {
			out = append(out, child.MenuItem)
		}
	}
	return out
}

// FindItem looks up an item anywhere in the tree.
func (m Menu) FindItem(id string) (MenuItem, bool) {
	for _, top := range m.Items {
		if top.ID == id {
			return top.MenuItem, true
		}
		for _, child := range top.Children {
			if child.ID == id {
				return child.MenuItem, true
			}
		}
	}
	return MenuItem{}, false
}

// TopLevelIDs returns the ids of the top-level items in order.
func (m Menu) TopLevelIDs() []string {
	ids := make([]string, 0, len(m.Items))
	for _, top := range m.Items {
		ids = append(ids, top.ID)
	}
	return ids
}

// ValidateLabel checks the only hard rule of the editing surface.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("%w: label is required", ErrValidation)
	}
	return nil
}

// StringValue dereferences p, returning "" for nil.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
