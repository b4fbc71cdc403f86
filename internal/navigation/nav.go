// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package navigation

import "github.com/olegiv/churchnav/internal/model"

// Link is a resolved, public view of one menu item.
type Link struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Href        string `json:"href,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        *Icon  `json:"icon,omitempty"`
	Target      string `json:"target"`
	Rel         string `json:"rel,omitempty"`
	External    bool   `json:"external"`
}

// NewLink resolves an item into a link.
func NewLink(item model.MenuItem, icons IconRegistry) Link {
	return Link{
		ID:          item.ID,
		Label:       item.Label,
		Href:        model.StringValue(item.Href),
		Description: model.StringValue(item.Description),
		Icon:        icons.ResolvePtr(item.IconName),
		Target:      item.Target(),
		Rel:         item.Rel(),
		External:    item.ShowsExternalAffordance(),
	}
}

// NavSection is a dropdown section with resolved links.
type NavSection struct {
	Title   string           `json:"title"`
	Compact bool             `json:"compact"`
	Columns int              `json:"columns"`
	Layout  model.LayoutHint `json:"layout"`
	Links   []Link           `json:"links"`
}

// NavEntry is one top-level navigation entry with its derived dropdown.
type NavEntry struct {
	Link
	Sections     []NavSection  `json:"sections"`
	OverviewLink *OverviewLink `json:"overviewLink"`
	FeaturedCard *FeaturedCard `json:"featuredCard"`
}

// HasDropdown reports whether the entry opens a dropdown.
func (e NavEntry) HasDropdown() bool {
	return len(e.Sections) > 0 || e.OverviewLink != nil || e.FeaturedCard != nil
}

// BuildNavigation turns a menu tree into public navigation. Hidden items
// are excluded.
func BuildNavigation(tree []model.TopLevelItem, icons IconRegistry) []NavEntry {
	visible := VisibleOnly(tree)
	entries := make([]NavEntry, 0, len(visible))
	for _, top := range visible {
		dropdown := BuildDropdownData(top)
		entry := NavEntry{
			Link:         NewLink(top.MenuItem, icons),
			Sections:     make([]NavSection, 0, len(dropdown.Sections)),
			OverviewLink: dropdown.OverviewLink,
			FeaturedCard: dropdown.FeaturedCard,
		}
		for _, section := range dropdown.Sections {
			links := make([]Link, 0, len(section.Items))
			for _, child := range section.Items {
				link := NewLink(child.MenuItem, icons)
				if section.Compact {
					link.Icon = nil
				}
				links = append(links, link)
			}
			entry.Sections = append(entry.Sections, NavSection{
				Title:   section.Title,
				Compact: section.Compact,
				Columns: section.Columns,
				Layout:  section.Layout,
				Links:   links,
			})
		}
		entries = append(entries, entry)
	}
	return entries
}
