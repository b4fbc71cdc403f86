// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"maps"
	"strings"
)

// ItemInput is the body of a create request. The server assigns the id and
// the sort order.
type ItemInput struct {
	ParentID            *string               `json:"parentId,omitempty" validate:"omitempty,uuid"`
	Label               string                `json:"label" validate:"required,max=200"`
	Href                *string               `json:"href,omitempty" validate:"omitempty,max=2048"`
	Description         *string               `json:"description,omitempty" validate:"omitempty,max=1000"`
	IconName            *string               `json:"iconName,omitempty" validate:"omitempty,kebab,max=64"`
	OpenInNewTab        bool                  `json:"openInNewTab"`
	IsExternal          bool                  `json:"isExternal"`
	GroupLabel          *string               `json:"groupLabel,omitempty" validate:"omitempty,max=100"`
	IsVisible           *bool                 `json:"isVisible,omitempty"`
	FeaturedImage       *string               `json:"featuredImage,omitempty" validate:"omitempty,max=2048"`
	FeaturedTitle       *string               `json:"featuredTitle,omitempty" validate:"omitempty,max=200"`
	FeaturedDescription *string               `json:"featuredDescription,omitempty" validate:"omitempty,max=2000"`
	FeaturedHref        *string               `json:"featuredHref,omitempty" validate:"omitempty,max=2048"`
	Kind                ItemKind              `json:"kind,omitempty" validate:"omitempty,oneof=regular overview_link"`
	GroupLayouts        map[string]LayoutHint `json:"groupLayouts,omitempty" validate:"omitempty,dive,keys,max=100,endkeys,oneof=default compact grid2"`
}

// Normalize trims the label and treats empty parent and icon ids as absent.
func (in *ItemInput) Normalize() {
	in.Label = strings.TrimSpace(in.Label)
	if in.ParentID != nil && *in.ParentID == "" {
		in.ParentID = nil
	}
	if in.IconName != nil && *in.IconName == "" {
		in.IconName = nil
	}
}

// ToItem converts the input into an item with everything but identity and
// order filled in.
func (in ItemInput) ToItem(menuID string) MenuItem {
	visible := true
	if in.IsVisible != nil {
		visible = *in.IsVisible
	}
	parentID := in.ParentID
	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	return MenuItem{
		MenuID:              menuID,
		ParentID:            parentID,
		Label:               in.Label,
		Href:                in.Href,
		Description:         in.Description,
		IconName:            in.IconName,
		OpenInNewTab:        in.OpenInNewTab,
		IsExternal:          in.IsExternal,
		GroupLabel:          in.GroupLabel,
		IsVisible:           visible,
		FeaturedImage:       in.FeaturedImage,
		FeaturedTitle:       in.FeaturedTitle,
		FeaturedDescription: in.FeaturedDescription,
		FeaturedHref:        in.FeaturedHref,
		Kind:                in.Kind,
		GroupLayouts:        in.GroupLayouts,
	}
}

// InputFromItem builds a create request that recreates item.
func InputFromItem(item MenuItem) ItemInput {
	visible := item.IsVisible
	return ItemInput{
		ParentID:            item.ParentID,
		Label:               item.Label,
		Href:                item.Href,
		Description:         item.Description,
		IconName:            item.IconName,
		OpenInNewTab:        item.OpenInNewTab,
		IsExternal:          item.IsExternal,
		GroupLabel:          item.GroupLabel,
		IsVisible:           &visible,
		FeaturedImage:       item.FeaturedImage,
		FeaturedTitle:       item.FeaturedTitle,
		FeaturedDescription: item.FeaturedDescription,
		FeaturedHref:        item.FeaturedHref,
		Kind:                item.Kind,
		GroupLayouts:        item.GroupLayouts,
	}
}

// Optional is a JSON field that distinguishes "absent" from "null".
// Set is true when the key was present; Value is nil when it was null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a set Optional holding null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// IsZero reports whether the field was absent, for omitzero.
func (o Optional[T]) IsZero() bool {
	return !o.Set
}

// UnmarshalJSON implements json.Unmarshaler. It is only called for present keys.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// ItemPatch is the body of a partial update. Absent fields are left unchanged.
type ItemPatch struct {
	ParentID            Optional[string]                `json:"parentId,omitzero"`
	Label               Optional[string]                `json:"label,omitzero"`
	Href                Optional[string]                `json:"href,omitzero"`
	Description         Optional[string]                `json:"description,omitzero"`
	IconName            Optional[string]                `json:"iconName,omitzero"`
	OpenInNewTab        Optional[bool]                  `json:"openInNewTab,omitzero"`
	IsExternal          Optional[bool]                  `json:"isExternal,omitzero"`
	GroupLabel          Optional[string]                `json:"groupLabel,omitzero"`
	SortOrder           Optional[int]                   `json:"sortOrder,omitzero"`
	IsVisible           Optional[bool]                  `json:"isVisible,omitzero"`
	FeaturedImage       Optional[string]                `json:"featuredImage,omitzero"`
	FeaturedTitle       Optional[string]                `json:"featuredTitle,omitzero"`
	FeaturedDescription Optional[string]                `json:"featuredDescription,omitzero"`
	FeaturedHref        Optional[string]                `json:"featuredHref,omitzero"`
	Kind                Optional[ItemKind]              `json:"kind,omitzero"`
	GroupLayouts        Optional[map[string]LayoutHint] `json:"groupLayouts,omitzero"`
}

// Apply copies the present fields onto item. ParentID and SortOrder are
// structural and are applied by the caller after its invariant checks.
func (p ItemPatch) Apply(item *MenuItem) {
	if p.Label.Set && p.Label.Value != nil {
		item.Label = strings.TrimSpace(*p.Label.Value)
	}
	applyNullable(&item.Href, p.Href)
	applyNullable(&item.Description, p.Description)
	applyNullable(&item.IconName, p.IconName)
	applyNullable(&item.GroupLabel, p.GroupLabel)
	applyNullable(&item.FeaturedImage, p.FeaturedImage)
	applyNullable(&item.FeaturedTitle, p.FeaturedTitle)
	applyNullable(&item.FeaturedDescription, p.FeaturedDescription)
	applyNullable(&item.FeaturedHref, p.FeaturedHref)
	if p.OpenInNewTab.Set && p.OpenInNewTab.Value != nil {
		item.OpenInNewTab = *p.OpenInNewTab.Value
	}
	if p.IsExternal.Set && p.IsExternal.Value != nil {
		item.IsExternal = *p.IsExternal.Value
	}
	if p.IsVisible.Set && p.IsVisible.Value != nil {
		item.IsVisible = *p.IsVisible.Value
	}
	if p.Kind.Set {
		item.Kind = KindInferred
		if p.Kind.Value != nil {
			item.Kind = *p.Kind.Value
		}
	}
	if p.GroupLayouts.Set {
		item.GroupLayouts = nil
		if p.GroupLayouts.Value != nil {
			item.GroupLayouts = *p.GroupLayouts.Value
		}
	}
}

func applyNullable(dst **string, o Optional[string]) {
	if !o.Set {
		return
	}
	if o.Value == nil {
		*dst = nil
		return
	}
	v := *o.Value
	*dst = &v
}

// PatchFromItems builds the patch that turns before into after, covering
// the editable fields only.
func PatchFromItems(before, after MenuItem) ItemPatch {
	var p ItemPatch
	if before.Label != after.Label {
		p.Label = Some(after.Label)
	}
	diffNullable(&p.Href, before.Href, after.Href)
	diffNullable(&p.Description, before.Description, after.Description)
	diffNullable(&p.IconName, before.IconName, after.IconName)
	diffNullable(&p.GroupLabel, before.GroupLabel, after.GroupLabel)
	diffNullable(&p.FeaturedImage, before.FeaturedImage, after.FeaturedImage)
	diffNullable(&p.FeaturedTitle, before.FeaturedTitle, after.FeaturedTitle)
	diffNullable(&p.FeaturedDescription, before.FeaturedDescription, after.FeaturedDescription)
	diffNullable(&p.FeaturedHref, before.FeaturedHref, after.FeaturedHref)
	diffNullable(&p.ParentID, before.ParentID, after.ParentID)
	if before.OpenInNewTab != after.OpenInNewTab {
		p.OpenInNewTab = Some(after.OpenInNewTab)
	}
	if before.IsExternal != after.IsExternal {
		p.IsExternal = Some(after.IsExternal)
	}
	if before.IsVisible != after.IsVisible {
		p.IsVisible = Some(after.IsVisible)
	}
	if before.Kind != after.Kind {
		p.Kind = Some(after.Kind)
	}
	if !maps.Equal(before.GroupLayouts, after.GroupLayouts) {
		if after.GroupLayouts == nil {
			p.GroupLayouts = Null[map[string]LayoutHint]()
		} else {
			p.GroupLayouts = Some(maps.Clone(after.GroupLayouts))
		}
	}
	return p
}

// IsEmpty reports whether the patch changes nothing.
func (p ItemPatch) IsEmpty() bool {
	return p == ItemPatch{}
}

func diffNullable(dst *Optional[string], before, after *string) {
	if StringValue(before) == StringValue(after) && (before == nil) == (after == nil) {
		return
	}
	if after == nil {
		*dst = Null[string]()
		return
	}
	*dst = Some(*after)
}

// MenuInput is the body of a menu create. An empty slug is derived from
// the name.
type MenuInput struct {
	ChurchID string   `json:"churchId" validate:"required,max=100"`
	Name     string   `json:"name" validate:"required,max=100"`
	Slug     string   `json:"slug,omitempty" validate:"omitempty,slug,max=100"`
	Location Location `json:"location" validate:"required,location"`
}

// Normalize trims text fields and upper-cases the location.
func (in *MenuInput) Normalize() {
	in.ChurchID = strings.TrimSpace(in.ChurchID)
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Location = Location(strings.ToUpper(strings.TrimSpace(string(in.Location))))
}

// ReorderRequest is the body of a top-level reorder.
type ReorderRequest struct {
	ItemIDs []string `json:"itemIds" validate:"required,min=1,unique,dive,required"`
}

// IsKebabCase reports whether s is lower-case words joined by single hyphens.
func IsKebabCase(s string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' || strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	return true
}
