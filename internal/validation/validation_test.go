// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/churchnav/internal/model"
)

func ptr(s string) *string { return &s }

func TestStruct_ItemInput(t *testing.T) {
	tests := []struct {
		name       string
		in         model.ItemInput
		wantFields []string
	}{
		{
			name: "valid",
			in:   model.ItemInput{Label: "Give", Href: ptr("/give"), IconName: ptr("hand-heart")},
		},
		{
			name:       "missing label",
			in:         model.ItemInput{Href: ptr("/give")},
			wantFields: []string{"label"},
		},
		{
			name:       "icon not kebab",
			in:         model.ItemInput{Label: "Give", IconName: ptr("HandHeart")},
			wantFields: []string{"iconName"},
		},
		{
			name:       "parent not uuid",
			in:         model.ItemInput{Label: "Give", ParentID: ptr("give")},
			wantFields: []string{"parentId"},
		},
		{
			name:       "unknown kind",
			in:         model.ItemInput{Label: "Give", Kind: "banner"},
			wantFields: []string{"kind"},
		},
		{
			name: "bad layout",
			in: model.ItemInput{
				Label:        "Visit",
				GroupLayouts: map[string]model.LayoutHint{"Quick Links": "masonry"},
			},
			wantFields: []string{"groupLayouts[Quick Links]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrValidation))
			fields := Details(err)
			for _, f := range tt.wantFields {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestStruct_ReorderRequest(t *testing.T) {
	assert.NoError(t, Struct(model.ReorderRequest{ItemIDs: []string{"a", "b"}}))

	err := Struct(model.ReorderRequest{})
	require.Error(t, err)
	assert.Equal(t, "is required", Details(err)["itemIds"])

	err = Struct(model.ReorderRequest{ItemIDs: []string{"a", "a"}})
	require.Error(t, err)
	assert.Equal(t, "must not contain duplicates", Details(err)["itemIds"])
}

func TestStruct_CustomTags(t *testing.T) {
	type menuForm struct {
		Slug     string `json:"slug" validate:"required,slug"`
		Location string `json:"location" validate:"required,location"`
	}

	assert.NoError(t, Struct(menuForm{Slug: "header-menu", Location: "HEADER"}))

	err := Struct(menuForm{Slug: "Header Menu", Location: "TOP"})
	require.Error(t, err)
	details := Details(err)
	assert.Equal(t, "must be a lowercase slug", details["slug"])
	assert.Equal(t, "must be one of HEADER, FOOTER, MOBILE, SIDEBAR", details["location"])
}

func TestDetails(t *testing.T) {
	err := Errors{{Field: "label", Tag: "required"}, {Field: "label", Tag: "max", Param: "200"}}
	assert.Equal(t, map[string]string{"label": "is required"}, Details(err))
	assert.Nil(t, Details(errors.New("boom")))
	assert.Nil(t, Details(nil))
}

func TestPatch(t *testing.T) {
	long := func(n int) string { return strings.Repeat("a", n) }

	tests := []struct {
		name     string
		body     string
		field    string
		onCreate bool
	}{
		{"empty label", `{"label":"  "}`, "label", false},
		{"null label", `{"label":null}`, "label", false},
		{"long label", `{"label":"` + long(201) + `"}`, "label", true},
		{"null visible", `{"isVisible":null}`, "isVisible", false},
		{"null new tab", `{"openInNewTab":null}`, "openInNewTab", false},
		{"null sort order", `{"sortOrder":null}`, "sortOrder", false},
		{"negative sort order", `{"sortOrder":-1}`, "sortOrder", false},
		{"bad icon", `{"iconName":"Book Open"}`, "iconName", true},
		{"long href", `{"href":"/` + long(2048) + `"}`, "href", true},
		{"long description", `{"description":"` + long(1001) + `"}`, "description", true},
		{"long featured description", `{"featuredDescription":"` + long(2001) + `"}`, "featuredDescription", true},
		{"long group label", `{"groupLabel":"` + long(101) + `"}`, "groupLabel", true},
		{"parent not uuid", `{"parentId":"about"}`, "parentId", true},
		{"bad kind", `{"kind":"banner"}`, "kind", true},
		{"bad layout", `{"groupLayouts":{"Campuses":"grid3"}}`, "groupLayouts", true},
		{"long layout key", `{"groupLayouts":{"` + long(101) + `":"compact"}}`, "groupLayouts", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p model.ItemPatch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))

			err := Patch(p)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrValidation)
			assert.Contains(t, Details(err), tt.field)

			if tt.onCreate {
				in := model.ItemInput{Label: "Give"}
				require.NoError(t, json.Unmarshal([]byte(tt.body), &in))
				assert.Error(t, Struct(in), "a create with the same value fails too")
			}
		})
	}

	valid := []string{
		`{}`,
		`{"iconName":"book-open","groupLabel":null}`,
		`{"iconName":"","parentId":""}`,
		`{"kind":null,"groupLayouts":null}`,
		`{"label":" Give ","sortOrder":0,"groupLayouts":{"Quick Links":"compact"}}`,
	}
	for _, body := range valid {
		var p model.ItemPatch
		require.NoError(t, json.Unmarshal([]byte(body), &p))
		assert.NoError(t, Patch(p), body)
	}

	assert.Equal(t, "must not be null", Details(Patch(model.ItemPatch{IsExternal: model.Null[bool]()}))["isExternal"])
	assert.Equal(t, "must be at least 0", Details(Patch(model.ItemPatch{SortOrder: model.Some(-2)}))["sortOrder"])
}

func TestErrors_Error(t *testing.T) {
	err := Errors{{Field: "label", Tag: "required"}, {Field: "href", Tag: "max", Param: "2048"}}
	assert.Equal(t, "validation failed: label is required; href must be at most 2048 characters", err.Error())
	assert.Equal(t, "validation failed", Errors{}.Error())
}
