// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer exports a menu's item tree to YAML and imports it back.
package transfer

import (
	"time"

	"github.com/olegiv/churchnav/internal/model"
)

// ExportVersion is the current version of the document format.
const ExportVersion = "1"

// Document is an exported menu.
type Document struct {
	Version    string    `yaml:"version"`
	ExportedAt time.Time `yaml:"exportedAt"`
	Menu       DocMenu   `yaml:"menu"`
	Items      []DocItem `yaml:"items"`
}

// DocMenu identifies the menu the items came from. It is informational;
// imports go into whatever menu the caller names.
type DocMenu struct {
	ChurchID string         `yaml:"churchId,omitempty"`
	Name     string         `yaml:"name"`
	Slug     string         `yaml:"slug,omitempty"`
	Location model.Location `yaml:"location"`
}

// DocItem is one menu item. Top-level items may carry children; a child
// carrying children is rejected on import. Order is the order in the list.
type DocItem struct {
	Label        string                      `yaml:"label"`
	Href         string                      `yaml:"href,omitempty"`
	Description  string                      `yaml:"description,omitempty"`
	Icon         string                      `yaml:"icon,omitempty"`
	Group        string                      `yaml:"group,omitempty"`
	NewTab       bool                        `yaml:"newTab,omitempty"`
	External     bool                        `yaml:"external,omitempty"`
	Hidden       bool                        `yaml:"hidden,omitempty"`
	Kind         model.ItemKind              `yaml:"kind,omitempty"`
	Featured     *DocFeatured                `yaml:"featured,omitempty"`
	GroupLayouts map[string]model.LayoutHint `yaml:"groupLayouts,omitempty"`
	Children     []DocItem                   `yaml:"children,omitempty"`
}

// DocFeatured holds the featured card fields of a top-level item, or the
// overview link fields of a child.
type DocFeatured struct {
	Image       string `yaml:"image,omitempty"`
	Title       string `yaml:"title,omitempty"`
	Description string `yaml:"description,omitempty"`
	Href        string `yaml:"href,omitempty"`
}

// ValidationError is a problem found in a document before anything is
// written.
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Path + ": " + e.Message
}

// ImportOptions configures an import.
type ImportOptions struct {
	// DryRun validates and counts without writing.
	DryRun bool
	// Replace deletes the menu's existing items first. Without it the
	// imported items are appended.
	Replace bool
}

// ImportResult reports what an import did, or would do in a dry run.
type ImportResult struct {
	DryRun  bool              `json:"dryRun"`
	Created int               `json:"created"`
	Deleted int               `json:"deleted"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// Success reports whether the import finished without errors.
func (r *ImportResult) Success() bool {
	return len(r.Errors) == 0
}
