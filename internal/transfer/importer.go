// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/olegiv/churchnav/internal/model"
)

// ErrInvalidDocument is returned when a document fails validation. It
// matches model.ErrValidation.
var ErrInvalidDocument = fmt.Errorf("%w: invalid menu document", model.ErrValidation)

// Target is where imported items are written. *service.MenuService and
// *client.Client both implement it.
type Target interface {
	Source
	CreateItem(ctx context.Context, menuID string, in model.ItemInput) (model.MenuItem, error)
	DeleteItem(ctx context.Context, menuID, itemID string) ([]string, error)
}

// Importer writes documents into menus.
type Importer struct {
	target Target
	logger *slog.Logger
}

// NewImporter creates an Importer writing to target.
func NewImporter(target Target, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{target: target, logger: logger}
}

// Decode reads a YAML document. Unknown keys are rejected.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: document is empty", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

// Validate checks a document without touching any menu.
func Validate(doc *Document) []ValidationError {
	var errs []ValidationError
	add := func(path, format string, args ...any) {
		errs = append(errs, ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if doc.Version != ExportVersion {
		add("version", "unsupported version %q", doc.Version)
	}
	for i, top := range doc.Items {
		path := fmt.Sprintf("items[%d]", i)
		validateItem(path, top, add)
		for group, hint := range top.GroupLayouts {
			if !hint.IsValid() {
				add(path+".groupLayouts", "unknown layout %q for group %q", hint, group)
			}
		}
		for j, child := range top.Children {
			cpath := fmt.Sprintf("%s.children[%d]", path, j)
			validateItem(cpath, child, add)
			if len(child.Children) > 0 {
				add(cpath, "menus are limited to two levels")
			}
			if len(child.GroupLayouts) > 0 {
				add(cpath+".groupLayouts", "only top-level items have group layouts")
			}
		}
	}
	return errs
}

func validateItem(path string, it DocItem, add func(path, format string, args ...any)) {
	if err := model.ValidateLabel(it.Label); err != nil {
		add(path+".label", "label is required")
	}
	if !it.Kind.IsValid() {
		add(path+".kind", "unknown kind %q", it.Kind)
	}
	if it.Icon != "" && !model.IsKebabCase(it.Icon) {
		add(path+".icon", "icon %q must be kebab-case", it.Icon)
	}
}

// Count returns the number of items in the document.
func (d *Document) Count() int {
	n := 0
	for _, top := range d.Items {
		n += 1 + len(top.Children)
	}
	return n
}

// Import writes the items of doc into menuID, top-level items first and
// each child after its parent. Items are created one request at a time;
// when a request fails the import stops and the result counts what was
// written so far.
func (i *Importer) Import(ctx context.Context, doc *Document, menuID string, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{DryRun: opts.DryRun}

	if errs := Validate(doc); len(errs) > 0 {
		result.Errors = errs
		return result, ErrInvalidDocument
	}

	menu, err := i.target.GetMenu(ctx, menuID)
	if err != nil {
		return result, fmt.Errorf("loading menu %s: %w", menuID, err)
	}

	if opts.DryRun {
		if opts.Replace {
			result.Deleted = len(menu.Flatten())
		}
		result.Created = doc.Count()
		return result, nil
	}

	if opts.Replace {
		for _, top := range menu.Items {
			removed, err := i.target.DeleteItem(ctx, menuID, top.ID)
			result.Deleted += len(removed)
			if err != nil {
				return result, fmt.Errorf("deleting item %s: %w", top.ID, err)
			}
		}
	}

	for _, top := range doc.Items {
		parent, err := i.target.CreateItem(ctx, menuID, itemInput(top, nil))
		if err != nil {
			return result, fmt.Errorf("creating item %q: %w", top.Label, err)
		}
		result.Created++

		for _, child := range top.Children {
			if _, err := i.target.CreateItem(ctx, menuID, itemInput(child, &parent.ID)); err != nil {
				return result, fmt.Errorf("creating item %q under %q: %w", child.Label, top.Label, err)
			}
			result.Created++
		}
	}

	i.logger.Info("menu imported", "menu_id", menuID, "created", result.Created, "deleted", result.Deleted)
	return result, nil
}

func itemInput(d DocItem, parentID *string) model.ItemInput {
	visible := !d.Hidden
	in := model.ItemInput{
		ParentID:     parentID,
		Label:        strings.TrimSpace(d.Label),
		Href:         model.StringPtr(d.Href),
		Description:  model.StringPtr(d.Description),
		IconName:     model.StringPtr(d.Icon),
		GroupLabel:   model.StringPtr(d.Group),
		OpenInNewTab: d.NewTab,
		IsExternal:   d.External,
		IsVisible:    &visible,
		Kind:         d.Kind,
		GroupLayouts: d.GroupLayouts,
	}
	if f := d.Featured; f != nil {
		in.FeaturedImage = model.StringPtr(f.Image)
		in.FeaturedTitle = model.StringPtr(f.Title)
		in.FeaturedDescription = model.StringPtr(f.Description)
		in.FeaturedHref = model.StringPtr(f.Href)
	}
	return in
}
