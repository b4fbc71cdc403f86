// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/olegiv/churchnav/internal/model"
	"github.com/olegiv/churchnav/internal/navigation"
)

// Source reads menus.
type Source interface {
	GetMenu(ctx context.Context, menuID string) (model.Menu, error)
}

// Exporter turns menus into documents.
type Exporter struct {
	source Source
	logger *slog.Logger
	now    func() time.Time
}

// NewExporter creates an Exporter reading from source.
func NewExporter(source Source, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{source: source, logger: logger, now: time.Now}
}

// Export builds the document of a menu. Children whose overview role comes
// from the legacy sort order convention are written with an explicit kind,
// so they keep the role when re-imported at a fresh sort order.
func (e *Exporter) Export(ctx context.Context, menuID string) (*Document, error) {
	menu, err := e.source.GetMenu(ctx, menuID)
	if err != nil {
		return nil, fmt.Errorf("loading menu %s: %w", menuID, err)
	}

	doc := &Document{
		Version:    ExportVersion,
		ExportedAt: e.now().UTC().Truncate(time.Second),
		Menu: DocMenu{
			ChurchID: menu.ChurchID,
			Name:     menu.Name,
			Slug:     menu.Slug,
			Location: menu.Location,
		},
		Items: make([]DocItem, 0, len(menu.Items)),
	}

	count := 0
	for _, top := range menu.Items {
		item := docItem(top.MenuItem)
		item.GroupLayouts = top.GroupLayouts
		for _, child := range top.Children {
			c := docItem(child.MenuItem)
			if child.Kind == model.KindInferred && navigation.IsOverviewLink(child.MenuItem) {
				c.Kind = model.KindOverviewLink
			}
			item.Children = append(item.Children, c)
			count++
		}
		doc.Items = append(doc.Items, item)
		count++
	}

	e.logger.Info("menu exported", "menu_id", menuID, "items", count)
	return doc, nil
}

// ExportToWriter writes the document of a menu as YAML.
func (e *Exporter) ExportToWriter(ctx context.Context, menuID string, w io.Writer) error {
	doc, err := e.Export(ctx, menuID)
	if err != nil {
		return err
	}
	return Encode(w, doc)
}

// Encode writes doc as YAML.
func Encode(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return enc.Close()
}

func docItem(it model.MenuItem) DocItem {
	d := DocItem{
		Label:       it.Label,
		Href:        model.StringValue(it.Href),
		Description: model.StringValue(it.Description),
		Icon:        model.StringValue(it.IconName),
		Group:       model.StringValue(it.GroupLabel),
		NewTab:      it.OpenInNewTab,
		External:    it.IsExternal,
		Hidden:      !it.IsVisible,
		Kind:        it.Kind,
	}
	f := DocFeatured{
		Image:       model.StringValue(it.FeaturedImage),
		Title:       model.StringValue(it.FeaturedTitle),
		Description: model.StringValue(it.FeaturedDescription),
		Href:        model.StringValue(it.FeaturedHref),
	}
	if f != (DocFeatured{}) {
		d.Featured = &f
	}
	return d
}
