// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/olegiv/churchnav/internal/model"
	"github.com/olegiv/churchnav/internal/navigation"
)

// styles are bound to one output writer, so colors are dropped when the
// writer is not a terminal.
type styles struct {
	Title  lipgloss.Style
	Bold   lipgloss.Style
	Muted  lipgloss.Style
	Accent lipgloss.Style
	Cell   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		Title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
		Bold:   r.NewStyle().Bold(true),
		Muted:  r.NewStyle().Foreground(lipgloss.Color("#6b7280")),
		Accent: r.NewStyle().Foreground(lipgloss.Color("#2196F3")),
		Cell:   r.NewStyle().PaddingRight(2),
	}
}

// renderTable writes headers and rows in aligned columns.
func renderTable(w io.Writer, headers []string, rows [][]string) {
	st := newStyles(w)

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	line := func(cells []string, style lipgloss.Style) {
		var sb strings.Builder
		for i, cell := range cells {
			if i == len(cells)-1 {
				sb.WriteString(style.Render(cell))
				break
			}
			sb.WriteString(st.Cell.Inherit(style).Width(widths[i] + 2).Render(cell))
		}
		printf(w, "%s\n", strings.TrimRight(sb.String(), " "))
	}

	line(headers, st.Bold)
	for _, row := range rows {
		line(row, lipgloss.NewStyle())
	}
}

func renderMenus(w io.Writer, menus []model.Menu) {
	if len(menus) == 0 {
		printf(w, "no menus\n")
		return
	}
	rows := make([][]string, 0, len(menus))
	for _, m := range menus {
		rows = append(rows, []string{m.ID, m.ChurchID, string(m.Location), m.Slug, m.Name})
	}
	renderTable(w, []string{"ID", "CHURCH", "LOCATION", "SLUG", "NAME"}, rows)
}

// renderTree writes a menu as an indented outline.
func renderTree(w io.Writer, menu model.Menu) {
	st := newStyles(w)
	printf(w, "%s %s\n", st.Title.Render(menu.Name), st.Muted.Render(fmt.Sprintf("(%s, %s)", menu.Location, menu.ID)))

	if len(menu.Items) == 0 {
		printf(w, "  %s\n", st.Muted.Render("no items"))
		return
	}
	for i, top := range menu.Items {
		printf(w, "%2d. %s\n", i+1, itemLine(st, top.MenuItem, st.Bold))
		for j, child := range top.Children {
			branch := "├─"
			if j == len(top.Children)-1 {
				branch = "└─"
			}
			printf(w, "    %s %s\n", branch, itemLine(st, child.MenuItem, lipgloss.NewStyle()))
		}
	}
}

func itemLine(st styles, it model.MenuItem, label lipgloss.Style) string {
	parts := []string{label.Render(it.Label)}
	if href := model.StringValue(it.Href); href != "" {
		parts = append(parts, st.Accent.Render(href))
	}
	if group := model.StringValue(it.GroupLabel); group != "" {
		parts = append(parts, "["+group+"]")
	}
	var tags []string
	if !it.IsTopLevel() && navigation.IsOverviewLink(it) {
		tags = append(tags, "overview")
	}
	if it.ShowsExternalAffordance() {
		tags = append(tags, "new tab")
	}
	if !it.IsVisible {
		tags = append(tags, "hidden")
	}
	if len(tags) > 0 {
		parts = append(parts, "("+strings.Join(tags, ", ")+")")
	}
	parts = append(parts, st.Muted.Render(it.ID))
	return strings.Join(parts, "  ")
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
