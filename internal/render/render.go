// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render turns public navigation into HTML fragments: the header
// dropdown nav, the mobile menu and plain link lists.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"regexp"
	"strings"

	"github.com/olegiv/churchnav/internal/model"
	"github.com/olegiv/churchnav/internal/navigation"
)

// Template names.
const (
	TemplateDropdownNav = "dropdown_nav"
	TemplateMobileMenu  = "mobile_menu"
	TemplateMenuList    = "menu_list"
)

// blankLinesRegex collapses runs of blank lines left behind by template actions.
var blankLinesRegex = regexp.MustCompile(`(?:\r?\n[ \t]*){2,}`)

// Renderer renders navigation fragments from parsed templates.
type Renderer struct {
	templates *template.Template
}

// Config holds renderer configuration.
type Config struct {
	// TemplatesFS holds nav/*.html.
	TemplatesFS fs.FS
}

// NavData is the input of every navigation template.
type NavData struct {
	Label   string
	Entries []navigation.NavEntry
}

// New creates a Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	tmpl, err := template.New("nav").Funcs(templateFuncs()).ParseFS(cfg.TemplatesFS, "nav/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing navigation templates: %w", err)
	}
	for _, name := range []string{TemplateDropdownNav, TemplateMobileMenu, TemplateMenuList} {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("template %s not found", name)
		}
	}
	return &Renderer{templates: tmpl}, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": Markdown,
	}
}

// TemplateFor picks the template used for a menu location.
func TemplateFor(loc model.Location) string {
	switch loc {
	case model.LocationHeader:
		return TemplateDropdownNav
	case model.LocationMobile:
		return TemplateMobileMenu
	default:
		return TemplateMenuList
	}
}

// Render executes a template into w. Output is buffered so a failing
// template never writes a partial fragment.
func (r *Renderer) Render(w io.Writer, name string, data NavData) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}
	_, err := w.Write(blankLinesRegex.ReplaceAll(buf.Bytes(), []byte("\n")))
	return err
}

// RenderMenu renders a menu's navigation with the template of its location.
func (r *Renderer) RenderMenu(w io.Writer, menu model.Menu, entries []navigation.NavEntry) error {
	label := strings.TrimSpace(menu.Name)
	if label == "" {
		label = string(menu.Location)
	}
	return r.Render(w, TemplateFor(menu.Location), NavData{Label: label, Entries: entries})
}
