// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/churchnav/internal/model"
	"github.com/olegiv/churchnav/internal/navigation"
	"github.com/olegiv/churchnav/internal/render"
	"github.com/olegiv/churchnav/internal/service"
)

// PublicHandler serves the navigation of church websites. Only visible
// items are exposed.
type PublicHandler struct {
	menus    *service.MenuService
	renderer *render.Renderer
}

// NewPublicHandler creates a new public navigation handler.
func NewPublicHandler(menus *service.MenuService, renderer *render.Renderer) *PublicHandler {
	return &PublicHandler{menus: menus, renderer: renderer}
}

// PublicMenu is the JSON form of a rendered navigation.
type PublicMenu struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	Location model.Location        `json:"location"`
	Entries  []navigation.NavEntry `json:"entries"`
}

// Routes mounts the public navigation under /public.
func (h *PublicHandler) Routes(r chi.Router) {
	r.Get("/churches/{churchId}/menus/{location}", h.Navigation)
	r.Get("/churches/{churchId}/menus/{location}/html", h.NavigationHTML)
}

// Navigation handles GET /public/churches/{churchId}/menus/{location}.
func (h *PublicHandler) Navigation(w http.ResponseWriter, r *http.Request) {
	menu, entries, err := h.load(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, PublicMenu{
		ID:       menu.ID,
		Name:     menu.Name,
		Location: menu.Location,
		Entries:  entries,
	})
}

// NavigationHTML handles GET /public/churches/{churchId}/menus/{location}/html.
// The fragment template follows the menu location.
func (h *PublicHandler) NavigationHTML(w http.ResponseWriter, r *http.Request) {
	menu, entries, err := h.load(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.RenderMenu(&buf, menu, entries); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *PublicHandler) load(r *http.Request) (model.Menu, []navigation.NavEntry, error) {
	loc, err := model.ParseLocation(chi.URLParam(r, "location"))
	if err != nil {
		return model.Menu{}, nil, err
	}
	churchID := strings.TrimSpace(chi.URLParam(r, "churchId"))
	menu, entries, err := h.menus.Navigation(r.Context(), churchID, loc)
	if err != nil {
		return model.Menu{}, nil, err
	}
	if entries == nil {
		entries = []navigation.NavEntry{}
	}
	return menu, entries, nil
}
