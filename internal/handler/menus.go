// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/churchnav/internal/model"
	"github.com/olegiv/churchnav/internal/service"
)

// MenusHandler serves the menu editing API.
type MenusHandler struct {
	menus *service.MenuService
}

// NewMenusHandler creates a new menus handler.
func NewMenusHandler(menus *service.MenuService) *MenusHandler {
	return &MenusHandler{menus: menus}
}

// DeleteResult is the payload of a delete.
type DeleteResult struct {
	Removed []string `json:"removed"`
}

// Routes mounts the API under /menus.
func (h *MenusHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.CreateMenu)
	r.Route("/{menuId}/items", func(r chi.Router) {
		r.Get("/", h.GetItems)
		r.Post("/", h.CreateItem)
		r.Put("/", h.Reorder)
		r.Patch("/{itemId}", h.UpdateItem)
		r.Delete("/{itemId}", h.DeleteItem)
		r.Get("/{itemId}/dropdown", h.Dropdown)
	})
}

// List handles GET /menus. The churchId query parameter filters by church.
func (h *MenusHandler) List(w http.ResponseWriter, r *http.Request) {
	menus, err := h.menus.ListMenus(r.Context(), r.URL.Query().Get("churchId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if menus == nil {
		menus = []model.Menu{}
	}
	writeData(w, http.StatusOK, menus)
}

// CreateMenu handles POST /menus.
func (h *MenusHandler) CreateMenu(w http.ResponseWriter, r *http.Request) {
	var in model.MenuInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeServiceError(w, r, err)
		return
	}
	menu, err := h.menus.CreateMenu(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, menu)
}

// GetItems handles GET /menus/{menuId}/items. Hidden items are included.
func (h *MenusHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	menuID, err := idParam(r, "menuId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	menu, err := h.menus.GetMenu(r.Context(), menuID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, menu)
}

// CreateItem handles POST /menus/{menuId}/items.
func (h *MenusHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	menuID, err := idParam(r, "menuId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var in model.ItemInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeServiceError(w, r, err)
		return
	}
	item, err := h.menus.CreateItem(r.Context(), menuID, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, item)
}

// UpdateItem handles PATCH /menus/{menuId}/items/{itemId}. Absent fields
// are left alone; null clears a nullable field.
func (h *MenusHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	menuID, itemID, ok := h.itemIDs(w, r)
	if !ok {
		return
	}
	var patch model.ItemPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeServiceError(w, r, err)
		return
	}
	item, err := h.menus.UpdateItem(r.Context(), menuID, itemID, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /menus/{menuId}/items/{itemId}. Children of
// the item are removed with it.
func (h *MenusHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	menuID, itemID, ok := h.itemIDs(w, r)
	if !ok {
		return
	}
	removed, err := h.menus.DeleteItem(r.Context(), menuID, itemID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, DeleteResult{Removed: removed})
}

// Reorder handles PUT /menus/{menuId}/items with {"itemIds": [...]}.
func (h *MenusHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	menuID, err := idParam(r, "menuId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var req model.ReorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	menu, err := h.menus.Reorder(r.Context(), menuID, req.ItemIDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, menu)
}

// Dropdown handles GET /menus/{menuId}/items/{itemId}/dropdown.
func (h *MenusHandler) Dropdown(w http.ResponseWriter, r *http.Request) {
	menuID, itemID, ok := h.itemIDs(w, r)
	if !ok {
		return
	}
	data, err := h.menus.Dropdown(r.Context(), menuID, itemID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, data)
}

func (h *MenusHandler) itemIDs(w http.ResponseWriter, r *http.Request) (menuID, itemID string, ok bool) {
	menuID, err := idParam(r, "menuId")
	if err == nil {
		itemID, err = idParam(r, "itemId")
	}
	if err != nil {
		writeServiceError(w, r, err)
		return "", "", false
	}
	return menuID, itemID, true
}
