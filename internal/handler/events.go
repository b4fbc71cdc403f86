// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/olegiv/churchnav/internal/model"
	"github.com/olegiv/churchnav/internal/service"
)

// EventsHandler lists the persisted event log.
type EventsHandler struct {
	events *service.EventService
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(events *service.EventService) *EventsHandler {
	return &EventsHandler{events: events}
}

// List handles GET /events. Optional query parameters: level (warning or
// error) and limit.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	level := q.Get("level")
	switch level {
	case "", model.EventLevelWarning, model.EventLevelError:
	default:
		writeServiceError(w, r, fmt.Errorf("%w: unknown level %q", model.ErrValidation, level))
		return
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeServiceError(w, r, fmt.Errorf("%w: limit must be a positive integer", errMalformed))
			return
		}
		limit = n
	}

	events, err := h.events.Recent(r.Context(), level, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, events)
}
