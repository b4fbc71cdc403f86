// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"time"

	"github.com/olegiv/churchnav/internal/model"
	"github.com/olegiv/churchnav/internal/store"
)

// EventService reads and prunes the event log.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates an EventService.
func NewEventService(queries *store.Queries) *EventService {
	return &EventService{queries: queries}
}

// Recent returns the newest events, optionally filtered by level.
func (s *EventService) Recent(ctx context.Context, level string, limit int) ([]model.Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.queries.ListEvents(ctx, level, limit)
}

// DeleteOldEvents removes events older than olderThan.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.queries.DeleteEventsBefore(ctx, time.Now().Add(-olderThan))
}
